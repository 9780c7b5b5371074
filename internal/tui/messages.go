package tui

import (
	"time"

	"adapterctl/internal/state"
)

// StateChangedMsg carries the store snapshot after a dispatch
type StateChangedMsg struct {
	State state.State
}

// ActionDoneMsg is sent when a server action completes. Outcome notifications
// are already in the store; Err is kept for the status line.
type ActionDoneMsg struct {
	Action string
	Err    error
}

// PingDoneMsg is sent when an adapter ping completes
type PingDoneMsg struct {
	Location string
	OK       bool
}

// SelectedMsg is sent when an explicit selection was applied
type SelectedMsg struct {
	Port string
	Err  error
}

// refreshTickMsg triggers the periodic availability re-check
type refreshTickMsg time.Time

// expireTickMsg triggers notification expiry
type expireTickMsg time.Time
