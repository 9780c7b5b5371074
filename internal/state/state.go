// Package state holds the application state shared by the views: adapter
// lists, the selected adapter, the progress counter and notifications.
//
// State changes only through Reduce. Store serializes dispatches and hands out
// deep copies so renderers never observe a half-applied update.
package state

import (
	"errors"
	"time"

	"adapterctl/internal/adapters"
)

// ErrNoSelection is returned when an operation needs a selected adapter.
var ErrNoSelection = errors.New("no adapter selected")

// Severity of a notification
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Notification is a transient message shown to the operator.
type Notification struct {
	ID          int           `json:"id"`
	Message     string        `json:"message"`
	Severity    Severity      `json:"severity"`
	AutoDismiss time.Duration `json:"auto_dismiss"`
	Dismissible bool          `json:"dismissible"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Expired reports whether the notification's auto-dismiss delay has passed.
func (n Notification) Expired(now time.Time) bool {
	return n.AutoDismiss > 0 && !now.Before(n.CreatedAt.Add(n.AutoDismiss))
}

// State is the full application state.
type State struct {
	Adapters       []adapters.Adapter `json:"adapters"`
	Available      []adapters.Option  `json:"available"`
	Configured     []adapters.Option  `json:"configured"`
	SelectedPort   string             `json:"selected_port,omitempty"`
	CurrentAdapter string             `json:"current_adapter,omitempty"`
	InProgress     int                `json:"in_progress"`
	Notifications  []Notification     `json:"notifications,omitempty"`

	nextID int
}

// ShowProgress reports whether any action is in flight.
func (s State) ShowProgress() bool {
	return s.InProgress > 0
}

// Selected returns the selected adapter, if any.
func (s State) Selected() (adapters.Adapter, bool) {
	if s.SelectedPort == "" {
		return adapters.Adapter{}, false
	}
	return adapters.FindByPort(s.Adapters, s.SelectedPort)
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	out.Adapters = adapters.Clone(s.Adapters)
	out.Available = adapters.CloneOptions(s.Available)
	out.Configured = adapters.CloneOptions(s.Configured)
	if s.Notifications != nil {
		out.Notifications = make([]Notification, len(s.Notifications))
		copy(out.Notifications, s.Notifications)
	}
	return out
}
