package state

import (
	"time"

	"adapterctl/internal/adapters"
)

// Action is a state transition applied by Reduce.
type Action interface {
	isAction()
}

// AvailableLoaded replaces the available adapter options.
type AvailableLoaded struct {
	Options []adapters.Option
}

// ConfiguredLoaded replaces the configured adapter options.
type ConfiguredLoaded struct {
	Options []adapters.Option
}

// AdaptersUpdated replaces the adapter list returned by the server.
type AdaptersUpdated struct {
	Adapters []adapters.Adapter
}

// SelectFromQuery selects the adapter whose port equals Port, if present.
type SelectFromQuery struct {
	Port string
}

// SelectExplicit selects Port directly and publishes Name as the current
// adapter.
type SelectExplicit struct {
	Port string
	Name string
}

// ProgressStarted raises the progress indicator.
type ProgressStarted struct{}

// ProgressFinished lowers the progress indicator.
type ProgressFinished struct{}

// Notify shows a notification.
type Notify struct {
	Message     string
	Severity    Severity
	AutoDismiss time.Duration
	At          time.Time
}

// Dismiss removes the notification with ID.
type Dismiss struct {
	ID int
}

// DismissExpired removes notifications whose auto-dismiss delay has passed.
type DismissExpired struct {
	Now time.Time
}

func (AvailableLoaded) isAction()  {}
func (ConfiguredLoaded) isAction() {}
func (AdaptersUpdated) isAction()  {}
func (SelectFromQuery) isAction()  {}
func (SelectExplicit) isAction()   {}
func (ProgressStarted) isAction()  {}
func (ProgressFinished) isAction() {}
func (Notify) isAction()           {}
func (Dismiss) isAction()          {}
func (DismissExpired) isAction()   {}
