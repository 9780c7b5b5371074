package state

import (
	"adapterctl/internal/adapters"
)

// Reduce returns the state that results from applying a to s. It never
// mutates s.
func Reduce(s State, a Action) State {
	next := s.Clone()

	switch a := a.(type) {
	case AvailableLoaded:
		next.Available = adapters.CloneOptions(a.Options)

	case ConfiguredLoaded:
		next.Configured = adapters.CloneOptions(a.Options)

	case AdaptersUpdated:
		next.Adapters = adapters.Clone(a.Adapters)
		// a selection that no longer exists is dropped
		if next.SelectedPort != "" {
			if _, ok := adapters.FindByPort(next.Adapters, next.SelectedPort); !ok {
				next.SelectedPort = ""
			}
		}

	case SelectFromQuery:
		if a.Port == "" {
			break
		}
		if found, ok := adapters.FindByPort(next.Adapters, a.Port); ok {
			next.SelectedPort = found.Port
		}

	case SelectExplicit:
		next.SelectedPort = a.Port
		next.CurrentAdapter = a.Name

	case ProgressStarted:
		next.InProgress++

	case ProgressFinished:
		if next.InProgress > 0 {
			next.InProgress--
		}

	case Notify:
		next.nextID++
		next.Notifications = append(next.Notifications, Notification{
			ID:          next.nextID,
			Message:     a.Message,
			Severity:    a.Severity,
			AutoDismiss: a.AutoDismiss,
			Dismissible: true,
			CreatedAt:   a.At,
		})

	case Dismiss:
		next.Notifications = removeNotifications(next.Notifications, func(n Notification) bool {
			return n.ID == a.ID && n.Dismissible
		})

	case DismissExpired:
		next.Notifications = removeNotifications(next.Notifications, func(n Notification) bool {
			return n.Expired(a.Now)
		})
	}

	return next
}

func removeNotifications(list []Notification, drop func(Notification) bool) []Notification {
	var out []Notification
	for _, n := range list {
		if !drop(n) {
			out = append(out, n)
		}
	}
	return out
}
