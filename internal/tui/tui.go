// Package tui provides the terminal configuration and play views for
// adapterctl
package tui

import (
	"context"
	"errors"
	"os"

	"adapterctl/internal/manage"
	"adapterctl/internal/state"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrNoTerminal is returned when the TUI is started without a terminal
var ErrNoTerminal = errors.New("adapterctl TUI requires a terminal, use subcommands for non-interactive mode")

// Run starts the TUI and blocks until the user quits or ctx is done
func Run(ctx context.Context, ctrl *manage.Controller, opts ...Option) error {
	if !IsTerminal() {
		return ErrNoTerminal
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := NewModel(ctx, ctrl, opts...)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	// Dispatches also happen inside Update, where a blocking Send would stall
	// the event loop, so changes are coalesced and forwarded from a goroutine.
	changed := make(chan struct{}, 1)
	unsubscribe := ctrl.Store().Subscribe(func(state.State) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-changed:
				p.Send(StateChangedMsg{State: ctrl.Store().Snapshot()})
			}
		}
	}()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// IsTerminal checks if stdin is a terminal
func IsTerminal() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
