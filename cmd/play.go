package cmd

import (
	"fmt"

	"adapterctl/internal/play"
	"adapterctl/internal/state"

	"github.com/spf13/cobra"
)

var playAdapter string

func init() {
	playCmd.Flags().StringVarP(&playAdapter, "adapter", "a", "", "Port of the adapter to show (default: the selected adapter)")
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Show the operations a mesh adapter offers",
	Long: `Show the operations of an adapter grouped by category (Install, Sample
Application, Configuration, Validation, Custom).

The adapter is chosen with --adapter <port>, or the one saved by select.`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	port := playAdapter
	if port == "" {
		port = a.settings.SelectedAdapter
	}
	if port == "" {
		return state.ErrNoSelection
	}

	if err := a.ctrl.Sync(cmd.Context()); err != nil {
		return a.lastError(err)
	}
	snap := a.ctrl.SelectFromQuery(port)

	summary, ok := play.Summarize(snap.Adapters, snap.SelectedPort)
	if !ok || snap.SelectedPort != port {
		return fmt.Errorf("%w: no configured adapter on port %s", state.ErrNoSelection, port)
	}
	return a.reporter.Play(summary)
}
