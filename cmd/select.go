package cmd

import (
	"fmt"

	"adapterctl/internal/report"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(selectCmd)
}

var selectCmd = &cobra.Command{
	Use:   "select <port>",
	Short: "Select the adapter used by play",
	Long: `Select the configured adapter listening on port. The selection and the
adapter name are saved in the settings file and used by play and ui.`,
	Args: cobra.ExactArgs(1),
	RunE: runSelect,
}

func runSelect(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.ctrl.Sync(cmd.Context()); err != nil {
		return a.lastError(err)
	}
	if err := a.ctrl.SelectExplicit(args[0]); err != nil {
		return err
	}

	selected, err := a.ctrl.Selected()
	if err != nil {
		return err
	}
	if err := a.config.SetSelectedAdapter(selected.Port); err != nil {
		return fmt.Errorf("failed to save selection: %w", err)
	}
	return a.reporter.Result(report.Result{
		OK:      true,
		Message: fmt.Sprintf("Selected %s (%s)", selected.Name, selected.Location),
	})
}
