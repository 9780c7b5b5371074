package cmd

import (
	"adapterctl/internal/adapters"
	"adapterctl/internal/manage"
	"adapterctl/internal/report"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:               "remove <location>",
	Aliases:           []string{"rm"},
	Short:             "Disconnect the server from a mesh adapter",
	Long:              "Remove the adapter registered at location (host:port) from the server",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeAdapterNames,
	RunE:              runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.ctrl.Remove(cmd.Context(), adapters.NormalizeLocation(args[0])); err != nil {
		return a.lastError(err)
	}
	return a.reporter.Result(report.Result{
		OK:       true,
		Message:  manage.MsgRemoved,
		Adapters: a.store.Snapshot().Adapters,
	})
}
