package cmd

import (
	"adapterctl/config/validation"
	"adapterctl/internal/adapters"
	"adapterctl/internal/manage"
	"adapterctl/internal/report"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configureCmd)
}

var configureCmd = &cobra.Command{
	Use:   "configure <location>",
	Short: "Connect the server to a mesh adapter",
	Long: `Register the adapter at location (host:port) with the server.

A known adapter name such as meshery-istio is expanded to its default
location, and a pasted URL has its scheme removed:

  adapterctl configure localhost:10000
  adapterctl configure meshery-linkerd
  adapterctl configure http://mesh.local:10002/`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeAdapterNames,
	RunE:              runConfigure,
}

func runConfigure(cmd *cobra.Command, args []string) error {
	location := adapters.NormalizeLocation(args[0])
	if err := validation.NewInputValidator().ValidateLocation(location); err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.ctrl.Configure(cmd.Context(), location); err != nil {
		return a.lastError(err)
	}
	return a.reporter.Result(report.Result{
		OK:       true,
		Message:  manage.MsgConfigured,
		Adapters: a.store.Snapshot().Adapters,
	})
}
