package cmd

import (
	"adapterctl/internal/adapters"
	"adapterctl/internal/report"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server and adapter status",
	Long:  "Show whether the server answers, how many adapters are reachable and which adapter is selected",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	refreshErr := a.ctrl.Refresh(cmd.Context())
	snap := a.store.Snapshot()

	st := report.Status{
		Server:          a.client.BaseURL(),
		ServerReachable: refreshErr == nil,
		ProbeMode:       a.prober.Mode(),
		ProbeTimeout:    a.prober.Timeout().String(),
		Adapters:        len(snap.Adapters),
		Available:       len(snap.Available),
		AvailableUp:     countPingable(snap.Available),
		Configured:      len(snap.Configured),
		ConfiguredUp:    countPingable(snap.Configured),
		SelectedAdapter: snap.SelectedPort,
		CurrentAdapter:  snap.CurrentAdapter,
		ConfigPath:      a.config.GetConfigPath(),
	}
	if refreshErr != nil {
		st.Error = a.lastError(refreshErr).Error()
	}
	return a.reporter.Status(st)
}

func countPingable(opts []adapters.Option) int {
	n := 0
	for _, o := range opts {
		if o.Pingable {
			n++
		}
	}
	return n
}
