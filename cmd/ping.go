package cmd

import (
	"errors"
	"fmt"
	"time"

	"adapterctl/internal/adapters"
	"adapterctl/internal/manage"
	"adapterctl/internal/report"

	"github.com/spf13/cobra"
)

var pingDirect bool

func init() {
	pingCmd.Flags().BoolVarP(&pingDirect, "direct", "d", false, "Probe the adapter from this machine instead of asking the server")
	rootCmd.AddCommand(pingCmd)
}

var pingCmd = &cobra.Command{
	Use:   "ping <location>",
	Short: "Check that a mesh adapter responds",
	Long: `Ask the server to ping the adapter at location (host:port).

With --direct the adapter is probed from this machine using the configured
probe mode (http or tcp) and timeout:

  adapterctl ping localhost:10000
  adapterctl ping --direct meshery-istio`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeAdapterNames,
	RunE:              runPing,
}

func runPing(cmd *cobra.Command, args []string) error {
	location := adapters.NormalizeLocation(args[0])

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	if pingDirect {
		host, port := adapters.SplitTarget(location)
		if host == "" || port == "" {
			return fmt.Errorf("location %q must be host:port", location)
		}
		start := time.Now()
		ok := a.prober.Probe(cmd.Context(), host, port)
		msg := fmt.Sprintf("%s is reachable over %s (%s)", location, a.prober.Mode(), time.Since(start).Round(time.Millisecond))
		if !ok {
			msg = fmt.Sprintf("%s is not reachable over %s", location, a.prober.Mode())
		}
		if err := a.reporter.Result(report.Result{OK: ok, Message: msg}); err != nil {
			return err
		}
		if !ok {
			return errors.New("adapter unreachable")
		}
		return nil
	}

	if !a.ctrl.PingOne(cmd.Context(), location) {
		return a.lastError(errors.New("ping failed"))
	}
	return a.reporter.Result(report.Result{OK: true, Message: manage.MsgPinged})
}
