package cmd

import (
	"fmt"

	"adapterctl/internal/adapters"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list [available|configured|adapters|all]",
	Short: "List mesh adapters and whether they are reachable",
	Long: `List the adapters the server knows about.

  available   adapters the server can connect to, probed on the probe host
  configured  adapters registered with the server, probed at name:port
  adapters    the adapter list of the current server session
  all         available and configured (default)`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"available", "configured", "adapters", "all"},
	RunE:      runList,
}

func runList(cmd *cobra.Command, args []string) error {
	kind := "all"
	if len(args) == 1 {
		kind = args[0]
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	switch kind {
	case "available":
		opts, err := a.fetcher.FetchAvailable(ctx)
		if err != nil {
			return err
		}
		return a.reporter.Options(nonNil(opts), nil)

	case "configured":
		opts, err := a.fetcher.FetchConfigured(ctx)
		if err != nil {
			return err
		}
		return a.reporter.Options(nil, nonNil(opts))

	case "adapters":
		list, err := a.client.Sync(ctx)
		if err != nil {
			return fmt.Errorf("sync adapters: %w", err)
		}
		return a.reporter.Adapters(list)

	case "all":
		var available, configured []adapters.Option
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			available, err = a.fetcher.FetchAvailable(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			configured, err = a.fetcher.FetchConfigured(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}
		return a.reporter.Options(nonNil(available), nonNil(configured))
	}
	return fmt.Errorf("unknown list %q, want available, configured, adapters or all", kind)
}

// nonNil keeps an empty list from being skipped by the reporter
func nonNil(opts []adapters.Option) []adapters.Option {
	if opts == nil {
		return []adapters.Option{}
	}
	return opts
}
