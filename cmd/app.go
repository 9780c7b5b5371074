package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"adapterctl/config"
	"adapterctl/internal/adapters"
	"adapterctl/internal/client"
	"adapterctl/internal/discovery"
	"adapterctl/internal/manage"
	"adapterctl/internal/probe"
	"adapterctl/internal/report"
	"adapterctl/internal/state"

	"github.com/spf13/cobra"
)

// app is everything a command needs, wired from settings and flags
type app struct {
	config   *config.Manager
	settings *config.Resolved
	client   *client.Client
	prober   *probe.Reachability
	fetcher  *discovery.Fetcher
	store    *state.Store
	ctrl     *manage.Controller
	logger   *slog.Logger
	reporter *report.Reporter
}

// newLogger returns a text logger on w at level, or at debug level with
// --verbose
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	if verboseOutput {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newApp loads settings, applies environment and flag overrides and wires
// the client, prober, fetcher and controller
func newApp(cmd *cobra.Command) (*app, error) {
	return newAppWithLogger(cmd, newLogger(cmd.ErrOrStderr(), slog.LevelWarn))
}

func newAppWithLogger(cmd *cobra.Command, logger *slog.Logger) (*app, error) {
	cm, err := config.NewManager(configPath)
	if err != nil {
		return nil, err
	}
	s, err := cm.Load()
	if err != nil {
		return nil, err
	}

	getenv := func(key string) string {
		if key == config.EnvServer && serverURL != "" {
			return serverURL
		}
		return os.Getenv(key)
	}
	resolved, err := config.Resolve(*s, getenv)
	if err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", cm.GetConfigPath(), err)
	}

	clientOpts := []client.Option{
		client.WithToken(resolved.Token),
		client.WithProvider(resolved.Provider),
		client.WithLogger(logger),
	}
	probeTimeout := resolved.ProbeTimeoutDuration
	if timeout > 0 {
		clientOpts = append(clientOpts, client.WithTimeout(timeout))
		probeTimeout = timeout
	}
	cl, err := client.New(resolved.Server, clientOpts...)
	if err != nil {
		return nil, err
	}

	pr := probe.New(
		probe.WithMode(resolved.ProbeMode),
		probe.WithTimeout(probeTimeout),
		probe.WithLogger(logger),
	)
	fetcher := discovery.New(cl, pr,
		discovery.WithProbeHost(resolved.ProbeHost),
		discovery.WithConcurrency(resolved.MaxConcurrentProbes),
		discovery.WithLogger(logger),
	)
	store := state.NewStore(state.State{
		SelectedPort:   resolved.SelectedAdapter,
		CurrentAdapter: resolved.CurrentAdapter,
	})
	ctrl := manage.New(store, cl, fetcher,
		manage.WithCurrentAdapterSink(cm),
		manage.WithLogger(logger),
	)

	return &app{
		config:   cm,
		settings: resolved,
		client:   cl,
		prober:   pr,
		fetcher:  fetcher,
		store:    store,
		ctrl:     ctrl,
		logger:   logger,
		reporter: report.NewReporter(cmd.OutOrStdout(),
			report.WithJSONOutput(outputJSON),
			report.WithVerboseOutput(verboseOutput),
		),
	}, nil
}

// lastError returns the newest error notification as an error, or fallback
// when the controller did not record one
func (a *app) lastError(fallback error) error {
	snap := a.store.Snapshot()
	for i := len(snap.Notifications) - 1; i >= 0; i-- {
		if n := snap.Notifications[i]; n.Severity == state.SeverityError {
			return errors.New(n.Message)
		}
	}
	return fallback
}

// completeAdapterNames offers the known adapter names for location arguments
func completeAdapterNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return adapters.Names(), cobra.ShellCompDirectiveNoFileComp
}
