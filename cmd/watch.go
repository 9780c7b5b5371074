package cmd

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"adapterctl/config"
	"adapterctl/internal/discovery"
	"adapterctl/internal/watch"

	"github.com/spf13/cobra"
)

var watchInterval time.Duration

func init() {
	watchCmd.Flags().DurationVarP(&watchInterval, "interval", "i", 0, "Re-check interval (default from config, then 5s)")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-check adapter availability until interrupted",
	Long: `Re-fetch and re-probe the adapter lists on an interval and print them
whenever reachability changes.

Editing the settings file or sending SIGHUP reloads watch_interval.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newAppWithLogger(cmd, newLogger(cmd.ErrOrStderr(), slog.LevelInfo))
	if err != nil {
		return err
	}

	interval := a.settings.WatchIntervalDuration
	if watchInterval > 0 {
		interval = watchInterval
	}

	var last []byte
	refresh := func(ctx context.Context) error {
		err := a.ctrl.Refresh(ctx)
		a.ctrl.Expire()

		snap := a.store.Snapshot()
		available, mErr := discovery.MarshalOptions(snap.Available)
		if mErr != nil {
			return mErr
		}
		configured, mErr := discovery.MarshalOptions(snap.Configured)
		if mErr != nil {
			return mErr
		}
		current := append(available, configured...)
		if bytes.Equal(current, last) {
			return err
		}
		last = current

		if !outputJSON {
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", time.Now().Format(time.TimeOnly))
		}
		if rErr := a.reporter.Options(nonNil(snap.Available), nonNil(snap.Configured)); rErr != nil {
			return rErr
		}
		return err
	}

	reload := func() (time.Duration, error) {
		s, err := a.config.Load()
		if err != nil {
			return 0, err
		}
		resolved, err := config.Resolve(*s, os.Getenv)
		if err != nil {
			return 0, err
		}
		if watchInterval > 0 {
			return 0, nil
		}
		return resolved.WatchIntervalDuration, nil
	}

	w := watch.New(refresh,
		watch.WithInterval(interval),
		watch.WithConfigFile(a.config.GetConfigPath(), reload),
		watch.WithSignals(true),
		watch.WithLogger(a.logger),
	)
	a.logger.Info("watching adapters", "server", a.client.BaseURL(), "interval", w.Interval())
	return w.Run(cmd.Context())
}
