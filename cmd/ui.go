package cmd

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"adapterctl/config"
	"adapterctl/internal/tui"

	"github.com/spf13/cobra"
)

var (
	uiAdapter string
	uiRefresh time.Duration
)

func init() {
	uiCmd.Flags().StringVarP(&uiAdapter, "adapter", "a", "", "Open the play view on the adapter at this port")
	uiCmd.Flags().DurationVar(&uiRefresh, "refresh", 0, "Re-check adapter availability on this interval (0 disables)")
	rootCmd.AddCommand(uiCmd)
}

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive adapter console",
	Long: `Open the terminal console with the configuration view (available,
configured and connected adapters) and the play view (operations of the
selected adapter).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUI(cmd, uiAdapter)
	},
}

func runUI(cmd *cobra.Command, port string) error {
	logger, closeLog, err := uiLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	a, err := newAppWithLogger(cmd, logger)
	if err != nil {
		return err
	}

	opts := []tui.Option{
		tui.WithProbeHost(a.settings.ProbeHost),
		tui.WithRefreshInterval(uiRefresh),
	}
	if port != "" {
		opts = append(opts, tui.WithInitialQuery(port))
	} else if a.settings.SelectedAdapter != "" {
		opts = append(opts, tui.WithInitialQuery(a.settings.SelectedAdapter), tui.WithStartView(tui.ViewConfig))
	}
	return tui.Run(cmd.Context(), a.ctrl, opts...)
}

// uiLogger keeps log records off the alternate screen. With --verbose they
// go to adapterctl.log next to the settings file.
func uiLogger() (*slog.Logger, func(), error) {
	if !verboseOutput {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}

	path := configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Join(filepath.Dir(path), "adapterctl.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, err
	}
	return newLogger(f, slog.LevelDebug), func() { _ = f.Close() }, nil
}
