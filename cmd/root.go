package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"adapterctl/internal/tui"

	"github.com/spf13/cobra"
)

// Version information
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersionInfo sets the version information
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Persistent flags
var (
	serverURL     string
	configPath    string
	outputJSON    bool
	verboseOutput bool
	timeout       time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "adapterctl",
	Short: "Mesh adapter console for a Meshery server",
	Long: `adapterctl lists, probes, configures and removes the mesh adapters of a
Meshery server, and shows the operations a selected adapter offers.

Run without a subcommand on a terminal to open the interactive console.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !tui.IsTerminal() {
			return cmd.Help()
		}
		return runUI(cmd, "")
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&serverURL, "server", "s", "", "Meshery server URL (default from config, then http://localhost:9081)")
	flags.StringVar(&configPath, "config", "", "Settings file (default $XDG_CONFIG_HOME/adapterctl/config.json)")
	flags.BoolVarP(&outputJSON, "json", "j", false, "Output results as JSON")
	flags.BoolVarP(&verboseOutput, "verbose", "v", false, "Verbose output and debug logging")
	flags.DurationVarP(&timeout, "timeout", "t", 0, "Timeout for server requests and probes (default from config)")
}

// Execute executes the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(`adapterctl {{.Version}}
Commit: ` + commit + `
Date: ` + date + `
`)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "❌ Error: %v\n", err)
		return err
	}
	return nil
}
