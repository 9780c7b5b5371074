package cmd

import (
	"errors"
	"fmt"
	"strings"

	"adapterctl/config"
	"adapterctl/internal/report"
	"adapterctl/internal/utils"

	"github.com/spf13/cobra"
)

var (
	loginToken    string
	loginProvider string
)

func init() {
	loginCmd.Flags().StringVar(&loginToken, "token", "", "Meshery session token (sent as the token cookie)")
	loginCmd.Flags().StringVar(&loginProvider, "provider", "", "Meshery provider name (sent as the meshery-provider cookie)")
	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login --token <token>",
	Short: "Save the server session token",
	Long: `Save the token used to authenticate against the Meshery server. The token is
stored encrypted in the settings file.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	token := strings.TrimSpace(loginToken)
	if token == "" {
		return errors.New("--token is required")
	}

	cm, err := config.NewManager(configPath)
	if err != nil {
		return err
	}
	if err := cm.Set("token", token); err != nil {
		return err
	}
	if loginProvider != "" {
		if err := cm.Set("provider", loginProvider); err != nil {
			return err
		}
	}

	return newReporter(cmd).Result(report.Result{
		OK:      true,
		Message: fmt.Sprintf("Token %s saved to %s", utils.MaskToken(token), cm.GetConfigPath()),
	})
}

// newReporter creates a reporter for commands that do not talk to the server
func newReporter(cmd *cobra.Command) *report.Reporter {
	return report.NewReporter(cmd.OutOrStdout(),
		report.WithJSONOutput(outputJSON),
		report.WithVerboseOutput(verboseOutput),
	)
}
