package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"adapterctl/config"
	"adapterctl/config/models"
	"adapterctl/internal/report"
	"adapterctl/internal/utils"

	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configGetCmd, configSetCmd, configPathCmd, configRestoreCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and change adapterctl settings",
	Long: `Read and change the settings file.

Settings: ` + strings.Join(models.Keys, ", ") + `

Durations accept Go syntax (4s, 1m) or a number of seconds. Setting an empty
value removes the key.`,
}

var configGetCmd = &cobra.Command{
	Use:       "get [key]",
	Short:     "Print one setting, or all of them",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: models.Keys,
	RunE:      runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:       "set <key> <value>",
	Short:     "Change one setting",
	Args:      cobra.ExactArgs(2),
	ValidArgs: models.Keys,
	RunE:      runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cm, err := config.NewManager(configPath)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cm.GetConfigPath())
		return nil
	},
}

var configRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore the settings file from its newest backup",
	Long: `Every settings change keeps a copy of the previous file, the last three
are retained. restore puts the newest copy back.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cm, err := config.NewManager(configPath)
		if err != nil {
			return err
		}
		backup, err := cm.Restore()
		if err != nil {
			return err
		}
		return newReporter(cmd).Result(report.Result{OK: true, Message: "Settings restored from " + backup})
	},
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cm, err := config.NewManager(configPath)
	if err != nil {
		return err
	}
	loaded, err := cm.Load()
	if err != nil {
		return err
	}
	s := loaded.WithDefaults()

	keys := models.Keys
	if len(args) == 1 {
		keys = args
	}
	values := make(map[string]string, len(keys))
	for _, key := range keys {
		value, ok := s.Field(key)
		if !ok {
			return fmt.Errorf("unknown setting: %s", key)
		}
		if key == "token" && !verboseOutput {
			value = utils.MaskToken(value)
		}
		values[key] = value
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(values)
	}
	if len(args) == 1 {
		fmt.Fprintln(out, values[args[0]])
		return nil
	}
	for _, key := range keys {
		fmt.Fprintf(out, "%-22s %s\n", key, values[key])
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cm, err := config.NewManager(configPath)
	if err != nil {
		return err
	}
	key, value := args[0], args[1]
	if key == "server" {
		value = utils.TrimURL(value)
	}
	if err := cm.Set(key, value); err != nil {
		return err
	}

	shown := value
	if key == "token" {
		shown = utils.MaskToken(value)
	}
	msg := fmt.Sprintf("%s set to %s", key, shown)
	if value == "" {
		msg = fmt.Sprintf("%s removed", key)
	}
	return newReporter(cmd).Result(report.Result{OK: true, Message: msg})
}
