package cmd

import (
	"adapterctl/internal/adapters"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(catalogCmd)
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List known mesh adapters and their default locations",
	Long: `List the Meshery adapters adapterctl knows by name. Any of these names can
be passed to configure, remove or ping instead of a host:port location.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return a.reporter.Catalog(adapters.Catalog())
	},
}
