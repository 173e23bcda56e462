// Package cmd provides the CLI commands for the catalog tooling.
package cmd

import (
	"github.com/flexprice/catalog/internal/config"
	"github.com/spf13/cobra"
)

// cfg is loaded once before any command runs; commands read their
// defaults (alignment behavior, default catalog path) from it
var cfg *config.Configuration

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and validate versioned price catalogs",
	Long: `catalog works with tenant-scoped versioned price catalog documents.

It validates candidate catalog uploads against the structural and
business rules enforced by the catalog service, and resolves which
catalog version governs a billing computation at a given date.

Examples:
  catalog validate catalog-v2.xml --against catalog-v1.xml
  catalog resolve catalog-v1.xml catalog-v2.xml --as-of 2023-04-28 --subscription-start 2023-03-28`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loaded, err := config.NewConfig()
		if err != nil {
			cfg = config.GetDefaultConfig()
			return
		}
		cfg = loaded
	},
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(resolveCmd)
}
