// Package cmd - validate command
package cmd

import (
	"fmt"
	"os"

	"github.com/flexprice/catalog/internal/cache"
	"github.com/flexprice/catalog/internal/domain/catalog"
	"github.com/flexprice/catalog/internal/logger"
	"github.com/flexprice/catalog/internal/service"
	"github.com/spf13/cobra"
)

var againstFiles []string

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Dry-run validate a candidate catalog document",
	Long: `Run the full catalog validation pipeline over a candidate document
and print every finding. Nothing is uploaded or changed.

Pass the tenant's existing versions with --against to also run the
cross-version checks (duplicate effective date, catalog name drift).
Without --against, the configured default catalog serves as the
baseline when one is configured.

Examples:
  catalog validate catalog-v2.xml
  catalog validate catalog-v2.xml --against catalog-v1.xml`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringSliceVar(&againstFiles, "against", nil, "existing catalog version files for cross-version checks")
}

func runValidate(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	existing, err := loadVersionedCatalog(againstFiles)
	if err != nil {
		return err
	}
	if existing == nil && cfg.Catalog.DefaultCatalogPath != "" {
		existing, err = loadConfiguredDefaultCatalog()
		if err != nil {
			return err
		}
	}

	findings := catalog.Validate(raw, existing)
	if len(findings) == 0 {
		fmt.Println("catalog is valid")
		return nil
	}

	for _, finding := range findings {
		fmt.Printf("%s: %s\n", finding.Code, finding.Description)
	}
	return fmt.Errorf("%d validation finding(s)", len(findings))
}

// loadConfiguredDefaultCatalog installs the configured default catalog
// through the cache service and returns it as the cross-version baseline
func loadConfiguredDefaultCatalog() (*catalog.VersionedCatalog, error) {
	catalogCache := service.NewTenantCatalogCache(cfg, nil, cache.NewInMemoryCache(cfg), logger.L)
	if err := catalogCache.LoadDefaultCatalog(cfg.Catalog.DefaultCatalogPath); err != nil {
		return nil, err
	}
	return catalogCache.DefaultCatalog(), nil
}

// loadVersionedCatalog assembles a catalog from version files, nil when no
// files are given
func loadVersionedCatalog(files []string) (*catalog.VersionedCatalog, error) {
	if len(files) == 0 {
		return nil, nil
	}

	versions := make([]*catalog.CatalogVersion, 0, len(files))
	for _, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		version, err := catalog.NewVersionFromXML(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		versions = append(versions, version)
	}
	return catalog.NewVersionedCatalog(versions...)
}
