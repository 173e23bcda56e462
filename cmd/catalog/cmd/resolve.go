// Package cmd - resolve command
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	asOf              string
	subscriptionStart string
	alignExisting     bool
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve [files...]",
	Short: "Resolve the catalog version governing a billing date",
	Long: `Assemble a versioned catalog from the given version files and print
the version that governs a billing computation at --as-of.

With --align, a version's effectiveDateForExistingSubscriptions applies to
subscriptions created before that version's effective date.

Examples:
  catalog resolve v1.xml v2.xml --as-of 2023-04-28
  catalog resolve v1.xml v2.xml --as-of 2023-04-28 --subscription-start 2023-03-28 --align`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&asOf, "as-of", "", "billing date to resolve for (YYYY-MM-DD or RFC 3339)")
	resolveCmd.Flags().StringVar(&subscriptionStart, "subscription-start", "", "subscription creation date")
	resolveCmd.Flags().BoolVar(&alignExisting, "align", false, "honor effectiveDateForExistingSubscriptions (defaults to the configured alignment behavior)")
	_ = resolveCmd.MarkFlagRequired("as-of")
}

func runResolve(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Changed("align") {
		alignExisting = cfg.Catalog.AlignEffectiveDateForExistingSubscriptions
	}

	versioned, err := loadVersionedCatalog(args)
	if err != nil {
		return err
	}

	asOfDate, err := parseCLIDate(asOf)
	if err != nil {
		return err
	}

	var startDate time.Time
	if subscriptionStart != "" {
		startDate, err = parseCLIDate(subscriptionStart)
		if err != nil {
			return err
		}
	}

	version, err := versioned.Version(asOfDate, startDate, alignExisting)
	if err != nil {
		return err
	}

	fmt.Printf("catalog %q version effective %s governs %s\n",
		version.Name,
		version.EffectiveDate.Format("2006-01-02"),
		asOfDate.Format("2006-01-02"),
	)
	return nil
}

func parseCLIDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", value)
	}
	return t.UTC(), nil
}
