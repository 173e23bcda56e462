package types

import (
	ierr "github.com/flexprice/catalog/internal/errors"
	"github.com/samber/lo"
)

// PhaseType identifies the role of a plan phase in the subscription lifecycle
type PhaseType string

const (
	PhaseTypeTrial     PhaseType = "TRIAL"
	PhaseTypeDiscount  PhaseType = "DISCOUNT"
	PhaseTypeFixedTerm PhaseType = "FIXEDTERM"
	PhaseTypeEvergreen PhaseType = "EVERGREEN"
)

func (p PhaseType) String() string {
	return string(p)
}

func (p PhaseType) Validate() error {
	allowed := []PhaseType{
		PhaseTypeTrial,
		PhaseTypeDiscount,
		PhaseTypeFixedTerm,
		PhaseTypeEvergreen,
	}

	if !lo.Contains(allowed, p) {
		return ierr.NewError("invalid phase type").
			WithHint("Please provide a valid phase type").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"type":    p,
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// TimeUnit is the unit of a phase duration
type TimeUnit string

const (
	TimeUnitDays      TimeUnit = "DAYS"
	TimeUnitWeeks     TimeUnit = "WEEKS"
	TimeUnitMonths    TimeUnit = "MONTHS"
	TimeUnitYears     TimeUnit = "YEARS"
	TimeUnitUnlimited TimeUnit = "UNLIMITED"
)

func (t TimeUnit) String() string {
	return string(t)
}

func (t TimeUnit) Validate() error {
	allowed := []TimeUnit{
		TimeUnitDays,
		TimeUnitWeeks,
		TimeUnitMonths,
		TimeUnitYears,
		TimeUnitUnlimited,
	}

	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid time unit").
			WithHint("Please provide a valid duration time unit").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"unit":    t,
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// BillingPeriod is the recurring billing cadence of a plan phase
type BillingPeriod string

const (
	BillingPeriodDaily     BillingPeriod = "DAILY"
	BillingPeriodWeekly    BillingPeriod = "WEEKLY"
	BillingPeriodMonthly   BillingPeriod = "MONTHLY"
	BillingPeriodQuarterly BillingPeriod = "QUARTERLY"
	BillingPeriodAnnual    BillingPeriod = "ANNUAL"
	BillingPeriodNone      BillingPeriod = "NO_BILLING_PERIOD"
)

func (b BillingPeriod) Validate() error {
	allowed := []BillingPeriod{
		BillingPeriodDaily,
		BillingPeriodWeekly,
		BillingPeriodMonthly,
		BillingPeriodQuarterly,
		BillingPeriodAnnual,
		BillingPeriodNone,
	}

	if !lo.Contains(allowed, b) {
		return ierr.NewError("invalid billing period").
			WithHint("Please provide a valid billing period").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"period":  b,
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// ProductCategory classifies a product within a catalog
type ProductCategory string

const (
	ProductCategoryBase       ProductCategory = "BASE"
	ProductCategoryAddOn      ProductCategory = "ADD_ON"
	ProductCategoryStandalone ProductCategory = "STANDALONE"
)

func (p ProductCategory) Validate() error {
	allowed := []ProductCategory{
		ProductCategoryBase,
		ProductCategoryAddOn,
		ProductCategoryStandalone,
	}

	if !lo.Contains(allowed, p) {
		return ierr.NewError("invalid product category").
			WithHint("Please provide a valid product category").
			WithReportableDetails(map[string]any{
				"allowed":  allowed,
				"category": p,
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}
