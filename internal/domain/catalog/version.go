package catalog

import (
	"fmt"
	"time"

	ierr "github.com/flexprice/catalog/internal/errors"
	"github.com/flexprice/catalog/internal/types"
	"github.com/shopspring/decimal"
)

// CatalogVersion is one immutable parsed catalog upload. Instances are
// shared read-only across tenants and goroutines once published; decorated
// per-tenant copies are produced with WithPriceOverride.
type CatalogVersion struct {
	Name          string    `json:"name"`
	EffectiveDate time.Time `json:"effective_date"`

	// EffectiveDateForExistingSubscriptions is the alternate activation
	// date for subscriptions that predate EffectiveDate. Nil when the
	// version applies to everyone from EffectiveDate on.
	EffectiveDateForExistingSubscriptions *time.Time `json:"effective_date_for_existing_subscriptions,omitempty"`

	Products []*Product `json:"products"`
	Plans    []*Plan    `json:"plans"`

	// PriceOverrideTenantID is only set on per-tenant decorated copies
	PriceOverrideTenantID string `json:"price_override_tenant_id,omitempty"`
}

// Plan returns the named plan or nil
func (v *CatalogVersion) Plan(name string) *Plan {
	for _, p := range v.Plans {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// NewVersionFromXML parses a raw catalog document into a CatalogVersion.
// The first structural defect is returned as a validation error; the
// complete list is available through Validate.
func NewVersionFromXML(raw []byte) (*CatalogVersion, error) {
	doc, err := parseDocument(raw)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Catalog document is not well formed").
			Mark(ierr.ErrValidation)
	}

	version, errs := buildVersion(doc)
	if len(errs) > 0 {
		return nil, ierr.WithError(errs[0]).
			WithHint("Catalog document failed structural validation").
			Mark(ierr.ErrValidation)
	}
	return version, nil
}

// buildVersion converts the wire document into the domain model, collecting
// every structural defect rather than stopping at the first. A nil version
// is returned only when the document is too broken to represent.
func buildVersion(doc *catalogDocument) (*CatalogVersion, []error) {
	var errs []error

	if doc.CatalogName == "" {
		errs = append(errs, fmt.Errorf("catalog element must specify a catalogName"))
	}

	var effectiveDate time.Time
	if doc.EffectiveDate == "" {
		errs = append(errs, fmt.Errorf("catalog element must specify an effectiveDate"))
	} else {
		parsed, err := parseDate(doc.EffectiveDate)
		if err != nil {
			errs = append(errs, err)
		} else {
			effectiveDate = parsed
		}
	}

	var alignmentDate *time.Time
	if doc.EffectiveDateForExistingSubscriptions != "" {
		parsed, err := parseDate(doc.EffectiveDateForExistingSubscriptions)
		if err != nil {
			errs = append(errs, err)
		} else {
			alignmentDate = &parsed
		}
	}

	products := make([]*Product, 0, len(doc.Products))
	for _, p := range doc.Products {
		category := types.ProductCategory(p.Category)
		if p.Category == "" {
			category = types.ProductCategoryBase
		} else if err := category.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("Invalid product category '%s' for product '%s'", p.Category, p.Name))
		}
		products = append(products, &Product{Name: p.Name, Category: category})
	}

	plans := make([]*Plan, 0, len(doc.Plans))
	for _, pd := range doc.Plans {
		plan := &Plan{Name: pd.Name, ProductName: pd.Product}
		for _, phd := range pd.Phases {
			phase, phaseErrs := buildPhase(pd.Name, phd)
			errs = append(errs, phaseErrs...)
			if phase != nil {
				plan.Phases = append(plan.Phases, phase)
			}
		}
		plans = append(plans, plan)
	}

	if len(errs) > 0 && doc.CatalogName == "" && doc.EffectiveDate == "" {
		return nil, errs
	}

	return &CatalogVersion{
		Name:                                  doc.CatalogName,
		EffectiveDate:                         effectiveDate,
		EffectiveDateForExistingSubscriptions: alignmentDate,
		Products:                              products,
		Plans:                                 plans,
	}, errs
}

func buildPhase(planName string, doc phaseDocument) (*PlanPhase, []error) {
	var errs []error

	phase := &PlanPhase{
		PhaseName: doc.Name,
		PlanName:  planName,
		Type:      types.PhaseType(doc.Type),
	}

	if doc.Type == "" {
		errs = append(errs, fmt.Errorf("phase element for plan '%s' must specify a type", planName))
	} else if err := phase.Type.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("Invalid phase type '%s' for plan '%s'", doc.Type, planName))
	}

	if doc.Duration == nil {
		errs = append(errs, fmt.Errorf("phase element '%s' for plan '%s' must specify a duration", phase.Name(), planName))
	} else if doc.Duration.Unit == "" {
		errs = append(errs, fmt.Errorf("duration element must specify a time unit"))
	} else {
		unit := types.TimeUnit(doc.Duration.Unit)
		if err := unit.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("Invalid time unit '%s' for phase '%s'", doc.Duration.Unit, phase.Name()))
		} else {
			phase.Duration = Duration{Unit: unit, Number: doc.Duration.Number}
		}
	}

	if doc.Recurring != nil {
		period := types.BillingPeriod(doc.Recurring.BillingPeriod)
		if err := period.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("Invalid billing period '%s' for phase '%s'", doc.Recurring.BillingPeriod, phase.Name()))
		} else {
			phase.BillingPeriod = period
		}

		if doc.Recurring.RecurringPrice != "" {
			price, err := decimal.NewFromString(doc.Recurring.RecurringPrice)
			if err != nil {
				errs = append(errs, fmt.Errorf("Invalid recurring price '%s' for phase '%s'", doc.Recurring.RecurringPrice, phase.Name()))
			} else {
				phase.RecurringPrice = &price
			}
		}
	}

	return phase, errs
}

// parseDate accepts RFC 3339 instants and plain dates
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
