package catalog

import (
	"fmt"
	"strings"

	"github.com/flexprice/catalog/internal/types"
	"github.com/shopspring/decimal"
)

// Duration is the length of a plan phase, either a bounded unit count or
// unlimited
type Duration struct {
	Unit   types.TimeUnit `json:"unit"`
	Number int            `json:"number,omitempty"`
}

// IsUnlimited returns true when the duration never ends
func (d Duration) IsUnlimited() bool {
	return d.Unit == types.TimeUnitUnlimited
}

// PlanPhase is one phase of a plan's subscription lifecycle
type PlanPhase struct {
	PhaseName      string              `json:"name,omitempty"`
	Type           types.PhaseType     `json:"type"`
	Duration       Duration            `json:"duration"`
	BillingPeriod  types.BillingPeriod `json:"billing_period,omitempty"`
	RecurringPrice *decimal.Decimal    `json:"recurring_price,omitempty"`

	// PlanName is the owning plan, set when the version is built
	PlanName string `json:"plan_name"`
}

// Name returns the phase name, derived from the plan name and phase type
// when the document does not set one explicitly
func (p *PlanPhase) Name() string {
	if p.PhaseName != "" {
		return p.PhaseName
	}
	return fmt.Sprintf("%s-%s", p.PlanName, strings.ToLower(p.Type.String()))
}
