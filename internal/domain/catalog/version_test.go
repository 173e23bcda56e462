package catalog

import (
	"testing"
	"time"

	ierr "github.com/flexprice/catalog/internal/errors"
	"github.com/flexprice/catalog/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVersionFromXML(t *testing.T) {
	version, err := NewVersionFromXML([]byte(validCatalogV1))
	require.NoError(t, err)

	assert.Equal(t, "ExampleCatalog", version.Name)
	assert.Equal(t, time.Date(2021, time.October, 4, 0, 0, 0, 0, time.UTC), version.EffectiveDate)
	assert.Nil(t, version.EffectiveDateForExistingSubscriptions)
	assert.Empty(t, version.PriceOverrideTenantID)

	require.Len(t, version.Products, 1)
	assert.Equal(t, "Standard", version.Products[0].Name)
	assert.Equal(t, types.ProductCategoryBase, version.Products[0].Category)

	require.Len(t, version.Plans, 1)
	plan := version.Plans[0]
	assert.Equal(t, "standard-monthly", plan.Name)
	assert.Equal(t, "Standard", plan.ProductName)

	require.Len(t, plan.Phases, 2)
	trial := plan.Phases[0]
	assert.Equal(t, types.PhaseTypeTrial, trial.Type)
	assert.Equal(t, Duration{Unit: types.TimeUnitDays, Number: 30}, trial.Duration)
	assert.Equal(t, "standard-monthly-trial", trial.Name())

	evergreen := plan.FinalPhase()
	assert.Equal(t, types.PhaseTypeEvergreen, evergreen.Type)
	assert.True(t, evergreen.Duration.IsUnlimited())
	assert.Equal(t, types.BillingPeriodMonthly, evergreen.BillingPeriod)
	require.NotNil(t, evergreen.RecurringPrice)
	assert.True(t, evergreen.RecurringPrice.Equal(decimal.RequireFromString("49.95")))
}

func TestNewVersionFromXMLAlignmentDate(t *testing.T) {
	doc := `<catalog>
		<effectiveDate>2023-04-07T00:00:00Z</effectiveDate>
		<effectiveDateForExistingSubscriptions>2023-04-20T00:00:00Z</effectiveDateForExistingSubscriptions>
		<catalogName>ExampleCatalog</catalogName>
	</catalog>`

	version, err := NewVersionFromXML([]byte(doc))
	require.NoError(t, err)
	require.NotNil(t, version.EffectiveDateForExistingSubscriptions)
	assert.Equal(t,
		time.Date(2023, time.April, 20, 0, 0, 0, 0, time.UTC),
		*version.EffectiveDateForExistingSubscriptions)
}

func TestNewVersionFromXMLPlainDate(t *testing.T) {
	doc := `<catalog>
		<effectiveDate>2021-10-04</effectiveDate>
		<catalogName>ExampleCatalog</catalogName>
	</catalog>`

	version, err := NewVersionFromXML([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, time.October, 4, 0, 0, 0, 0, time.UTC), version.EffectiveDate)
}

func TestNewVersionFromXMLRejectsStructuralDefects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "malformed xml", doc: `<catalog><plans>`},
		{name: "missing unit", doc: missingUnitCatalog},
		{
			name: "bad effective date",
			doc:  `<catalog><effectiveDate>not-a-date</effectiveDate><catalogName>X</catalogName></catalog>`,
		},
		{
			name: "bad recurring price",
			doc: `<catalog>
				<effectiveDate>2021-10-04</effectiveDate>
				<catalogName>X</catalogName>
				<plans>
					<plan name="p">
						<phases>
							<phase type="EVERGREEN">
								<duration><unit>UNLIMITED</unit></duration>
								<recurring><billingPeriod>MONTHLY</billingPeriod><recurringPrice>abc</recurringPrice></recurring>
							</phase>
						</phases>
					</plan>
				</plans>
			</catalog>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewVersionFromXML([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, ierr.IsValidation(err))
		})
	}
}

func TestVersionPlanLookup(t *testing.T) {
	version, err := NewVersionFromXML([]byte(validCatalogV1))
	require.NoError(t, err)

	assert.NotNil(t, version.Plan("standard-monthly"))
	assert.Nil(t, version.Plan("missing-plan"))
}
