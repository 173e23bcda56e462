package service

import (
	"context"
	"testing"
	"time"

	"github.com/flexprice/catalog/internal/cache"
	"github.com/flexprice/catalog/internal/config"
	ierr "github.com/flexprice/catalog/internal/errors"
	"github.com/flexprice/catalog/internal/logger"
	"github.com/flexprice/catalog/internal/testutil"
	"github.com/flexprice/catalog/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const tenantCatalogV2XML = `<catalog>
	<effectiveDate>2023-04-07T00:00:00Z</effectiveDate>
	<effectiveDateForExistingSubscriptions>2023-04-20T00:00:00Z</effectiveDateForExistingSubscriptions>
	<catalogName>ExampleCatalog</catalogName>
	<products>
		<product name="Standard">
			<category>BASE</category>
		</product>
	</products>
	<plans>
		<plan name="standard-monthly">
			<product>Standard</product>
			<phases>
				<phase type="EVERGREEN">
					<duration><unit>UNLIMITED</unit></duration>
					<recurring>
						<billingPeriod>MONTHLY</billingPeriod>
						<recurringPrice>59.95</recurringPrice>
					</recurring>
				</phase>
			</phases>
		</plan>
	</plans>
</catalog>`

const invalidFixedTermXML = `<catalog>
	<effectiveDate>2023-04-07T00:00:00Z</effectiveDate>
	<catalogName>ExampleCatalog</catalogName>
	<plans>
		<plan name="standard-monthly">
			<product>Standard</product>
			<phases>
				<phase type="FIXEDTERM">
					<duration><unit>UNLIMITED</unit></duration>
				</phase>
			</phases>
		</plan>
	</plans>
</catalog>`

type CatalogServiceSuite struct {
	suite.Suite
	ctx            context.Context
	cfg            *config.Configuration
	store          *testutil.InMemoryCatalogStore
	catalogCache   TenantCatalogCache
	catalogService CatalogService
}

func TestCatalogService(t *testing.T) {
	suite.Run(t, new(CatalogServiceSuite))
}

func (s *CatalogServiceSuite) SetupTest() {
	s.ctx = testutil.SetupContextForTenant("tenant-99")
	s.cfg = config.GetDefaultConfig()
	s.store = testutil.NewInMemoryCatalogStore()

	log, err := logger.NewLogger(types.LogLevelInfo)
	s.Require().NoError(err)

	s.catalogCache = NewTenantCatalogCache(s.cfg, s.store, cache.NewInMemoryCache(s.cfg), log)
	s.catalogService = NewCatalogService(s.cfg, s.store, s.catalogCache, log)
}

func (s *CatalogServiceSuite) TestUploadCatalog() {
	s.Run("first upload is accepted", func() {
		s.NoError(s.catalogService.UploadCatalog(s.ctx, tenantCatalogXML))
	})

	s.Run("second version with a new effective date is accepted", func() {
		s.NoError(s.catalogService.UploadCatalog(s.ctx, tenantCatalogV2XML))

		result, err := s.catalogService.GetCatalog(s.ctx)
		s.NoError(err)
		s.Len(result.Versions(), 2)
	})

	s.Run("empty document is rejected", func() {
		err := s.catalogService.UploadCatalog(s.ctx, "")
		s.Error(err)
		s.True(ierr.IsValidation(err))
	})
}

func (s *CatalogServiceSuite) TestUploadCatalogStrictValidation() {
	s.Run("phase duration violation rejects the upload", func() {
		err := s.catalogService.UploadCatalog(s.ctx, invalidFixedTermXML)
		s.Error(err)
		s.True(ierr.IsCatalogInvalid(err))

		// nothing was persisted and nothing is cached for the tenant
		result, err := s.catalogService.GetCatalog(s.ctx)
		s.NoError(err)
		s.True(result.IsEmpty())
	})

	s.Run("duplicate effective date rejects the upload", func() {
		s.Require().NoError(s.catalogService.UploadCatalog(s.ctx, tenantCatalogXML))

		err := s.catalogService.UploadCatalog(s.ctx, tenantCatalogXML)
		s.Error(err)
		s.True(ierr.IsCatalogInvalid(err))
	})

	s.Run("old entry stays authoritative after a rejected upload", func() {
		result, err := s.catalogService.GetCatalog(s.ctx)
		s.NoError(err)
		s.Len(result.Versions(), 1)

		err = s.catalogService.UploadCatalog(s.ctx, invalidFixedTermXML)
		s.Error(err)

		again, err := s.catalogService.GetCatalog(s.ctx)
		s.NoError(err)
		s.Same(result, again)
	})
}

func (s *CatalogServiceSuite) TestValidateCatalogDryRun() {
	s.Run("single finding for a phase duration violation", func() {
		findings, err := s.catalogService.ValidateCatalog(s.ctx, invalidFixedTermXML)
		s.NoError(err)
		s.Len(findings, 1)
		s.Equal(types.CatalogValidationErrorCodeInvalidPhaseDuration, findings[0].Code)
	})

	s.Run("dry-run changes nothing", func() {
		result, err := s.catalogService.GetCatalog(s.ctx)
		s.NoError(err)
		s.True(result.IsEmpty())
	})

	s.Run("complete findings against an existing catalog", func() {
		s.Require().NoError(s.catalogService.UploadCatalog(s.ctx, tenantCatalogXML))

		findings, err := s.catalogService.ValidateCatalog(s.ctx, tenantCatalogXML)
		s.NoError(err)
		s.Len(findings, 1)
		s.Equal(types.CatalogValidationErrorCodeDuplicateEffectiveDate, findings[0].Code)
	})
}

func (s *CatalogServiceSuite) TestUploadRoundTrip() {
	s.Require().NoError(s.catalogService.UploadCatalog(s.ctx, tenantCatalogXML))
	s.Require().NoError(s.catalogService.UploadCatalog(s.ctx, tenantCatalogV2XML))

	result, err := s.catalogService.GetCatalog(s.ctx)
	s.NoError(err)

	latest := result.Latest()
	s.Equal("ExampleCatalog", latest.Name)
	s.Equal(time.Date(2023, time.April, 7, 0, 0, 0, 0, time.UTC), latest.EffectiveDate)
	s.Require().NotNil(latest.EffectiveDateForExistingSubscriptions)
	s.Equal(time.Date(2023, time.April, 20, 0, 0, 0, 0, time.UTC), *latest.EffectiveDateForExistingSubscriptions)
	s.Equal("tenant-99", latest.PriceOverrideTenantID)

	s.Require().Len(latest.Plans, 1)
	phase := latest.Plans[0].FinalPhase()
	s.Require().NotNil(phase.RecurringPrice)
	s.True(phase.RecurringPrice.Equal(decimal.RequireFromString("59.95")))
}

func (s *CatalogServiceSuite) TestGetVersionAlignment() {
	s.Require().NoError(s.catalogService.UploadCatalog(s.ctx, tenantCatalogXML))
	s.Require().NoError(s.catalogService.UploadCatalog(s.ctx, tenantCatalogV2XML))

	v2021 := time.Date(2021, time.October, 4, 0, 0, 0, 0, time.UTC)
	v2023 := time.Date(2023, time.April, 7, 0, 0, 0, 0, time.UTC)
	subscriptionStart := time.Date(2023, time.March, 28, 0, 0, 0, 0, time.UTC)

	// before the alignment date the existing subscription keeps the old version
	version, err := s.catalogService.GetVersion(s.ctx, time.Date(2023, time.April, 10, 0, 0, 0, 0, time.UTC), subscriptionStart)
	s.NoError(err)
	s.Equal(v2021, version.EffectiveDate)

	// from the alignment date on it converges on the new version
	version, err = s.catalogService.GetVersion(s.ctx, time.Date(2023, time.April, 28, 0, 0, 0, 0, time.UTC), subscriptionStart)
	s.NoError(err)
	s.Equal(v2023, version.EffectiveDate)
}
