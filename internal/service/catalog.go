package service

import (
	"context"
	"time"

	"github.com/flexprice/catalog/internal/config"
	"github.com/flexprice/catalog/internal/domain/catalog"
	ierr "github.com/flexprice/catalog/internal/errors"
	"github.com/flexprice/catalog/internal/logger"
	"github.com/flexprice/catalog/internal/types"
)

// CatalogService is the upload and resolution surface over the tenant
// catalog cache
type CatalogService interface {
	// UploadCatalog validates and persists a candidate catalog document
	// for the tenant in ctx, invalidating the tenant's cache entry on
	// success. The first validation finding rejects the upload.
	UploadCatalog(ctx context.Context, rawXML string) error

	// ValidateCatalog dry-runs the full validation pipeline and returns
	// every finding without changing anything
	ValidateCatalog(ctx context.Context, rawXML string) ([]types.CatalogValidationError, error)

	// GetCatalog returns the tenant's versioned catalog through the cache
	GetCatalog(ctx context.Context) (*catalog.VersionedCatalog, error)

	// GetVersion resolves the catalog version governing a billing
	// computation at asOf for a subscription created at subscriptionStart
	GetVersion(ctx context.Context, asOf, subscriptionStart time.Time) (*catalog.CatalogVersion, error)
}

type catalogService struct {
	cfg          *config.Configuration
	repo         catalog.Repository
	catalogCache TenantCatalogCache
	logger       *logger.Logger
}

func NewCatalogService(
	cfg *config.Configuration,
	repo catalog.Repository,
	catalogCache TenantCatalogCache,
	logger *logger.Logger,
) CatalogService {
	return &catalogService{
		cfg:          cfg,
		repo:         repo,
		catalogCache: catalogCache,
		logger:       logger,
	}
}

func (s *catalogService) UploadCatalog(ctx context.Context, rawXML string) error {
	if rawXML == "" {
		return ierr.NewError("catalog document is empty").
			WithHint("Please provide a catalog XML document").
			Mark(ierr.ErrValidation)
	}

	existing, err := s.catalogCache.GetCatalog(ctx)
	if err != nil {
		return err
	}

	findings := catalog.Validate([]byte(rawXML), existing)
	if len(findings) > 0 {
		// strict path: first finding rejects the upload
		s.logger.Warnw("rejecting catalog upload",
			"tenant_id", tenantKey(ctx),
			"findings", len(findings),
			"first_finding", findings[0].Description,
		)
		return ierr.NewError(findings[0].Description).
			WithHint("Catalog upload failed validation").
			WithReportableDetails(map[string]any{
				"code": findings[0].Code,
			}).
			Mark(ierr.ErrCatalogInvalid)
	}

	tenantID := tenantKey(ctx)
	if err := s.repo.SaveTenantCatalog(ctx, tenantID, rawXML); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to persist catalog document").
			Mark(ierr.ErrDatabase)
	}

	// subsequent reads observe the new version
	s.catalogCache.Invalidate(ctx)

	s.logger.Infow("uploaded catalog for tenant", "tenant_id", tenantID)
	return nil
}

func (s *catalogService) ValidateCatalog(ctx context.Context, rawXML string) ([]types.CatalogValidationError, error) {
	if rawXML == "" {
		return nil, ierr.NewError("catalog document is empty").
			WithHint("Please provide a catalog XML document").
			Mark(ierr.ErrValidation)
	}

	existing, err := s.catalogCache.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}

	return catalog.Validate([]byte(rawXML), existing), nil
}

func (s *catalogService) GetCatalog(ctx context.Context) (*catalog.VersionedCatalog, error) {
	return s.catalogCache.GetCatalog(ctx)
}

func (s *catalogService) GetVersion(ctx context.Context, asOf, subscriptionStart time.Time) (*catalog.CatalogVersion, error) {
	versioned, err := s.catalogCache.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return versioned.Version(asOf, subscriptionStart, s.cfg.Catalog.AlignEffectiveDateForExistingSubscriptions)
}
