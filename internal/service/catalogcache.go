package service

import (
	"context"
	"os"
	"sync"
	"sync/atomic"

	"github.com/flexprice/catalog/internal/cache"
	"github.com/flexprice/catalog/internal/config"
	"github.com/flexprice/catalog/internal/domain/catalog"
	ierr "github.com/flexprice/catalog/internal/errors"
	"github.com/flexprice/catalog/internal/logger"
	"github.com/flexprice/catalog/internal/types"
	"golang.org/x/sync/singleflight"
)

// TenantCatalogCache serves the resolved versioned catalog for a tenant,
// loading it lazily from the document store at most once per tenant key.
// Tenants confirmed to have no catalog are negative-cached with the
// process-wide default so an empty backend answer is never re-fetched.
type TenantCatalogCache interface {
	// LoadDefaultCatalog installs the process-wide default catalog from a
	// file; an empty path installs the built-in empty catalog. Idempotent.
	LoadDefaultCatalog(path string) error

	// GetCatalog returns the versioned catalog for the tenant in ctx.
	// Repeated calls for a populated tenant return the identical object
	// until the entry is invalidated.
	GetCatalog(ctx context.Context) (*catalog.VersionedCatalog, error)

	// Invalidate drops the cache entry for the tenant in ctx, typically
	// after an accepted upload
	Invalidate(ctx context.Context)

	// ClearAll drops every cache entry
	ClearAll()

	// DefaultCatalog returns the process-wide default catalog installed
	// by LoadDefaultCatalog
	DefaultCatalog() *catalog.VersionedCatalog
}

type tenantCatalogCache struct {
	cfg    *config.Configuration
	logger *logger.Logger
	repo   catalog.Repository
	kv     cache.Cache

	group singleflight.Group

	// epoch is bumped by ClearAll; entries carry the epoch of the load
	// that produced them and are rejected on read once it is stale
	epoch atomic.Uint64

	mu             sync.RWMutex
	defaultCatalog *catalog.VersionedCatalog
}

// catalogEntry is the cached value for one tenant key. The epoch lets a
// read tell an entry published by a load that raced a ClearAll from a
// current one; epoch comparison on read closes the window between the
// clear and the racing load's publish.
type catalogEntry struct {
	versioned *catalog.VersionedCatalog
	epoch     uint64
}

func NewTenantCatalogCache(
	cfg *config.Configuration,
	repo catalog.Repository,
	kv cache.Cache,
	logger *logger.Logger,
) TenantCatalogCache {
	return &tenantCatalogCache{
		cfg:            cfg,
		repo:           repo,
		kv:             kv,
		logger:         logger,
		defaultCatalog: catalog.NewEmptyCatalog(),
	}
}

func (c *tenantCatalogCache) LoadDefaultCatalog(path string) error {
	defaultCatalog := catalog.NewEmptyCatalog()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return ierr.WithError(err).
				WithHintf("Failed to read default catalog from '%s'", path).
				Mark(ierr.ErrSystem)
		}
		version, err := catalog.NewVersionFromXML(raw)
		if err != nil {
			return err
		}
		defaultCatalog, err = catalog.NewVersionedCatalog(version)
		if err != nil {
			return err
		}
	}

	c.mu.Lock()
	c.defaultCatalog = defaultCatalog
	c.mu.Unlock()

	c.logger.Infow("loaded default catalog",
		"catalog_name", defaultCatalog.Name(),
		"versions", len(defaultCatalog.Versions()),
	)
	return nil
}

func (c *tenantCatalogCache) GetCatalog(ctx context.Context) (*catalog.VersionedCatalog, error) {
	tenantID := tenantKey(ctx)
	key := cache.GenerateKey(cache.PrefixCatalog, tenantID)

	if versioned, ok := c.lookup(ctx, key); ok {
		return versioned, nil
	}

	// At most one concurrent load per tenant key; every waiter observes
	// the same result or the same failure.
	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		if versioned, ok := c.lookup(ctx, key); ok {
			return versioned, nil
		}
		return c.loadTenantCatalog(ctx, tenantID, key)
	})
	if err != nil {
		return nil, err
	}
	return result.(*catalog.VersionedCatalog), nil
}

// lookup returns the cached catalog for the key if its entry is still
// current. An entry whose load raced a ClearAll carries an older epoch;
// it is dropped here instead of being served.
func (c *tenantCatalogCache) lookup(ctx context.Context, key string) (*catalog.VersionedCatalog, bool) {
	cached, ok := c.kv.Get(ctx, key)
	if !ok {
		return nil, false
	}
	entry, ok := cached.(*catalogEntry)
	if !ok {
		return nil, false
	}
	if entry.epoch != c.epoch.Load() {
		c.kv.Delete(ctx, key)
		return nil, false
	}
	return entry.versioned, true
}

// loadTenantCatalog fetches, parses and decorates the tenant's documents and
// publishes the assembled catalog. A backend failure is propagated without
// caching anything; an empty answer is negative-cached as the default.
func (c *tenantCatalogCache) loadTenantCatalog(ctx context.Context, tenantID, key string) (*catalog.VersionedCatalog, error) {
	epoch := c.epoch.Load()

	docs, err := c.repo.GetTenantCatalogs(ctx, tenantID)
	if err != nil {
		c.logger.Errorw("failed to fetch tenant catalog documents",
			"tenant_id", tenantID,
			"error", err,
		)
		return nil, ierr.WithError(err).
			WithHint("Failed to fetch tenant catalog documents").
			Mark(ierr.ErrDatabase)
	}

	var versioned *catalog.VersionedCatalog
	if len(docs) == 0 {
		// The fact that the tenant has no catalog is itself cached
		c.logger.Debugw("no catalog documents for tenant, caching default",
			"tenant_id", tenantID,
		)
		versioned = c.DefaultCatalog()
	} else {
		versioned, err = c.buildTenantCatalog(tenantID, docs)
		if err != nil {
			return nil, err
		}
	}

	// The entry is stamped with the epoch captured before the fetch. A
	// ClearAll that raced past us bumped the epoch, so the entry is
	// rejected on the next read; the caller still gets the result.
	c.kv.Set(ctx, key, &catalogEntry{versioned: versioned, epoch: epoch}, cache.NoExpiration)
	return versioned, nil
}

// buildTenantCatalog parses each raw document into a version, decorates it
// with the tenant's price override id and assembles the sorted catalog
func (c *tenantCatalogCache) buildTenantCatalog(tenantID string, docs []string) (*catalog.VersionedCatalog, error) {
	versions := make([]*catalog.CatalogVersion, 0, len(docs))
	for _, doc := range docs {
		version, err := catalog.NewVersionFromXML([]byte(doc))
		if err != nil {
			return nil, err
		}
		versions = append(versions, version.WithPriceOverride(tenantID))
	}
	return catalog.NewVersionedCatalog(versions...)
}

// DefaultCatalog returns the process-wide default catalog
func (c *tenantCatalogCache) DefaultCatalog() *catalog.VersionedCatalog {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaultCatalog
}

func (c *tenantCatalogCache) Invalidate(ctx context.Context) {
	tenantID := tenantKey(ctx)
	c.kv.Delete(ctx, cache.GenerateKey(cache.PrefixCatalog, tenantID))
	c.logger.Debugw("invalidated tenant catalog cache entry", "tenant_id", tenantID)
}

func (c *tenantCatalogCache) ClearAll() {
	c.epoch.Add(1)
	c.kv.DeleteByPrefix(context.Background(), cache.PrefixCatalog)
}

// tenantKey derives the cache key tenant component, falling back to the
// mono-tenant sentinel when the context carries no tenant identity
func tenantKey(ctx context.Context) string {
	if tenantID := types.GetTenantID(ctx); tenantID != "" {
		return tenantID
	}
	return types.DefaultTenantID
}
