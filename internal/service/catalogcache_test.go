package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/flexprice/catalog/internal/cache"
	"github.com/flexprice/catalog/internal/config"
	"github.com/flexprice/catalog/internal/domain/catalog"
	ierr "github.com/flexprice/catalog/internal/errors"
	"github.com/flexprice/catalog/internal/logger"
	"github.com/flexprice/catalog/internal/testutil"
	"github.com/flexprice/catalog/internal/types"
	"github.com/stretchr/testify/suite"
)

const tenantCatalogXML = `<catalog>
	<effectiveDate>2021-10-04T00:00:00Z</effectiveDate>
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
						<recurringPrice>49.95</recurringPrice>
					</recurring>
				</phase>
			</phases>
		</plan>
	</plans>
</catalog>`

const otherTenantCatalogXML = `<catalog>
	<effectiveDate>2022-01-01T00:00:00Z</effectiveDate>
	<catalogName>OtherCatalog</catalogName>
	<plans>
		<plan name="basic-annual">
			<product>Basic</product>
			<phases>
				<phase type="EVERGREEN">
					<duration><unit>UNLIMITED</unit></duration>
				</phase>
			</phases>
		</plan>
	</plans>
</catalog>`

type TenantCatalogCacheSuite struct {
	suite.Suite
	ctx          context.Context
	cfg          *config.Configuration
	store        *testutil.InMemoryCatalogStore
	catalogCache TenantCatalogCache
}

func TestTenantCatalogCache(t *testing.T) {
	suite.Run(t, new(TenantCatalogCacheSuite))
}

func (s *TenantCatalogCacheSuite) SetupTest() {
	s.ctx = testutil.SetupContextForTenant("tenant-99")
	s.cfg = config.GetDefaultConfig()
	s.store = testutil.NewInMemoryCatalogStore()

	log, err := logger.NewLogger(types.LogLevelInfo)
	s.Require().NoError(err)

	s.catalogCache = NewTenantCatalogCache(s.cfg, s.store, cache.NewInMemoryCache(s.cfg), log)
}

func (s *TenantCatalogCacheSuite) TestMissingDefaultCatalog() {
	s.NoError(s.catalogCache.LoadDefaultCatalog(""))

	result, err := s.catalogCache.GetCatalog(s.ctx)
	s.NoError(err)
	s.Equal(catalog.EmptyCatalogName, result.Name())
}

func (s *TenantCatalogCacheSuite) TestDefaultCatalogFromFile() {
	path := filepath.Join(s.T().TempDir(), "default.xml")
	s.Require().NoError(os.WriteFile(path, []byte(tenantCatalogXML), 0o644))

	s.NoError(s.catalogCache.LoadDefaultCatalog(path))

	result, err := s.catalogCache.GetCatalog(s.ctx)
	s.NoError(err)
	s.Equal("ExampleCatalog", result.Name())
	s.Len(result.Versions(), 1)
	s.Len(result.Latest().Plans, 1)
}

func (s *TenantCatalogCacheSuite) TestNegativeCaching() {
	result, err := s.catalogCache.GetCatalog(s.ctx)
	s.NoError(err)
	s.Equal(catalog.EmptyCatalogName, result.Name())
	s.Equal(1, s.store.FetchCalls("tenant-99"))

	// a backend failure after the negative entry is populated must not be
	// observed by callers
	s.store.SetError(errors.New("backend unavailable"))

	again, err := s.catalogCache.GetCatalog(s.ctx)
	s.NoError(err)
	s.Same(result, again)
	s.Equal(1, s.store.FetchCalls("tenant-99"))
}

func (s *TenantCatalogCacheSuite) TestLoaderErrorOnFirstMiss() {
	s.store.SetError(errors.New("backend unavailable"))

	_, err := s.catalogCache.GetCatalog(s.ctx)
	s.Error(err)
	s.True(ierr.IsDatabase(err))

	// nothing was cached, so the next call may retry
	s.store.SetError(nil)
	s.store.SetTenantCatalogs("tenant-99", []string{tenantCatalogXML})

	result, err := s.catalogCache.GetCatalog(s.ctx)
	s.NoError(err)
	s.Equal("ExampleCatalog", result.Name())
	s.Equal(2, s.store.FetchCalls("tenant-99"))
}

func (s *TenantCatalogCacheSuite) TestLoaderErrorAfterPopulateIsInvisible() {
	s.store.SetTenantCatalogs("tenant-99", []string{tenantCatalogXML})

	result, err := s.catalogCache.GetCatalog(s.ctx)
	s.NoError(err)

	s.store.SetError(errors.New("backend unavailable"))

	again, err := s.catalogCache.GetCatalog(s.ctx)
	s.NoError(err)
	s.Same(result, again)
	s.Equal(1, s.store.FetchCalls("tenant-99"))
}

func (s *TenantCatalogCacheSuite) TestSingleLoadForConcurrentMisses() {
	s.store.SetTenantCatalogs("tenant-99", []string{tenantCatalogXML})
	s.store.FetchDelay = 50 * time.Millisecond

	const callers = 10
	results := make([]*catalog.VersionedCatalog, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.catalogCache.GetCatalog(s.ctx)
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		s.NoError(errs[i])
	}
	s.Equal(1, s.store.FetchCalls("tenant-99"))
	for i := 1; i < callers; i++ {
		s.Same(results[0], results[i])
	}
}

func (s *TenantCatalogCacheSuite) TestTenantIsolation() {
	otherCtx := testutil.SetupContextForTenant("tenant-112233")

	s.store.SetTenantCatalogs("tenant-99", []string{tenantCatalogXML})
	s.store.SetTenantCatalogs("tenant-112233", []string{otherTenantCatalogXML})

	result, err := s.catalogCache.GetCatalog(s.ctx)
	s.NoError(err)
	otherResult, err := s.catalogCache.GetCatalog(otherCtx)
	s.NoError(err)

	s.Equal("ExampleCatalog", result.Name())
	s.Equal("OtherCatalog", otherResult.Name())

	// each tenant's versions are decorated with its own override id
	s.Equal("tenant-99", result.Latest().PriceOverrideTenantID)
	s.Equal("tenant-112233", otherResult.Latest().PriceOverrideTenantID)

	// populated entries stay isolated across repeated reads
	again, err := s.catalogCache.GetCatalog(otherCtx)
	s.NoError(err)
	s.Same(otherResult, again)
}

func (s *TenantCatalogCacheSuite) TestMonoTenantSentinelKey() {
	ctx := context.Background() // no tenant identity

	result, err := s.catalogCache.GetCatalog(ctx)
	s.NoError(err)
	s.Equal(catalog.EmptyCatalogName, result.Name())
	s.Equal(1, s.store.FetchCalls(types.DefaultTenantID))
}

func (s *TenantCatalogCacheSuite) TestClearAll() {
	s.store.SetTenantCatalogs("tenant-99", []string{tenantCatalogXML})

	result, err := s.catalogCache.GetCatalog(s.ctx)
	s.NoError(err)
	s.Equal(1, s.store.FetchCalls("tenant-99"))

	s.catalogCache.ClearAll()

	again, err := s.catalogCache.GetCatalog(s.ctx)
	s.NoError(err)
	s.Equal(2, s.store.FetchCalls("tenant-99"))
	s.NotSame(result, again)
	s.Equal(result.Name(), again.Name())
}

// clearingCache delegates to a real cache but runs a hook once before the
// first Set, landing exactly between a load completing and its publish
type clearingCache struct {
	cache.Cache
	once  sync.Once
	onSet func()
}

func (c *clearingCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) {
	c.once.Do(c.onSet)
	c.Cache.Set(ctx, key, value, expiration)
}

func (s *TenantCatalogCacheSuite) TestClearAllDuringInFlightLoad() {
	s.store.SetTenantCatalogs("tenant-99", []string{tenantCatalogXML})

	log, err := logger.NewLogger(types.LogLevelInfo)
	s.Require().NoError(err)

	kv := &clearingCache{Cache: cache.NewInMemoryCache(s.cfg)}
	catalogCache := NewTenantCatalogCache(s.cfg, s.store, kv, log)
	kv.onSet = catalogCache.ClearAll

	// the load completes after the clear; its result reaches the caller
	// but the published entry is stale
	result, err := catalogCache.GetCatalog(s.ctx)
	s.NoError(err)
	s.Equal("ExampleCatalog", result.Name())
	s.Equal(1, s.store.FetchCalls("tenant-99"))

	// the stale entry must not be served as authoritative; the next read
	// goes back to the store
	again, err := catalogCache.GetCatalog(s.ctx)
	s.NoError(err)
	s.Equal(2, s.store.FetchCalls("tenant-99"))
	s.NotSame(result, again)
	s.Equal(result.Name(), again.Name())
}

func (s *TenantCatalogCacheSuite) TestInvalidate() {
	s.store.SetTenantCatalogs("tenant-99", []string{tenantCatalogXML})

	_, err := s.catalogCache.GetCatalog(s.ctx)
	s.NoError(err)

	s.catalogCache.Invalidate(s.ctx)

	_, err = s.catalogCache.GetCatalog(s.ctx)
	s.NoError(err)
	s.Equal(2, s.store.FetchCalls("tenant-99"))
}
