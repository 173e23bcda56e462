package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// InMemoryCatalogStore implements catalog.Repository for tests. A backend
// failure can be injected with SetError, and loader invocations are counted
// per tenant so tests can assert single-load and negative-caching behavior.
type InMemoryCatalogStore struct {
	mu    sync.RWMutex
	docs  map[string][]string
	err   error
	calls map[string]int

	// FetchDelay slows GetTenantCatalogs down so concurrent first-time
	// lookups actually overlap
	FetchDelay time.Duration
}

func NewInMemoryCatalogStore() *InMemoryCatalogStore {
	return &InMemoryCatalogStore{
		docs:  make(map[string][]string),
		calls: make(map[string]int),
	}
}

// SetError injects a backend failure returned by every subsequent fetch,
// nil restores normal behavior
func (s *InMemoryCatalogStore) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// SetTenantCatalogs replaces the documents stored for a tenant
func (s *InMemoryCatalogStore) SetTenantCatalogs(tenantID string, docs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[tenantID] = docs
}

// FetchCalls returns how many times the loader was invoked for a tenant
func (s *InMemoryCatalogStore) FetchCalls(tenantID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls[tenantID]
}

func (s *InMemoryCatalogStore) GetTenantCatalogs(_ context.Context, tenantID string) ([]string, error) {
	s.mu.Lock()
	s.calls[tenantID]++
	err := s.err
	docs := append([]string(nil), s.docs[tenantID]...)
	delay := s.FetchDelay
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *InMemoryCatalogStore) SaveTenantCatalog(_ context.Context, tenantID string, raw string) error {
	if raw == "" {
		return fmt.Errorf("catalog document cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.docs[tenantID] = append(s.docs[tenantID], raw)
	return nil
}

// Clear drops all stored documents and counters
func (s *InMemoryCatalogStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = make(map[string][]string)
	s.calls = make(map[string]int)
	s.err = nil
}
