package catalog

import "context"

// Repository defines the interface for tenant catalog document persistence.
// Implementations must distinguish "tenant has no documents" (empty slice,
// nil error) from a backend failure (non-nil error): the former is a valid,
// cacheable answer, the latter must never be cached.
type Repository interface {
	// GetTenantCatalogs returns the raw catalog documents uploaded for the
	// tenant, zero or more, in upload order
	GetTenantCatalogs(ctx context.Context, tenantID string) ([]string, error)

	// SaveTenantCatalog appends an accepted catalog document for the tenant
	SaveTenantCatalog(ctx context.Context, tenantID string, raw string) error
}
