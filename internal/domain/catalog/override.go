package catalog

// WithPriceOverride returns a decorated copy of the version carrying the
// tenant's price override id. The parsed document (products, plans, phases)
// is shared with the original, so one parsed version can back any number of
// tenants.
func (v *CatalogVersion) WithPriceOverride(tenantID string) *CatalogVersion {
	decorated := *v
	decorated.PriceOverrideTenantID = tenantID
	return &decorated
}

// WithPriceOverride decorates every version of the catalog for the given
// tenant. The receiver is left untouched.
func (vc *VersionedCatalog) WithPriceOverride(tenantID string) *VersionedCatalog {
	decorated := &VersionedCatalog{versions: make([]*CatalogVersion, len(vc.versions))}
	for i, v := range vc.versions {
		decorated.versions[i] = v.WithPriceOverride(tenantID)
	}
	return decorated
}
