package catalog

import (
	"sort"
	"time"

	ierr "github.com/flexprice/catalog/internal/errors"
)

// EmptyCatalogName is the name of the built-in default catalog, also used
// as the negative-cache marker for tenants that have no catalog at all.
const EmptyCatalogName = "EmptyCatalog"

// VersionedCatalog is the ordered collection of every catalog version for a
// tenant, sorted by effective date. Instances are owned by the cache entry
// that holds them and are never mutated after publication.
type VersionedCatalog struct {
	versions []*CatalogVersion
}

// NewVersionedCatalog assembles a catalog from parsed versions, enforcing
// the uniform-name and unique-effective-date invariants. Versions may be
// supplied in any order.
func NewVersionedCatalog(versions ...*CatalogVersion) (*VersionedCatalog, error) {
	vc := &VersionedCatalog{}
	for _, v := range versions {
		if err := vc.Add(v); err != nil {
			return nil, err
		}
	}
	return vc, nil
}

// NewEmptyCatalog returns the default catalog used when no catalog has been
// configured. It carries a single synthetic version so that effective
// version resolution always has something to return.
func NewEmptyCatalog() *VersionedCatalog {
	return &VersionedCatalog{
		versions: []*CatalogVersion{
			{Name: EmptyCatalogName, EffectiveDate: time.Unix(0, 0).UTC()},
		},
	}
}

// Add inserts a version keeping the sequence sorted by effective date
func (vc *VersionedCatalog) Add(version *CatalogVersion) error {
	if version == nil {
		return ierr.NewError("catalog version cannot be nil").
			Mark(ierr.ErrSystem)
	}

	if len(vc.versions) > 0 && vc.versions[0].Name != version.Name {
		return ierr.NewError("catalog version name mismatch").
			WithHintf("Catalog name '%s' is different from existing catalog name '%s'", version.Name, vc.versions[0].Name).
			Mark(ierr.ErrValidation)
	}

	for _, existing := range vc.versions {
		if existing.EffectiveDate.Equal(version.EffectiveDate) {
			return ierr.NewError("duplicate catalog effective date").
				WithHintf("Catalog effective date '%s' already exists for a previous version", version.EffectiveDate.UTC().Format(time.RFC3339)).
				Mark(ierr.ErrAlreadyExists)
		}
	}

	vc.versions = append(vc.versions, version)
	sort.SliceStable(vc.versions, func(i, j int) bool {
		return vc.versions[i].EffectiveDate.Before(vc.versions[j].EffectiveDate)
	})
	return nil
}

// Name returns the catalog name, taken from the first version
func (vc *VersionedCatalog) Name() string {
	if len(vc.versions) == 0 {
		return ""
	}
	return vc.versions[0].Name
}

// IsEmpty reports whether this is the built-in default catalog
func (vc *VersionedCatalog) IsEmpty() bool {
	return vc.Name() == EmptyCatalogName
}

// Versions returns the effective-date-sorted version sequence. The returned
// slice must not be modified.
func (vc *VersionedCatalog) Versions() []*CatalogVersion {
	return vc.versions
}

// Latest returns the version with the greatest effective date
func (vc *VersionedCatalog) Latest() *CatalogVersion {
	if len(vc.versions) == 0 {
		return nil
	}
	return vc.versions[len(vc.versions)-1]
}

// Version selects the single catalog version governing a billing
// computation at asOf for a subscription created at subscriptionStart.
//
// The governing version is the last one in the sorted sequence whose
// candidate date is on or before asOf; when asOf precedes every candidate
// date the earliest version applies. When alignExisting is set and the
// subscription was created strictly before a version's effective date, that
// version's effectiveDateForExistingSubscriptions (when declared) replaces
// the raw effective date as the candidate. On equal candidate dates the
// later version in the sequence wins; well-formed catalogs have unique
// effective dates so this only disambiguates aligned dates.
//
// A zero subscriptionStart means the caller is not resolving for an
// existing subscription and the raw effective dates apply.
func (vc *VersionedCatalog) Version(asOf, subscriptionStart time.Time, alignExisting bool) (*CatalogVersion, error) {
	if len(vc.versions) == 0 {
		return nil, ierr.NewError("catalog has no versions").
			WithHint("At least one catalog version must be loaded before resolution").
			Mark(ierr.ErrNotFound)
	}

	result := vc.versions[0]
	for _, v := range vc.versions {
		candidate := v.EffectiveDate
		if alignExisting &&
			v.EffectiveDateForExistingSubscriptions != nil &&
			!subscriptionStart.IsZero() &&
			subscriptionStart.Before(v.EffectiveDate) {
			candidate = *v.EffectiveDateForExistingSubscriptions
		}
		if !candidate.After(asOf) {
			result = v
		}
	}
	return result, nil
}
