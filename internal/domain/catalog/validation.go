package catalog

import (
	"fmt"
	"time"

	"github.com/flexprice/catalog/internal/types"
)

// Validate runs the full validation pipeline over a candidate catalog
// document and returns every finding, in stage order: schema, phase
// durations, cross-version checks. An empty result means the candidate is
// accepted. existing is the tenant's current catalog, nil (or the empty
// catalog) when the candidate would be the first version.
//
// Validate never short-circuits across stages; strict upload callers take
// the first finding, dry-run callers surface the whole list.
func Validate(raw []byte, existing *VersionedCatalog) []types.CatalogValidationError {
	findings := []types.CatalogValidationError{}

	doc, err := parseDocument(raw)
	if err != nil {
		return append(findings, types.CatalogValidationError{
			Code:        types.CatalogValidationErrorCodeSchema,
			Description: err.Error(),
		})
	}

	version, schemaErrs := buildVersion(doc)
	for _, schemaErr := range schemaErrs {
		findings = append(findings, types.CatalogValidationError{
			Code:        types.CatalogValidationErrorCodeSchema,
			Description: schemaErr.Error(),
		})
	}
	if version == nil || len(schemaErrs) > 0 {
		// later stages reason about a fully built version
		return findings
	}

	findings = append(findings, validatePhaseDurations(version)...)
	if existing != nil && !existing.IsEmpty() {
		findings = append(findings, validateAgainstExisting(version, existing)...)
	}
	return findings
}

// validatePhaseDurations enforces the phase type vs duration rules for
// every phase across every plan of the candidate version
func validatePhaseDurations(version *CatalogVersion) []types.CatalogValidationError {
	var findings []types.CatalogValidationError
	effective := version.EffectiveDate.UTC().Format(time.RFC3339)

	for _, plan := range version.Plans {
		for _, phase := range plan.Phases {
			switch {
			case phase.Type == types.PhaseTypeFixedTerm && phase.Duration.IsUnlimited():
				findings = append(findings, types.CatalogValidationError{
					Code: types.CatalogValidationErrorCodeInvalidPhaseDuration,
					Description: fmt.Sprintf("'FIXEDTERM' Phase '%s' for plan '%s' in version '%s' must not have duration as UNLIMITED",
						phase.Name(), plan.Name, effective),
				})
			case phase.Type == types.PhaseTypeEvergreen && !phase.Duration.IsUnlimited():
				findings = append(findings, types.CatalogValidationError{
					Code: types.CatalogValidationErrorCodeInvalidPhaseDuration,
					Description: fmt.Sprintf("'EVERGREEN' Phase '%s' for plan '%s' in version '%s' must have duration as UNLIMITED",
						phase.Name(), plan.Name, effective),
				})
			}
		}
	}
	return findings
}

// validateAgainstExisting enforces the cross-version rules between the
// candidate and the tenant's current catalog
func validateAgainstExisting(version *CatalogVersion, existing *VersionedCatalog) []types.CatalogValidationError {
	var findings []types.CatalogValidationError

	for _, existingVersion := range existing.Versions() {
		if existingVersion.EffectiveDate.Equal(version.EffectiveDate) {
			findings = append(findings, types.CatalogValidationError{
				Code: types.CatalogValidationErrorCodeDuplicateEffectiveDate,
				Description: fmt.Sprintf("Catalog effective date '%s' already exists for a previous version",
					version.EffectiveDate.UTC().Format(time.RFC3339)),
			})
			break
		}
	}

	if existing.Name() != version.Name {
		findings = append(findings, types.CatalogValidationError{
			Code: types.CatalogValidationErrorCodeNameMismatch,
			Description: fmt.Sprintf("Catalog name '%s' is different from existing catalog name '%s'",
				version.Name, existing.Name()),
		})
	}
	return findings
}
