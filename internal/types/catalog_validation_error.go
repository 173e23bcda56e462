package types

// CatalogValidationErrorCode represents the stage that produced a catalog
// validation finding
type CatalogValidationErrorCode string

const (
	// Schema stage: the document is structurally malformed
	CatalogValidationErrorCodeSchema CatalogValidationErrorCode = "CATALOG_SCHEMA_ERROR"

	// Phase-duration stage: a phase type and its duration disagree
	CatalogValidationErrorCodeInvalidPhaseDuration CatalogValidationErrorCode = "CATALOG_INVALID_PHASE_DURATION"

	// Cross-version stage: the candidate conflicts with an existing version
	CatalogValidationErrorCodeDuplicateEffectiveDate CatalogValidationErrorCode = "CATALOG_DUPLICATE_EFFECTIVE_DATE"
	CatalogValidationErrorCodeNameMismatch           CatalogValidationErrorCode = "CATALOG_NAME_MISMATCH"
)

func (c CatalogValidationErrorCode) String() string {
	return string(c)
}

// CatalogValidationError is one finding produced by a catalog validation
// pass. Findings are ordered by stage: schema first, then phase durations,
// then cross-version checks.
type CatalogValidationError struct {
	Code        CatalogValidationErrorCode `json:"code"`
	Description string                     `json:"description"`
}

func (e CatalogValidationError) Error() string {
	return e.Description
}
