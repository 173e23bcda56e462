package catalog

import "github.com/flexprice/catalog/internal/types"

// Product is one sellable product within a catalog version
type Product struct {
	Name     string                `json:"name"`
	Category types.ProductCategory `json:"category"`
}
