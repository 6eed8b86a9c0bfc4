// internal/catalog/sort.go
package catalog

import (
	"sort"

	"github.com/ceramstore/ceramstore-backend/internal/models"
)

type SortKey string

const (
	SortNameAsc   SortKey = "name-asc"
	SortNameDesc  SortKey = "name-desc"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortNewest    SortKey = "newest"
	SortFeatured  SortKey = "featured"
)

// Sort returns a new ordering of products by the given key; the input slice
// is never mutated. Equal keys keep their relative input order. An unknown
// key sorts by name ascending.
func Sort(products []models.Product, key SortKey) []models.Product {
	out := make([]models.Product, len(products))
	copy(out, products)

	c := newCollator()
	byName := func(i, j int) bool {
		return c.CompareString(out[i].Name, out[j].Name) < 0
	}

	switch key {
	case SortNameDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return c.CompareString(out[i].Name, out[j].Name) > 0
		})
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Price < out[j].Price
		})
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Price > out[j].Price
		})
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	case SortFeatured:
		// Featured products first, name-ascending inside each partition.
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].IsFeatured != out[j].IsFeatured {
				return out[i].IsFeatured
			}
			return byName(i, j)
		})
	default:
		sort.SliceStable(out, byName)
	}
	return out
}
