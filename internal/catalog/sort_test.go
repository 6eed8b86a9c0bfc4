// internal/catalog/sort_test.go
package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceramstore/ceramstore-backend/internal/models"
)

func namedProducts(names ...string) []models.Product {
	out := make([]models.Product, len(names))
	for i, n := range names {
		out[i] = models.Product{Name: n}
	}
	return out
}

func sortedNames(products []models.Product) []string {
	names := make([]string, len(products))
	for i, p := range products {
		names[i] = p.Name
	}
	return names
}

func TestSortNameAscending(t *testing.T) {
	result := Sort(namedProducts("Pavaj B", "Pavaj A"), SortNameAsc)
	assert.Equal(t, []string{"Pavaj A", "Pavaj B"}, sortedNames(result))
}

func TestSortNameDescending(t *testing.T) {
	result := Sort(namedProducts("Pavaj A", "Pavaj C", "Pavaj B"), SortNameDesc)
	assert.Equal(t, []string{"Pavaj C", "Pavaj B", "Pavaj A"}, sortedNames(result))
}

func TestSortByPrice(t *testing.T) {
	products := []models.Product{
		{Name: "mid", Price: 50},
		{Name: "cheap", Price: 10},
		{Name: "dear", Price: 90},
	}

	asc := Sort(products, SortPriceAsc)
	assert.Equal(t, []string{"cheap", "mid", "dear"}, sortedNames(asc))

	desc := Sort(products, SortPriceDesc)
	assert.Equal(t, []string{"dear", "mid", "cheap"}, sortedNames(desc))
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	products := []models.Product{
		{BaseModel: models.BaseModel{CreatedAt: base}, Name: "old"},
		{BaseModel: models.BaseModel{CreatedAt: base.Add(48 * time.Hour)}, Name: "new"},
		{BaseModel: models.BaseModel{CreatedAt: base.Add(24 * time.Hour)}, Name: "mid"},
	}

	result := Sort(products, SortNewest)
	assert.Equal(t, []string{"new", "mid", "old"}, sortedNames(result))
}

func TestSortFeaturedPartition(t *testing.T) {
	products := []models.Product{
		{Name: "Gresie Z"},
		{Name: "Faianta B", IsFeatured: true},
		{Name: "Gresie A"},
		{Name: "Faianta A", IsFeatured: true},
	}

	result := Sort(products, SortFeatured)
	require.Len(t, result, 4)

	// All featured products come first, name-ascending within each partition.
	assert.Equal(t, []string{"Faianta A", "Faianta B", "Gresie A", "Gresie Z"}, sortedNames(result))
	assert.True(t, result[0].IsFeatured)
	assert.True(t, result[1].IsFeatured)
	assert.False(t, result[2].IsFeatured)
	assert.False(t, result[3].IsFeatured)
}

func TestSortUnknownKeyDefaultsToNameAscending(t *testing.T) {
	result := Sort(namedProducts("b", "a"), SortKey("rating-desc"))
	assert.Equal(t, []string{"a", "b"}, sortedNames(result))
}

func TestSortIsDeterministicAndNonMutating(t *testing.T) {
	products := []models.Product{
		{Name: "same", Price: 10},
		{Name: "same", Price: 20},
		{Name: "other", Price: 10},
	}
	original := append([]models.Product(nil), products...)

	first := Sort(products, SortPriceAsc)
	second := Sort(products, SortPriceAsc)
	assert.Equal(t, first, second)
	assert.Equal(t, original, products)

	// Stable: equal prices keep input order.
	assert.Equal(t, "same", first[0].Name)
	assert.Equal(t, "other", first[1].Name)
}
