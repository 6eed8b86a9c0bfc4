// internal/catalog/session_test.go
package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceramstore/ceramstore-backend/internal/models"
)

func sessionProducts() []models.Product {
	return []models.Product{
		{Name: "A", Price: 40, Color: "Alb", Specifications: models.JSONB{"finish": "Mat"}},
		{Name: "B", Price: 120, Color: "Gri", Specifications: models.JSONB{"finish": "Lucios"}},
		{Name: "C", Price: 85, Color: "Alb", Specifications: models.JSONB{"finish": "Mat"}},
	}
}

func TestSessionDerivesBoundsAndFacets(t *testing.T) {
	s := NewSession(models.CategoryFaianta, sessionProducts())

	assert.Equal(t, [2]float64{40, 120}, s.PriceBounds())
	assert.Equal(t, [2]float64{40, 120}, s.Pending().PriceRange)

	keys := make([]string, 0)
	for _, f := range s.Facets() {
		keys = append(keys, f.Key)
	}
	assert.Contains(t, keys, "finish")
}

func TestSessionPendingEditsDoNotAffectApplied(t *testing.T) {
	s := NewSession(models.CategoryFaianta, sessionProducts())

	s.SetColors([]string{"Alb"})
	assert.True(t, s.HasPendingChanges())
	assert.False(t, s.HasActiveFilters())
	assert.Len(t, s.Results(), 3)

	_, err := s.Apply()
	require.NoError(t, err)
	assert.False(t, s.HasPendingChanges())
	assert.True(t, s.HasActiveFilters())
	assert.Len(t, s.Results(), 2)
}

func TestSessionPriceValidationBlocksApply(t *testing.T) {
	s := NewSession(models.CategoryFaianta, sessionProducts())

	s.SetPriceInput("200", "100")
	assert.True(t, s.PriceRangeInvalid())

	_, err := s.Apply()
	assert.ErrorIs(t, err, ErrInvalidPriceRange)

	// Correcting either side unblocks.
	s.SetPriceInput("50", "100")
	assert.False(t, s.PriceRangeInvalid())
	_, err = s.Apply()
	require.NoError(t, err)
	assert.Equal(t, [2]float64{50, 100}, s.Applied().PriceRange)
}

func TestSessionUnparsableSidesDoNotBlock(t *testing.T) {
	s := NewSession(models.CategoryFaianta, sessionProducts())

	s.SetPriceInput("abc", "100")
	assert.False(t, s.PriceRangeInvalid())
	// The parseable side still lands in the pending range.
	assert.Equal(t, 100.0, s.Pending().PriceRange[1])
}

func TestSessionRevertRestoresApplied(t *testing.T) {
	s := NewSession(models.CategoryFaianta, sessionProducts())

	s.SetFacet("finish", FacetValue{Value: "Mat"})
	_, err := s.Apply()
	require.NoError(t, err)

	s.SetFacet("finish", FacetValue{Value: "Lucios"})
	s.SetColors([]string{"Gri"})
	assert.True(t, s.HasPendingChanges())

	s.Revert()
	assert.False(t, s.HasPendingChanges())
	assert.Equal(t, "Mat", s.Pending().Facets["finish"].Value)
	assert.Empty(t, s.Pending().Colors)
}

func TestSessionClearResetsToDefaults(t *testing.T) {
	s := NewSession(models.CategoryFaianta, sessionProducts())

	s.SetColors([]string{"Alb"})
	s.SetPriceInput("60", "90")
	_, err := s.Apply()
	require.NoError(t, err)
	assert.True(t, s.HasActiveFilters())

	s.Clear()
	_, err = s.Apply()
	require.NoError(t, err)
	assert.False(t, s.HasActiveFilters())
	assert.Equal(t, [2]float64{40, 120}, s.Applied().PriceRange)
}

func TestSessionReloadPreservesInProgressRange(t *testing.T) {
	s := NewSession(models.CategoryFaianta, sessionProducts())

	// The user has already narrowed the range; a product reload must not
	// clobber it.
	s.SetPriceInput("60", "90")
	wider := append(sessionProducts(), models.Product{Name: "D", Price: 300, Color: "Negru"})
	s.SetProducts(wider)

	assert.Equal(t, [2]float64{60, 90}, s.Pending().PriceRange)
	assert.Equal(t, [2]float64{40, 300}, s.PriceBounds())
}

func TestSessionReloadInitializesSentinelRange(t *testing.T) {
	s := NewSession(models.CategoryFaianta, nil)
	assert.Equal(t, [2]float64{0, 0}, s.Pending().PriceRange)

	s.SetProducts(sessionProducts())
	assert.Equal(t, [2]float64{40, 120}, s.Pending().PriceRange)
}

func TestSessionApplyIsAllOrNothing(t *testing.T) {
	s := NewSession(models.CategoryFaianta, sessionProducts())

	s.SetColors([]string{"Alb"})
	s.SetPriceInput("200", "100")
	_, err := s.Apply()
	require.Error(t, err)

	// Nothing committed: the applied state still matches defaults.
	assert.False(t, s.HasActiveFilters())
	assert.Len(t, s.Results(), 3)
}
