// internal/catalog/filter_test.go
package catalog

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceramstore/ceramstore-backend/internal/models"
)

func multiSelect(values ...string) FacetValue { return FacetValue{Values: values} }
func singleSelect(value string) FacetValue    { return FacetValue{Value: value} }

func TestApplyPriceAndColor(t *testing.T) {
	products := []models.Product{
		{Name: "P1", Price: 50, Color: "Alb"},
		{Name: "P2", Price: 150, Color: "Gri"},
		{Name: "P3", Price: 90, Color: "Alb"},
	}

	result := Apply(products, FilterState{
		PriceRange: [2]float64{60, 200},
		Colors:     []string{"Alb"},
	})

	require.Len(t, result, 1)
	assert.Equal(t, "P3", result[0].Name)
	assert.Equal(t, 90.0, result[0].Price)
}

func TestApplyPriceRangeInclusive(t *testing.T) {
	products := []models.Product{
		{Name: "low", Price: 60},
		{Name: "high", Price: 200},
		{Name: "out", Price: 200.01},
	}

	result := Apply(products, FilterState{PriceRange: [2]float64{60, 200}})
	require.Len(t, result, 2)
	assert.Equal(t, "low", result[0].Name)
	assert.Equal(t, "high", result[1].Name)
}

func TestApplyFacetMatchingRules(t *testing.T) {
	products := []models.Product{
		{
			Name:             "rect",
			Price:            100,
			Specifications:   models.JSONB{"is_rectified": true, "dimension": " 30x60 ", "thickness_mm": 9.5},
			ApplicationAreas: pq.StringArray{"Baie", "Bucatarie"},
		},
		{
			Name:           "plain",
			Price:          100,
			Specifications: models.JSONB{"is_rectified": false, "dimension": "60x60", "thickness_mm": 8.0},
		},
		{
			Name:  "bare",
			Price: 100,
		},
	}

	tests := []struct {
		name  string
		state FilterState
		want  []string
	}{
		{
			name:  "boolean true literal",
			state: FilterState{Facets: map[string]FacetValue{"is_rectified": singleSelect("true")}},
			want:  []string{"rect"},
		},
		{
			name:  "boolean false literal",
			state: FilterState{Facets: map[string]FacetValue{"is_rectified": singleSelect("false")}},
			want:  []string{"plain"},
		},
		{
			name:  "scalar trimmed exact match",
			state: FilterState{Facets: map[string]FacetValue{"dimension": singleSelect("30x60")}},
			want:  []string{"rect"},
		},
		{
			name:  "numeric attribute via decimal string",
			state: FilterState{Facets: map[string]FacetValue{"thickness_mm": singleSelect("9.5")}},
			want:  []string{"rect"},
		},
		{
			name:  "multi-select membership over scalar",
			state: FilterState{Facets: map[string]FacetValue{"dimension": multiSelect("30x60", "60x60")}},
			want:  []string{"rect", "plain"},
		},
		{
			name:  "multi-select numeric membership",
			state: FilterState{Facets: map[string]FacetValue{"thickness_mm": multiSelect("8")}},
			want:  []string{"plain"},
		},
		{
			name:  "array overlap is case-insensitive",
			state: FilterState{Facets: map[string]FacetValue{"application_areas": multiSelect("baie")}},
			want:  []string{"rect"},
		},
		{
			name:  "missing attribute never matches",
			state: FilterState{Facets: map[string]FacetValue{"finish": singleSelect("Mat")}},
			want:  []string{},
		},
		{
			name:  "empty facet value passes everything",
			state: FilterState{Facets: map[string]FacetValue{"finish": {}}},
			want:  []string{"rect", "plain", "bare"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Apply(products, tt.state)
			names := make([]string, 0, len(result))
			for _, p := range result {
				names = append(names, p.Name)
			}
			assert.ElementsMatch(t, tt.want, names)
		})
	}
}

func TestApplyIsConjunction(t *testing.T) {
	products := []models.Product{
		{Name: "both", Price: 100, Color: "Alb", Specifications: models.JSONB{"finish": "Mat"}},
		{Name: "color-only", Price: 100, Color: "Alb", Specifications: models.JSONB{"finish": "Lucios"}},
		{Name: "finish-only", Price: 100, Color: "Gri", Specifications: models.JSONB{"finish": "Mat"}},
	}

	result := Apply(products, FilterState{
		Colors: []string{"Alb"},
		Facets: map[string]FacetValue{"finish": singleSelect("Mat")},
	})
	require.Len(t, result, 1)
	assert.Equal(t, "both", result[0].Name)
}

func TestApplyMonotonicity(t *testing.T) {
	products := []models.Product{
		{Name: "A", Price: 10, Color: "Alb", Specifications: models.JSONB{"finish": "Mat"}},
		{Name: "B", Price: 20, Color: "Gri", Specifications: models.JSONB{"finish": "Mat"}},
		{Name: "C", Price: 30, Color: "Alb", Specifications: models.JSONB{"finish": "Lucios"}},
		{Name: "D", Price: 40, Color: "Bej"},
	}

	base := FilterState{Facets: map[string]FacetValue{"finish": singleSelect("Mat")}}
	narrowed := FilterState{
		Colors: []string{"Alb"},
		Facets: map[string]FacetValue{"finish": singleSelect("Mat")},
	}

	baseResult := Apply(products, base)
	narrowedResult := Apply(products, narrowed)
	assert.LessOrEqual(t, len(narrowedResult), len(baseResult))

	// Every narrowed survivor also survives the weaker filter.
	baseNames := make(map[string]bool)
	for _, p := range baseResult {
		baseNames[p.Name] = true
	}
	for _, p := range narrowedResult {
		assert.True(t, baseNames[p.Name])
	}
}

func TestApplyIdempotence(t *testing.T) {
	products := []models.Product{
		{Name: "A", Price: 10, Color: "Alb"},
		{Name: "B", Price: 20, Color: "Gri"},
		{Name: "C", Price: 30, Color: "Alb"},
	}
	state := FilterState{Colors: []string{"Alb"}, PriceRange: [2]float64{5, 25}}

	once := Apply(products, state)
	twice := Apply(once, state)
	assert.Equal(t, once, twice)
}

func TestApplyZeroRangeSentinelConstrainsNothing(t *testing.T) {
	products := []models.Product{{Name: "A", Price: 999}}
	result := Apply(products, FilterState{})
	assert.Len(t, result, 1)
}
