// internal/catalog/filter.go
package catalog

import (
	"strconv"
	"strings"

	"github.com/ceramstore/ceramstore-backend/internal/models"
)

// FacetValue is one facet's selection inside a FilterState. Multi-select
// facets use Values; single-select and boolean facets use Value (booleans
// serialized as "true"/"false"). A zero FacetValue means no constraint.
type FacetValue struct {
	Values []string `json:"values,omitempty"`
	Value  string   `json:"value,omitempty"`
}

func (v FacetValue) IsEmpty() bool {
	return len(v.Values) == 0 && strings.TrimSpace(v.Value) == ""
}

// FilterState maps facet keys to selections, plus the fixed price range and
// color constraints. Absent keys, empty slices and empty strings all mean
// "no constraint for that facet".
type FilterState struct {
	PriceRange [2]float64            `json:"price_range"`
	Colors     []string              `json:"colors"`
	Facets     map[string]FacetValue `json:"facets"`
}

// Clone returns a deep copy; sessions hand out clones so callers cannot
// mutate committed state behind the session's back.
func (s FilterState) Clone() FilterState {
	out := FilterState{PriceRange: s.PriceRange}
	if s.Colors != nil {
		out.Colors = append([]string(nil), s.Colors...)
	}
	if s.Facets != nil {
		out.Facets = make(map[string]FacetValue, len(s.Facets))
		for k, v := range s.Facets {
			cp := FacetValue{Value: v.Value}
			if v.Values != nil {
				cp.Values = append([]string(nil), v.Values...)
			}
			out.Facets[k] = cp
		}
	}
	return out
}

// Apply narrows products to those satisfying every non-empty constraint of
// the filter state. Constraints conjoin: there is no OR across facets and no
// facet negation.
func Apply(products []models.Product, state FilterState) []models.Product {
	result := make([]models.Product, 0, len(products))
	for i := range products {
		if matchesProduct(&products[i], state) {
			result = append(result, products[i])
		}
	}
	return result
}

func matchesProduct(p *models.Product, state FilterState) bool {
	if !priceInRange(p.Price, state.PriceRange) {
		return false
	}

	if len(state.Colors) > 0 {
		color := strings.TrimSpace(p.Color)
		found := false
		for _, c := range state.Colors {
			if color == strings.TrimSpace(c) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	for key, value := range state.Facets {
		if value.IsEmpty() {
			continue
		}
		if !matchesFacet(p, key, value) {
			return false
		}
	}
	return true
}

// A [0,0] range is the uninitialized sentinel and constrains nothing.
func priceInRange(price float64, r [2]float64) bool {
	if r[0] == 0 && r[1] == 0 {
		return true
	}
	return price >= r[0] && price <= r[1]
}

// matchesFacet applies the type-directed comparison rules. A product lacking
// the attribute entirely never matches a non-empty constraint.
func matchesFacet(p *models.Product, key string, value FacetValue) bool {
	attr, ok := p.Attribute(key)
	if !ok {
		return false
	}

	if len(value.Values) > 0 {
		if items := asStringSlice(attr); items != nil {
			return anyOverlap(items, value.Values)
		}
		attrStr := scalarString(attr)
		for _, want := range value.Values {
			if attrStr == strings.TrimSpace(want) {
				return true
			}
		}
		return false
	}

	want := strings.TrimSpace(value.Value)
	if want == "true" || want == "false" {
		if b, ok := attr.(bool); ok {
			return strconv.FormatBool(b) == want
		}
		// Fall through: string-typed attributes may hold the literal.
	}
	return scalarString(attr) == want
}

// anyOverlap reports whether the two sets share a member, compared
// case-insensitively after trimming.
func anyOverlap(attrItems, wanted []string) bool {
	for _, item := range attrItems {
		item = strings.ToLower(strings.TrimSpace(item))
		for _, want := range wanted {
			if item == strings.ToLower(strings.TrimSpace(want)) {
				return true
			}
		}
	}
	return false
}

// scalarString renders a scalar attribute for comparison: strings trimmed,
// numbers in decimal string form, booleans as "true"/"false".
func scalarString(v interface{}) string {
	switch a := v.(type) {
	case string:
		return strings.TrimSpace(a)
	case bool:
		return strconv.FormatBool(a)
	default:
		if f, ok := asFloat(v); ok {
			return decimalString(f)
		}
	}
	return ""
}
