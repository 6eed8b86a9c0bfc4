// internal/catalog/session.go
package catalog

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/ceramstore/ceramstore-backend/internal/models"
)

// ErrInvalidPriceRange blocks Apply while the entered minimum exceeds the
// entered maximum.
var ErrInvalidPriceRange = errors.New("minimum price exceeds maximum price")

// Session mediates between facet edits and filter application with a
// two-phase protocol: edits mutate only a pending copy, and the result set
// changes only on an explicit Apply. This avoids re-filtering on every
// keystroke and lets a dismissal revert cleanly.
type Session struct {
	mu sync.Mutex

	category models.CategoryCode
	products []models.Product
	facets   []Facet
	bounds   [2]float64

	pending      FilterState
	applied      FilterState
	priceInvalid bool
}

// NewSession derives facet definitions and price bounds from the full
// unfiltered product set of a category and starts with default (empty)
// filter state.
func NewSession(category models.CategoryCode, products []models.Product) *Session {
	s := &Session{category: category}
	s.reload(products)
	s.pending = s.defaultState()
	s.applied = s.defaultState()
	return s
}

func (s *Session) reload(products []models.Product) {
	s.products = products
	s.facets = FiltersForCategory(products, s.category)
	s.bounds = priceBounds(products)
}

func priceBounds(products []models.Product) [2]float64 {
	if len(products) == 0 {
		return [2]float64{0, 0}
	}
	min, max := products[0].Price, products[0].Price
	for i := range products {
		if products[i].Price < min {
			min = products[i].Price
		}
		if products[i].Price > max {
			max = products[i].Price
		}
	}
	return [2]float64{min, max}
}

func (s *Session) defaultState() FilterState {
	return FilterState{
		PriceRange: s.bounds,
		Facets:     make(map[string]FacetValue),
	}
}

// SetProducts replaces the full product set, recomputing facets and price
// bounds. The working price range is re-initialized only while it still holds
// the [0,0] sentinel, so a reload never clobbers a range the user is editing.
func (s *Session) SetProducts(products []models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reload(products)
	if s.pending.PriceRange == [2]float64{0, 0} {
		s.pending.PriceRange = s.bounds
	}
	if s.applied.PriceRange == [2]float64{0, 0} {
		s.applied.PriceRange = s.bounds
	}
}

// SetPriceInput records a price-field edit. Each side that parses as a number
// updates the pending range; when both sides parse and min exceeds max the
// session enters a blocking error state that disables Apply.
func (s *Session) SetPriceInput(minText, maxText string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	min, minOK := parsePrice(minText)
	max, maxOK := parsePrice(maxText)
	if minOK {
		s.pending.PriceRange[0] = min
	}
	if maxOK {
		s.pending.PriceRange[1] = max
	}
	s.priceInvalid = minOK && maxOK && min > max
}

func parsePrice(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(text, 64)
	return f, err == nil
}

// SetFacet updates one facet's pending selection.
func (s *Session) SetFacet(key string, value FacetValue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending.Facets == nil {
		s.pending.Facets = make(map[string]FacetValue)
	}
	s.pending.Facets[key] = value
}

// SetColors updates the pending color selection.
func (s *Session) SetColors(colors []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.Colors = append([]string(nil), colors...)
}

// Apply commits the pending state all-or-nothing and returns the committed
// filter. While the price range is invalid the commit is refused.
func (s *Session) Apply() (FilterState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.priceInvalid {
		return FilterState{}, ErrInvalidPriceRange
	}
	s.applied = s.pending.Clone()
	return s.applied.Clone(), nil
}

// Revert discards pending edits, restoring the last applied state. Used when
// the user dismisses the filter surface without applying.
func (s *Session) Revert() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = s.applied.Clone()
	s.priceInvalid = false
}

// Clear resets the pending state to category-derived defaults.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = s.defaultState()
	s.priceInvalid = false
}

// HasPendingChanges reports whether pending and applied state differ
// structurally, flagging unsaved edits.
func (s *Session) HasPendingChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !reflect.DeepEqual(normalize(s.pending), normalize(s.applied))
}

// HasActiveFilters reports whether the applied state constrains anything
// beyond the data-derived defaults; drives the filter-trigger badge.
func (s *Session) HasActiveFilters() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.applied.Colors) > 0 {
		return true
	}
	if s.applied.PriceRange != s.bounds && s.applied.PriceRange != [2]float64{0, 0} {
		return true
	}
	for _, v := range s.applied.Facets {
		if !v.IsEmpty() {
			return true
		}
	}
	return false
}

// PriceRangeInvalid reports the blocking validation state.
func (s *Session) PriceRangeInvalid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.priceInvalid
}

// Facets returns the derived facet definitions for rendering.
func (s *Session) Facets() []Facet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Facet(nil), s.facets...)
}

// PriceBounds returns the data-derived [min,max] of the full product set.
func (s *Session) PriceBounds() [2]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bounds
}

// Pending returns a copy of the working state.
func (s *Session) Pending() FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending.Clone()
}

// Applied returns a copy of the committed state.
func (s *Session) Applied() FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applied.Clone()
}

// Results filters the full product set by the applied state.
func (s *Session) Results() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Apply(s.products, s.applied)
}

// normalize maps equivalent empty representations onto one shape so the deep
// comparison does not flag nil-versus-empty differences.
func normalize(state FilterState) FilterState {
	out := FilterState{PriceRange: state.PriceRange}
	if len(state.Colors) > 0 {
		out.Colors = state.Colors
	}
	if len(state.Facets) > 0 {
		facets := make(map[string]FacetValue, len(state.Facets))
		for k, v := range state.Facets {
			if v.IsEmpty() {
				continue
			}
			facets[k] = v
		}
		if len(facets) > 0 {
			out.Facets = facets
		}
	}
	return out
}
