// internal/catalog/facets.go
package catalog

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ceramstore/ceramstore-backend/internal/models"
)

type FacetKind string

const (
	FacetKindString  FacetKind = "string"
	FacetKindBoolean FacetKind = "boolean"
	FacetKindNumeric FacetKind = "numeric"
	FacetKindArray   FacetKind = "array"
)

// Option is one selectable value of a facet, with the number of products
// carrying it.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Facet is one filterable attribute together with its candidate values,
// discovered from the full product set of a category.
type Facet struct {
	Key     string    `json:"key"`
	Label   string    `json:"label"`
	Kind    FacetKind `json:"kind"`
	Options []Option  `json:"options"`
}

func newCollator() *collate.Collator {
	return collate.New(language.Romanian)
}

// StringOptions collects the distinct trimmed non-empty string values of a
// facet key across products, ordered by Romanian collation. Products whose
// attribute is absent or not a string are skipped.
func StringOptions(products []models.Product, key string) []Option {
	counts := make(map[string]int)
	for i := range products {
		attr, ok := products[i].Attribute(key)
		if !ok {
			continue
		}
		s, ok := attr.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		counts[s]++
	}

	values := make([]string, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	c := newCollator()
	sort.SliceStable(values, func(i, j int) bool {
		return c.CompareString(values[i], values[j]) < 0
	})

	options := make([]Option, 0, len(values))
	for _, v := range values {
		options = append(options, Option{Value: v, Label: v, Count: counts[v]})
	}
	return options
}

// BooleanOptions emits a "true" option only when at least one product has the
// field set to true, and a "false" option only when at least one has it set
// to false. Offering the absent truth value would always produce an empty
// result set.
func BooleanOptions(products []models.Product, key string) []Option {
	var trueCount, falseCount int
	for i := range products {
		attr, ok := products[i].Attribute(key)
		if !ok {
			continue
		}
		b, ok := attr.(bool)
		if !ok {
			continue
		}
		if b {
			trueCount++
		} else {
			falseCount++
		}
	}

	var options []Option
	if trueCount > 0 {
		options = append(options, Option{Value: "true", Label: "Da", Count: trueCount})
	}
	if falseCount > 0 {
		options = append(options, Option{Value: "false", Label: "Nu", Count: falseCount})
	}
	return options
}

// NumericOptions collects distinct numeric values of a facet key, ordered
// numerically rather than lexically. Option values use the decimal string
// form of the number.
func NumericOptions(products []models.Product, key string) []Option {
	counts := make(map[float64]int)
	for i := range products {
		attr, ok := products[i].Attribute(key)
		if !ok {
			continue
		}
		f, ok := asFloat(attr)
		if !ok {
			continue
		}
		counts[f]++
	}

	values := make([]float64, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Float64s(values)

	options := make([]Option, 0, len(values))
	for _, v := range values {
		s := decimalString(v)
		options = append(options, Option{Value: s, Label: s, Count: counts[v]})
	}
	return options
}

// ArrayOptions flattens array-valued attributes (a product can belong to
// several application areas) before deduplication and counting.
func ArrayOptions(products []models.Product, key string) []Option {
	counts := make(map[string]int)
	for i := range products {
		attr, ok := products[i].Attribute(key)
		if !ok {
			continue
		}
		for _, item := range asStringSlice(attr) {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			counts[item]++
		}
	}

	values := make([]string, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	c := newCollator()
	sort.SliceStable(values, func(i, j int) bool {
		return c.CompareString(values[i], values[j]) < 0
	})

	options := make([]Option, 0, len(values))
	for _, v := range values {
		options = append(options, Option{Value: v, Label: v, Count: counts[v]})
	}
	return options
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func asStringSlice(v interface{}) []string {
	switch a := v.(type) {
	case []string:
		return a
	case []interface{}:
		out := make([]string, 0, len(a))
		for _, item := range a {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// decimalString renders a number the way it participates in filter matching:
// its shortest exact decimal form.
func decimalString(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
