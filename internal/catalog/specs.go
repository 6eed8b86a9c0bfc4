// internal/catalog/specs.go
package catalog

import (
	"github.com/ceramstore/ceramstore-backend/internal/models"
)

// FacetSpec declares one facet of a category vocabulary: the attribute key,
// the storefront label and how its candidate values are extracted.
type FacetSpec struct {
	Key   string
	Label string
	Kind  FacetKind
}

// Per-category facet vocabularies, in display order: core properties first,
// then brand/quality, technical specs, capabilities, suitability and finally
// application areas. Facets are discovered from data, so a spec listed here
// is omitted whenever no product of the category populates it.
var categorySpecifications = map[models.CategoryCode][]FacetSpec{
	models.CategoryFaianta: {
		{Key: "dimension", Label: "Dimensiune", Kind: FacetKindString},
		{Key: "finish", Label: "Finisaj", Kind: FacetKindString},
		{Key: "texture", Label: "Textura", Kind: FacetKindString},
		{Key: "brand", Label: "Brand", Kind: FacetKindString},
		{Key: "quality_grade", Label: "Calitate", Kind: FacetKindNumeric},
		{Key: "thickness_mm", Label: "Grosime (mm)", Kind: FacetKindNumeric},
		{Key: "is_rectified", Label: "Rectificata", Kind: FacetKindBoolean},
		{Key: "suitable_bathroom", Label: "Potrivita pentru baie", Kind: FacetKindBoolean},
		{Key: "suitable_kitchen", Label: "Potrivita pentru bucatarie", Kind: FacetKindBoolean},
		{Key: "application_areas", Label: "Zone de aplicare", Kind: FacetKindArray},
	},
	models.CategoryGresie: {
		{Key: "dimension", Label: "Dimensiune", Kind: FacetKindString},
		{Key: "material", Label: "Material", Kind: FacetKindString},
		{Key: "finish", Label: "Finisaj", Kind: FacetKindString},
		{Key: "brand", Label: "Brand", Kind: FacetKindString},
		{Key: "quality_grade", Label: "Calitate", Kind: FacetKindNumeric},
		{Key: "thickness_mm", Label: "Grosime (mm)", Kind: FacetKindNumeric},
		{Key: "weight_per_sqm", Label: "Greutate (kg/mp)", Kind: FacetKindNumeric},
		{Key: "is_rectified", Label: "Rectificata", Kind: FacetKindBoolean},
		{Key: "is_frost_resistant", Label: "Rezistenta la inghet", Kind: FacetKindBoolean},
		{Key: "is_anti_slip", Label: "Antiderapanta", Kind: FacetKindBoolean},
		{Key: "suitable_exterior", Label: "Potrivita pentru exterior", Kind: FacetKindBoolean},
		{Key: "application_areas", Label: "Zone de aplicare", Kind: FacetKindArray},
	},
	models.CategoryPavaj: {
		{Key: "dimension", Label: "Dimensiune", Kind: FacetKindString},
		{Key: "material", Label: "Material", Kind: FacetKindString},
		{Key: "brand", Label: "Brand", Kind: FacetKindString},
		{Key: "thickness_mm", Label: "Grosime (mm)", Kind: FacetKindNumeric},
		{Key: "weight_per_sqm", Label: "Greutate (kg/mp)", Kind: FacetKindNumeric},
		{Key: "is_frost_resistant", Label: "Rezistent la inghet", Kind: FacetKindBoolean},
		{Key: "application_areas", Label: "Zone de aplicare", Kind: FacetKindArray},
	},
}

// Generic vocabulary for categories without a dedicated one.
var defaultSpecifications = []FacetSpec{
	{Key: "dimension", Label: "Dimensiune", Kind: FacetKindString},
	{Key: "material", Label: "Material", Kind: FacetKindString},
	{Key: "brand", Label: "Brand", Kind: FacetKindString},
	{Key: "application_areas", Label: "Zone de aplicare", Kind: FacetKindArray},
}

// SpecsForCategory returns the ordered facet vocabulary of a category.
func SpecsForCategory(code models.CategoryCode) []FacetSpec {
	if specs, ok := categorySpecifications[code]; ok {
		return specs
	}
	return defaultSpecifications
}

// FiltersForCategory derives the facet definitions of a category from the
// entire unfiltered product set. Deriving from the full set, not the current
// result, keeps facets from disappearing while the user narrows down.
// A facet whose option list comes out empty is dropped so the storefront
// never renders a control with zero choices.
func FiltersForCategory(products []models.Product, code models.CategoryCode) []Facet {
	specs := SpecsForCategory(code)
	facets := make([]Facet, 0, len(specs))
	for _, spec := range specs {
		var options []Option
		switch spec.Kind {
		case FacetKindBoolean:
			options = BooleanOptions(products, spec.Key)
		case FacetKindNumeric:
			options = NumericOptions(products, spec.Key)
		case FacetKindArray:
			options = ArrayOptions(products, spec.Key)
		default:
			options = StringOptions(products, spec.Key)
		}
		if len(options) == 0 {
			continue
		}
		facets = append(facets, Facet{
			Key:     spec.Key,
			Label:   spec.Label,
			Kind:    spec.Kind,
			Options: options,
		})
	}
	return facets
}
