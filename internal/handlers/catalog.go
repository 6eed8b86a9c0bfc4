// internal/handlers/catalog.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/ceramstore/ceramstore-backend/internal/catalog"
	"github.com/ceramstore/ceramstore-backend/internal/models"
	"github.com/ceramstore/ceramstore-backend/internal/services"
	"github.com/ceramstore/ceramstore-backend/internal/utils"
)

// CatalogHandler serves the storefront's category browsing surface: facet
// vocabularies derived from the live product set, and filtered, sorted
// product listings. Filtering happens in-process over the category's full
// active set, so facet counts and results always agree.
type CatalogHandler struct {
	productService  *services.ProductService
	categoryService *services.CategoryService
}

func NewCatalogHandler(productService *services.ProductService, categoryService *services.CategoryService) *CatalogHandler {
	return &CatalogHandler{
		productService:  productService,
		categoryService: categoryService,
	}
}

// FilterRequest carries one search over a category. Price bounds arrive as
// strings straight from the storefront's inputs; unparsable sides are simply
// ignored, but a parsed minimum above a parsed maximum rejects the request.
type FilterRequest struct {
	PriceMin string                        `json:"price_min,omitempty"`
	PriceMax string                        `json:"price_max,omitempty"`
	Colors   []string                      `json:"colors,omitempty"`
	Facets   map[string]catalog.FacetValue `json:"facets,omitempty"`
	Sort     string                        `json:"sort,omitempty"`
}

// GET /catalog/:category
func (h *CatalogHandler) GetCategoryCatalog(c *gin.Context) {
	code := models.CategoryCode(c.Param("category"))

	category, err := h.categoryService.GetByCode(code)
	if err != nil {
		utils.NotFoundResponse(c, "Category")
		return
	}

	products, err := h.productService.CategoryProducts(code)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	session := catalog.NewSession(code, products)
	facets := visibleFacets(session.Facets(), category)

	sorted := catalog.Sort(products, catalog.SortFeatured)

	utils.SuccessResponse(c, gin.H{
		"category":     category,
		"products":     sorted,
		"facets":       facets,
		"price_bounds": session.PriceBounds(),
		"total":        len(sorted),
	})
}

// POST /catalog/:category/search
func (h *CatalogHandler) SearchCategory(c *gin.Context) {
	code := models.CategoryCode(c.Param("category"))

	category, err := h.categoryService.GetByCode(code)
	if err != nil {
		utils.NotFoundResponse(c, "Category")
		return
	}

	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	products, err := h.productService.CategoryProducts(code)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	session := catalog.NewSession(code, products)
	session.SetPriceInput(req.PriceMin, req.PriceMax)
	session.SetColors(req.Colors)
	for key, value := range req.Facets {
		session.SetFacet(key, value)
	}

	applied, err := session.Apply()
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidPriceRange) {
			utils.BadRequestResponse(c, "Minimum price exceeds maximum price", nil)
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	results := catalog.Sort(session.Results(), catalog.SortKey(req.Sort))

	utils.SuccessResponse(c, gin.H{
		"products": results,
		"facets":   visibleFacets(session.Facets(), category),
		"applied":  applied,
		"total":    len(results),
	})
}

// visibleFacets drops facets the category's admin settings hide from the
// storefront.
func visibleFacets(facets []catalog.Facet, category *models.Category) []catalog.Facet {
	out := make([]catalog.Facet, 0, len(facets))
	for _, f := range facets {
		if category.SpecVisible(f.Key) {
			out = append(out, f)
		}
	}
	return out
}
