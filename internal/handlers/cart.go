// internal/handlers/cart.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ceramstore/ceramstore-backend/internal/cart"
	"github.com/ceramstore/ceramstore-backend/internal/inventory"
	"github.com/ceramstore/ceramstore-backend/internal/services"
	"github.com/ceramstore/ceramstore-backend/internal/utils"
)

// CartHandler exposes the authenticated cart. Anonymous carts live entirely
// client-side; they reach the backend only through the merge endpoint at
// sign-in, which adopts their lines and places holds for them.
type CartHandler struct {
	repo           cart.LineRepository
	reservations   inventory.ReservationService
	reader         inventory.InventoryReader
	productService *services.ProductService
}

func NewCartHandler(repo cart.LineRepository, reservations inventory.ReservationService, reader inventory.InventoryReader, productService *services.ProductService) *CartHandler {
	return &CartHandler{
		repo:           repo,
		reservations:   reservations,
		reader:         reader,
		productService: productService,
	}
}

func (h *CartHandler) userStore(c *gin.Context) (*cart.Store, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return nil, false
	}

	store := cart.NewStore(h.repo, h.reservations, h.reader, &userID)
	if err := store.Load(c.Request.Context()); err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return nil, false
	}
	return store, true
}

func cartPayload(store *cart.Store) gin.H {
	return gin.H{
		"items":       store.Items(),
		"total_items": store.TotalItems(),
		"total_price": store.TotalPrice(),
		"holds":       store.Holds(),
	}
}

// GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	store, ok := h.userStore(c)
	if !ok {
		return
	}
	utils.SuccessResponse(c, cartPayload(store))
}

// POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	store, ok := h.userStore(c)
	if !ok {
		return
	}

	var req struct {
		ProductID uuid.UUID `json:"product_id" binding:"required"`
		Quantity  int       `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := h.productService.GetProduct(req.ProductID)
	if err != nil {
		utils.NotFoundResponse(c, "Product")
		return
	}

	if err := store.AddItem(c.Request.Context(), *product, req.Quantity); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, cartPayload(store))
}

// PUT /cart/items/:productId
func (h *CartHandler) UpdateItem(c *gin.Context) {
	store, ok := h.userStore(c)
	if !ok {
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if err := store.UpdateQuantity(c.Request.Context(), productID, req.Quantity); err != nil {
		utils.NotFoundResponse(c, "Cart line")
		return
	}

	utils.SuccessResponse(c, cartPayload(store))
}

// DELETE /cart/items/:productId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	store, ok := h.userStore(c)
	if !ok {
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	if err := store.RemoveItem(c.Request.Context(), productID); err != nil {
		utils.NotFoundResponse(c, "Cart line")
		return
	}

	utils.SuccessResponse(c, cartPayload(store))
}

// DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	store, ok := h.userStore(c)
	if !ok {
		return
	}

	saveAsAbandoned := false
	if s := c.Query("save_abandoned"); s != "" {
		saveAsAbandoned, _ = strconv.ParseBool(s)
	}

	if err := store.Clear(c.Request.Context(), saveAsAbandoned); err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, cartPayload(store))
}

// POST /cart/merge
// Called at sign-in with the lines the client accumulated anonymously.
func (h *CartHandler) MergeCart(c *gin.Context) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	var req struct {
		Items []struct {
			ProductID uuid.UUID `json:"product_id" binding:"required"`
			Quantity  int       `json:"quantity" binding:"required,min=1"`
		} `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	// Rebuild the anonymous cart server-side, then adopt it.
	store := cart.NewStore(h.repo, h.reservations, h.reader, nil)
	for _, item := range req.Items {
		product, err := h.productService.GetProduct(item.ProductID)
		if err != nil {
			continue
		}
		if err := store.AddItem(c.Request.Context(), *product, item.Quantity); err != nil {
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}
	}

	if err := store.MergeAnonymousCart(c.Request.Context(), userID); err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, cartPayload(store))
}
