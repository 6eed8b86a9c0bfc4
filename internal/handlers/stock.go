// internal/handlers/stock.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ceramstore/ceramstore-backend/internal/inventory"
	"github.com/ceramstore/ceramstore-backend/internal/models"
	"github.com/ceramstore/ceramstore-backend/internal/utils"
)

type StockHandler struct {
	service *inventory.SQLService
}

func NewStockHandler(service *inventory.SQLService) *StockHandler {
	return &StockHandler{service: service}
}

// GET /stock/:productId
// Optional warehouse_id query; defaults to the default warehouse.
func (h *StockHandler) GetStatus(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	warehouseID := uuid.Nil
	if s := c.Query("warehouse_id"); s != "" {
		if warehouseID, err = uuid.Parse(s); err != nil {
			utils.BadRequestResponse(c, "Invalid warehouse ID", nil)
			return
		}
	}
	if warehouseID == uuid.Nil {
		if warehouseID, err = h.service.DefaultWarehouse(c.Request.Context()); err != nil {
			utils.InternalErrorResponse(c, err.Error())
			return
		}
	}

	record, err := h.service.FetchRecord(c.Request.Context(), productID, warehouseID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	if record == nil {
		record = &models.InventoryRecord{ProductID: productID, WarehouseID: warehouseID}
	}

	utils.SuccessResponse(c, gin.H{
		"record": record,
		"status": inventory.ComputeStatus(record),
	})
}

// POST /stock/:productId/reserve
func (h *StockHandler) Reserve(c *gin.Context) {
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

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	var req struct {
		WarehouseID *uuid.UUID `json:"warehouse_id,omitempty"`
		Quantity    int        `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	warehouseID := uuid.Nil
	if req.WarehouseID != nil {
		warehouseID = *req.WarehouseID
	}
	if warehouseID == uuid.Nil {
		if warehouseID, err = h.service.DefaultWarehouse(c.Request.Context()); err != nil {
			utils.InternalErrorResponse(c, err.Error())
			return
		}
	}

	reservationID, err := h.service.Reserve(c.Request.Context(), productID, warehouseID, userID, req.Quantity, inventory.DefaultHoldDuration)
	if err != nil {
		if errors.Is(err, inventory.ErrInsufficientStock) {
			utils.ConflictResponse(c, "Insufficient stock available")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.CreatedResponse(c, gin.H{"reservation_id": reservationID})
}

// DELETE /stock/reservations/:id
func (h *StockHandler) Release(c *gin.Context) {
	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid reservation ID", nil)
		return
	}

	if err := h.service.Release(c.Request.Context(), reservationID); err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Reservation released"})
}

// POST /stock/reservations/:id/confirm
func (h *StockHandler) Confirm(c *gin.Context) {
	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid reservation ID", nil)
		return
	}

	confirmed, err := h.service.Confirm(c.Request.Context(), reservationID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	if !confirmed {
		utils.ConflictResponse(c, "Reservation is no longer active")
		return
	}

	utils.SuccessResponse(c, gin.H{"confirmed": true})
}

// POST /admin/stock/:productId/adjust
func (h *StockHandler) AdjustStock(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	var req struct {
		WarehouseID *uuid.UUID `json:"warehouse_id,omitempty"`
		Delta       int        `json:"delta" binding:"required"`
		Type        string     `json:"type" binding:"required,oneof=inbound outbound adjustment"`
		Reference   string     `json:"reference,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	warehouseID := uuid.Nil
	if req.WarehouseID != nil {
		warehouseID = *req.WarehouseID
	}
	if warehouseID == uuid.Nil {
		if warehouseID, err = h.service.DefaultWarehouse(c.Request.Context()); err != nil {
			utils.InternalErrorResponse(c, err.Error())
			return
		}
	}

	var actor *uuid.UUID
	if userIDStr, ok := utils.GetUserIDFromContext(c); ok {
		if parsed, err := uuid.Parse(userIDStr); err == nil {
			actor = &parsed
		}
	}

	err = h.service.AdjustStock(c.Request.Context(), productID, warehouseID, req.Delta, models.MovementType(req.Type), req.Reference, actor)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Stock adjusted"})
}

// POST /admin/stock/sweep
func (h *StockHandler) SweepExpired(c *gin.Context) {
	swept, err := h.service.SweepExpired(c.Request.Context())
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"swept": swept})
}

// POST /admin/stock/resync
func (h *StockHandler) ResyncReserved(c *gin.Context) {
	if err := h.service.ResyncReserved(c.Request.Context()); err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Reserved quantities resynced"})
}
