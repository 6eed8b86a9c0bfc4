// internal/handlers/showroom.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ceramstore/ceramstore-backend/internal/services"
	"github.com/ceramstore/ceramstore-backend/internal/utils"
)

type ShowroomHandler struct {
	showroomService *services.ShowroomService
}

func NewShowroomHandler(showroomService *services.ShowroomService) *ShowroomHandler {
	return &ShowroomHandler{showroomService: showroomService}
}

// GET /showrooms
func (h *ShowroomHandler) GetShowrooms(c *gin.Context) {
	showrooms, err := h.showroomService.ListShowrooms(c.Query("city"))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"showrooms": showrooms})
}

// GET /showrooms/:id
func (h *ShowroomHandler) GetShowroom(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid showroom ID", nil)
		return
	}

	showroom, err := h.showroomService.GetShowroom(id)
	if err != nil {
		utils.NotFoundResponse(c, "Showroom")
		return
	}

	utils.SuccessResponse(c, showroom)
}

// POST /admin/showrooms
func (h *ShowroomHandler) CreateShowroom(c *gin.Context) {
	var req services.CreateShowroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	showroom, err := h.showroomService.CreateShowroom(&req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, showroom)
}

// PUT /admin/showrooms/:id
func (h *ShowroomHandler) UpdateShowroom(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid showroom ID", nil)
		return
	}

	var req services.UpdateShowroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	showroom, err := h.showroomService.UpdateShowroom(id, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, showroom)
}

// DELETE /admin/showrooms/:id
func (h *ShowroomHandler) DeleteShowroom(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid showroom ID", nil)
		return
	}

	if err := h.showroomService.DeleteShowroom(id); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Showroom deleted"})
}
