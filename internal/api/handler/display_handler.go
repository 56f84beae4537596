package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/rkive250/MedNotify/internal/service"
	"github.com/rkive250/MedNotify/pkg/response"
)

// DisplayHandler serves the unauthenticated companion screens.
type DisplayHandler struct {
	displaySvc service.DisplayService
}

// NewDisplayHandler creates a DisplayHandler.
func NewDisplayHandler(displaySvc service.DisplayService) *DisplayHandler {
	return &DisplayHandler{displaySvc: displaySvc}
}

// Latest returns the newest reading of each vital type for a user.
// Smartwatch and TV share the payload.
// GET /api/v1/displays/smartwatch/:user_id
// GET /api/v1/displays/tv/:user_id
func (h *DisplayHandler) Latest(c *gin.Context) {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return
	}

	result, err := h.displaySvc.Latest(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// ReferenceRanges returns the static normal ranges.
// GET /api/v1/health/reference-ranges
func (h *DisplayHandler) ReferenceRanges(c *gin.Context) {
	response.OK(c, h.displaySvc.ReferenceRanges())
}
