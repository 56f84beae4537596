package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/rkive250/MedNotify/internal/dto"
	"github.com/rkive250/MedNotify/internal/service"
	"github.com/rkive250/MedNotify/pkg/response"
)

// DeleteRequestHandler confirms or cancels pending deletions.
type DeleteRequestHandler struct {
	deleteSvc service.DeleteService
}

// NewDeleteRequestHandler creates a DeleteRequestHandler.
func NewDeleteRequestHandler(deleteSvc service.DeleteService) *DeleteRequestHandler {
	return &DeleteRequestHandler{deleteSvc: deleteSvc}
}

// Confirm executes a pending deletion after re-checking the password.
// POST /api/v1/delete-requests/confirm
func (h *DeleteRequestHandler) Confirm(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ConfirmDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	if err := h.deleteSvc.Confirm(c.Request.Context(), userID, &req); err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, gin.H{"message": service.DeleteSuccessMessage})
}

// Cancel drops a pending deletion.
// DELETE /api/v1/delete-requests/:id
func (h *DeleteRequestHandler) Cancel(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.deleteSvc.Cancel(c.Request.Context(), userID, c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, nil)
}
