package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/rkive250/MedNotify/internal/dto"
	"github.com/rkive250/MedNotify/internal/service"
	"github.com/rkive250/MedNotify/pkg/response"
)

// AuthHandler serves accounts, sessions and device tokens.
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register creates an account.
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, result)
}

// Login exchanges credentials for an access token.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// Logout revokes the current token. The body is optional.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		bindFailed(c, err)
		return
	}

	jti, exp := tokenMeta(c)
	if err := h.authSvc.Logout(c.Request.Context(), userID, jti, exp, req.DeviceToken); err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, nil)
}

// SaveDeviceToken registers a push token for the caller.
// POST /api/v1/devices/token
func (h *AuthHandler) SaveDeviceToken(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SaveDeviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	if err := h.authSvc.SaveDeviceToken(c.Request.Context(), userID, req.Token); err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, nil)
}

// DeleteAccount removes the caller and everything it owns.
// DELETE /api/v1/account
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.DeleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	if err := h.authSvc.DeleteAccount(c.Request.Context(), userID, req.Password); err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, gin.H{"message": "Cuenta eliminada correctamente"})
}
