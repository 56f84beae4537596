package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rkive250/MedNotify/pkg/response"
)

// MustGetUserID extracts the user_id set by JWTAuth. On failure it writes a
// 401 and returns false; the caller should return immediately.
func MustGetUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "No autenticado")
		return 0, false
	}
	id, ok := v.(int64)
	if !ok || id <= 0 {
		response.Unauthorized(c, 10002, "No autenticado")
		return 0, false
	}
	return id, true
}

// tokenMeta returns the jti and expiry of the current access token.
func tokenMeta(c *gin.Context) (string, time.Time) {
	jti := c.GetString("token_jti")
	exp, _ := c.Get("token_exp")
	t, _ := exp.(time.Time)
	return jti, t
}

// paramID parses a positive numeric path parameter, writing a 400 otherwise.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "ID inválido", name)
		return 0, false
	}
	return id, true
}
