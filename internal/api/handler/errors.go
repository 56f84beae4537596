package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rkive250/MedNotify/internal/service"
	pkgerrors "github.com/rkive250/MedNotify/pkg/errors"
	"github.com/rkive250/MedNotify/pkg/response"
)

// Response codes:
//
//	10xxx  request / session
//	11xxx  accounts
//	12xxx  records
//	13xxx  delete requests
//	14xxx  displays
type errorMapping struct {
	err     error
	status  int
	code    int
	message string
}

var errorTable = []errorMapping{
	{service.ErrInvalidCredentials, http.StatusUnauthorized, 11001, "Correo o contraseña incorrectos"},
	{service.ErrEmailTaken, http.StatusConflict, 11002, "El correo ya está registrado"},
	{service.ErrWrongPassword, http.StatusUnauthorized, 11003, "Contraseña incorrecta"},
	{service.ErrRecordNotFound, http.StatusNotFound, 12001, "Registro no encontrado"},
	{service.ErrRecordForbidden, http.StatusForbidden, 12002, "No tienes permiso sobre este registro"},
	{service.ErrDeleteRequestNotFound, http.StatusNotFound, 13001, "Solicitud de eliminación no encontrada"},
	{service.ErrDeleteRequestExpired, http.StatusNotFound, 13002, "La solicitud de eliminación ha expirado"},
	{service.ErrNoDisplayData, http.StatusNotFound, 14001, "No hay registros para mostrar"},
}

// handleServiceError writes the response for any error returned by a service.
func handleServiceError(c *gin.Context, err error) {
	var verr *pkgerrors.ValidationError
	if errors.As(err, &verr) {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, verr.Reason, verr.Field)
		return
	}

	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			response.Error(c, m.status, m.code, m.message)
			return
		}
	}

	switch {
	case errors.Is(err, pkgerrors.ErrValidation):
		response.BadRequest(c, 10001, "Parámetros inválidos")
	case errors.Is(err, pkgerrors.ErrUnauthorized):
		response.Unauthorized(c, 10002, "No autenticado")
	case errors.Is(err, pkgerrors.ErrForbidden):
		response.Forbidden(c, 10003, "Acceso denegado")
	case errors.Is(err, pkgerrors.ErrNotFound):
		response.NotFound(c, 10006, "Recurso no encontrado")
	case errors.Is(err, pkgerrors.ErrConflict):
		response.Conflict(c, 10007, "Conflicto con el estado actual")
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}

// bindFailed answers a request whose body or query did not bind.
func bindFailed(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "El cuerpo de la solicitud es demasiado grande")
		return
	}
	response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "Parámetros inválidos", err.Error())
}
