package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/rkive250/MedNotify/internal/dto"
	"github.com/rkive250/MedNotify/internal/model"
	"github.com/rkive250/MedNotify/internal/service"
	"github.com/rkive250/MedNotify/pkg/response"
)

// RecordRoute binds a URL segment to the record type it serves.
type RecordRoute struct {
	Path string
	Type model.RecordType
}

// RecordRoutes lists the per-type resource collections.
var RecordRoutes = []RecordRoute{
	{"glucose", model.RecordGlucose},
	{"blood-pressure", model.RecordBloodPressure},
	{"oxygenation", model.RecordOxygenation},
	{"heart-rate", model.RecordHeartRate},
	{"medications", model.RecordMedication},
}

// RecordHandler serves measurements and medications.
type RecordHandler struct {
	recordSvc service.RecordService
	deleteSvc service.DeleteService
}

// NewRecordHandler creates a RecordHandler.
func NewRecordHandler(recordSvc service.RecordService, deleteSvc service.DeleteService) *RecordHandler {
	return &RecordHandler{recordSvc: recordSvc, deleteSvc: deleteSvc}
}

// Create stores a vital-sign reading of the type named in the body.
// POST /api/v1/records
func (h *RecordHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.recordSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, result)
}

// CreateMedication records a medication intake.
// POST /api/v1/medications
func (h *RecordHandler) CreateMedication(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateMedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.recordSvc.CreateMedication(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, result)
}

// List returns the caller's records of type t, newest first.
// GET /api/v1/{type}?date=YYYY-MM-DD
func (h *RecordHandler) List(t model.RecordType) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := MustGetUserID(c)
		if !ok {
			return
		}

		var q dto.ListRecordsQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			bindFailed(c, err)
			return
		}

		list, err := h.recordSvc.List(c.Request.Context(), userID, t, q.Date)
		if err != nil {
			handleServiceError(c, err)
			return
		}

		response.OK(c, gin.H{"list": list})
	}
}

// Get returns one record.
// GET /api/v1/{type}/:id
func (h *RecordHandler) Get(t model.RecordType) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := MustGetUserID(c)
		if !ok {
			return
		}
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		rec, err := h.recordSvc.Get(c.Request.Context(), userID, t, id)
		if err != nil {
			handleServiceError(c, err)
			return
		}

		response.OK(c, rec)
	}
}

// Update applies a partial update.
// PUT /api/v1/{type}/:id
func (h *RecordHandler) Update(t model.RecordType) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := MustGetUserID(c)
		if !ok {
			return
		}
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		var req dto.UpdateRecordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindFailed(c, err)
			return
		}

		rec, err := h.recordSvc.Update(c.Request.Context(), userID, t, id, &req)
		if err != nil {
			handleServiceError(c, err)
			return
		}

		response.OK(c, rec)
	}
}

// Delete does not remove anything yet: it opens a delete request that the
// owner confirms with their password.
// DELETE /api/v1/{type}/:id
func (h *RecordHandler) Delete(t model.RecordType) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := MustGetUserID(c)
		if !ok {
			return
		}
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		result, err := h.deleteSvc.Request(c.Request.Context(), userID, t, id)
		if err != nil {
			handleServiceError(c, err)
			return
		}

		response.Created(c, result)
	}
}
