package dto

// ── measurement DTOs ──

// CreateRecordRequest creates one vital-sign reading. Type selects which of
// the value fields are read: glucose/oxygenation/heart_rate use Value,
// blood_pressure uses Systolic and Diastolic.
type CreateRecordRequest struct {
	Type      string   `json:"type"      binding:"required"`
	Date      string   `json:"date"      binding:"required"` // YYYY-MM-DD
	Time      string   `json:"time"      binding:"required"` // HH:MM:SS
	Value     *float64 `json:"value"`
	Systolic  *int     `json:"systolic"`
	Diastolic *int     `json:"diastolic"`
}

// CreateMedicationRequest records a medication intake.
type CreateMedicationRequest struct {
	Name     string  `json:"name"     binding:"required,max=100"`
	Dose     string  `json:"dose"     binding:"required,max=50"`
	Date     string  `json:"date"     binding:"required"`
	Time     string  `json:"time"     binding:"required"`
	Symptoms *string `json:"symptoms"`
}

// UpdateRecordRequest is a partial update. Only fields that apply to the
// addressed record type are read; nil fields are left unchanged.
type UpdateRecordRequest struct {
	Date      *string  `json:"date"`
	Time      *string  `json:"time"`
	Value     *float64 `json:"value"`
	Systolic  *int     `json:"systolic"`
	Diastolic *int     `json:"diastolic"`
	Name      *string  `json:"name"     binding:"omitempty,max=100"`
	Dose      *string  `json:"dose"     binding:"omitempty,max=50"`
	Symptoms  *string  `json:"symptoms"`
}

// ListRecordsQuery filters a record list by day.
type ListRecordsQuery struct {
	Date string `form:"date"`
}

// ── measurement responses ──

// RecordResponse renders any measurement. Fields that do not apply to Type are omitted.
type RecordResponse struct {
	ID        int64    `json:"id"`
	Type      string   `json:"type"`
	Date      string   `json:"date"`
	Time      string   `json:"time"`
	Value     *float64 `json:"value,omitempty"`
	Systolic  *int     `json:"systolic,omitempty"`
	Diastolic *int     `json:"diastolic,omitempty"`
	Name      string   `json:"name,omitempty"`
	Dose      string   `json:"dose,omitempty"`
	Symptoms  *string  `json:"symptoms,omitempty"`
	CreatedAt string   `json:"created_at"`
}

// CreateRecordResponse acknowledges a create.
type CreateRecordResponse struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	SummarySent bool   `json:"summary_sent"`
}
