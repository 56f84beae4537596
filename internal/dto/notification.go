package dto

// ── notification & delete workflow DTOs ──

// ConfirmDeleteRequest executes a pending deletion.
type ConfirmDeleteRequest struct {
	DeleteRequestID string `json:"delete_request_id" binding:"required"`
	Password        string `json:"password"          binding:"required"`
}

// NotificationResponse is one entry of the notification feed.
type NotificationResponse struct {
	ID              int64   `json:"id"`
	Message         string  `json:"message"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	DeleteRequestID *string `json:"delete_request_id,omitempty"`
	RecordType      *string `json:"record_type,omitempty"`
	RecordID        *int64  `json:"record_id,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

// DeleteRequestResponse is returned when a deletion is requested.
type DeleteRequestResponse struct {
	DeleteRequestID string `json:"delete_request_id"`
	Message         string `json:"message"`
	PushDelivered   bool   `json:"push_delivered"`
}

// ── companion displays ──

// DisplayResponse is the latest reading of each vital type, "N/A" when absent.
type DisplayResponse struct {
	BloodPressure string `json:"presion_arterial"`
	Oxygenation   string `json:"oxigenacion"`
	Glucose       string `json:"glucosa"`
	HeartRate     string `json:"frecuencia_cardiaca"`
}
