package handler

import "github.com/rkive250/MedNotify/internal/service"

// Handler aggregates every HTTP handler.
type Handler struct {
	Auth          *AuthHandler
	Record        *RecordHandler
	DeleteRequest *DeleteRequestHandler
	Notification  *NotificationHandler
	Display       *DisplayHandler
	Export        *ExportHandler
}

// NewHandler builds the handler aggregate.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:          NewAuthHandler(svc.Auth),
		Record:        NewRecordHandler(svc.Record, svc.Delete),
		DeleteRequest: NewDeleteRequestHandler(svc.Delete),
		Notification:  NewNotificationHandler(svc.Notification),
		Display:       NewDisplayHandler(svc.Display),
		Export:        NewExportHandler(svc.Export),
	}
}
