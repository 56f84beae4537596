package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/rkive250/MedNotify/config"
	"github.com/rkive250/MedNotify/internal/repository"
	"github.com/rkive250/MedNotify/pkg/jwt"
	"github.com/rkive250/MedNotify/pkg/push"
)

// Service is the aggregate entry point for all services.
type Service struct {
	Auth         AuthService
	Record       RecordService
	Delete       DeleteService
	Notification NotificationService
	Display      DisplayService
	Export       ExportService
}

// NewService wires every service over one repository and push transport.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	transport push.Transport,
	logger *zap.Logger,
) *Service {
	notifier := NewNotifier(repo, transport, logger)
	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, blacklist, logger),
		Record:       NewRecordService(repo, notifier, time.Now, logger),
		Delete:       NewDeleteService(repo, notifier, cfg.DeleteRequest.TTL, time.Now, logger),
		Notification: NewNotificationService(repo, logger),
		Display:      NewDisplayService(repo, logger),
		Export:       NewExportService(repo, logger),
	}
}
