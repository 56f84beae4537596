package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rkive250/MedNotify/internal/dto"
	"github.com/rkive250/MedNotify/internal/model"
	"github.com/rkive250/MedNotify/internal/repository"
)

// NotificationService reads the notification feed.
type NotificationService interface {
	List(ctx context.Context, userID int64) ([]dto.NotificationResponse, error)
}

type notificationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNotificationService creates a NotificationService.
func NewNotificationService(repo *repository.Repository, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

func (s *notificationService) List(ctx context.Context, userID int64) ([]dto.NotificationResponse, error) {
	list, err := s.repo.Notification.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("list notifications failed", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}

	out := make([]dto.NotificationResponse, 0, len(list))
	for i := range list {
		n := &list[i]
		resp := dto.NotificationResponse{
			ID:              n.ID,
			Message:         n.Message,
			Date:            n.NotifyOn.Format(model.DateLayout),
			Time:            model.NormalizeClock(n.NotifyAt),
			DeleteRequestID: n.DeleteRequestID,
			RecordID:        n.RecordID,
			CreatedAt:       n.CreatedAt.Format(time.RFC3339),
		}
		if n.RecordType != nil {
			rt := string(*n.RecordType)
			resp.RecordType = &rt
		}
		out = append(out, resp)
	}
	return out, nil
}
