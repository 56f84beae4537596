package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/rkive250/MedNotify/internal/repository"
	"github.com/rkive250/MedNotify/pkg/push"
)

// Push titles.
const (
	TitleGlucose        = "WHS Medicine - Glucosa"
	TitleDailySummary   = "WHS Medicine - Resumen Diario"
	TitleConfirmDelete  = "WHS Medicine - Confirmar Eliminación"
	TitleDeleteComplete = "WHS Medicine - Eliminación Exitosa"
)

// Notifier fans a push message out to every device of a user.
type Notifier interface {
	// Send reports whether at least one device accepted the message. Tokens
	// the transport rejects as invalid are removed. Failures are logged and
	// never returned.
	Send(ctx context.Context, userID int64, title, body string, data map[string]string) bool
}

type pushNotifier struct {
	repo      *repository.Repository
	transport push.Transport
	logger    *zap.Logger
}

// NewNotifier creates a Notifier over transport.
func NewNotifier(repo *repository.Repository, transport push.Transport, logger *zap.Logger) Notifier {
	return &pushNotifier{repo: repo, transport: transport, logger: logger}
}

func (n *pushNotifier) Send(ctx context.Context, userID int64, title, body string, data map[string]string) bool {
	tokens, err := n.repo.DeviceToken.ListByUser(ctx, userID)
	if err != nil {
		n.logger.Error("list device tokens failed", zap.Int64("user_id", userID), zap.Error(err))
		return false
	}
	if len(tokens) == 0 {
		n.logger.Debug("no device tokens, push skipped", zap.Int64("user_id", userID), zap.String("title", title))
		return false
	}

	msg := push.Message{Title: title, Body: body, Data: data}
	delivered := false
	for _, t := range tokens {
		result, err := n.transport.Send(ctx, t.Token, msg)
		switch result {
		case push.Delivered:
			delivered = true
		case push.InvalidToken:
			n.logger.Info("evicting invalid device token", zap.Int64("user_id", userID), zap.Int64("token_id", t.ID))
			if err := n.repo.DeviceToken.DeleteToken(ctx, t.Token); err != nil {
				n.logger.Warn("evict device token failed", zap.Int64("token_id", t.ID), zap.Error(err))
			}
		default:
			n.logger.Warn("push delivery failed",
				zap.Int64("user_id", userID),
				zap.Int64("token_id", t.ID),
				zap.String("result", result.String()),
				zap.Error(err),
			)
		}
	}
	return delivered
}
