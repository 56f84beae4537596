package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/rkive250/MedNotify/internal/dto"
	"github.com/rkive250/MedNotify/internal/model"
	"github.com/rkive250/MedNotify/internal/repository"
	pkgerrors "github.com/rkive250/MedNotify/pkg/errors"
)

// DeleteSuccessMessage is written to the feed once a deletion is executed.
const DeleteSuccessMessage = "Registro eliminado correctamente"

// DeleteService is the two-phase record deletion workflow.
//
// A request writes a pending notification that carries the delete request id
// together with the target's type and id. Confirming with the account
// password deletes the record and the pending notification and writes a
// success notification, all in one transaction. A request that is cancelled,
// confirmed, or older than the configured TTL can no longer be confirmed.
type DeleteService interface {
	Request(ctx context.Context, userID int64, t model.RecordType, recordID int64) (*dto.DeleteRequestResponse, error)
	Confirm(ctx context.Context, userID int64, req *dto.ConfirmDeleteRequest) error
	Cancel(ctx context.Context, userID int64, requestID string) error
}

type deleteService struct {
	repo     *repository.Repository
	notifier Notifier
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewDeleteService creates a DeleteService. A ttl of zero disables expiry.
func NewDeleteService(repo *repository.Repository, notifier Notifier, ttl time.Duration, now func() time.Time, logger *zap.Logger) DeleteService {
	if now == nil {
		now = time.Now
	}
	return &deleteService{repo: repo, notifier: notifier, ttl: ttl, now: now, logger: logger}
}

// ────────────────────── Request ──────────────────────

func (s *deleteService) Request(ctx context.Context, userID int64, t model.RecordType, recordID int64) (*dto.DeleteRequestResponse, error) {
	var pending *model.Notification
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		rec, err := findOwned(ctx, tx, userID, t, recordID)
		if err != nil {
			return err
		}
		base := rec.Base()

		requestID := uuid.NewString()
		rt := t
		rid := recordID
		pending = &model.Notification{
			UserID:          userID,
			Message:         confirmMessage(t, base),
			NotifyOn:        base.RecordedOn,
			NotifyAt:        model.NormalizeClock(base.RecordedAt),
			CreatedAt:       s.now(),
			DeleteRequestID: &requestID,
			RecordType:      &rt,
			RecordID:        &rid,
		}
		return tx.Notification.Create(ctx, pending)
	})
	if err != nil {
		if !errors.Is(err, ErrRecordNotFound) && !errors.Is(err, ErrRecordForbidden) && !errors.Is(err, pkgerrors.ErrValidation) {
			s.logger.Error("create delete request failed", zap.Int64("user_id", userID), zap.Error(err))
		}
		return nil, err
	}

	requestID := *pending.DeleteRequestID
	delivered := s.notifier.Send(ctx, userID, TitleConfirmDelete, pending.Message, map[string]string{
		"delete_request_id": requestID,
		"record_type":       string(t),
		"record_id":         strconv.FormatInt(recordID, 10),
	})
	if !delivered {
		s.logger.Warn("delete request push not delivered",
			zap.Int64("user_id", userID),
			zap.String("delete_request_id", requestID),
		)
	}

	s.logger.Info("delete requested",
		zap.Int64("user_id", userID),
		zap.String("record_type", string(t)),
		zap.Int64("record_id", recordID),
		zap.String("delete_request_id", requestID),
	)
	return &dto.DeleteRequestResponse{
		DeleteRequestID: requestID,
		Message:         "Solicitud de eliminación enviada. Confirma desde la notificación.",
		PushDelivered:   delivered,
	}, nil
}

func confirmMessage(t model.RecordType, base *model.RecordBase) string {
	return fmt.Sprintf("Confirma la eliminación del registro de %s del %s a las %s",
		t.Label(), base.RecordedOn.Format(model.DateLayout), model.ShortClock(base.RecordedAt))
}

// ────────────────────── Confirm ──────────────────────

// discard marks a confirm transaction that committed without executing the deletion.
type discard int

const (
	discardNone discard = iota
	discardExpired
	discardOrphaned
)

func (s *deleteService) Confirm(ctx context.Context, userID int64, req *dto.ConfirmDeleteRequest) error {
	if err := s.checkPassword(ctx, userID, req.Password); err != nil {
		return err
	}
	requestID := strings.TrimSpace(req.DeleteRequestID)

	var (
		target  model.RecordType
		dropped discard
	)
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		pending, err := tx.Notification.GetPendingForUpdate(ctx, userID, requestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDeleteRequestNotFound
			}
			return err
		}
		if !pending.IsPendingDelete() {
			return ErrDeleteRequestNotFound
		}

		if s.ttl > 0 && s.now().Sub(pending.CreatedAt) > s.ttl {
			dropped = discardExpired
			return tx.Notification.Delete(ctx, pending.ID)
		}

		target = *pending.RecordType
		store := tx.Records(target)
		if store == nil {
			return ErrDeleteRequestNotFound
		}
		rec, err := store.Find(ctx, *pending.RecordID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// The record is gone; the pending row can never succeed.
				dropped = discardOrphaned
				return tx.Notification.Delete(ctx, pending.ID)
			}
			return err
		}
		if rec.Base().UserID != userID {
			return ErrRecordForbidden
		}

		if err := store.Delete(ctx, rec.Base().ID); err != nil {
			return err
		}
		if err := tx.Notification.Delete(ctx, pending.ID); err != nil {
			return err
		}
		now := s.now()
		return tx.Notification.Create(ctx, &model.Notification{
			UserID:    userID,
			Message:   DeleteSuccessMessage,
			NotifyOn:  dateOf(now),
			NotifyAt:  now.UTC().Format(model.ClockLayout),
			CreatedAt: now,
		})
	})
	if err != nil {
		if !errors.Is(err, ErrDeleteRequestNotFound) && !errors.Is(err, ErrRecordForbidden) {
			s.logger.Error("confirm delete failed",
				zap.Int64("user_id", userID),
				zap.String("delete_request_id", requestID),
				zap.Error(err),
			)
		}
		return err
	}

	switch dropped {
	case discardExpired:
		s.logger.Info("expired delete request discarded", zap.String("delete_request_id", requestID))
		return ErrDeleteRequestExpired
	case discardOrphaned:
		s.logger.Info("delete request target already gone", zap.String("delete_request_id", requestID))
		return ErrRecordNotFound
	}

	s.logger.Info("record deleted",
		zap.Int64("user_id", userID),
		zap.String("record_type", string(target)),
		zap.String("delete_request_id", requestID),
	)
	s.notifier.Send(ctx, userID, TitleDeleteComplete, DeleteSuccessMessage, nil)
	return nil
}

func (s *deleteService) checkPassword(ctx context.Context, userID int64, password string) error {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWrongPassword
		}
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return ErrWrongPassword
	}
	return nil
}

// ────────────────────── Cancel ──────────────────────

func (s *deleteService) Cancel(ctx context.Context, userID int64, requestID string) error {
	return s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		pending, err := tx.Notification.GetPendingForUpdate(ctx, userID, strings.TrimSpace(requestID))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDeleteRequestNotFound
			}
			return err
		}
		return tx.Notification.Delete(ctx, pending.ID)
	})
}

// dateOf truncates t to its UTC calendar day.
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
