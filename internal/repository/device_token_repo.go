package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rkive250/MedNotify/internal/model"
)

// DeviceTokenRepository stores push registrations.
type DeviceTokenRepository interface {
	// Save registers token for userID. A token already held by another user
	// moves to userID.
	Save(ctx context.Context, userID int64, token string) error
	ListByUser(ctx context.Context, userID int64) ([]model.DeviceToken, error)
	DeleteToken(ctx context.Context, token string) error
	DeleteForUser(ctx context.Context, userID int64, token string) error
	DeleteByUser(ctx context.Context, userID int64) error
}

type deviceTokenRepo struct {
	db *gorm.DB
}

// NewDeviceTokenRepo creates a DeviceTokenRepository.
func NewDeviceTokenRepo(db *gorm.DB) DeviceTokenRepository {
	return &deviceTokenRepo{db: db}
}

func (r *deviceTokenRepo) Save(ctx context.Context, userID int64, token string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id"}),
		}).
		Create(&model.DeviceToken{UserID: userID, Token: token}).Error
}

func (r *deviceTokenRepo) ListByUser(ctx context.Context, userID int64) ([]model.DeviceToken, error) {
	var tokens []model.DeviceToken
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&tokens).Error
	return tokens, err
}

func (r *deviceTokenRepo) DeleteToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Where("token = ?", token).Delete(&model.DeviceToken{}).Error
}

func (r *deviceTokenRepo) DeleteForUser(ctx context.Context, userID int64, token string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		Delete(&model.DeviceToken{}).Error
}

func (r *deviceTokenRepo) DeleteByUser(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.DeviceToken{}).Error
}
