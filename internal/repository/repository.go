package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/rkive250/MedNotify/internal/model"
)

// Repository is the aggregate entry point for all repositories.
type Repository struct {
	db *gorm.DB

	User         UserRepository
	DeviceToken  DeviceTokenRepository
	Notification NotificationRepository

	Glucose       RecordRepository[model.Glucose]
	BloodPressure RecordRepository[model.BloodPressure]
	Oxygenation   RecordRepository[model.Oxygenation]
	HeartRate     RecordRepository[model.HeartRate]
	Medication    RecordRepository[model.Medication]
}

// NewRepository builds the aggregate over one connection pool.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:            db,
		User:          NewUserRepo(db),
		DeviceToken:   NewDeviceTokenRepo(db),
		Notification:  NewNotificationRepo(db),
		Glucose:       NewRecordRepo[model.Glucose](db),
		BloodPressure: NewRecordRepo[model.BloodPressure](db),
		Oxygenation:   NewRecordRepo[model.Oxygenation](db),
		HeartRate:     NewRecordRepo[model.HeartRate](db),
		Medication:    NewRecordRepo[model.Medication](db),
	}
}

// BeginTx starts a transaction. It returns a nil tx when the aggregate was
// assembled from in-memory repositories.
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx returns an aggregate bound to tx. A nil tx yields r itself.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// Transaction runs fn inside one transaction, committing when fn returns nil.
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// Records returns the type-erased store for t, or nil for an unknown type.
func (r *Repository) Records(t model.RecordType) RecordStore {
	switch t {
	case model.RecordGlucose:
		return r.Glucose
	case model.RecordBloodPressure:
		return r.BloodPressure
	case model.RecordOxygenation:
		return r.Oxygenation
	case model.RecordHeartRate:
		return r.HeartRate
	case model.RecordMedication:
		return r.Medication
	}
	return nil
}
