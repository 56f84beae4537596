package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/rkive250/MedNotify/internal/model"
)

// RecordPtr constrains P to *T for a measurement model T.
type RecordPtr[T any] interface {
	*T
	model.Record
}

// RecordStore is the view of a measurement table used by code that only
// knows the record type at runtime.
type RecordStore interface {
	Insert(ctx context.Context, rec model.Record) error
	Find(ctx context.Context, id int64) (model.Record, error)
	Save(ctx context.Context, rec model.Record) error
	Delete(ctx context.Context, id int64) error
	CountByDate(ctx context.Context, userID int64, date time.Time) (int64, error)
	DeleteByUser(ctx context.Context, userID int64) error
}

// RecordRepository is the data access interface of one measurement table.
// Lists are ordered by date then time, newest first.
type RecordRepository[T any] interface {
	RecordStore
	Create(ctx context.Context, rec *T) error
	GetByID(ctx context.Context, id int64) (*T, error)
	List(ctx context.Context, userID int64, date *time.Time) ([]T, error)
	Latest(ctx context.Context, userID int64, date *time.Time) (*T, error)
	Update(ctx context.Context, rec *T) error
}

type recordRepo[T any, P RecordPtr[T]] struct {
	db *gorm.DB
}

// NewRecordRepo creates the GORM implementation for T.
func NewRecordRepo[T any, P RecordPtr[T]](db *gorm.DB) RecordRepository[T] {
	return &recordRepo[T, P]{db: db}
}

const newestFirst = "recorded_on DESC, recorded_at DESC, id DESC"

func (r *recordRepo[T, P]) scoped(ctx context.Context, userID int64, date *time.Time) *gorm.DB {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if date != nil {
		q = q.Where("recorded_on = ?", date.Format(model.DateLayout))
	}
	return q
}

func (r *recordRepo[T, P]) Create(ctx context.Context, rec *T) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *recordRepo[T, P]) GetByID(ctx context.Context, id int64) (*T, error) {
	var rec T
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *recordRepo[T, P]) Find(ctx context.Context, id int64) (model.Record, error) {
	rec, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return P(rec), nil
}

func (r *recordRepo[T, P]) Insert(ctx context.Context, rec model.Record) error {
	p, err := r.own(rec)
	if err != nil {
		return err
	}
	return r.Create(ctx, p)
}

func (r *recordRepo[T, P]) Save(ctx context.Context, rec model.Record) error {
	p, err := r.own(rec)
	if err != nil {
		return err
	}
	return r.Update(ctx, p)
}

// own narrows rec to this table's model.
func (r *recordRepo[T, P]) own(rec model.Record) (*T, error) {
	p, ok := rec.(P)
	if !ok {
		return nil, fmt.Errorf("%s record passed to %T store", rec.Type(), r)
	}
	return (*T)(p), nil
}

func (r *recordRepo[T, P]) List(ctx context.Context, userID int64, date *time.Time) ([]T, error) {
	var recs []T
	err := r.scoped(ctx, userID, date).Order(newestFirst).Find(&recs).Error
	return recs, err
}

func (r *recordRepo[T, P]) Latest(ctx context.Context, userID int64, date *time.Time) (*T, error) {
	var rec T
	if err := r.scoped(ctx, userID, date).Order(newestFirst).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *recordRepo[T, P]) CountByDate(ctx context.Context, userID int64, date time.Time) (int64, error) {
	var n int64
	err := r.scoped(ctx, userID, &date).Model(new(T)).Count(&n).Error
	return n, err
}

func (r *recordRepo[T, P]) Update(ctx context.Context, rec *T) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *recordRepo[T, P]) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(new(T)).Error
}

func (r *recordRepo[T, P]) DeleteByUser(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(new(T)).Error
}
