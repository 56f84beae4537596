package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/rkive250/MedNotify/internal/model"
	"github.com/rkive250/MedNotify/internal/repository"
	"github.com/rkive250/MedNotify/internal/vitals"
)

// summaryThreshold is the number of same-day vital records that triggers a digest.
const summaryThreshold = 2

// Snapshot holds the newest reading of each vital type. Absent types are nil.
type Snapshot struct {
	Glucose       *model.Glucose
	BloodPressure *model.BloodPressure
	Oxygenation   *model.Oxygenation
	HeartRate     *model.HeartRate
}

// Empty reports whether no vital type has a reading.
func (s *Snapshot) Empty() bool {
	return s.Glucose == nil && s.BloodPressure == nil && s.Oxygenation == nil && s.HeartRate == nil
}

// LoadSnapshot fetches the latest reading of each vital type for userID,
// restricted to date when it is non-nil.
func LoadSnapshot(ctx context.Context, repo *repository.Repository, userID int64, date *time.Time) (*Snapshot, error) {
	var (
		snap Snapshot
		err  error
	)
	if snap.Glucose, err = latest(ctx, repo.Glucose, userID, date); err != nil {
		return nil, err
	}
	if snap.BloodPressure, err = latest(ctx, repo.BloodPressure, userID, date); err != nil {
		return nil, err
	}
	if snap.Oxygenation, err = latest(ctx, repo.Oxygenation, userID, date); err != nil {
		return nil, err
	}
	if snap.HeartRate, err = latest(ctx, repo.HeartRate, userID, date); err != nil {
		return nil, err
	}
	return &snap, nil
}

func latest[T any](ctx context.Context, r repository.RecordRepository[T], userID int64, date *time.Time) (*T, error) {
	rec, err := r.Latest(ctx, userID, date)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return rec, err
}

// ── formatting ──

func formatGlucose(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// GlucoseMessage is the notification body sent after every glucose reading.
func GlucoseMessage(v float64) string {
	level := vitals.ClassifyGlucose(v)
	return fmt.Sprintf("Tu glucosa está en nivel %s (%s mg/dL)", level.Label(), formatGlucose(v))
}

// FormatSummary renders the daily digest for date from snap.
func FormatSummary(date time.Time, snap *Snapshot) string {
	var parts []string
	if g := snap.Glucose; g != nil {
		parts = append(parts, fmt.Sprintf("Glucosa: %s mg/dL (%s)", formatGlucose(g.Value), vitals.ClassifyGlucose(g.Value).Label()))
	}
	if bp := snap.BloodPressure; bp != nil {
		parts = append(parts, fmt.Sprintf("Presión: %d/%d mmHg", bp.Systolic, bp.Diastolic))
	}
	if o := snap.Oxygenation; o != nil {
		parts = append(parts, fmt.Sprintf("Oxigenación: %d%%", o.Value))
	}
	if hr := snap.HeartRate; hr != nil {
		parts = append(parts, fmt.Sprintf("Frecuencia cardíaca: %d bpm", hr.Value))
	}
	return fmt.Sprintf("Resumen diario (%s): %s", date.Format(model.DateLayout), strings.Join(parts, "; "))
}

// ── aggregator ──

// SummaryAggregator writes the daily digest once a user has logged at least
// two vital records on the same day. Every qualifying create produces a new
// digest; earlier ones are kept.
type SummaryAggregator struct {
	now func() time.Time
}

// NewSummaryAggregator creates a SummaryAggregator.
func NewSummaryAggregator(now func() time.Time) *SummaryAggregator {
	if now == nil {
		now = time.Now
	}
	return &SummaryAggregator{now: now}
}

// Run counts the vital records of (userID, date) through tx and, when the
// threshold is met, persists the digest notification. It returns the digest
// text, or "" when nothing was written. Pushing is left to the caller so it
// happens after commit.
func (a *SummaryAggregator) Run(ctx context.Context, tx *repository.Repository, userID int64, date time.Time) (string, error) {
	var total int64
	for _, t := range model.VitalTypes {
		n, err := tx.Records(t).CountByDate(ctx, userID, date)
		if err != nil {
			return "", fmt.Errorf("count %s records: %w", t, err)
		}
		total += n
	}
	if total < summaryThreshold {
		return "", nil
	}

	snap, err := LoadSnapshot(ctx, tx, userID, &date)
	if err != nil {
		return "", fmt.Errorf("load snapshot: %w", err)
	}

	summary := FormatSummary(date, snap)
	n := &model.Notification{
		UserID:    userID,
		Message:   truncate(summary, 255),
		NotifyOn:  date,
		NotifyAt:  a.now().UTC().Format(model.ClockLayout),
		CreatedAt: a.now(),
	}
	if err := tx.Notification.Create(ctx, n); err != nil {
		return "", fmt.Errorf("create summary notification: %w", err)
	}
	return summary, nil
}

// truncate cuts s to max runes so it fits the notification column.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
