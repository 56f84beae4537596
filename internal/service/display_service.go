package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rkive250/MedNotify/internal/dto"
	"github.com/rkive250/MedNotify/internal/repository"
	"github.com/rkive250/MedNotify/internal/vitals"
)

const notAvailable = "N/A"

// DisplayService feeds the companion smartwatch and TV screens.
type DisplayService interface {
	// Latest returns the newest reading of each vital type across all days.
	Latest(ctx context.Context, userID int64) (*dto.DisplayResponse, error)
	ReferenceRanges() map[string]string
}

type displayService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDisplayService creates a DisplayService.
func NewDisplayService(repo *repository.Repository, logger *zap.Logger) DisplayService {
	return &displayService{repo: repo, logger: logger}
}

func (s *displayService) Latest(ctx context.Context, userID int64) (*dto.DisplayResponse, error) {
	snap, err := LoadSnapshot(ctx, s.repo, userID, nil)
	if err != nil {
		s.logger.Error("load display snapshot failed", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	if snap.Empty() {
		return nil, ErrNoDisplayData
	}

	resp := &dto.DisplayResponse{
		BloodPressure: notAvailable,
		Oxygenation:   notAvailable,
		Glucose:       notAvailable,
		HeartRate:     notAvailable,
	}
	if bp := snap.BloodPressure; bp != nil {
		resp.BloodPressure = fmt.Sprintf("%d/%d mmHg", bp.Systolic, bp.Diastolic)
	}
	if o := snap.Oxygenation; o != nil {
		resp.Oxygenation = fmt.Sprintf("%d%%", o.Value)
	}
	if g := snap.Glucose; g != nil {
		resp.Glucose = formatGlucose(g.Value) + " mg/dL"
	}
	if hr := snap.HeartRate; hr != nil {
		resp.HeartRate = fmt.Sprintf("%d bpm", hr.Value)
	}
	return resp, nil
}

func (s *displayService) ReferenceRanges() map[string]string {
	out := make(map[string]string, len(vitals.ReferenceRanges))
	for k, v := range vitals.ReferenceRanges {
		out[k] = v
	}
	return out
}
