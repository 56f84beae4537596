package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rkive250/MedNotify/internal/dto"
	"github.com/rkive250/MedNotify/internal/model"
	"github.com/rkive250/MedNotify/internal/repository"
	pkgerrors "github.com/rkive250/MedNotify/pkg/errors"
)

// RecordService is the measurement business interface.
type RecordService interface {
	// Create stores a vital-sign reading, writes the glucose level
	// notification and the daily digest when they apply, then pushes them.
	Create(ctx context.Context, userID int64, req *dto.CreateRecordRequest) (*dto.CreateRecordResponse, error)
	CreateMedication(ctx context.Context, userID int64, req *dto.CreateMedicationRequest) (*dto.CreateRecordResponse, error)
	List(ctx context.Context, userID int64, t model.RecordType, date string) ([]dto.RecordResponse, error)
	Get(ctx context.Context, userID int64, t model.RecordType, id int64) (*dto.RecordResponse, error)
	Update(ctx context.Context, userID int64, t model.RecordType, id int64, req *dto.UpdateRecordRequest) (*dto.RecordResponse, error)
}

type recordService struct {
	repo     *repository.Repository
	summary  *SummaryAggregator
	notifier Notifier
	now      func() time.Time
	logger   *zap.Logger
}

// NewRecordService creates a RecordService.
func NewRecordService(repo *repository.Repository, notifier Notifier, now func() time.Time, logger *zap.Logger) RecordService {
	if now == nil {
		now = time.Now
	}
	return &recordService{
		repo:     repo,
		summary:  NewSummaryAggregator(now),
		notifier: notifier,
		now:      now,
		logger:   logger,
	}
}

// ────────────────────── Create ──────────────────────

func (s *recordService) Create(ctx context.Context, userID int64, req *dto.CreateRecordRequest) (*dto.CreateRecordResponse, error) {
	t, err := parseRecordType(req.Type)
	if err != nil {
		return nil, err
	}
	if t == model.RecordMedication {
		return nil, pkgerrors.Invalid("type", "use el endpoint de medicamentos")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	clock, err := parseClock(req.Time)
	if err != nil {
		return nil, err
	}

	rec, err := buildVital(t, req)
	if err != nil {
		return nil, err
	}
	base := rec.Base()
	base.UserID = userID
	base.RecordedOn = date
	base.RecordedAt = clock
	base.CreatedAt = s.now()

	var levelMsg, digest string
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Records(t).Insert(ctx, rec); err != nil {
			return err
		}

		if g, ok := rec.(*model.Glucose); ok {
			levelMsg = GlucoseMessage(g.Value)
			if err := tx.Notification.Create(ctx, &model.Notification{
				UserID:    userID,
				Message:   levelMsg,
				NotifyOn:  date,
				NotifyAt:  clock,
				CreatedAt: s.now(),
			}); err != nil {
				return err
			}
		}

		var err error
		digest, err = s.summary.Run(ctx, tx, userID, date)
		return err
	})
	if err != nil {
		s.logger.Error("create record failed", zap.Int64("user_id", userID), zap.String("type", string(t)), zap.Error(err))
		return nil, err
	}

	if levelMsg != "" {
		s.notifier.Send(ctx, userID, TitleGlucose, levelMsg, nil)
	}
	if digest != "" {
		s.notifier.Send(ctx, userID, TitleDailySummary, digest, nil)
	}

	return &dto.CreateRecordResponse{ID: base.ID, Type: string(t), SummarySent: digest != ""}, nil
}

// buildVital validates the type-specific fields of req.
func buildVital(t model.RecordType, req *dto.CreateRecordRequest) (model.Record, error) {
	switch t {
	case model.RecordGlucose:
		v, err := checkGlucose(req.Value)
		if err != nil {
			return nil, err
		}
		return &model.Glucose{Value: v}, nil
	case model.RecordBloodPressure:
		sys, err := checkWhole("systolic", intPtrAsFloat(req.Systolic), pressureMax, "los valores de presión arterial deben ser positivos")
		if err != nil {
			return nil, err
		}
		dia, err := checkWhole("diastolic", intPtrAsFloat(req.Diastolic), pressureMax, "los valores de presión arterial deben ser positivos")
		if err != nil {
			return nil, err
		}
		return &model.BloodPressure{Systolic: sys, Diastolic: dia}, nil
	case model.RecordOxygenation:
		v, err := checkWhole("value", req.Value, oxygenationMax, "el valor de oxigenación debe estar entre 0 y 100")
		if err != nil {
			return nil, err
		}
		return &model.Oxygenation{Value: v}, nil
	case model.RecordHeartRate:
		v, err := checkWhole("value", req.Value, heartRateMax, "el valor de frecuencia cardíaca debe estar entre 0 y 300")
		if err != nil {
			return nil, err
		}
		return &model.HeartRate{Value: v}, nil
	}
	return nil, pkgerrors.Invalid("type", "tipo de registro inválido")
}

func (s *recordService) CreateMedication(ctx context.Context, userID int64, req *dto.CreateMedicationRequest) (*dto.CreateRecordResponse, error) {
	name, err := checkText("name", req.Name, 100)
	if err != nil {
		return nil, err
	}
	dose, err := checkText("dose", req.Dose, 50)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	clock, err := parseClock(req.Time)
	if err != nil {
		return nil, err
	}

	med := &model.Medication{
		RecordBase: model.RecordBase{UserID: userID, RecordedOn: date, RecordedAt: clock, CreatedAt: s.now()},
		Name:       name,
		Dose:       dose,
		Symptoms:   req.Symptoms,
	}
	if err := s.repo.Medication.Create(ctx, med); err != nil {
		s.logger.Error("create medication failed", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	return &dto.CreateRecordResponse{ID: med.ID, Type: string(model.RecordMedication)}, nil
}

// ────────────────────── Read ──────────────────────

func (s *recordService) List(ctx context.Context, userID int64, t model.RecordType, date string) ([]dto.RecordResponse, error) {
	var day *time.Time
	if date != "" {
		d, err := parseDate(date)
		if err != nil {
			return nil, err
		}
		day = &d
	} else if t == model.RecordMedication {
		return nil, pkgerrors.Invalid("date", "la fecha es requerida")
	}

	switch t {
	case model.RecordGlucose:
		return listRecords(ctx, s.repo.Glucose, userID, day)
	case model.RecordBloodPressure:
		return listRecords(ctx, s.repo.BloodPressure, userID, day)
	case model.RecordOxygenation:
		return listRecords(ctx, s.repo.Oxygenation, userID, day)
	case model.RecordHeartRate:
		return listRecords(ctx, s.repo.HeartRate, userID, day)
	case model.RecordMedication:
		return listRecords(ctx, s.repo.Medication, userID, day)
	}
	return nil, pkgerrors.Invalid("type", "tipo de registro inválido")
}

func listRecords[T any, P repository.RecordPtr[T]](ctx context.Context, r repository.RecordRepository[T], userID int64, day *time.Time) ([]dto.RecordResponse, error) {
	recs, err := r.List(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RecordResponse, 0, len(recs))
	for i := range recs {
		out = append(out, toRecordResponse(P(&recs[i])))
	}
	return out, nil
}

func (s *recordService) Get(ctx context.Context, userID int64, t model.RecordType, id int64) (*dto.RecordResponse, error) {
	rec, err := findOwned(ctx, s.repo, userID, t, id)
	if err != nil {
		return nil, err
	}
	resp := toRecordResponse(rec)
	return &resp, nil
}

// findOwned loads record id of type t and checks that userID owns it.
func findOwned(ctx context.Context, repo *repository.Repository, userID int64, t model.RecordType, id int64) (model.Record, error) {
	store := repo.Records(t)
	if store == nil {
		return nil, pkgerrors.Invalid("type", "tipo de registro inválido")
	}
	rec, err := store.Find(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	if rec.Base().UserID != userID {
		return nil, ErrRecordForbidden
	}
	return rec, nil
}

// ────────────────────── Update ──────────────────────

func (s *recordService) Update(ctx context.Context, userID int64, t model.RecordType, id int64, req *dto.UpdateRecordRequest) (*dto.RecordResponse, error) {
	var resp dto.RecordResponse
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		rec, err := findOwned(ctx, tx, userID, t, id)
		if err != nil {
			return err
		}
		if err := applyUpdate(rec, req); err != nil {
			return err
		}
		if err := tx.Records(t).Save(ctx, rec); err != nil {
			return err
		}
		resp = toRecordResponse(rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// applyUpdate copies the non-nil fields of req that apply to rec, validating each.
func applyUpdate(rec model.Record, req *dto.UpdateRecordRequest) error {
	base := rec.Base()
	if req.Date != nil {
		d, err := parseDate(*req.Date)
		if err != nil {
			return err
		}
		base.RecordedOn = d
	}
	if req.Time != nil {
		c, err := parseClock(*req.Time)
		if err != nil {
			return err
		}
		base.RecordedAt = c
	}

	switch r := rec.(type) {
	case *model.Glucose:
		if req.Value != nil {
			v, err := checkGlucose(req.Value)
			if err != nil {
				return err
			}
			r.Value = v
		}
	case *model.BloodPressure:
		if req.Systolic != nil {
			v, err := checkWhole("systolic", intPtrAsFloat(req.Systolic), pressureMax, "los valores de presión arterial deben ser positivos")
			if err != nil {
				return err
			}
			r.Systolic = v
		}
		if req.Diastolic != nil {
			v, err := checkWhole("diastolic", intPtrAsFloat(req.Diastolic), pressureMax, "los valores de presión arterial deben ser positivos")
			if err != nil {
				return err
			}
			r.Diastolic = v
		}
	case *model.Oxygenation:
		if req.Value != nil {
			v, err := checkWhole("value", req.Value, oxygenationMax, "el valor de oxigenación debe estar entre 0 y 100")
			if err != nil {
				return err
			}
			r.Value = v
		}
	case *model.HeartRate:
		if req.Value != nil {
			v, err := checkWhole("value", req.Value, heartRateMax, "el valor de frecuencia cardíaca debe estar entre 0 y 300")
			if err != nil {
				return err
			}
			r.Value = v
		}
	case *model.Medication:
		if req.Name != nil {
			v, err := checkText("name", *req.Name, 100)
			if err != nil {
				return err
			}
			r.Name = v
		}
		if req.Dose != nil {
			v, err := checkText("dose", *req.Dose, 50)
			if err != nil {
				return err
			}
			r.Dose = v
		}
		if req.Symptoms != nil {
			r.Symptoms = req.Symptoms
		}
	}
	return nil
}

// ── mapping ──

func toRecordResponse(rec model.Record) dto.RecordResponse {
	base := rec.Base()
	resp := dto.RecordResponse{
		ID:        base.ID,
		Type:      string(rec.Type()),
		Date:      base.RecordedOn.Format(model.DateLayout),
		Time:      model.NormalizeClock(base.RecordedAt),
		CreatedAt: base.CreatedAt.Format(time.RFC3339),
	}
	switch r := rec.(type) {
	case *model.Glucose:
		v := r.Value
		resp.Value = &v
	case *model.BloodPressure:
		sys, dia := r.Systolic, r.Diastolic
		resp.Systolic, resp.Diastolic = &sys, &dia
	case *model.Oxygenation:
		v := float64(r.Value)
		resp.Value = &v
	case *model.HeartRate:
		v := float64(r.Value)
		resp.Value = &v
	case *model.Medication:
		resp.Name = r.Name
		resp.Dose = r.Dose
		resp.Symptoms = r.Symptoms
	}
	return resp
}
