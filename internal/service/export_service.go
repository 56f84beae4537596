package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/rkive250/MedNotify/internal/model"
	"github.com/rkive250/MedNotify/internal/repository"
	"github.com/rkive250/MedNotify/internal/vitals"
)

// ExportService renders a user's records as downloadable files.
//
// Both exports are returned in memory; the handler sets the response headers
// and writes the bytes.
type ExportService interface {
	// ExportRecords builds an .xlsx workbook with one sheet per record type.
	ExportRecords(ctx context.Context, userID int64) (*bytes.Buffer, string, error)
	// ExportMedications builds an iCalendar file with one event per intake.
	ExportMedications(ctx context.Context, userID int64) ([]byte, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService creates an ExportService.
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// medicationEventLength is the calendar slot given to one intake.
const medicationEventLength = 15 * time.Minute

// sheet is one worksheet of the records workbook.
type sheet struct {
	name   string
	header []string
	rows   [][]interface{}
}

// ═══════════════════════════════════════════════════════════
// ExportRecords
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportRecords(ctx context.Context, userID int64) (*bytes.Buffer, string, error) {
	sheets, err := s.collectSheets(ctx, userID)
	if err != nil {
		s.logger.Error("load records for export failed", zap.Int64("user_id", userID), zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, sh := range sheets {
		idx, err := f.NewSheet(sh.name)
		if err != nil {
			s.logger.Error("create sheet failed", zap.String("sheet", sh.name), zap.Error(err))
			return nil, "", ErrExportFailed
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}

		for c, h := range sh.header {
			f.SetCellValue(sh.name, cell(colName(c), 1), h)
		}
		last := colName(len(sh.header) - 1)
		f.SetCellStyle(sh.name, "A1", cell(last, 1), headerStyle)
		f.SetColWidth(sh.name, "A", last, 16)

		for r, row := range sh.rows {
			for c, v := range row {
				f.SetCellValue(sh.name, cell(colName(c), r+2), v)
			}
		}
	}
	f.DeleteSheet("Sheet1")

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write workbook failed", zap.Error(err))
		return nil, "", ErrExportFailed
	}
	return buf, fmt.Sprintf("registros_salud_%d.xlsx", userID), nil
}

func (s *exportService) collectSheets(ctx context.Context, userID int64) ([]sheet, error) {
	base := []string{"Fecha", "Hora"}
	dateTime := func(b *model.RecordBase) []interface{} {
		return []interface{}{b.RecordedOn.Format(model.DateLayout), model.NormalizeClock(b.RecordedAt)}
	}

	glucose, err := s.repo.Glucose.List(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	gs := sheet{name: "Glucosa", header: append(base, "Valor (mg/dL)", "Nivel")}
	for i := range glucose {
		g := &glucose[i]
		gs.rows = append(gs.rows, append(dateTime(&g.RecordBase), g.Value, vitals.ClassifyGlucose(g.Value).Label()))
	}

	pressure, err := s.repo.BloodPressure.List(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	ps := sheet{name: "Presión arterial", header: append(base, "Sistólica (mmHg)", "Diastólica (mmHg)")}
	for i := range pressure {
		p := &pressure[i]
		ps.rows = append(ps.rows, append(dateTime(&p.RecordBase), p.Systolic, p.Diastolic))
	}

	oxygen, err := s.repo.Oxygenation.List(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	oxs := sheet{name: "Oxigenación", header: append(base, "SpO2 (%)")}
	for i := range oxygen {
		o := &oxygen[i]
		oxs.rows = append(oxs.rows, append(dateTime(&o.RecordBase), o.Value))
	}

	heart, err := s.repo.HeartRate.List(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	hs := sheet{name: "Frecuencia cardíaca", header: append(base, "Pulso (bpm)")}
	for i := range heart {
		h := &heart[i]
		hs.rows = append(hs.rows, append(dateTime(&h.RecordBase), h.Value))
	}

	meds, err := s.repo.Medication.List(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	ms := sheet{name: "Medicamentos", header: append(base, "Nombre", "Dosis", "Síntomas")}
	for i := range meds {
		m := &meds[i]
		symptoms := ""
		if m.Symptoms != nil {
			symptoms = *m.Symptoms
		}
		ms.rows = append(ms.rows, append(dateTime(&m.RecordBase), m.Name, m.Dose, symptoms))
	}

	return []sheet{gs, ps, oxs, hs, ms}, nil
}

// ═══════════════════════════════════════════════════════════
// ExportMedications
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportMedications(ctx context.Context, userID int64) ([]byte, string, error) {
	meds, err := s.repo.Medication.List(ctx, userID, nil)
	if err != nil {
		s.logger.Error("load medications for export failed", zap.Int64("user_id", userID), zap.Error(err))
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//MedNotify//Medicamentos//ES")
	cal.SetXWRCalName("Medicamentos")

	for i := range meds {
		m := &meds[i]
		start, err := intakeTime(&m.RecordBase)
		if err != nil {
			s.logger.Warn("skipping medication with bad time", zap.Int64("id", m.ID), zap.Error(err))
			continue
		}

		ev := cal.AddEvent(fmt.Sprintf("medication-%d@mednotify", m.ID))
		ev.SetCreatedTime(m.CreatedAt)
		ev.SetDtStampTime(m.CreatedAt)
		ev.SetStartAt(start)
		ev.SetEndAt(start.Add(medicationEventLength))
		ev.SetSummary(fmt.Sprintf("%s (%s)", m.Name, m.Dose))
		if m.Symptoms != nil && *m.Symptoms != "" {
			ev.SetDescription("Síntomas: " + *m.Symptoms)
		}
	}

	return []byte(cal.Serialize()), fmt.Sprintf("medicamentos_%d.ics", userID), nil
}

// intakeTime joins the record's date and time of day in UTC.
func intakeTime(b *model.RecordBase) (time.Time, error) {
	clock, err := time.Parse(model.ClockLayout, model.NormalizeClock(b.RecordedAt))
	if err != nil {
		return time.Time{}, err
	}
	y, mo, d := b.RecordedOn.Date()
	return time.Date(y, mo, d, clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC), nil
}

// ── helpers ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return col + strconv.Itoa(row)
}
