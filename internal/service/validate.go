package service

import (
	"math"
	"strings"
	"time"

	"github.com/rkive250/MedNotify/internal/model"
	pkgerrors "github.com/rkive250/MedNotify/pkg/errors"
)

// ── input validation ──

// Value ranges per measurement type.
const (
	glucoseMax     = 999.99
	oxygenationMax = 100
	heartRateMax   = 300
	pressureMax    = math.MaxInt32 // INTEGER column
)

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(model.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, pkgerrors.Invalid("date", "formato de fecha inválido, use YYYY-MM-DD")
	}
	return d, nil
}

func parseClock(s string) (string, error) {
	t, err := time.Parse(model.ClockLayout, strings.TrimSpace(s))
	if err != nil {
		return "", pkgerrors.Invalid("time", "formato de hora inválido, use HH:MM:SS")
	}
	return t.Format(model.ClockLayout), nil
}

func checkGlucose(v *float64) (float64, error) {
	if v == nil {
		return 0, pkgerrors.Invalid("value", "el valor de glucosa es requerido")
	}
	if math.IsNaN(*v) || *v < 0 || *v > glucoseMax {
		return 0, pkgerrors.Invalid("value", "el valor de glucosa debe estar entre 0 y 999.99")
	}
	// numeric(5,2): classify what will actually be stored.
	return math.Round(*v*100) / 100, nil
}

// checkWhole validates an integral reading in [0, max]. A max below zero means unbounded.
func checkWhole(field string, v *float64, max int, reason string) (int, error) {
	if v == nil {
		return 0, pkgerrors.Invalid(field, "valor requerido")
	}
	if math.IsNaN(*v) || *v != math.Trunc(*v) {
		return 0, pkgerrors.Invalid(field, "el valor debe ser un número entero")
	}
	if *v < 0 || (max >= 0 && *v > float64(max)) {
		return 0, pkgerrors.Invalid(field, reason)
	}
	return int(*v), nil
}

func intPtrAsFloat(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}

func checkText(field string, s string, max int) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", pkgerrors.Invalid(field, "campo requerido")
	}
	if len([]rune(s)) > max {
		return "", pkgerrors.Invalid(field, "texto demasiado largo")
	}
	return s, nil
}

// recordTypeAliases accepts the Spanish names older mobile clients send.
var recordTypeAliases = map[string]model.RecordType{
	"glucosa":             model.RecordGlucose,
	"presion_arterial":    model.RecordBloodPressure,
	"oxigenacion":         model.RecordOxygenation,
	"frecuencia_cardiaca": model.RecordHeartRate,
	"medicamento":         model.RecordMedication,
}

func parseRecordType(s string) (model.RecordType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if t, ok := recordTypeAliases[s]; ok {
		return t, nil
	}
	t := model.RecordType(s)
	if !t.Valid() {
		return "", pkgerrors.Invalid("type", "tipo de registro inválido")
	}
	return t, nil
}
