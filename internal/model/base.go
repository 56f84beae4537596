package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Wire formats for record dates and times.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04:05"
)

// RecordType names one of the measurement tables.
type RecordType string

const (
	RecordGlucose       RecordType = "glucose"
	RecordBloodPressure RecordType = "blood_pressure"
	RecordOxygenation   RecordType = "oxygenation"
	RecordHeartRate     RecordType = "heart_rate"
	RecordMedication    RecordType = "medication"
)

// VitalTypes are the record types counted by the daily summary, in summary order.
var VitalTypes = []RecordType{RecordGlucose, RecordBloodPressure, RecordOxygenation, RecordHeartRate}

// AllRecordTypes lists every measurement table.
var AllRecordTypes = []RecordType{RecordGlucose, RecordBloodPressure, RecordOxygenation, RecordHeartRate, RecordMedication}

// Valid reports whether t is a known record type.
func (t RecordType) Valid() bool {
	switch t {
	case RecordGlucose, RecordBloodPressure, RecordOxygenation, RecordHeartRate, RecordMedication:
		return true
	}
	return false
}

// Label is the Spanish noun used in user-facing messages.
func (t RecordType) Label() string {
	switch t {
	case RecordGlucose:
		return "glucosa"
	case RecordBloodPressure:
		return "presión arterial"
	case RecordOxygenation:
		return "oxigenación"
	case RecordHeartRate:
		return "frecuencia cardíaca"
	case RecordMedication:
		return "medicamento"
	}
	return string(t)
}

// RecordBase holds the columns shared by every measurement table.
type RecordBase struct {
	ID         int64     `gorm:"primaryKey"                         json:"id"`
	UserID     int64     `gorm:"not null;index"                     json:"user_id"`
	RecordedOn time.Time `gorm:"type:date;not null"                 json:"date"`
	RecordedAt string    `gorm:"type:time;not null"                 json:"time"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// Base exposes the shared columns of any embedding record.
func (b *RecordBase) Base() *RecordBase { return b }

// AfterFind drops the fractional seconds some drivers append to TIME values.
func (b *RecordBase) AfterFind(_ *gorm.DB) error {
	b.RecordedAt = NormalizeClock(b.RecordedAt)
	return nil
}

// Record is implemented by every measurement model.
type Record interface {
	Base() *RecordBase
	Type() RecordType
}

// NormalizeClock trims a TIME value to HH:MM:SS.
func NormalizeClock(s string) string {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	if len(s) > len(ClockLayout) {
		s = s[:len(ClockLayout)]
	}
	return s
}

// ShortClock renders HH:MM.
func ShortClock(s string) string {
	s = NormalizeClock(s)
	if len(s) >= 5 {
		return s[:5]
	}
	return s
}
