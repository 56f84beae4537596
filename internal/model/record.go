package model

// Glucose is a blood glucose reading in mg/dL.
type Glucose struct {
	RecordBase
	Value float64 `gorm:"type:numeric(5,2);not null" json:"value"`
}

func (Glucose) TableName() string { return "glucose_records" }
func (Glucose) Type() RecordType  { return RecordGlucose }

// BloodPressure is a systolic/diastolic pair in mmHg.
type BloodPressure struct {
	RecordBase
	Systolic  int `gorm:"not null" json:"systolic"`
	Diastolic int `gorm:"not null" json:"diastolic"`
}

func (BloodPressure) TableName() string { return "blood_pressure_records" }
func (BloodPressure) Type() RecordType  { return RecordBloodPressure }

// Oxygenation is an SpO2 percentage.
type Oxygenation struct {
	RecordBase
	Value int `gorm:"not null" json:"value"`
}

func (Oxygenation) TableName() string { return "oxygenation_records" }
func (Oxygenation) Type() RecordType  { return RecordOxygenation }

// HeartRate is a pulse in beats per minute.
type HeartRate struct {
	RecordBase
	Value int `gorm:"not null" json:"value"`
}

func (HeartRate) TableName() string { return "heart_rate_records" }
func (HeartRate) Type() RecordType  { return RecordHeartRate }

// Medication is a dose taken by the user. It does not count toward the daily summary.
type Medication struct {
	RecordBase
	Name     string  `gorm:"type:varchar(100);not null" json:"name"`
	Dose     string  `gorm:"type:varchar(50);not null"  json:"dose"`
	Symptoms *string `gorm:"type:text"                  json:"symptoms,omitempty"`
}

func (Medication) TableName() string { return "medications" }
func (Medication) Type() RecordType  { return RecordMedication }
