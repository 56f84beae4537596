// Package vitals holds the pure rules for interpreting vital-sign values.
package vitals

// Level is the qualitative reading of a glucose value.
type Level int

const (
	Low Level = iota
	Normal
	High
)

// Glucose thresholds in mg/dL. Both bounds are inclusive in the Normal band.
const (
	GlucoseLowerBound = 70
	GlucoseUpperBound = 180
)

// ClassifyGlucose maps a glucose value in mg/dL to its level.
func ClassifyGlucose(value float64) Level {
	switch {
	case value < GlucoseLowerBound:
		return Low
	case value <= GlucoseUpperBound:
		return Normal
	default:
		return High
	}
}

// Label is the Spanish name shown to users.
func (l Level) Label() string {
	switch l {
	case Low:
		return "Bajo"
	case High:
		return "Alto"
	default:
		return "Normal"
	}
}

func (l Level) String() string {
	switch l {
	case Low:
		return "low"
	case High:
		return "high"
	default:
		return "normal"
	}
}
