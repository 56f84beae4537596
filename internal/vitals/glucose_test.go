package vitals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyGlucose(t *testing.T) {
	cases := []struct {
		value float64
		want  Level
	}{
		{0, Low},
		{65, Low},
		{69.99, Low},
		{70, Normal},
		{120, Normal},
		{180, Normal},
		{180.01, High},
		{999.99, High},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyGlucose(tc.value), "value %v", tc.value)
	}
}

// Every value in the validated range falls in exactly the band its
// thresholds describe.
func TestClassifyGlucose_Bands(t *testing.T) {
	for cents := 0; cents <= 99999; cents++ {
		v := float64(cents) / 100
		got := ClassifyGlucose(v)
		switch {
		case v < 70:
			assert.Equal(t, Low, got, "value %v", v)
		case v <= 180:
			assert.Equal(t, Normal, got, "value %v", v)
		default:
			assert.Equal(t, High, got, "value %v", v)
		}
	}
}

func TestLevelLabels(t *testing.T) {
	assert.Equal(t, "Bajo", Low.Label())
	assert.Equal(t, "Normal", Normal.Label())
	assert.Equal(t, "Alto", High.Label())
	assert.Equal(t, "low", Low.String())
	assert.Equal(t, "high", High.String())
}
