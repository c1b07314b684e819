package parse

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeter(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  float64
		expectErr bool
	}{
		{name: "Integer", raw: "100", expected: 100},
		{name: "Dot decimal", raw: "150.5", expected: 150.5},
		{name: "Comma decimal", raw: "150,25", expected: 150.25},
		{name: "Padded", raw: "  42 ", expected: 42},
		{name: "Zero", raw: "0", expected: 0},
		{name: "Negative", raw: "-1", expectErr: true},
		{name: "Not a number", raw: "abc", expectErr: true},
		{name: "Empty", raw: "   ", expectErr: true},
		{name: "NaN", raw: "NaN", expectErr: true},
		{name: "Infinity", raw: "Inf", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Meter(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestCheckMeter(t *testing.T) {
	assert.NoError(t, CheckMeter(0))
	assert.NoError(t, CheckMeter(1234.5))
	assert.Error(t, CheckMeter(-0.01))
	assert.Error(t, CheckMeter(math.NaN()))
	assert.Error(t, CheckMeter(math.Inf(1)))
}

func TestMeterOrder(t *testing.T) {
	assert.True(t, MeterOrder(100, 150))
	assert.False(t, MeterOrder(150, 150), "equal readings are not a valid session")
	assert.False(t, MeterOrder(150, 100))
	assert.False(t, MeterOrder(0, math.NaN()))
}
