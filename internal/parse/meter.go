package parse

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Meter parses an hour-meter reading. A comma is accepted as the decimal
// separator ("150,5"), as operators type it on site.
func Meter(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("meter reading is empty")
	}
	s = strings.ReplaceAll(s, ",", ".")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("meter reading %q is not a number", raw)
	}
	if err := CheckMeter(v); err != nil {
		return 0, err
	}
	return v, nil
}

// CheckMeter rejects readings that cannot come from a physical hour meter.
func CheckMeter(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("meter reading %v is not finite", v)
	}
	if v < 0 {
		return fmt.Errorf("meter reading %v is negative", v)
	}
	return nil
}

// MeterOrder reports whether the final reading is strictly after the initial one.
func MeterOrder(initial, final float64) bool {
	return final > initial
}
