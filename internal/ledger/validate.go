package ledger

import (
	"strings"

	"hourmeter-backend/internal/parse"
)

const minMachineYear = 1900

// ValidateDate reports whether text is a real dd/mm/yyyy calendar date.
func ValidateDate(text string) bool {
	return parse.ValidDate(text)
}

// ValidateMeterOrder reports whether final is strictly greater than initial.
func ValidateMeterOrder(initial, final float64) bool {
	return parse.MeterOrder(initial, final)
}

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return validationf("%s is required", field)
	}
	return nil
}

func validateMeters(initial, final float64) error {
	if err := parse.CheckMeter(initial); err != nil {
		return validationf("initial meter: %v", err)
	}
	if err := parse.CheckMeter(final); err != nil {
		return validationf("final meter: %v", err)
	}
	if !ValidateMeterOrder(initial, final) {
		return validationf("final meter (%.2f) must be greater than initial meter (%.2f)", final, initial)
	}
	return nil
}

func validateDates(start, end string) error {
	if !ValidateDate(start) {
		return validationf("start date %q is invalid, use dd/mm/yyyy", start)
	}
	if !ValidateDate(end) {
		return validationf("end date %q is invalid, use dd/mm/yyyy", end)
	}
	return nil
}

func validateYear(year, currentYear int) error {
	if year < minMachineYear || year > currentYear+1 {
		return validationf("year %d must be between %d and %d", year, minMachineYear, currentYear+1)
	}
	return nil
}
