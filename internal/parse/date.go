package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// DateLayout is the single textual date format accepted for work sessions.
const DateLayout = "02/01/2006"

// day/month/4-digit-year; day and month may drop their leading zero.
var dateRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)

// Date parses a dd/mm/yyyy string into a calendar date at midnight UTC.
// Impossible dates such as 31/02/2024 are rejected rather than normalised.
func Date(s string) (time.Time, error) {
	m := dateRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("date %q is not in dd/mm/yyyy format", s)
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("date %q has invalid month %d", s, month)
	}
	if day < 1 || day > daysIn(time.Month(month), year) {
		return time.Time{}, fmt.Errorf("date %q has invalid day %d", s, day)
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// ValidDate reports whether s is a real calendar date in dd/mm/yyyy form.
func ValidDate(s string) bool {
	_, err := Date(s)
	return err == nil
}

func daysIn(m time.Month, year int) int {
	// Day 0 of the next month is the last day of m.
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
