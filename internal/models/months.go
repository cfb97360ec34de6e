// filepath: internal/models/months.go
package models

import (
	"regexp"
	"time"
)

var monthRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidMonth reports whether s is a "YYYY-MM" month key.
func ValidMonth(s string) bool {
	return monthRegex.MatchString(s)
}

// MonthToDate normalizes a "YYYY-MM" month key to the first day of that
// month, the form rankings are stored in.
func MonthToDate(month string) (time.Time, error) {
	return time.Parse("2006-01-02", month+"-01")
}

// DateToMonth truncates a ranking date back to its "YYYY-MM" month key.
func DateToMonth(t time.Time) string {
	return t.Format("2006-01")
}

// CurrentMonth returns the month key for the current UTC time.
func CurrentMonth() string {
	return time.Now().UTC().Format("2006-01")
}
