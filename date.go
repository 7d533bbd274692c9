package useby

import (
	"fmt"
	"time"
)

// ISOLayout is the only date format this package produces.
const ISOLayout = "2006-01-02"

// DateMatch is a date recognized in OCR text.
type DateMatch struct {
	// ISO is the recognized date in YYYY-MM-DD form.
	ISO string `json:"iso"`

	// Note records which parts of the date were assumed rather than read,
	// e.g. "assumed day=01 from year-month". Empty for full dates.
	Note string `json:"note,omitempty"`
}

// ToISO converts a year, month and day into a YYYY-MM-DD string.
// It returns false when the triple is not a real calendar date, such as
// day 31 in April or month 13.
func ToISO(year, month, day int) (string, bool) {
	if year < 1 || year > 9999 {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

// IsISODate reports whether s is a valid YYYY-MM-DD calendar date.
func IsISODate(s string) bool {
	t, err := time.Parse(ISOLayout, s)
	if err != nil {
		return false
	}
	return t.Format(ISOLayout) == s
}
