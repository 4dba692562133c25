package task

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// DateLayout is the wire format of a calendar date.
const DateLayout = "2006-01-02"

// TimeLayout is the wire format of a time of day.
const TimeLayout = "15:04"

// Date is a calendar date without a time of day or zone, stored as YYYY-MM-DD.
// The zero value means "no date".
type Date string

// ParseDate validates s as YYYY-MM-DD. The empty string parses to the zero Date.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return "", nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return Date(t.Format(DateLayout)), nil
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// NewDate builds a Date from its parts, normalizing overflow the way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 12, 0, 0, 0, time.UTC))
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d == ""
}

// String implements fmt.Stringer.
func (d Date) String() string {
	return string(d)
}

// Valid reports whether the date is unset or well formed.
func (d Date) Valid() bool {
	_, err := ParseDate(string(d))
	return err == nil
}

// civil returns the date at noon UTC, which is safe from DST shifts during arithmetic.
func (d Date) civil() (time.Time, bool) {
	if d.IsZero() {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return time.Time{}, false
	}
	return t.Add(12 * time.Hour), true
}

// In returns local midnight of the date in loc.
func (d Date) In(loc *time.Location) (time.Time, bool) {
	c, ok := d.civil()
	if !ok {
		return time.Time{}, false
	}
	return time.Date(c.Year(), c.Month(), c.Day(), 0, 0, 0, 0, loc), true
}

// AddDate adds years, months and days with time.Time's rollover rules, so
// Jan 31 plus one month lands in early March.
func (d Date) AddDate(years, months, days int) Date {
	c, ok := d.civil()
	if !ok {
		return d
	}
	return DateOf(c.AddDate(years, months, days))
}

// Weekday returns the day of the week. The zero Date reports Sunday.
func (d Date) Weekday() time.Weekday {
	c, _ := d.civil()
	return c.Weekday()
}

// Compare returns -1, 0 or +1. YYYY-MM-DD orders lexically.
func (d Date) Compare(o Date) int {
	switch {
	case d < o:
		return -1
	case d > o:
		return 1
	default:
		return 0
	}
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool {
	return d.Compare(o) < 0
}

// After reports whether d is strictly later than o.
func (d Date) After(o Date) bool {
	return d.Compare(o) > 0
}

// UnmarshalYAML keeps unquoted dates as text instead of letting YAML resolve a timestamp.
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseDate(value.Value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ValidTimeOfDay reports whether s is empty or a HH:MM time.
func ValidTimeOfDay(s string) bool {
	if s == "" {
		return true
	}
	_, err := time.Parse(TimeLayout, s)
	return err == nil
}
