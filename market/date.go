package market

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO 8601 calendar date layout used for every date
// crossing a package boundary.
const DateLayout = "2006-01-02"

// Date is a calendar day in YYYY-MM-DD form. Valid dates sort
// chronologically when compared as strings.
type Date string

// ParseDate validates s as a calendar date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("bad date %q: %w", s, err)
	}
	return Date(t.Format(DateLayout)), nil
}

// MustDate is ParseDate for literals; it panics on a bad date.
func MustDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) String() string { return string(d) }

// Time returns midnight UTC of the day.
func (d Date) Time() (time.Time, error) {
	return time.Parse(DateLayout, string(d))
}

func (d Date) Before(o Date) bool { return d < o }
func (d Date) After(o Date) bool  { return d > o }

// Valid reports whether d parses as a calendar date.
func (d Date) Valid() bool {
	_, err := time.Parse(DateLayout, string(d))
	return err == nil
}

// Between reports whether d is within [start, end].
func (d Date) Between(start, end Date) bool {
	return d >= start && d <= end
}

// DateRange returns every calendar day in [start, end], inclusive.
func DateRange(start, end Date) ([]Date, error) {
	s, err := start.Time()
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	e, err := end.Time()
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}
	if e.Before(s) {
		return nil, fmt.Errorf("start %s is after end %s", start, end)
	}

	var out []Date
	for t := s; !t.After(e); t = t.AddDate(0, 0, 1) {
		out = append(out, Date(t.Format(DateLayout)))
	}
	return out, nil
}
