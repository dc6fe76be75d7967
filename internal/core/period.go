package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the sortable key form of a Date.
	DateLayout = "2006-01-02"
	// MonthLayout is the key form of a MonthKey.
	MonthLayout = "2006-01"

	daysPerWeek = 7
)

// MonthKey identifies a calendar month as YYYY-MM.
type MonthKey string

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf drops the time of day from t, keeping t's calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// Today returns the current local calendar day.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a YYYY-MM-DD key.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: zero date", ErrInvalidDate)
	}
	return nil
}

// Key returns the YYYY-MM-DD form.
func (d Date) Key() string {
	return d.Format(DateLayout)
}

func (d Date) String() string {
	return d.Key()
}

// AddDays moves the date by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.AddDate(0, 0, n)}
}

// Before and After compare calendar days.
func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }
func (d Date) After(o Date) bool  { return d.Time.After(o.Time) }

// WeekStart returns the Monday on or before d. Sunday belongs to the week
// that began six days earlier.
func (d Date) WeekStart() Date {
	offset := (int(d.Weekday()) + 6) % daysPerWeek
	return d.AddDays(-offset)
}

// MonthKey returns the month bucket containing d.
func (d Date) MonthKey() MonthKey {
	return MonthKey(d.Format(MonthLayout))
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.Key())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, string(b))
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseMonthKey validates a YYYY-MM key.
func ParseMonthKey(s string) (MonthKey, error) {
	s = strings.TrimSpace(s)
	if _, err := time.Parse(MonthLayout, s); err != nil {
		return "", fmt.Errorf("%w: month %q", ErrInvalidDate, s)
	}
	return MonthKey(s), nil
}

// First returns the first day of the month.
func (m MonthKey) First() (Date, error) {
	t, err := time.Parse(MonthLayout, string(m))
	if err != nil {
		return Date{}, fmt.Errorf("%w: month %q", ErrInvalidDate, string(m))
	}
	return Date{Time: t}, nil
}

// Previous returns the month before m, crossing year boundaries.
func (m MonthKey) Previous() (MonthKey, error) {
	first, err := m.First()
	if err != nil {
		return "", err
	}
	return MonthKey(first.AddDate(0, -1, 0).Format(MonthLayout)), nil
}

// Contains reports whether d falls inside the month.
func (m MonthKey) Contains(d Date) bool {
	return strings.HasPrefix(d.Key(), string(m)+"-")
}

func (m MonthKey) String() string {
	return string(m)
}

// WeekRange returns the inclusive first and last day of the week that
// starts on weekStart.
func WeekRange(weekStart Date) (first, last Date) {
	return weekStart, weekStart.AddDays(daysPerWeek - 1)
}

// StartOfWeek maps a YYYY-MM-DD key to the key of its Monday.
func StartOfWeek(dateKey string) (string, error) {
	d, err := ParseDate(dateKey)
	if err != nil {
		return "", err
	}
	return d.WeekStart().Key(), nil
}

// StartOfMonth maps a YYYY-MM-DD key to its YYYY-MM key.
func StartOfMonth(dateKey string) (string, error) {
	d, err := ParseDate(dateKey)
	if err != nil {
		return "", err
	}
	return string(d.MonthKey()), nil
}

// PreviousWeek returns the key exactly seven days before weekKey.
func PreviousWeek(weekKey string) (string, error) {
	d, err := ParseDate(weekKey)
	if err != nil {
		return "", err
	}
	return d.AddDays(-daysPerWeek).Key(), nil
}

// PreviousMonth returns the YYYY-MM key of the month before monthKey.
func PreviousMonth(monthKey string) (string, error) {
	m, err := ParseMonthKey(monthKey)
	if err != nil {
		return "", err
	}
	prev, err := m.Previous()
	if err != nil {
		return "", err
	}
	return string(prev), nil
}
