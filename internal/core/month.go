package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LegacySentinelMonth marks pre-versioning data as effective since forever.
const LegacySentinelMonth = "1900-01"

var ErrInvalidMonthFormat = errors.New("invalid month, expected YYYY-MM")

// Month is a calendar month. Its text form "YYYY-MM" sorts the same way
// lexically and chronologically.
type Month struct {
	year  int
	month time.Month
}

// Clock returns the current time. Tests replace it with a fixed instant.
type Clock func() time.Time

// NewMonth creates a month; out of range months are normalized the way
// time.Date does (13 becomes January of the next year).
func NewMonth(year int, month time.Month) Month {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Month{year: t.Year(), month: t.Month()}
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{year: t.Year(), month: t.Month()}
}

// CurrentMonth returns the month of clock().
func CurrentMonth(clock Clock) Month {
	if clock == nil {
		clock = time.Now
	}
	return MonthOf(clock())
}

// Today returns the current date from clock.
func Today(clock Clock) Date {
	if clock == nil {
		clock = time.Now
	}
	now := clock()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// maxYearDigits bounds the year so that month arithmetic cannot overflow.
const maxYearDigits = 9

// ParseMonth parses "YYYY-MM". The year needs four to nine digits and the
// month exactly two.
func ParseMonth(s string) (Month, error) {
	y, m, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok || len(y) < 4 || len(y) > maxYearDigits || len(m) != 2 || !allDigits(y) || !allDigits(m) {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonthFormat, s)
	}
	year, err := strconv.Atoi(y)
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonthFormat, s)
	}
	month, _ := strconv.Atoi(m)
	if month < 1 || month > 12 {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return Month{year: year, month: time.Month(month)}, nil
}

// MustParseMonth is ParseMonth for constants and tests.
func MustParseMonth(s string) Month {
	m, err := ParseMonth(s)
	if err != nil {
		panic(err)
	}
	return m
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func (m Month) Year() int { return m.year }
func (m Month) Month() time.Month { return m.month }
func (m Month) IsZero() bool { return m.year == 0 && m.month == 0 }
func (m Month) String() string { return fmt.Sprintf("%04d-%02d", m.year, int(m.month)) }
func (m Month) index() int { return m.year*12 + int(m.month) - 1 }
func (m Month) Before(o Month) bool { return m.Compare(o) < 0 }
func (m Month) After(o Month) bool { return m.Compare(o) > 0 }

// Compare returns -1, 0 or +1 in chronological order.
func (m Month) Compare(o Month) int {
	switch a, b := m.index(), o.index(); {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Next returns the following month; December rolls over into January.
func (m Month) Next() Month {
	return m.AddMonths(1)
}

// AddMonths shifts the month by delta, which may be negative.
func (m Month) AddMonths(delta int) Month {
	return NewMonth(m.year, m.month+time.Month(delta))
}

// FirstDay returns the first day of the month.
func (m Month) FirstDay() Date {
	return NewDate(m.year, int(m.month), 1)
}

// Contains reports whether d falls into the month.
func (m Month) Contains(d Date) bool {
	return !d.IsZero() && d.Year() == m.year && d.Time.Month() == m.month
}

func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Month) UnmarshalText(b []byte) error {
	parsed, err := ParseMonth(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MonthsBetweenInclusive counts the months from start to end, both included.
// It returns 0 when either value is malformed or end precedes start.
func MonthsBetweenInclusive(start, end string) int {
	s, err := ParseMonth(start)
	if err != nil {
		return 0
	}
	e, err := ParseMonth(end)
	if err != nil {
		return 0
	}
	if e.Before(s) {
		return 0
	}
	return e.index() - s.index() + 1
}
