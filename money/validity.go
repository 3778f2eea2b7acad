package money

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ValidityKind is the granularity of the periods exchange rates are
// valid for.
type ValidityKind int

const (
	Constant ValidityKind = iota // rates valid for all times
	Yearly
	Monthly
	Daily
)

func (k ValidityKind) String() string {
	switch k {
	case Constant:
		return "constant"
	case Yearly:
		return "yearly"
	case Monthly:
		return "monthly"
	case Daily:
		return "daily"
	}
	return fmt.Sprintf("ValidityKind(%d)", int(k))
}

// Validity is the period a set of exchange rates is valid for.
// The zero value means the rates are valid for all times.
type Validity struct {
	kind  ValidityKind
	year  int
	month time.Month
	day   int
}

// Always returns the unrestricted validity.
func Always() Validity {
	return Validity{}
}

// Year returns the validity for the given year.
func Year(year int) (Validity, error) {
	if year < 1 || year > 9999 {
		return Validity{}, fmt.Errorf("year %v out of range: %w", year, ErrValidity)
	}
	return Validity{kind: Yearly, year: year}, nil
}

// Month returns the validity for the given month.
func Month(year int, month time.Month) (Validity, error) {
	if year < 1 || year > 9999 || month < time.January || month > time.December {
		return Validity{}, fmt.Errorf("month %04d-%02d out of range: %w", year, int(month), ErrValidity)
	}
	return Validity{kind: Monthly, year: year, month: month}, nil
}

// Day returns the validity for the calendar date of t.
func Day(t time.Time) Validity {
	y, m, d := t.Date()
	return Validity{kind: Daily, year: y, month: m, day: d}
}

// ParseValidity converts a string to a validity period.
// The empty string means all times; "2024", "2024-03" and "2024-03-15" give
// yearly, monthly and daily validity.
func ParseValidity(s string) (Validity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Always(), nil
	}
	switch strings.Count(s, "-") {
	case 0:
		y, err := strconv.Atoi(s)
		if err != nil {
			return Validity{}, fmt.Errorf("parsing validity %q: not a year: %w", s, ErrValidity)
		}
		return Year(y)
	case 1:
		t, err := time.Parse("2006-01", s)
		if err != nil {
			return Validity{}, fmt.Errorf("parsing validity %q: not a year and month: %w", s, ErrValidity)
		}
		return Month(t.Year(), t.Month())
	case 2:
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return Validity{}, fmt.Errorf("parsing validity %q: not a date: %w", s, ErrValidity)
		}
		return Day(t), nil
	}
	return Validity{}, fmt.Errorf("parsing validity %q: unknown period: %w", s, ErrValidity)
}

// Kind returns the granularity of v.
func (v Validity) Kind() ValidityKind {
	return v.kind
}

// Contains returns true if the period of v includes the date of t.
func (v Validity) Contains(t time.Time) bool {
	return v.kind.period(t) == v
}

// period returns the period of kind k containing the date of t.
func (k ValidityKind) period(t time.Time) Validity {
	y, m, d := t.Date()
	switch k {
	case Yearly:
		return Validity{kind: k, year: y}
	case Monthly:
		return Validity{kind: k, year: y, month: m}
	case Daily:
		return Validity{kind: k, year: y, month: m, day: d}
	}
	return Validity{}
}

// String implements the [fmt.Stringer] interface and returns the period in
// the format accepted by [ParseValidity].
func (v Validity) String() string {
	switch v.kind {
	case Yearly:
		return fmt.Sprintf("%04d", v.year)
	case Monthly:
		return fmt.Sprintf("%04d-%02d", v.year, int(v.month))
	case Daily:
		return fmt.Sprintf("%04d-%02d-%02d", v.year, int(v.month), v.day)
	}
	return ""
}
