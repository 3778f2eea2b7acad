package money

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/govalues/decimal"
	"golang.org/x/text/currency"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownCurrency = errors.New("unknown currency")
	ErrInvalidRate     = errors.New("invalid exchange rate")
	ErrValidity        = errors.New("invalid validity period")
)

// Currency describes a currency as listed in ISO 4217.
type Currency struct {
	// Code is the alphabetic code, for example "EUR".
	Code string `yaml:"code"`

	// Numeric is the three-digit numeric code, for example "978".
	Numeric string `yaml:"numeric"`

	Name string `yaml:"name"`

	// MinorUnit is the number of digits after the decimal separator.
	MinorUnit int `yaml:"minor"`

	// Countries lists the ISO 3166 codes of the countries using the currency.
	Countries []string `yaml:"countries"`
}

// SmallestFraction returns 10^-MinorUnit, the smallest amount of the
// currency.
func (c Currency) SmallestFraction() decimal.Decimal {
	d, err := decimal.New(1, c.MinorUnit)
	if err != nil {
		panic(fmt.Sprintf("SmallestFraction(%v) failed: %v", c.Code, err))
	}
	return d
}

// String implements the [fmt.Stringer] interface and returns the
// alphabetic code.
func (c Currency) String() string {
	return c.Code
}

//go:embed iso4217.yaml
var iso4217 []byte

var table = sync.OnceValues(func() (map[string]Currency, error) {
	var list []Currency
	if err := yaml.Unmarshal(iso4217, &list); err != nil {
		return nil, fmt.Errorf("decoding currency table: %w", err)
	}
	m := make(map[string]Currency, len(list))
	for _, c := range list {
		m[c.Code] = c
	}
	return m, nil
})

// LookupCurrency returns the currency with the given alphabetic code.
// Codes missing in the built-in table are accepted if they are known to
// golang.org/x/text/currency; their name is then the code itself.
func LookupCurrency(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	m, err := table()
	if err != nil {
		return Currency{}, err
	}
	if c, ok := m[code]; ok {
		return c, nil
	}
	u, err := currency.ParseISO(code)
	if err != nil {
		return Currency{}, fmt.Errorf("looking up %q: %w", code, ErrUnknownCurrency)
	}
	scale, _ := currency.Standard.Rounding(u)
	return Currency{Code: u.String(), Name: u.String(), MinorUnit: scale}, nil
}

// Currencies returns the currencies of the built-in table, sorted by code.
func Currencies() []Currency {
	m, err := table()
	if err != nil {
		return nil
	}
	res := make([]Currency, 0, len(m))
	for _, c := range m {
		res = append(res, c)
	}
	slices.SortFunc(res, func(a, b Currency) int {
		return strings.Compare(a.Code, b.Code)
	})
	return res
}
