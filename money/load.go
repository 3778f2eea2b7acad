package money

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/govalues/decimal"
)

type rateFile struct {
	Base  string        `toml:"base"`
	Rates []rateSection `toml:"rates"`
}

type rateSection struct {
	Validity string      `toml:"validity"`
	Quotes   []quoteLine `toml:"quotes"`
}

type quoteLine struct {
	Currency string `toml:"currency"`
	Amount   string `toml:"amount"`
	Multiple int64  `toml:"multiple"`
}

// LoadRates reads a TOML document with exchange rates and returns a
// converter holding them. Currencies are declared in m as needed.
//
//	base = "EUR"
//
//	[[rates]]
//	validity = "2024-03"
//	quotes = [
//	  { currency = "USD", amount = "1.0457" },
//	  { currency = "JPY", amount = "16210", multiple = 100 },
//	]
func LoadRates(m *Money, r io.Reader, opts ...ConverterOption) (*Converter, error) {
	var f rateFile
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, fmt.Errorf("loading rates: %w", err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return nil, fmt.Errorf("loading rates: unknown keys %s: %w", strings.Join(names, ", "), ErrInvalidRate)
	}
	base, err := m.Currency(f.Base)
	if err != nil {
		return nil, fmt.Errorf("loading rates: base currency: %w", err)
	}
	c, err := NewConverter(base, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading rates: %w", err)
	}
	for i, sec := range f.Rates {
		v, err := ParseValidity(sec.Validity)
		if err != nil {
			return nil, fmt.Errorf("loading rates: section %d: %w", i+1, err)
		}
		quotes := make([]Quote, len(sec.Quotes))
		for j, ql := range sec.Quotes {
			u, err := m.Currency(ql.Currency)
			if err != nil {
				return nil, fmt.Errorf("loading rates: section %d: %w", i+1, err)
			}
			amount, err := decimal.Parse(ql.Amount)
			if err != nil {
				return nil, fmt.Errorf("loading rates: section %d: %v amount %q: %w: %w", i+1, ql.Currency, ql.Amount, err, ErrInvalidRate)
			}
			mult, err := decimal.New(ql.Multiple, 0)
			if err != nil {
				return nil, fmt.Errorf("loading rates: section %d: %v multiple: %w: %w", i+1, ql.Currency, err, ErrInvalidRate)
			}
			quotes[j] = Quote{Currency: u, Amount: amount, Multiple: mult}
		}
		if err := c.Update(v, quotes...); err != nil {
			return nil, fmt.Errorf("loading rates: section %d: %w", i+1, err)
		}
	}
	return c, nil
}

// LoadRatesFile is like [LoadRates] but reads the named file.
func LoadRatesFile(m *Money, name string, opts ...ConverterOption) (*Converter, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("loading rates: %w", err)
	}
	defer f.Close()
	return LoadRates(m, f, opts...)
}
