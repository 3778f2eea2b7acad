package money

import (
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/govalues/decimal"
	"github.com/govalues/quantity"
)

// Quote is an entry of [Converter.Update]: Multiple units of the base
// currency are worth Amount of Currency.
// A zero Multiple means 1.
type Quote struct {
	Currency quantity.Unit
	Amount   decimal.Decimal
	Multiple decimal.Decimal
}

type rateKey struct {
	period Validity
	term   quantity.Unit
}

// Converter holds exchange rates relative to a base currency, each valid
// for a period, and converts amounts of money between currencies.
//
// Rates between two currencies other than the base currency are
// triangulated through the base currency.
// All updates must use the same [ValidityKind].
//
// A Converter is safe for concurrent use by multiple goroutines.
type Converter struct {
	base   quantity.Unit
	today  func() time.Time
	logger *slog.Logger

	mu      sync.RWMutex
	kind    ValidityKind
	updated bool
	rates   map[rateKey]ExchangeRate
}

// ConverterOption configures a [Converter].
type ConverterOption func(*Converter)

// WithToday sets the function returning the effective date used when no
// date is given. The default is [time.Now].
func WithToday(f func() time.Time) ConverterOption {
	return func(c *Converter) {
		if f != nil {
			c.today = f
		}
	}
}

// WithLogger sets the logger of the converter.
// The default is the logger of the system of the base currency.
func WithLogger(l *slog.Logger) ConverterOption {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewConverter returns a converter without rates for the given base
// currency.
func NewConverter(base quantity.Unit, opts ...ConverterOption) (*Converter, error) {
	if base.IsZero() {
		return nil, fmt.Errorf("new converter: missing base currency: %w", ErrUnknownCurrency)
	}
	c := &Converter{
		base:   base,
		today:  time.Now,
		logger: base.Type().System().Logger(),
		rates:  make(map[rateKey]ExchangeRate),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Base returns the base currency.
func (c *Converter) Base() quantity.Unit {
	return c.base
}

// Kind returns the granularity of the validity periods of the rates, and
// false if no rates were added yet.
func (c *Converter) Kind() (ValidityKind, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.kind, c.updated
}

// Update adds or replaces the rates valid for period v.
// Either all quotes are added or none.
//
// Update returns an error wrapping [ErrValidity] if v has a different
// kind than the periods of earlier updates, and an error wrapping
// [ErrInvalidRate] if a quote does not form a valid rate.
func (c *Converter) Update(v Validity, quotes ...Quote) error {
	rates := make([]ExchangeRate, len(quotes))
	for i, q := range quotes {
		mult := q.Multiple
		if mult.IsZero() {
			mult = decimal.One
		}
		r, err := NewExchangeRate(c.base, mult, q.Currency, q.Amount)
		if err != nil {
			return fmt.Errorf("updating rates for %q: %w", v, err)
		}
		rates[i] = r
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.updated && c.kind != v.kind {
		return fmt.Errorf("updating rates for %q: %v period, converter holds %v rates: %w", v, v.kind, c.kind, ErrValidity)
	}
	c.kind, c.updated = v.kind, true
	for _, r := range rates {
		c.rates[rateKey{period: v, term: r.term}] = r
	}
	c.logger.Debug("exchange rates updated", "base", c.base.String(), "validity", v.String(), "count", len(rates))
	return nil
}

// lookup returns the rate from the base currency to term, effective at t.
func (c *Converter) lookup(term quantity.Unit, t time.Time) (ExchangeRate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.updated {
		return ExchangeRate{}, false
	}
	r, ok := c.rates[rateKey{period: c.kind.period(t), term: term}]
	return r, ok
}

// Rate returns the rate from unit to term effective at t.
// If t is the zero time, the date returned by the function given with
// [WithToday] is used.
//
// Rate returns false if no such rate is known; this is not an error.
func (c *Converter) Rate(unit, term quantity.Unit, t time.Time) (ExchangeRate, bool) {
	if unit == term {
		return identityRate(unit), true
	}
	if t.IsZero() {
		t = c.today()
	}
	switch c.base {
	case unit:
		return c.lookup(term, t)
	case term:
		r, ok := c.lookup(unit, t)
		if !ok {
			return ExchangeRate{}, false
		}
		inv, err := r.Inverted()
		if err != nil {
			c.logger.Debug("inverting exchange rate failed", "rate", r.String(), "error", err)
			return ExchangeRate{}, false
		}
		return inv, true
	}
	ur, ok := c.lookup(unit, t)
	if !ok {
		return ExchangeRate{}, false
	}
	tr, ok := c.lookup(term, t)
	if !ok {
		return ExchangeRate{}, false
	}
	r, err := tr.Quo(ur)
	if err != nil {
		c.logger.Debug("triangulating exchange rate failed", "unit", unit.String(), "term", term.String(), "error", err)
		return ExchangeRate{}, false
	}
	return r, true
}

// ConvertAt returns the equivalent of q in currency to, using the rate
// effective at t.
// It returns an error wrapping [quantity.ErrUnitConversion] if no rate is
// known.
func (c *Converter) ConvertAt(q quantity.Quantity, to quantity.Unit, t time.Time) (quantity.Quantity, error) {
	if q.IsNumber() || q.Type() != to.Type() || q.Type() != c.base.Type() {
		return quantity.Quantity{}, fmt.Errorf("converting %v to %v: %w", q, to, quantity.ErrIncompatibleUnits)
	}
	r, ok := c.Rate(q.Unit(), to, t)
	if !ok {
		return quantity.Quantity{}, fmt.Errorf("converting %v to %v: no exchange rate: %w", q, to, quantity.ErrUnitConversion)
	}
	if q.Unit() == to {
		return q, nil
	}
	return r.Convert(q)
}

// Convert implements the [quantity.Converter] interface using the rates
// effective today.
func (c *Converter) Convert(q quantity.Quantity, to quantity.Unit) (*big.Rat, bool) {
	if q.IsNumber() || to.IsZero() || q.Type() != c.base.Type() {
		return nil, false
	}
	r, ok := c.Rate(q.Unit(), to, time.Time{})
	if !ok {
		return nil, false
	}
	a := q.Rat()
	return a.Mul(a, ratOf(r.Rate())), true
}

// Register adds c to the converters of the money type.
// Release the returned handle before any converter registered earlier.
func (c *Converter) Register() *quantity.ConverterHandle {
	return c.base.Type().RegisterConverter(c)
}
