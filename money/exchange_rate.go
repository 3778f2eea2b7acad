package money

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/govalues/decimal"
	"github.com/govalues/quantity"
)

// rateScale is the number of digits after the decimal point kept in the
// term amount of an exchange rate.
const rateScale = 6

// ExchangeRate states that a multiple of the unit currency is worth a term
// amount of the term currency, for example 1 EUR = 1.0457 USD.
//
// The rate is normalized on construction: the unit multiple becomes a power
// of ten and the term amount is scaled so that its magnitude is at least
// -1, then rounded to 6 digits after the decimal point.
// For example, 50 EUR = 50.38 USD becomes 10 EUR = 10.076 USD.
//
// The zero value is not a valid rate.
type ExchangeRate struct {
	unit     quantity.Unit
	term     quantity.Unit
	multiple decimal.Decimal
	amount   decimal.Decimal
	rate     decimal.Decimal
	inverse  decimal.Decimal
}

// magnitude returns the exponent of the most significant digit of d,
// which must not be zero.
func magnitude(d decimal.Decimal) int {
	return d.Prec() - d.Scale() - 1
}

// pow10 returns 10^n for non-negative n.
func pow10(n int) (decimal.Decimal, error) {
	return decimal.Parse("1" + strings.Repeat("0", n))
}

// NewExchangeRate returns the rate multiple unit = amount term.
//
// NewExchangeRate returns an error wrapping [ErrInvalidRate] if:
//   - the currencies are identical or not declared;
//   - the multiple is not an integer or less than 1;
//   - the amount is less than 0.000001.
func NewExchangeRate(unit quantity.Unit, multiple decimal.Decimal, term quantity.Unit, amount decimal.Decimal) (ExchangeRate, error) {
	if unit.IsZero() || term.IsZero() {
		return ExchangeRate{}, fmt.Errorf("new exchange rate: missing currency: %w", ErrInvalidRate)
	}
	if unit == term {
		return ExchangeRate{}, fmt.Errorf("new exchange rate %v/%v: identical currencies: %w", unit, term, ErrInvalidRate)
	}
	if unit.Type() != term.Type() {
		return ExchangeRate{}, fmt.Errorf("new exchange rate %v/%v: %w", unit, term, quantity.ErrIncompatibleUnits)
	}
	if !multiple.IsInt() || multiple.Cmp(decimal.One) < 0 {
		return ExchangeRate{}, fmt.Errorf("new exchange rate %v/%v: unit multiple %v is not an integer >= 1: %w", unit, term, multiple, ErrInvalidRate)
	}
	if !amount.IsPos() || magnitude(amount) < -rateScale {
		return ExchangeRate{}, fmt.Errorf("new exchange rate %v/%v: term amount %v is less than 0.000001: %w", unit, term, amount, ErrInvalidRate)
	}
	multiple = multiple.Trunc(0)
	shift := magnitude(multiple) - min(0, magnitude(amount)+1)
	mult, err := pow10(shift)
	if err != nil {
		return ExchangeRate{}, fmt.Errorf("new exchange rate %v/%v: %w: %w", unit, term, err, ErrInvalidRate)
	}
	a, err := amount.Mul(mult)
	if err == nil {
		a, err = a.Quo(multiple)
	}
	if err != nil {
		return ExchangeRate{}, fmt.Errorf("new exchange rate %v/%v: scaling term amount: %w: %w", unit, term, err, ErrInvalidRate)
	}
	a = a.Round(rateScale).Trim(0)
	if a.IsZero() {
		return ExchangeRate{}, fmt.Errorf("new exchange rate %v/%v: term amount %v rounds to zero: %w", unit, term, amount, ErrInvalidRate)
	}
	r := ExchangeRate{unit: unit, term: term, multiple: mult, amount: a}
	if r.rate, err = a.Quo(mult); err == nil {
		r.inverse, err = mult.Quo(a)
	}
	if err != nil {
		return ExchangeRate{}, fmt.Errorf("new exchange rate %v/%v: %w: %w", unit, term, err, ErrInvalidRate)
	}
	r.rate = r.rate.Trim(0)
	r.inverse = r.inverse.Trim(0)
	return r, nil
}

// MustNewExchangeRate is like [NewExchangeRate] but panics if the rate
// cannot be constructed.
func MustNewExchangeRate(unit quantity.Unit, multiple decimal.Decimal, term quantity.Unit, amount decimal.Decimal) ExchangeRate {
	r, err := NewExchangeRate(unit, multiple, term, amount)
	if err != nil {
		panic(fmt.Sprintf("NewExchangeRate(%v, %v, %v, %v) failed: %v", unit, multiple, term, amount, err))
	}
	return r
}

// identityRate returns the rate 1 u = 1 u.
func identityRate(u quantity.Unit) ExchangeRate {
	return ExchangeRate{unit: u, term: u, multiple: decimal.One, amount: decimal.One, rate: decimal.One, inverse: decimal.One}
}

// UnitCurrency returns the currency converted from, also known as base
// currency.
func (r ExchangeRate) UnitCurrency() quantity.Unit {
	return r.unit
}

// TermCurrency returns the currency converted to, also known as price
// currency.
func (r ExchangeRate) TermCurrency() quantity.Unit {
	return r.term
}

// UnitMultiple returns the normalized multiple of the unit currency,
// a power of ten.
func (r ExchangeRate) UnitMultiple() decimal.Decimal {
	return r.multiple
}

// TermAmount returns the normalized amount of the term currency equivalent
// to [ExchangeRate.UnitMultiple] of the unit currency.
func (r ExchangeRate) TermAmount() decimal.Decimal {
	return r.amount
}

// Rate returns the value of one unit currency in the term currency.
func (r ExchangeRate) Rate() decimal.Decimal {
	return r.rate
}

// InverseRate returns the value of one term currency in the unit currency.
// It is not rounded to 6 digits.
func (r ExchangeRate) InverseRate() decimal.Decimal {
	return r.inverse
}

// Quotation returns the unit currency, the term currency and the rate.
func (r ExchangeRate) Quotation() (unit, term quantity.Unit, rate decimal.Decimal) {
	return r.unit, r.term, r.rate
}

// InverseQuotation returns the term currency, the unit currency and the
// inverse rate.
func (r ExchangeRate) InverseQuotation() (term, unit quantity.Unit, rate decimal.Decimal) {
	return r.term, r.unit, r.inverse
}

// Inverted returns the rate converting from the term currency to the unit
// currency.
func (r ExchangeRate) Inverted() (ExchangeRate, error) {
	if r.unit == r.term {
		return r, nil
	}
	return NewExchangeRate(r.term, decimal.One, r.unit, r.inverse)
}

// Equal returns true if both rates have the same quotation.
func (r ExchangeRate) Equal(s ExchangeRate) bool {
	return r.unit == s.unit && r.term == s.term && r.rate.Cmp(s.rate) == 0
}

// Mul combines two rates sharing a currency, where the unit currency of one
// rate is the term currency of the other.
// For example, (EUR/USD) · (HKD/EUR) results in HKD/USD.
func (r ExchangeRate) Mul(s ExchangeRate) (ExchangeRate, error) {
	rate, err := r.rate.Mul(s.rate)
	if err != nil {
		return ExchangeRate{}, fmt.Errorf("multiplying %v and %v: %w", r, s, err)
	}
	switch {
	case r.unit == s.term:
		return NewExchangeRate(s.unit, decimal.One, r.term, rate)
	case r.term == s.unit:
		return NewExchangeRate(r.unit, decimal.One, s.term, rate)
	}
	return ExchangeRate{}, fmt.Errorf("multiplying %v and %v: no shared currency: %w", r, s, quantity.ErrIncompatibleUnits)
}

// Quo combines two rates sharing their unit currency or their term
// currency.
// For example, (EUR/USD) / (EUR/HKD) results in HKD/USD.
func (r ExchangeRate) Quo(s ExchangeRate) (ExchangeRate, error) {
	rate, err := r.rate.Quo(s.rate)
	if err != nil {
		return ExchangeRate{}, fmt.Errorf("dividing %v by %v: %w", r, s, err)
	}
	switch {
	case r.unit == s.unit:
		return NewExchangeRate(s.term, decimal.One, r.term, rate)
	case r.term == s.term:
		return NewExchangeRate(r.unit, decimal.One, s.unit, rate)
	}
	return ExchangeRate{}, fmt.Errorf("dividing %v by %v: no shared currency: %w", r, s, quantity.ErrIncompatibleUnits)
}

// Convert returns the equivalent of q in the other currency of the rate.
// Amounts in the unit currency are multiplied by the rate, amounts in the
// term currency by the inverse rate.
func (r ExchangeRate) Convert(q quantity.Quantity) (quantity.Quantity, error) {
	var (
		factor decimal.Decimal
		to     quantity.Unit
	)
	switch q.Unit() {
	case r.unit:
		factor, to = r.rate, r.term
	case r.term:
		factor, to = r.inverse, r.unit
	default:
		return quantity.Quantity{}, fmt.Errorf("converting %v with %v: %w", q, r, quantity.ErrIncompatibleUnits)
	}
	a := q.Rat()
	res, err := quantity.NewQuantityRat(a.Mul(a, ratOf(factor)), to)
	if err != nil {
		return quantity.Quantity{}, fmt.Errorf("converting %v with %v: %w", q, r, err)
	}
	return res, nil
}

// Term returns the rate as the term rate·term/unit.
func (r ExchangeRate) Term() quantity.Term[quantity.Unit] {
	return quantity.NewNumTerm(ratOf(r.rate),
		quantity.Factor[quantity.Unit]{Elem: r.term, Exp: 1},
		quantity.Factor[quantity.Unit]{Elem: r.unit, Exp: -1},
	)
}

// Apply converts a quantity whose unit contains the unit currency, for
// example a price in EUR/kg, into the corresponding unit containing the
// term currency, here USD/kg.
// The resulting unit must be declared.
func (r ExchangeRate) Apply(q quantity.Quantity) (quantity.Quantity, error) {
	if q.IsNumber() {
		return quantity.Quantity{}, fmt.Errorf("applying %v to %v: %w", r, q, quantity.ErrIncompatibleUnits)
	}
	found := false
	for _, f := range q.Unit().Term().Normalized().Factors() {
		if f.Elem == r.unit && f.Exp == 1 {
			found = true
			break
		}
	}
	if !found {
		return quantity.Quantity{}, fmt.Errorf("applying %v to %v: %v not in unit: %w", r, q, r.unit, quantity.ErrIncompatibleUnits)
	}
	res, err := q.Unit().Type().System().FromTerm(q.Term().Mul(r.Term()))
	if err != nil {
		return quantity.Quantity{}, fmt.Errorf("applying %v to %v: %w", r, q, err)
	}
	return res, nil
}

// String implements the [fmt.Stringer] interface and returns a string
// like "1 EUR = 1.0457 USD".
func (r ExchangeRate) String() string {
	return fmt.Sprintf("%v %v = %v %v", r.multiple, r.unit, r.amount, r.term)
}

// ratOf converts d to an exact rational number.
func ratOf(d decimal.Decimal) *big.Rat {
	r, ok := new(big.Rat).SetString(d.String())
	if !ok {
		panic(fmt.Sprintf("ratOf(%v) failed", d))
	}
	return r
}
