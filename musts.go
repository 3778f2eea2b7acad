package quantity

import (
	"fmt"

	"github.com/govalues/decimal"
)

// MustDefineType is like [System.DefineType] but panics if the type cannot
// be declared.
func (s *System) MustDefineType(cfg TypeConfig) Type {
	t, err := s.DefineType(cfg)
	if err != nil {
		panic(fmt.Sprintf("MustDefineType(%q) failed: %v", cfg.Name, err))
	}
	return t
}

// MustDefineUnit is like [Type.DefineUnit] but panics if the unit cannot be
// declared.
func (t Type) MustDefineUnit(cfg UnitConfig) Unit {
	u, err := t.DefineUnit(cfg)
	if err != nil {
		panic(fmt.Sprintf("MustDefineUnit(%q) failed: %v", cfg.Symbol, err))
	}
	return u
}

// MustNewQuantity is like [NewQuantity] but panics if the quantity cannot be
// constructed.
func MustNewQuantity(amount decimal.Decimal, u Unit) Quantity {
	q, err := NewQuantity(amount, u)
	if err != nil {
		panic(fmt.Sprintf("MustNewQuantity(%v, %v) failed: %v", amount, u, err))
	}
	return q
}

// MustParse is like [System.Parse] but panics if the string cannot be parsed.
func (s *System) MustParse(str string) Quantity {
	q, err := s.Parse(str)
	if err != nil {
		panic(fmt.Sprintf("MustParse(%q) failed: %v", str, err))
	}
	return q
}

// MustAdd is like [Quantity.Add] but panics if computing error.
func (q Quantity) MustAdd(r Quantity) Quantity {
	s, err := q.Add(r)
	if err != nil {
		panic(fmt.Sprintf("MustAdd(%v) failed: %v", r, err))
	}
	return s
}

// MustSub is like [Quantity.Sub] but panics if computing error.
func (q Quantity) MustSub(r Quantity) Quantity {
	s, err := q.Sub(r)
	if err != nil {
		panic(fmt.Sprintf("MustSub(%v) failed: %v", r, err))
	}
	return s
}

// MustMul is like [Quantity.Mul] but panics if computing error.
func (q Quantity) MustMul(r Quantity) Quantity {
	p, err := q.Mul(r)
	if err != nil {
		panic(fmt.Sprintf("MustMul(%v) failed: %v", r, err))
	}
	return p
}

// MustQuo is like [Quantity.Quo] but panics if computing error.
func (q Quantity) MustQuo(r Quantity) Quantity {
	p, err := q.Quo(r)
	if err != nil {
		panic(fmt.Sprintf("MustQuo(%v) failed: %v", r, err))
	}
	return p
}

// MustConvert is like [Quantity.Convert] but panics if the quantity cannot
// be converted.
func (q Quantity) MustConvert(to Unit) Quantity {
	c, err := q.Convert(to)
	if err != nil {
		panic(fmt.Sprintf("MustConvert(%v) failed: %v", to, err))
	}
	return c
}
