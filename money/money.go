package money

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/govalues/decimal"
	"github.com/govalues/quantity"
)

// TypeName is the name of the quantity type measuring money.
const TypeName = "Money"

// Money binds currencies to the quantity type [TypeName] of a system.
// Each currency becomes a unit of that type whose quantum is the
// smallest fraction of the currency.
// The type has no reference unit, so amounts in different currencies can
// only be converted by a registered [Converter].
type Money struct {
	typ quantity.Type
	mu  sync.Mutex
}

// New declares the money type in sys, or reuses it if it already exists.
func New(sys *quantity.System) (*Money, error) {
	t, err := sys.DefineType(quantity.TypeConfig{Name: TypeName})
	if err != nil {
		return nil, fmt.Errorf("declaring money: %w", err)
	}
	return &Money{typ: t}, nil
}

// Type returns the quantity type measuring money.
func (m *Money) Type() quantity.Type {
	return m.typ
}

// System returns the system of the money type.
func (m *Money) System() *quantity.System {
	return m.typ.System()
}

// Currency returns the unit for the currency with the given code,
// declaring it on first use.
func (m *Money) Currency(code string) (quantity.Unit, error) {
	c, err := LookupCurrency(code)
	if err != nil {
		return quantity.Unit{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.System().UnitBySymbol(c.Code); ok {
		if u.Type() != m.typ {
			return quantity.Unit{}, fmt.Errorf("declaring currency %v: symbol used by %v: %w", c.Code, u.Type(), quantity.ErrDuplicateSymbol)
		}
		return u, nil
	}
	quantum := new(big.Rat).SetFrac(big.NewInt(1), new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(c.MinorUnit)), nil))
	u, err := m.typ.DefineUnit(quantity.UnitConfig{Symbol: c.Code, Name: c.Name, Quantum: quantum})
	if err != nil {
		return quantity.Unit{}, fmt.Errorf("declaring currency %v: %w", c.Code, err)
	}
	return u, nil
}

// MustCurrency is like [Money.Currency] but panics if the currency cannot
// be declared.
func (m *Money) MustCurrency(code string) quantity.Unit {
	u, err := m.Currency(code)
	if err != nil {
		panic(fmt.Sprintf("Currency(%q) failed: %v", code, err))
	}
	return u
}

// CurrencyOf returns the currency data of unit u.
// It returns false if u is not a currency of m.
func (m *Money) CurrencyOf(u quantity.Unit) (Currency, bool) {
	if u.IsZero() || u.Type() != m.typ {
		return Currency{}, false
	}
	c, err := LookupCurrency(u.Symbol())
	if err != nil {
		return Currency{}, false
	}
	return c, true
}

// New returns the amount in the currency with the given code, rounded to
// the smallest fraction of the currency.
func (m *Money) New(amount decimal.Decimal, code string) (quantity.Quantity, error) {
	u, err := m.Currency(code)
	if err != nil {
		return quantity.Quantity{}, err
	}
	return quantity.NewQuantity(amount, u)
}

// IsMoney returns true if q is an amount of money.
func (m *Money) IsMoney(q quantity.Quantity) bool {
	return !q.IsNumber() && q.Type() == m.typ
}
