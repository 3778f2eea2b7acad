package quantity

import (
	"fmt"
	"math/big"

	"github.com/govalues/decimal"
)

// UnitConfig describes a unit to be declared with [Type.DefineUnit].
type UnitConfig struct {
	// Symbol identifies the unit within its system, for example "km".
	Symbol string

	// Name is an optional display name, for example "Kilometre".
	Name string

	// Definition expresses the unit in terms of other units,
	// for example 1000·m or km/h.
	// The zero value declares a unit without definition.
	Definition Term[Unit]

	// Quantum overrides the smallest amount of quantities in this unit.
	// By default it is derived from the quantum of the type.
	Quantum *big.Rat
}

type unitInfo struct {
	typ     Type
	symbol  string
	name    string
	def     Term[Unit]
	norm    Term[Unit]
	defined bool
	equiv   *big.Rat // factor relative to the reference unit, nil if unknown
	quantum *big.Rat
}

// Unit is a handle to a unit of measure declared in a [System].
// The zero value represents the absence of a unit; a [Quantity] with the
// zero unit is a plain number.
type Unit struct {
	sys *System
	id  int
}

// DefineUnit declares a new unit of type t.
//
// If a unit with the symbol already exists and cfg holds nothing but the
// symbol, the existing unit is returned.
// Otherwise a used symbol results in an error wrapping [ErrDuplicateSymbol].
//
// A unit without definition can only be declared for types without a
// reference unit.
// The definition of a unit must reduce to the definition of t.
func (t Type) DefineUnit(cfg UnitConfig) (Unit, error) {
	s := t.sys
	s.define.Lock()
	defer s.define.Unlock()
	return s.defineUnit(t, cfg, false)
}

func (s *System) defineUnit(t Type, cfg UnitConfig, isRef bool) (Unit, error) {
	if cfg.Symbol == "" {
		return Unit{}, fmt.Errorf("defining unit of %v: missing symbol: %w", t, ErrQuantity)
	}
	if u, ok := s.UnitBySymbol(cfg.Symbol); ok {
		if !isRef && u.Type() == t && cfg.Name == "" && cfg.Definition.IsOne() && cfg.Quantum == nil {
			return u, nil
		}
		return Unit{}, fmt.Errorf("defining unit %q: symbol already used by %v: %w", cfg.Symbol, u.Type(), ErrDuplicateSymbol)
	}
	if cfg.Quantum != nil && cfg.Quantum.Sign() <= 0 {
		return Unit{}, fmt.Errorf("defining unit %q: quantum %v is not positive: %w", cfg.Symbol, cfg.Quantum.RatString(), ErrQuantity)
	}
	tinfo := t.info()
	ref, hasRef := t.RefUnit()
	info := &unitInfo{
		typ:     t,
		symbol:  cfg.Symbol,
		name:    cfg.Name,
		defined: !cfg.Definition.IsOne(),
	}
	switch {
	case info.defined:
		if err := s.checkUnitDefinition(t, cfg.Definition); err != nil {
			return Unit{}, fmt.Errorf("defining unit %q: %w", cfg.Symbol, err)
		}
		info.def = cfg.Definition
		info.norm = cfg.Definition.Normalized()
		switch {
		case isRef:
			info.equiv = big.NewRat(1, 1)
		case hasRef:
			ratio := info.norm.Quo(ElemTerm(ref).Normalized()).Normalized()
			if ratio.IsNumber() {
				info.equiv = ratio.Num()
			}
		}
	case isRef:
		info.equiv = big.NewRat(1, 1)
	case hasRef:
		return Unit{}, fmt.Errorf("defining unit %q: %v already has the reference unit %v, a definition is required: %w", cfg.Symbol, t, ref, ErrQuantity)
	}
	switch {
	case cfg.Quantum != nil:
		info.quantum = new(big.Rat).Set(cfg.Quantum)
	case tinfo.quantum != nil && info.equiv != nil:
		info.quantum = new(big.Rat).Quo(tinfo.quantum, info.equiv)
	}

	s.mu.Lock()
	if _, ok := s.symbols[cfg.Symbol]; ok {
		s.mu.Unlock()
		return Unit{}, fmt.Errorf("defining unit %q: %w", cfg.Symbol, ErrDuplicateSymbol)
	}
	u := Unit{sys: s, id: len(s.units)}
	s.units = append(s.units, info)
	s.symbols[cfg.Symbol] = u
	tinfo.units = append(tinfo.units, u)
	if isRef {
		tinfo.refUnit = u
	}
	s.mu.Unlock()

	def := u.Term()
	if info.defined {
		def = info.norm
	}
	if _, err := tinfo.unitDefs.Register(def, u); err != nil {
		return Unit{}, fmt.Errorf("defining unit %q: %w", cfg.Symbol, err)
	}
	s.logger.Debug("unit defined", "type", tinfo.name, "unit", cfg.Symbol, "definition", def.String(), "ref", isRef)
	return u, nil
}

// checkUnitDefinition verifies that def measures quantities of type t.
func (s *System) checkUnitDefinition(t Type, def Term[Unit]) error {
	if def.num != nil && def.num.Sign() == 0 {
		return fmt.Errorf("definition %v is zero: %w", def, ErrQuantity)
	}
	factors := make([]Factor[Type], len(def.items))
	for i, f := range def.items {
		if f.Elem.sys != s {
			return fmt.Errorf("%v belongs to another system: %w", f.Elem, ErrQuantity)
		}
		factors[i] = Factor[Type]{Elem: f.Elem.Type(), Exp: f.Exp}
	}
	got := NewTerm(factors...)
	if !got.Equal(t.Term()) {
		return fmt.Errorf("definition %v measures %v, not %v: %w", def, got, t, ErrIncompatibleUnits)
	}
	return nil
}

func (u Unit) info() *unitInfo {
	if u.sys == nil {
		panic("quantity: use of zero Unit")
	}
	return u.sys.uinfo(u.id)
}

// IsZero returns true if u is the zero value.
func (u Unit) IsZero() bool {
	return u.sys == nil
}

// Type returns the quantity type measured by the unit.
func (u Unit) Type() Type {
	if u.sys == nil {
		return Type{}
	}
	return u.info().typ
}

// Symbol returns the symbol of the unit.
func (u Unit) Symbol() string {
	return u.info().symbol
}

// Name returns the display name of the unit, or its symbol if it has no name.
func (u Unit) Name() string {
	info := u.info()
	if info.name == "" {
		return info.symbol
	}
	return info.name
}

// String implements the [fmt.Stringer] interface.
func (u Unit) String() string {
	if u.sys == nil {
		return ""
	}
	return u.info().symbol
}

// Definition returns the definition of the unit.
// It returns false for units declared without definition.
func (u Unit) Definition() (Term[Unit], bool) {
	info := u.info()
	return info.def, info.defined
}

// IsRef returns true if u is the reference unit of its type.
func (u Unit) IsRef() bool {
	ref, ok := u.Type().RefUnit()
	return ok && ref == u
}

// Equiv returns the factor f so that 1 u = f ref, where ref is the reference
// unit of the type.
// It returns false if the unit has no known relation to the reference unit.
func (u Unit) Equiv() (*big.Rat, bool) {
	e := u.info().equiv
	if e == nil {
		return nil, false
	}
	return new(big.Rat).Set(e), true
}

// Quantum returns the smallest amount of quantities in unit u, or nil if
// quantities in u are not quantized.
func (u Unit) Quantum() *big.Rat {
	q := u.info().quantum
	if q == nil {
		return nil
	}
	return new(big.Rat).Set(q)
}

// IsBase returns true if the unit has no definition.
func (u Unit) IsBase() bool {
	return !u.info().defined
}

// Decompose returns the normalized definition of u.
func (u Unit) Decompose() (*big.Rat, []Factor[Unit]) {
	info := u.info()
	if !info.defined {
		return nil, []Factor[Unit]{{Elem: u, Exp: 1}}
	}
	return info.norm.num, info.norm.items
}

// SortKey returns the position of u in normalized terms.
// Units of the same type share a group.
func (u Unit) SortKey() (group, rank int) {
	return u.info().typ.id, u.id
}

// ConvertTo returns the factor f so that 1 u = f into.
// Units are convertible if they measure the same type and both are related
// to its reference unit.
func (u Unit) ConvertTo(into Unit) (*big.Rat, bool) {
	ui, ii := u.info(), into.info()
	if ui.typ != ii.typ || ui.equiv == nil || ii.equiv == nil {
		return nil, false
	}
	return new(big.Rat).Quo(ui.equiv, ii.equiv), true
}

// Term returns the term consisting of u alone.
func (u Unit) Term() Term[Unit] {
	return ElemTerm(u)
}

// One returns the quantity 1 u.
func (u Unit) One() Quantity {
	return Quantity{amount: decimal.One, unit: u}
}

// New returns the quantity amount u.
func (u Unit) New(amount decimal.Decimal) (Quantity, error) {
	return NewQuantity(amount, u)
}

// Amount returns the amount of q expressed in unit u.
func (u Unit) Amount(q Quantity) (decimal.Decimal, error) {
	return q.Equiv(u)
}

// Mul returns the product 1 u · 1 v.
func (u Unit) Mul(v Unit) (Quantity, error) {
	return u.One().Mul(v.One())
}

// Quo returns the quotient 1 u / 1 v.
func (u Unit) Quo(v Unit) (Quantity, error) {
	return u.One().Quo(v.One())
}

// Pow returns the power (1 u)^exp.
func (u Unit) Pow(exp int) (Quantity, error) {
	return u.One().Pow(exp)
}

// Cmp compares the magnitudes of 1 u and 1 v and returns:
//
//	-1 if u < v
//	 0 if u == v
//	+1 if u > v
//
// The units must be convertible into each other.
func (u Unit) Cmp(v Unit) (int, error) {
	return u.One().Cmp(v.One())
}
