package quantity

import (
	"fmt"
	"math/big"

	"github.com/govalues/decimal"
)

// TypeConfig describes a quantity type to be declared with
// [System.DefineType].
type TypeConfig struct {
	// Name identifies the type within its system, for example "Length".
	Name string

	// Definition expresses a derived type in terms of other types,
	// for example Length/Duration.
	// The zero value declares a base type.
	Definition Term[Type]

	// RefSymbol and RefName describe the reference unit of the type.
	// For derived types whose factors all have a reference unit, the
	// reference unit is created even if RefSymbol is empty; its symbol is
	// then derived from the symbols of the factors' reference units.
	RefSymbol string
	RefName   string

	// Quantum is the smallest amount of the type in terms of its reference
	// unit. It requires a reference unit.
	Quantum *big.Rat
}

type typeInfo struct {
	name     string
	def      Term[Type]
	norm     Term[Type]
	derived  bool
	quantum  *big.Rat
	unitDefs *Registry[Unit, Unit]

	// guarded by System.mu
	refUnit    Unit
	units      []Unit
	converters []*converterEntry
}

// Type is a handle to a quantity type declared in a [System].
// The zero value is not a valid type.
// Types are comparable; two handles are equal if they refer to the same
// declaration.
type Type struct {
	sys *System
	id  int
}

// DefineType declares a new quantity type.
//
// Declaring a type with the same name and an equivalent configuration twice
// returns the type declared first.
// Declaring a type whose normalized definition equals that of an existing
// type results in an error wrapping [ErrDuplicateDefinition].
func (s *System) DefineType(cfg TypeConfig) (Type, error) {
	if cfg.Name == "" {
		return Type{}, fmt.Errorf("defining type: missing name: %w", ErrQuantity)
	}
	if cfg.RefName != "" && cfg.RefSymbol == "" {
		return Type{}, fmt.Errorf("defining type %q: reference unit name %q without symbol: %w", cfg.Name, cfg.RefName, ErrQuantity)
	}
	if cfg.Quantum != nil && cfg.Quantum.Sign() <= 0 {
		return Type{}, fmt.Errorf("defining type %q: quantum %v is not positive: %w", cfg.Name, cfg.Quantum.RatString(), ErrQuantity)
	}

	s.define.Lock()
	defer s.define.Unlock()

	if t, ok := s.TypeByName(cfg.Name); ok {
		if t.matches(cfg) {
			return t, nil
		}
		return Type{}, fmt.Errorf("defining type %q: name already used: %w", cfg.Name, ErrDuplicateDefinition)
	}

	derived := !cfg.Definition.IsOne()
	var (
		norm   Term[Type]
		refDef Term[Unit]
		hasRef bool
	)
	if derived {
		if !sameNum(cfg.Definition.num, nil) {
			return Type{}, fmt.Errorf("defining type %q: definition %v has a numeric factor: %w", cfg.Name, cfg.Definition, ErrQuantity)
		}
		for _, f := range cfg.Definition.items {
			if f.Elem.sys != s {
				return Type{}, fmt.Errorf("defining type %q: %v belongs to another system: %w", cfg.Name, f.Elem, ErrQuantity)
			}
		}
		norm = cfg.Definition.Normalized()
		if norm.IsNumber() {
			return Type{}, fmt.Errorf("defining type %q: definition %v is dimensionless: %w", cfg.Name, cfg.Definition, ErrQuantity)
		}
		if reg, ok := s.typeDefs.Lookup(norm); ok {
			return Type{}, fmt.Errorf("defining type %q: %v already defined as %v: %w", cfg.Name, reg, norm, ErrDuplicateDefinition)
		}
		refDef, hasRef = refUnitDefinition(cfg.Definition)
	}
	refSymbol := cfg.RefSymbol
	if refSymbol == "" && hasRef {
		refSymbol = refDef.String()
	}
	if cfg.Quantum != nil && refSymbol == "" {
		return Type{}, fmt.Errorf("defining type %q: a quantum requires a reference unit: %w", cfg.Name, ErrQuantity)
	}
	if refSymbol != "" {
		if u, ok := s.UnitBySymbol(refSymbol); ok {
			return Type{}, fmt.Errorf("defining type %q: symbol %q already used by %v: %w", cfg.Name, refSymbol, u.Type(), ErrDuplicateSymbol)
		}
	}

	info := &typeInfo{
		name:     cfg.Name,
		def:      cfg.Definition,
		norm:     norm,
		derived:  derived,
		unitDefs: NewRegistry[Unit, Unit](false),
	}
	if cfg.Quantum != nil {
		info.quantum = new(big.Rat).Set(cfg.Quantum)
	}
	s.mu.Lock()
	t := Type{sys: s, id: len(s.types)}
	s.types = append(s.types, info)
	s.names[cfg.Name] = t
	s.mu.Unlock()

	def := t.Term()
	if derived {
		def = norm
	}
	if _, err := s.typeDefs.Register(def, t); err != nil {
		return Type{}, fmt.Errorf("defining type %q: %w", cfg.Name, err)
	}
	s.logger.Debug("type defined", "type", cfg.Name, "definition", def.String(), "quantum", cfg.Quantum)

	if refSymbol != "" {
		ucfg := UnitConfig{Symbol: refSymbol, Name: cfg.RefName}
		if hasRef {
			ucfg.Definition = refDef
		}
		if _, err := s.defineUnit(t, ucfg, true); err != nil {
			return Type{}, fmt.Errorf("defining type %q: %w", cfg.Name, err)
		}
		t.RegisterConverter(RefUnitConverter{})
	}
	return t, nil
}

// refUnitDefinition substitutes each type in def by its reference unit.
// It returns false if any of the types has no reference unit.
func refUnitDefinition(def Term[Type]) (Term[Unit], bool) {
	factors := make([]Factor[Unit], len(def.items))
	for i, f := range def.items {
		u, ok := f.Elem.RefUnit()
		if !ok {
			return Term[Unit]{}, false
		}
		factors[i] = Factor[Unit]{Elem: u, Exp: f.Exp}
	}
	return NewTerm(factors...), true
}

func (t Type) matches(cfg TypeConfig) bool {
	info := t.info()
	if info.derived != !cfg.Definition.IsOne() {
		return false
	}
	if info.derived && !info.def.Equal(cfg.Definition) {
		return false
	}
	if cfg.Quantum != nil || info.quantum != nil {
		if cfg.Quantum == nil || info.quantum == nil || cfg.Quantum.Cmp(info.quantum) != 0 {
			return false
		}
	}
	if cfg.RefSymbol != "" {
		ref, ok := t.RefUnit()
		if !ok || ref.Symbol() != cfg.RefSymbol {
			return false
		}
	}
	return true
}

func (t Type) info() *typeInfo {
	if t.sys == nil {
		panic("quantity: use of zero Type")
	}
	return t.sys.tinfo(t.id)
}

// IsZero returns true if t is the zero value.
func (t Type) IsZero() bool {
	return t.sys == nil
}

// System returns the system t belongs to.
func (t Type) System() *System {
	return t.sys
}

// Name returns the name of the type.
func (t Type) Name() string {
	return t.info().name
}

// String implements the [fmt.Stringer] interface.
func (t Type) String() string {
	if t.sys == nil {
		return "<nil>"
	}
	return t.info().name
}

// Definition returns the definition of a derived type.
// It returns false for base types.
func (t Type) Definition() (Term[Type], bool) {
	info := t.info()
	return info.def, info.derived
}

// IsBase returns true if the type has no definition.
func (t Type) IsBase() bool {
	return !t.info().derived
}

// Decompose returns the normalized definition of t.
func (t Type) Decompose() (*big.Rat, []Factor[Type]) {
	info := t.info()
	if !info.derived {
		return nil, []Factor[Type]{{Elem: t, Exp: 1}}
	}
	return info.norm.num, info.norm.items
}

// SortKey returns the position of t in normalized terms.
func (t Type) SortKey() (group, rank int) {
	return t.id, t.id
}

// ConvertTo always returns false, distinct types are never convertible.
func (t Type) ConvertTo(Type) (*big.Rat, bool) {
	return nil, false
}

// Quantum returns the smallest amount of the type in terms of its reference
// unit, or nil if the type has no quantum.
func (t Type) Quantum() *big.Rat {
	q := t.info().quantum
	if q == nil {
		return nil
	}
	return new(big.Rat).Set(q)
}

// RefUnit returns the reference unit of the type.
func (t Type) RefUnit() (Unit, bool) {
	info := t.info()
	t.sys.mu.RLock()
	defer t.sys.mu.RUnlock()
	return info.refUnit, !info.refUnit.IsZero()
}

// Units returns the units of the type in order of declaration.
func (t Type) Units() []Unit {
	info := t.info()
	t.sys.mu.RLock()
	defer t.sys.mu.RUnlock()
	return append([]Unit(nil), info.units...)
}

// Term returns the term consisting of t alone.
func (t Type) Term() Term[Type] {
	return ElemTerm(t)
}

// Mul returns the term t·u.
func (t Type) Mul(u Type) Term[Type] {
	return NewTerm(Factor[Type]{Elem: t, Exp: 1}, Factor[Type]{Elem: u, Exp: 1})
}

// Quo returns the term t/u.
func (t Type) Quo(u Type) Term[Type] {
	return NewTerm(Factor[Type]{Elem: t, Exp: 1}, Factor[Type]{Elem: u, Exp: -1})
}

// Pow returns the term t^exp.
func (t Type) Pow(exp int) Term[Type] {
	return NewTerm(Factor[Type]{Elem: t, Exp: exp})
}

// New returns a quantity of type t.
// If unit is the zero value, the reference unit of t is used.
func (t Type) New(amount decimal.Decimal, unit Unit) (Quantity, error) {
	if unit.IsZero() {
		ref, ok := t.RefUnit()
		if !ok {
			return Quantity{}, fmt.Errorf("new %v: %v has no reference unit, a unit must be given: %w", amount, t, ErrQuantity)
		}
		unit = ref
	}
	if unit.Type() != t {
		return Quantity{}, fmt.Errorf("new %v: %v is not a unit of %v: %w", amount, unit, t, ErrQuantity)
	}
	return NewQuantity(amount, unit)
}

// typeResult returns the type resulting from the operation key, using the
// cache of the system.
// It returns false as second result if the result is a plain number.
func (s *System) typeResult(key opKey[Type], term Term[Type]) (Type, bool, error) {
	if res, ok := lookupOp(s, s.typeOps, key); ok {
		return res.elem, res.ok, nil
	}
	norm := term.Normalized()
	res := opResult[Type]{}
	if !norm.IsNumber() {
		r, ok := s.typeDefs.Lookup(norm)
		if !ok {
			return Type{}, false, fmt.Errorf("%v %v %v: no type defined as %v: %w", key.a, key.op, operand(key), norm, ErrUndefinedResult)
		}
		res = opResult[Type]{elem: r, ok: true}
	}
	s.logger.Debug("type operation cached", "op", key.op.String(), "a", key.a.String(), "b", operand(key), "result", res.elem.String())
	storeOp(s, s.typeOps, key, res)
	return res.elem, res.ok, nil
}

func operand(key opKey[Type]) string {
	if key.op == opPow {
		return fmt.Sprint(key.exp)
	}
	return key.b.String()
}

// MulType returns the type of the product of quantities of types t and u.
// It returns false if the product is a plain number.
func (t Type) MulType(u Type) (Type, bool, error) {
	return t.sys.typeResult(opKey[Type]{op: opMul, a: t, b: u}, t.Mul(u))
}

// QuoType returns the type of the quotient of quantities of types t and u.
// It returns false if the quotient is a plain number.
func (t Type) QuoType(u Type) (Type, bool, error) {
	return t.sys.typeResult(opKey[Type]{op: opQuo, a: t, b: u}, t.Quo(u))
}

// PowType returns the type of a quantity of type t raised to exp.
// It returns false if the power is a plain number.
func (t Type) PowType(exp int) (Type, bool, error) {
	return t.sys.typeResult(opKey[Type]{op: opPow, a: t, exp: exp}, t.Pow(exp))
}
