package quantity

import (
	"fmt"
	"math/big"

	"github.com/govalues/decimal"
)

// Quantity is an immutable amount measured in a unit.
// A quantity with the zero unit is a plain number; such values result from
// operations whose dimensions cancel out, for example 6 m / 3 m.
//
// Amounts are exact. An amount without finite decimal representation, such
// as 1/3, is kept as a fraction; [Quantity.Amount] then returns it rounded
// to [decimal.MaxPrec] digits and [Quantity.Rat] returns the exact value.
//
// If the unit has a quantum, the amount is rounded to an integer multiple
// of it on construction, using the rounding mode of the system.
type Quantity struct {
	amount decimal.Decimal
	frac   *big.Rat // exact amount if amount is rounded, nil otherwise
	unit   Unit
}

// NewQuantity returns the quantity amount in unit u.
// If u is the zero value, the result is a plain number.
func NewQuantity(amount decimal.Decimal, u Unit) (Quantity, error) {
	if u.IsZero() {
		return Quantity{amount: amount}, nil
	}
	if u.info().quantum == nil {
		return Quantity{amount: amount, unit: u}, nil
	}
	return newQuantityRat(ratFromDecimal(amount), u)
}

// NewQuantityRat returns the quantity r in unit u.
// Unlike [NewQuantity], the amount may be a fraction without finite decimal
// representation.
func NewQuantityRat(r *big.Rat, u Unit) (Quantity, error) {
	return newQuantityRat(new(big.Rat).Set(r), u)
}

// Number returns d as a plain number.
func Number(d decimal.Decimal) Quantity {
	return Quantity{amount: d}
}

// newQuantityRat returns the quantity r in unit u, quantized if u has a
// quantum.
// r must not be modified afterwards.
func newQuantityRat(r *big.Rat, u Unit) (Quantity, error) {
	mode := HalfEven
	var quantum *big.Rat
	if !u.IsZero() {
		mode = u.sys.rounding
		quantum = u.info().quantum
	}
	if quantum != nil {
		r = quantizeRat(r, quantum, mode)
	}
	if d, ok := exactDecimal(r); ok {
		if quantum != nil {
			if scale, ok := decimalScale(quantum); ok && scale > d.Scale() && scale <= decimal.MaxScale {
				d = d.Pad(scale)
			}
		}
		return Quantity{amount: d, unit: u}, nil
	}
	d, err := decimalFromRat(r, mode)
	if err != nil {
		if u.IsZero() {
			return Quantity{}, fmt.Errorf("new number: %w", err)
		}
		return Quantity{}, fmt.Errorf("new %v: %w", u, err)
	}
	return Quantity{amount: d, frac: r, unit: u}, nil
}

// Amount returns the amount of the quantity.
// If the amount has no finite decimal representation, the result is rounded
// using the rounding mode of the system; see [Quantity.IsDecimal].
func (q Quantity) Amount() decimal.Decimal {
	return q.amount
}

// Rat returns the exact amount of the quantity.
func (q Quantity) Rat() *big.Rat {
	return q.rat()
}

// IsDecimal returns true if [Quantity.Amount] is exact.
func (q Quantity) IsDecimal() bool {
	return q.frac == nil
}

// rat returns a fresh copy of the exact amount.
func (q Quantity) rat() *big.Rat {
	if q.frac != nil {
		return new(big.Rat).Set(q.frac)
	}
	return ratFromDecimal(q.amount)
}

// Unit returns the unit of the quantity, or the zero unit for plain numbers.
func (q Quantity) Unit() Unit {
	return q.unit
}

// Term returns the term amount·unit, suitable as a unit definition.
func (q Quantity) Term() Term[Unit] {
	return q.unitTerm().MulNum(q.rat())
}

// Type returns the type of the quantity, or the zero type for plain numbers.
func (q Quantity) Type() Type {
	return q.unit.Type()
}

// IsNumber returns true if q is a plain number.
func (q Quantity) IsNumber() bool {
	return q.unit.IsZero()
}

// Sign returns:
//
//	-1 if q < 0
//	 0 if q == 0
//	+1 if q > 0
func (q Quantity) Sign() int {
	if q.frac != nil {
		return q.frac.Sign()
	}
	return q.amount.Sign()
}

// IsZero returns true if the amount of q is zero.
func (q Quantity) IsZero() bool {
	return q.frac == nil && q.amount.IsZero()
}

// Neg returns a quantity with the opposite sign.
func (q Quantity) Neg() Quantity {
	r := Quantity{amount: q.amount.Neg(), unit: q.unit}
	if q.frac != nil {
		r.frac = new(big.Rat).Neg(q.frac)
	}
	return r
}

// Abs returns the absolute value of q.
func (q Quantity) Abs() Quantity {
	if q.Sign() < 0 {
		return q.Neg()
	}
	return q
}

// scaled returns the amount of q multiplied by f.
func (q Quantity) scaled(f *big.Rat) *big.Rat {
	r := q.rat()
	return r.Mul(r, f)
}

// Equiv returns the amount of q expressed in unit to, without quantizing it.
// The result is rounded if it has no finite decimal representation.
func (q Quantity) Equiv(to Unit) (decimal.Decimal, error) {
	r, err := convertAmount(q, to)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if d, ok := exactDecimal(r); ok {
		return d, nil
	}
	d, err := decimalFromRat(r, rounding(to))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("converting %v to %v: %w", q, to, err)
	}
	return d, nil
}

// Convert returns the quantity equivalent to q in unit to.
// Units of different types result in an error wrapping
// [ErrIncompatibleUnits], units without a conversion path in an error
// wrapping [ErrUnitConversion].
func (q Quantity) Convert(to Unit) (Quantity, error) {
	r, err := convertAmount(q, to)
	if err != nil {
		return Quantity{}, err
	}
	return newQuantityRat(r, to)
}

// Add returns the sum q + r in the unit of q.
// The amount of r is converted into the unit of q first.
func (q Quantity) Add(r Quantity) (Quantity, error) {
	a, err := convertAmount(r, q.unit)
	if err != nil {
		return Quantity{}, fmt.Errorf("computing [%v + %v]: %w", q, r, err)
	}
	if d, ok := exactDecimal(a); ok && q.frac == nil {
		if sum, err := q.amount.Add(d); err == nil {
			return NewQuantity(sum, q.unit)
		}
	}
	a.Add(a, q.rat())
	return newQuantityRat(a, q.unit)
}

// Sub returns the difference q - r in the unit of q.
// The amount of r is converted into the unit of q first.
func (q Quantity) Sub(r Quantity) (Quantity, error) {
	return q.Add(r.Neg())
}

// MulNum returns the quantity q·d.
func (q Quantity) MulNum(d decimal.Decimal) (Quantity, error) {
	return newQuantityRat(q.scaled(ratFromDecimal(d)), q.unit)
}

// QuoNum returns the quantity q/d.
func (q Quantity) QuoNum(d decimal.Decimal) (Quantity, error) {
	if d.IsZero() {
		return Quantity{}, fmt.Errorf("computing [%v / %v]: division by zero: %w", q, d, ErrQuantity)
	}
	return q.quoRat(ratFromDecimal(d))
}

// quoRat returns the quantity q/x.
// x must not be zero.
func (q Quantity) quoRat(x *big.Rat) (Quantity, error) {
	r := q.rat()
	return newQuantityRat(r.Quo(r, x), q.unit)
}

func (q Quantity) typeTerm() Term[Type] {
	if q.IsNumber() {
		return Term[Type]{}
	}
	return q.unit.Type().Term()
}

func (q Quantity) unitTerm() Term[Unit] {
	if q.IsNumber() {
		return Term[Unit]{}
	}
	return q.unit.Term()
}

func (q Quantity) system(r Quantity) (*System, error) {
	s := q.unit.sys
	if s == nil {
		s = r.unit.sys
	} else if r.unit.sys != nil && r.unit.sys != s {
		return nil, fmt.Errorf("%v and %v belong to different systems: %w", q.unit, r.unit, ErrIncompatibleUnits)
	}
	return s, nil
}

// Mul returns the product q·r.
// The type of the result is the type registered with the normalized
// definition Type(q)·Type(r); if there is none, an error wrapping
// [ErrUndefinedResult] is returned.
// If the dimensions cancel out, the result is a plain number.
func (q Quantity) Mul(r Quantity) (Quantity, error) {
	s, err := q.system(r)
	if err != nil {
		return Quantity{}, fmt.Errorf("computing [%v * %v]: %w", q, r, err)
	}
	if q.IsNumber() || r.IsNumber() {
		x := q.rat()
		x.Mul(x, r.rat())
		u := q.unit
		if u.IsZero() {
			u = r.unit
		}
		return newQuantityRat(x, u)
	}
	t, isType, err := s.typeResult(opKey[Type]{op: opMul, a: q.Type(), b: r.Type()}, q.typeTerm().Mul(r.typeTerm()))
	if err != nil {
		return Quantity{}, fmt.Errorf("computing [%v * %v]: %w", q, r, err)
	}
	f, u, err := s.unitResult(opKey[Unit]{op: opMul, a: q.unit, b: r.unit}, q.unitTerm().Mul(r.unitTerm()), t, isType)
	if err != nil {
		return Quantity{}, fmt.Errorf("computing [%v * %v]: %w", q, r, err)
	}
	x := q.rat()
	x.Mul(x, r.rat())
	x.Mul(x, f)
	return newQuantityRat(x, u)
}

// Quo returns the quotient q/r.
// Quantities of the same type are divided after converting r into the unit
// of q; the result is a plain number.
// Otherwise the type of the result is resolved as in [Quantity.Mul].
func (q Quantity) Quo(r Quantity) (Quantity, error) {
	s, err := q.system(r)
	if err != nil {
		return Quantity{}, fmt.Errorf("computing [%v / %v]: %w", q, r, err)
	}
	if r.IsZero() {
		return Quantity{}, fmt.Errorf("computing [%v / %v]: division by zero: %w", q, r, ErrQuantity)
	}
	if r.IsNumber() {
		return q.quoRat(r.rat())
	}
	if !q.IsNumber() && q.Type() == r.Type() {
		a, err := convertAmount(r, q.unit)
		if err != nil {
			return Quantity{}, fmt.Errorf("computing [%v / %v]: %w", q, r, err)
		}
		if a.Sign() == 0 {
			return Quantity{}, fmt.Errorf("computing [%v / %v]: division by zero: %w", q, r, ErrQuantity)
		}
		x := q.rat()
		x.Quo(x, a)
		return newQuantityRat(x, Unit{})
	}
	t, isType, err := s.typeResult(opKey[Type]{op: opQuo, a: q.Type(), b: r.Type()}, q.typeTerm().Quo(r.typeTerm()))
	if err != nil {
		return Quantity{}, fmt.Errorf("computing [%v / %v]: %w", q, r, err)
	}
	f, u, err := s.unitResult(opKey[Unit]{op: opQuo, a: q.unit, b: r.unit}, q.unitTerm().Quo(r.unitTerm()), t, isType)
	if err != nil {
		return Quantity{}, fmt.Errorf("computing [%v / %v]: %w", q, r, err)
	}
	x := q.rat()
	x.Quo(x, r.rat())
	x.Mul(x, f)
	return newQuantityRat(x, u)
}

// Pow returns q raised to the integer power exp.
func (q Quantity) Pow(exp int) (Quantity, error) {
	if q.IsZero() && exp < 0 {
		return Quantity{}, fmt.Errorf("computing [%v^%v]: division by zero: %w", q, exp, ErrQuantity)
	}
	x := powRat(q.rat(), exp)
	if q.IsNumber() {
		return newQuantityRat(x, Unit{})
	}
	if exp == 1 {
		return q, nil
	}
	s := q.unit.sys
	t, isType, err := s.typeResult(opKey[Type]{op: opPow, a: q.Type(), exp: exp}, q.typeTerm().Pow(exp))
	if err != nil {
		return Quantity{}, fmt.Errorf("computing [%v^%v]: %w", q, exp, err)
	}
	f, u, err := s.unitResult(opKey[Unit]{op: opPow, a: q.unit, exp: exp}, q.unitTerm().Pow(exp), t, isType)
	if err != nil {
		return Quantity{}, fmt.Errorf("computing [%v^%v]: %w", q, exp, err)
	}
	x.Mul(x, f)
	return newQuantityRat(x, u)
}

// unitResult finds the unit for a term over units, using the cache of the
// system.
// It returns the factor f so that term = f·unit; the unit is zero if t is
// not a type, i.e. the term reduces to a plain number.
func (s *System) unitResult(key opKey[Unit], term Term[Unit], t Type, isType bool) (*big.Rat, Unit, error) {
	if res, ok := lookupOp(s, s.unitOps, key); ok {
		return new(big.Rat).Set(res.num), res.elem, nil
	}
	f, u, err := s.fromTerm(term, t, isType)
	if err != nil {
		return nil, Unit{}, err
	}
	s.logger.Debug("unit operation cached", "op", key.op.String(), "a", key.a.String(), "b", key.b.String(), "exp", key.exp, "result", u.String(), "factor", f.RatString())
	storeOp(s, s.unitOps, key, opResult[Unit]{num: f, elem: u, ok: isType})
	return new(big.Rat).Set(f), u, nil
}

// fromTerm finds a unit of type t equivalent to term, up to a numeric factor.
//
// A unit whose normalized definition matches the normalized term exactly is
// preferred. Otherwise the numeric factor is split off and the remaining
// term is looked up. As a last resort, the term is expressed in the
// reference unit of t.
func (s *System) fromTerm(term Term[Unit], t Type, isType bool) (*big.Rat, Unit, error) {
	norm := term.Normalized()
	if !isType {
		if !norm.IsNumber() {
			return nil, Unit{}, fmt.Errorf("%v does not reduce to a number: %w", term, ErrUnitConversion)
		}
		return norm.Num(), Unit{}, nil
	}
	info := t.info()
	if u, ok := info.unitDefs.Lookup(norm); ok {
		return big.NewRat(1, 1), u, nil
	}
	num, rest := norm.Split()
	if u, ok := info.unitDefs.Lookup(rest); ok {
		return num, u, nil
	}
	if ref, ok := t.RefUnit(); ok {
		r := norm.Quo(ref.Term()).Normalized()
		if r.IsNumber() {
			return r.Num(), ref, nil
		}
	}
	return nil, Unit{}, fmt.Errorf("no unit of %v defined as %v: %w", t, norm, ErrNotRegistered)
}

// FromTerm returns the quantity equal to term, expressed in a registered
// unit.
// If the term reduces to a plain number, the result is a plain number.
func (s *System) FromTerm(term Term[Unit]) (Quantity, error) {
	factors := make([]Factor[Type], 0, term.Len())
	for _, f := range term.items {
		if f.Elem.sys != s {
			return Quantity{}, fmt.Errorf("from term %v: %v belongs to another system: %w", term, f.Elem, ErrQuantity)
		}
		factors = append(factors, Factor[Type]{Elem: f.Elem.Type(), Exp: f.Exp})
	}
	tt := NewTerm(factors...)
	var (
		t      Type
		isType bool
	)
	if norm := tt.Normalized(); !norm.IsNumber() {
		var ok bool
		if t, ok = s.typeDefs.Lookup(norm); !ok {
			return Quantity{}, fmt.Errorf("from term %v: no type defined as %v: %w", term, norm, ErrUndefinedResult)
		}
		isType = true
	}
	f, u, err := s.fromTerm(term, t, isType)
	if err != nil {
		return Quantity{}, fmt.Errorf("from term %v: %w", term, err)
	}
	return NewQuantityRat(f, u)
}

// Cmp compares q and r and returns:
//
//	-1 if q < r
//	 0 if q == r
//	+1 if q > r
//
// The amount of r is converted into the unit of q first.
func (q Quantity) Cmp(r Quantity) (int, error) {
	a, err := convertAmount(r, q.unit)
	if err != nil {
		return 0, fmt.Errorf("comparing %v and %v: %w", q, r, err)
	}
	return q.rat().Cmp(a), nil
}

// Equal returns true if q and r represent the same magnitude.
// Quantities of different types are never equal.
func (q Quantity) Equal(r Quantity) bool {
	c, err := q.Cmp(r)
	return err == nil && c == 0
}

// Round returns q with its amount rounded to the given number of digits
// after the decimal point, using the rounding mode of the system.
// The result is quantized again if the unit has a quantum.
func (q Quantity) Round(scale int) (Quantity, error) {
	if scale < 0 || scale > decimal.MaxScale {
		return Quantity{}, fmt.Errorf("rounding %v: scale %v out of range: %w", q, scale, ErrQuantity)
	}
	step := new(big.Rat).SetFrac(big.NewInt(1), pow10(scale))
	r := quantizeRat(q.rat(), step, rounding(q.unit))
	return newQuantityRat(r, q.unit)
}

// Sum returns the sum of the given quantities in the unit of the first one.
func Sum(qs ...Quantity) (Quantity, error) {
	if len(qs) == 0 {
		return Quantity{}, fmt.Errorf("computing sum: no quantities: %w", ErrQuantity)
	}
	s := qs[0]
	for _, q := range qs[1:] {
		var err error
		if s, err = s.Add(q); err != nil {
			return Quantity{}, err
		}
	}
	return s, nil
}

// String implements the [fmt.Stringer] interface and returns a string
// "<amount> <symbol>", or "<amount>" for plain numbers.
// Amounts without finite decimal representation are written as fractions,
// for example "1/3 m", which [System.Parse] reads back exactly.
func (q Quantity) String() string {
	if q.IsNumber() {
		return q.amountString()
	}
	return q.amountString() + " " + q.unit.String()
}

func (q Quantity) amountString() string {
	if q.frac != nil {
		return q.frac.RatString()
	}
	return q.amount.String()
}

// rounding returns the rounding mode of the system of u.
// Plain numbers are rounded half to even.
func rounding(u Unit) RoundingMode {
	if u.IsZero() {
		return HalfEven
	}
	return u.sys.rounding
}
