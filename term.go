package quantity

import (
	"cmp"
	"fmt"
	"math/big"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// Factor is an element raised to an integer power.
type Factor[E any] struct {
	Elem E
	Exp  int
}

// Elem is the capability an element needs to take part in a [Term].
// It is implemented by [Type] and [Unit].
type Elem[E any] interface {
	comparable
	fmt.Stringer

	// IsBase reports whether the element has no definition of its own.
	IsBase() bool

	// Decompose returns the normalized definition of a derived element,
	// split into its numeric factor and its base factors.
	Decompose() (*big.Rat, []Factor[E])

	// SortKey returns the position of the element in normalized terms.
	// Elements with the same group may be converted into each other,
	// rank must be unique per element.
	SortKey() (group, rank int)

	// ConvertTo returns the factor f so that e = f·into.
	// It returns false if the elements cannot be converted.
	ConvertTo(into E) (*big.Rat, bool)
}

// Term is an immutable product of a rational number and elements raised
// to integer powers.
// For example, the term ((x, 1), (y, 3), (z, -2)) means x·y³/z².
//
// The zero value is the term equal to 1.
// Two terms are [Term.Equal] if their normalized forms are identical,
// regardless of the order of construction.
type Term[E Elem[E]] struct {
	num   *big.Rat // nil means 1
	items []Factor[E]
	cache *termCache[E]
}

type termCache[E Elem[E]] struct {
	once sync.Once
	norm Term[E]
	key  string
}

func newTerm[E Elem[E]](num *big.Rat, items []Factor[E]) Term[E] {
	if num != nil && num.Cmp(ratOne) == 0 {
		num = nil
	}
	return Term[E]{num: num, items: items, cache: new(termCache[E])}
}

// NewTerm returns the term equal to the product of factors.
// Repeated elements are merged, convertible elements are folded into the
// first of them and factors with exponent 0 are dropped.
func NewTerm[E Elem[E]](factors ...Factor[E]) Term[E] {
	num, items := reduce(nil, factors, true)
	return newTerm(num, items)
}

// NewNumTerm returns the term num·factors.
func NewNumTerm[E Elem[E]](num *big.Rat, factors ...Factor[E]) Term[E] {
	if num == nil {
		num = ratOne
	}
	num, items := reduce(num, factors, true)
	return newTerm(num, items)
}

// ElemTerm returns the term consisting of the single element e.
func ElemTerm[E Elem[E]](e E) Term[E] {
	return newTerm(nil, []Factor[E]{{Elem: e, Exp: 1}})
}

// Num returns the numeric factor of the term.
func (t Term[E]) Num() *big.Rat {
	if t.num == nil {
		return new(big.Rat).SetInt64(1)
	}
	return new(big.Rat).Set(t.num)
}

// Factors returns the non-numeric factors of the term.
func (t Term[E]) Factors() []Factor[E] {
	return slices.Clone(t.items)
}

// Len returns the number of non-numeric factors.
func (t Term[E]) Len() int {
	return len(t.items)
}

// IsNumber returns true if the term has no non-numeric factors.
func (t Term[E]) IsNumber() bool {
	return len(t.items) == 0
}

// IsOne returns true if the term equals 1.
func (t Term[E]) IsOne() bool {
	return t.num == nil && len(t.items) == 0
}

// Split returns the numeric factor and the rest of the term.
func (t Term[E]) Split() (*big.Rat, Term[E]) {
	return t.Num(), newTerm(nil, t.items)
}

// Mul returns the term t·u.
func (t Term[E]) Mul(u Term[E]) Term[E] {
	num := t.Num()
	if u.num != nil {
		num.Mul(num, u.num)
	}
	items := make([]Factor[E], 0, len(t.items)+len(u.items))
	items = append(items, t.items...)
	items = append(items, u.items...)
	num, items = reduce(num, items, true)
	return newTerm(num, items)
}

// Quo returns the term t/u.
func (t Term[E]) Quo(u Term[E]) Term[E] {
	return t.Mul(u.Inv())
}

// MulNum returns the term r·t.
func (t Term[E]) MulNum(r *big.Rat) Term[E] {
	num := t.Num()
	num.Mul(num, r)
	return newTerm(num, t.items)
}

// Inv returns the reciprocal 1/t.
// It panics if the numeric factor is zero.
func (t Term[E]) Inv() Term[E] {
	var num *big.Rat
	if t.num != nil {
		num = new(big.Rat).Inv(t.num)
	}
	items := make([]Factor[E], len(t.items))
	for i, f := range t.items {
		items[i] = Factor[E]{Elem: f.Elem, Exp: -f.Exp}
	}
	return newTerm(num, items)
}

// Pow returns the term t^exp.
// Like [Term.Inv], it panics if the numeric factor is zero and exp is
// negative.
func (t Term[E]) Pow(exp int) Term[E] {
	if exp == 0 {
		return newTerm[E](nil, nil)
	}
	var num *big.Rat
	if t.num != nil {
		if t.num.Sign() == 0 && exp < 0 {
			panic(fmt.Sprintf("Pow(%v) failed: division by zero", exp))
		}
		num = powRat(t.num, exp)
	}
	items := make([]Factor[E], len(t.items))
	for i, f := range t.items {
		items[i] = Factor[E]{Elem: f.Elem, Exp: f.Exp * exp}
	}
	return newTerm(num, items)
}

// Normalized returns the equivalent term consisting only of base elements,
// sorted by their sort keys.
// The result is computed once and cached.
func (t Term[E]) Normalized() Term[E] {
	if t.cache == nil {
		n, _ := t.normalize()
		return n
	}
	t.cache.once.Do(func() {
		t.cache.norm, t.cache.key = t.normalize()
	})
	return t.cache.norm
}

// IsNormalized returns true if the term is already in normalized form.
func (t Term[E]) IsNormalized() bool {
	n := t.Normalized()
	if !sameNum(t.num, n.num) || len(t.items) != len(n.items) {
		return false
	}
	for i := range t.items {
		if t.items[i] != n.items[i] {
			return false
		}
	}
	return true
}

func (t Term[E]) normalize() (Term[E], string) {
	num := t.Num()
	items := make([]Factor[E], 0, len(t.items))
	for _, f := range t.items {
		num, items = expand(num, items, f)
	}
	num, items = reduce(num, items, false)
	n := Term[E]{num: num, items: items}
	if n.num != nil && n.num.Cmp(ratOne) == 0 {
		n.num = nil
	}
	key := n.key()
	c := &termCache[E]{norm: n, key: key}
	c.once.Do(func() {})
	n.cache = c
	c.norm = n
	return n, key
}

func expand[E Elem[E]](num *big.Rat, items []Factor[E], f Factor[E]) (*big.Rat, []Factor[E]) {
	if f.Elem.IsBase() {
		return num, append(items, f)
	}
	dnum, dfactors := f.Elem.Decompose()
	if dnum != nil {
		num.Mul(num, powRat(dnum, f.Exp))
	}
	for _, d := range dfactors {
		num, items = expand(num, items, Factor[E]{Elem: d.Elem, Exp: d.Exp * f.Exp})
	}
	return num, items
}

// Key returns a string identifying the normalized form of the term.
// Equal terms have equal keys.
func (t Term[E]) Key() string {
	if t.cache == nil {
		_, key := t.normalize()
		return key
	}
	t.Normalized()
	return t.cache.key
}

func (t Term[E]) key() string {
	var b strings.Builder
	if t.num != nil {
		b.WriteString(t.num.RatString())
	}
	for _, f := range t.items {
		g, r := f.Elem.SortKey()
		fmt.Fprintf(&b, "|%d.%d^%d", g, r, f.Exp)
	}
	return b.String()
}

// Equal returns true if both terms have the same normalized form.
func (t Term[E]) Equal(u Term[E]) bool {
	return t.Key() == u.Key()
}

const (
	mulSign = "·"
	divSign = "/"
)

var superscripts = [...]string{"⁰", "¹", "²", "³", "⁴", "⁵", "⁶", "⁷", "⁸", "⁹"}

func superscript(exp int) string {
	if exp == 1 {
		return ""
	}
	s := strconv.Itoa(exp)
	var b strings.Builder
	for _, c := range s {
		b.WriteString(superscripts[c-'0'])
	}
	return b.String()
}

// String implements the [fmt.Stringer] interface.
// Factors with positive exponents are written before the division sign,
// factors with negative exponents after it.
// Elements whose own representation contains a division sign are split,
// so that (a/b)·c is written as "a·c/b".
func (t Term[E]) String() string {
	var pos, neg []string
	if t.num != nil {
		if _, ok := decimalScale(t.num); ok {
			d, err := decimalFromRat(t.num, HalfEven)
			if err == nil {
				pos = append(pos, d.String())
			} else {
				pos = append(pos, t.num.RatString())
			}
		} else {
			if t.num.Num().Cmp(big.NewInt(1)) != 0 {
				pos = append(pos, t.num.Num().String())
			}
			neg = append(neg, t.num.Denom().String())
		}
	}
	for _, f := range t.items {
		sup := superscript(abs(f.Exp))
		for i, s := range strings.SplitN(f.Elem.String(), divSign, 2) {
			e := f.Exp
			if i == 1 {
				e = -e
			}
			if e > 0 {
				pos = append(pos, s+sup)
			} else {
				neg = append(neg, s+sup)
			}
		}
	}
	s := "1"
	if len(pos) > 0 {
		s = strings.Join(pos, mulSign)
	}
	if len(neg) > 0 {
		s += divSign + strings.Join(neg, mulSign)
	}
	return s
}

// reduce merges the factors of a term.
// If keepOrder is true, groups of convertible elements keep the order of
// their first occurrence, otherwise elements are sorted by their sort keys.
func reduce[E Elem[E]](num *big.Rat, factors []Factor[E], keepOrder bool) (*big.Rat, []Factor[E]) {
	type keyed struct {
		group, rank int
		f           Factor[E]
	}
	if num != nil {
		num = new(big.Rat).Set(num)
	}
	first := make(map[int]int, len(factors))
	keys := make([]keyed, 0, len(factors))
	for i, f := range factors {
		if f.Exp == 0 {
			continue
		}
		g, r := f.Elem.SortKey()
		if keepOrder {
			if _, ok := first[g]; !ok {
				first[g] = i
			}
			g = first[g]
			r = 0
		}
		keys = append(keys, keyed{group: g, rank: r, f: f})
	}
	slices.SortStableFunc(keys, func(a, b keyed) int {
		return cmp.Or(cmp.Compare(a.group, b.group), cmp.Compare(a.rank, b.rank))
	})
	items := make([]Factor[E], 0, len(keys))
	for lo := 0; lo < len(keys); {
		hi := lo + 1
		for hi < len(keys) && keys[hi].group == keys[lo].group {
			hi++
		}
		accum := make([]Factor[E], 0, hi-lo)
		for _, k := range keys[lo:hi] {
			done := false
			for i, a := range accum {
				if a.Elem == k.f.Elem {
					accum[i].Exp += k.f.Exp
					done = true
					break
				}
				if conv, ok := k.f.Elem.ConvertTo(a.Elem); ok {
					if num == nil {
						num = new(big.Rat).SetInt64(1)
					}
					num.Mul(num, powRat(conv, k.f.Exp))
					accum[i].Exp += k.f.Exp
					done = true
					break
				}
			}
			if !done {
				accum = append(accum, k.f)
			}
		}
		for _, a := range accum {
			if a.Exp != 0 {
				items = append(items, a)
			}
		}
		lo = hi
	}
	if num != nil && num.Cmp(ratOne) == 0 {
		num = nil
	}
	return num, items
}

// powRat returns r^exp.
// It panics if r is zero and exp is negative.
func powRat(r *big.Rat, exp int) *big.Rat {
	n := abs(exp)
	e := big.NewInt(int64(n))
	num := new(big.Int).Exp(r.Num(), e, nil)
	den := new(big.Int).Exp(r.Denom(), e, nil)
	if exp < 0 {
		num, den = den, num
	}
	return new(big.Rat).SetFrac(num, den)
}

func sameNum(a, b *big.Rat) bool {
	switch {
	case a == nil && b == nil:
		return true
	case a == nil:
		return b.Cmp(ratOne) == 0
	case b == nil:
		return a.Cmp(ratOne) == 0
	}
	return a.Cmp(b) == 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
