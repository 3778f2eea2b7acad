package quantity

import (
	"fmt"
	"math/big"
	"slices"

	"github.com/govalues/decimal"
)

// Quantize returns q rounded to an integer multiple of quant, using the
// given rounding mode.
// The quantum is converted into the unit of q first and must be positive.
func (q Quantity) Quantize(quant Quantity, mode RoundingMode) (Quantity, error) {
	step, err := convertAmount(quant, q.unit)
	if err != nil {
		return Quantity{}, fmt.Errorf("quantizing %v to %v: %w", q, quant, err)
	}
	if step.Sign() <= 0 {
		return Quantity{}, fmt.Errorf("quantizing %v to %v: quantum is not positive: %w", q, quant, ErrQuantity)
	}
	r := quantizeRat(q.rat(), step, mode)
	return newQuantityRat(r, q.unit)
}

// QuantizeUnit is like [Quantity.Quantize] with the quantum 1 u.
func (q Quantity) QuantizeUnit(u Unit, mode RoundingMode) (Quantity, error) {
	return q.Quantize(u.One(), mode)
}

// Allocate splits q into portions proportional to the given ratios.
// It returns the portions together with the remainder q - Σ portions,
// so that the sum of the portions and the remainder always equals q.
//
// If the unit of q has a quantum, the portions are quantized and the
// remainder may differ from zero. With disperse set, the remainder is
// distributed over the portions in steps of one quantum, starting with the
// portions that suffered the largest rounding error, and the returned
// remainder is zero.
// Without a quantum, the portions are exact and the remainder is zero;
// should a remainder remain anyway, it cannot be dispersed and results in an
// error wrapping [ErrAllocation].
func (q Quantity) Allocate(ratios []decimal.Decimal, disperse bool) ([]Quantity, Quantity, error) {
	rs := make([]*big.Rat, len(ratios))
	for i, r := range ratios {
		rs[i] = ratFromDecimal(r)
	}
	return q.allocate(rs, disperse)
}

// AllocateByQuantities is like [Quantity.Allocate] but takes the ratios from
// the amounts of the given quantities.
// The ratios must all be plain numbers or all be quantities of one type,
// which may differ from the type of q.
func (q Quantity) AllocateByQuantities(ratios []Quantity, disperse bool) ([]Quantity, Quantity, error) {
	if len(ratios) == 0 {
		return q.allocate(nil, disperse)
	}
	first := ratios[0]
	rs := make([]*big.Rat, len(ratios))
	for i, r := range ratios {
		if r.IsNumber() != first.IsNumber() {
			return nil, Quantity{}, fmt.Errorf("allocating %v: ratios %v and %v mix numbers and quantities: %w", q, first, r, ErrQuantity)
		}
		a, err := convertAmount(r, first.unit)
		if err != nil {
			return nil, Quantity{}, fmt.Errorf("allocating %v: %w", q, err)
		}
		rs[i] = a
	}
	return q.allocate(rs, disperse)
}

func (q Quantity) allocate(ratios []*big.Rat, disperse bool) ([]Quantity, Quantity, error) {
	if len(ratios) == 0 {
		return nil, Quantity{}, fmt.Errorf("allocating %v: no ratios: %w", q, ErrQuantity)
	}
	total := new(big.Rat)
	for _, r := range ratios {
		if r.Sign() < 0 {
			return nil, Quantity{}, fmt.Errorf("allocating %v: negative ratio %v: %w", q, r.RatString(), ErrQuantity)
		}
		total.Add(total, r)
	}
	if total.Sign() == 0 {
		return nil, Quantity{}, fmt.Errorf("allocating %v: ratios sum up to zero: %w", q, ErrQuantity)
	}

	amount := q.rat()
	portions := make([]Quantity, len(ratios))
	exact := make([]*big.Rat, len(ratios))
	rem := new(big.Rat).Set(amount)
	for i, r := range ratios {
		exact[i] = new(big.Rat).Quo(r, total)
		exact[i].Mul(exact[i], amount)
		p, err := newQuantityRat(new(big.Rat).Set(exact[i]), q.unit)
		if err != nil {
			return nil, Quantity{}, fmt.Errorf("allocating %v: %w", q, err)
		}
		portions[i] = p
		rem.Sub(rem, p.rat())
	}

	if rem.Sign() != 0 {
		var quantum *big.Rat
		if !q.IsNumber() {
			quantum = q.unit.Quantum()
		}
		if quantum == nil {
			return nil, Quantity{}, fmt.Errorf("allocating %v: remainder %v: %w", q, rem.RatString(), ErrAllocation)
		}
		if disperse {
			if err := disperseRemainder(portions, exact, rem, quantum); err != nil {
				return nil, Quantity{}, fmt.Errorf("allocating %v: %w", q, err)
			}
		}
	}
	remainder, err := newQuantityRat(rem, q.unit)
	if err != nil {
		return nil, Quantity{}, fmt.Errorf("allocating %v: %w", q, err)
	}
	return portions, remainder, nil
}

// disperseRemainder distributes rem over the portions in steps of quantum.
// If rem is negative, the portions rounded up the most are decreased first,
// otherwise the portions rounded down the most are increased first.
// On return rem is zero.
func disperseRemainder(portions []Quantity, exact []*big.Rat, rem, quantum *big.Rat) error {
	type rounding struct {
		idx int
		err *big.Rat
	}
	errs := make([]rounding, len(portions))
	for i, p := range portions {
		e := p.rat()
		errs[i] = rounding{idx: i, err: e.Sub(e, exact[i])}
	}
	step := new(big.Rat).Set(quantum)
	if rem.Sign() < 0 {
		step.Neg(step)
		slices.SortStableFunc(errs, func(a, b rounding) int {
			return b.err.Cmp(a.err)
		})
	} else {
		slices.SortStableFunc(errs, func(a, b rounding) int {
			return a.err.Cmp(b.err)
		})
	}
	for i := 0; rem.Sign() != 0; i = (i + 1) % len(errs) {
		if new(big.Rat).Abs(rem).Cmp(quantum) < 0 {
			return fmt.Errorf("remainder %v is not a multiple of quantum %v: %w", rem.RatString(), quantum.RatString(), ErrAllocation)
		}
		idx := errs[i].idx
		p := portions[idx].rat()
		p.Add(p, step)
		np, err := newQuantityRat(p, portions[idx].unit)
		if err != nil {
			return err
		}
		portions[idx] = np
		rem.Sub(rem, step)
	}
	return nil
}
