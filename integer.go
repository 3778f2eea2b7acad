package quantity

import (
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/govalues/decimal"
)

// RoundingMode determines how an exact quotient is brought to an integer
// multiple of a quantum.
type RoundingMode int

const (
	HalfEven RoundingMode = iota // round to nearest, ties to even
	HalfUp                       // round to nearest, ties away from zero
	HalfDown                     // round to nearest, ties towards zero
	Down                         // round towards zero
	Up                           // round away from zero
	Ceiling                      // round towards positive infinity
	Floor                        // round towards negative infinity
	Up05                         // round towards zero, unless the last digit would be 0 or 5
)

var roundingNames = [...]string{
	HalfEven: "half-even",
	HalfUp:   "half-up",
	HalfDown: "half-down",
	Down:     "down",
	Up:       "up",
	Ceiling:  "ceiling",
	Floor:    "floor",
	Up05:     "05up",
}

// String implements the [fmt.Stringer] interface.
func (m RoundingMode) String() string {
	if m < 0 || int(m) >= len(roundingNames) {
		return fmt.Sprintf("RoundingMode(%d)", int(m))
	}
	return roundingNames[m]
}

// ParseRoundingMode converts a name such as "half-up" to a rounding mode.
func ParseRoundingMode(s string) (RoundingMode, error) {
	for i, name := range roundingNames {
		if strings.EqualFold(s, name) {
			return RoundingMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown rounding mode %q: %w", s, ErrQuantity)
}

// bpow10 is a cache of powers of 10, where bpow10[x] = 10^x.
var bpow10 = func() []*big.Int {
	p := make([]*big.Int, 2*decimal.MaxPrec+1)
	p[0] = big.NewInt(1)
	for i := 1; i < len(p); i++ {
		p[i] = new(big.Int).Mul(p[i-1], big.NewInt(10))
	}
	return p
}()

// pow10 returns 10^power.
// The result must not be modified.
func pow10(power int) *big.Int {
	if power < len(bpow10) {
		return bpow10[power]
	}
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(power)), nil)
}

// bpool is a cache of reusable *big.Int instances.
var bpool = sync.Pool{
	New: func() any {
		return new(big.Int)
	},
}

func getBint() *big.Int {
	return bpool.Get().(*big.Int)
}

func putBint(b *big.Int) {
	bpool.Put(b)
}

var ratOne = big.NewRat(1, 1)

// roundQuo calculates x / y rounded to an integer using the given mode.
// y must be positive.
func roundQuo(x, y *big.Int, mode RoundingMode) *big.Int {
	q, r := new(big.Int), getBint()
	defer putBint(r)
	// q = ⌊x / y⌋, 0 <= r < y
	q.DivMod(x, y, r)
	if r.Sign() == 0 {
		return q
	}
	inc := false
	switch mode {
	case HalfEven, HalfUp, HalfDown:
		r.Lsh(r, 1)
		switch c := r.Cmp(y); {
		case c > 0:
			inc = true
		case c == 0:
			switch mode {
			case HalfEven:
				inc = q.Bit(0) != 0
			case HalfUp:
				inc = q.Sign() >= 0
			case HalfDown:
				inc = q.Sign() < 0
			}
		}
	case Down:
		inc = q.Sign() < 0
	case Up:
		inc = q.Sign() >= 0
	case Ceiling:
		inc = true
	case Floor:
	case Up05:
		m := getBint()
		defer putBint(m)
		if q.Sign() >= 0 {
			inc = m.Mod(q, big.NewInt(5)).Sign() == 0
		} else {
			m.Add(q, big.NewInt(1))
			inc = m.Mod(m, big.NewInt(5)).Sign() != 0
		}
	default:
		panic(fmt.Sprintf("roundQuo(%v, %v) failed: invalid rounding mode %v", x, y, mode))
	}
	if inc {
		q.Add(q, big.NewInt(1))
	}
	return q
}

// roundRat rounds r to an integer using the given mode.
func roundRat(r *big.Rat, mode RoundingMode) *big.Int {
	return roundQuo(r.Num(), r.Denom(), mode)
}

// quantizeRat returns the integer multiple of step closest to r.
// step must be positive.
func quantizeRat(r, step *big.Rat, mode RoundingMode) *big.Rat {
	q := new(big.Rat).Quo(r, step)
	n := roundRat(q, mode)
	return q.SetInt(n).Mul(q, step)
}

// ratFromDecimal converts d to an exact rational number.
func ratFromDecimal(d decimal.Decimal) *big.Rat {
	num := new(big.Int).SetUint64(d.Coef())
	if d.IsNeg() {
		num.Neg(num)
	}
	return new(big.Rat).SetFrac(num, pow10(d.Scale()))
}

// decimalFromInt returns a decimal equal to coef / 10^scale.
func decimalFromInt(coef *big.Int, scale int) (decimal.Decimal, error) {
	if coef.IsInt64() {
		return decimal.New(coef.Int64(), scale)
	}
	s := new(big.Int).Abs(coef).String()
	if scale > 0 {
		if len(s) <= scale {
			s = strings.Repeat("0", scale-len(s)+1) + s
		}
		s = s[:len(s)-scale] + "." + s[len(s)-scale:]
	}
	if coef.Sign() < 0 {
		s = "-" + s
	}
	return decimal.Parse(s)
}

// exactDecimal converts r to a decimal if this is possible without
// rounding.
func exactDecimal(r *big.Rat) (decimal.Decimal, bool) {
	scale, ok := decimalScale(r)
	if !ok || scale > decimal.MaxScale {
		return decimal.Decimal{}, false
	}
	coef := new(big.Int).Mul(r.Num(), pow10(scale))
	coef.Quo(coef, r.Denom())
	if new(big.Int).Abs(coef).Cmp(pow10(decimal.MaxPrec)) >= 0 {
		return decimal.Decimal{}, false
	}
	d, err := decimalFromInt(coef, scale)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// decimalFromRat converts r to a decimal with at most [decimal.MaxPrec]
// significant digits, rounding the excess digits with the given mode.
// Trailing zeros are removed.
func decimalFromRat(r *big.Rat, mode RoundingMode) (decimal.Decimal, error) {
	if r.IsInt() {
		d, err := decimalFromInt(r.Num(), 0)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("converting %v: %w", r.RatString(), err)
		}
		return d, nil
	}
	whole := new(big.Int).Quo(r.Num(), r.Denom())
	digits := 0
	if whole.Sign() != 0 {
		digits = len(whole.Abs(whole).String())
	}
	if digits > decimal.MaxPrec {
		return decimal.Decimal{}, fmt.Errorf("converting %v: the integer part can have at most %v digits", r.RatString(), decimal.MaxPrec)
	}
	scale := decimal.MaxScale - digits
	num := new(big.Int)
	var coef *big.Int
	for {
		num.Mul(r.Num(), pow10(scale))
		coef = roundQuo(num, r.Denom(), mode)
		if scale == 0 || new(big.Int).Abs(coef).Cmp(pow10(decimal.MaxPrec)) < 0 {
			break
		}
		scale--
	}
	d, err := decimalFromInt(coef, scale)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("converting %v: %w", r.RatString(), err)
	}
	return d.Trim(0), nil
}

// decimalScale returns the number of fractional digits needed to represent r
// exactly, or false if r has no finite decimal representation.
func decimalScale(r *big.Rat) (int, bool) {
	den := new(big.Int).Set(r.Denom())
	m := getBint()
	defer putBint(m)
	twos, fives := 0, 0
	for m.Mod(den, big.NewInt(2)).Sign() == 0 {
		den.Rsh(den, 1)
		twos++
	}
	for m.Mod(den, big.NewInt(5)).Sign() == 0 {
		den.Quo(den, big.NewInt(5))
		fives++
	}
	if den.Cmp(big.NewInt(1)) != 0 {
		return 0, false
	}
	return max(twos, fives), true
}
