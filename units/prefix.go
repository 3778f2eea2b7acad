package units

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/govalues/quantity"
)

// Prefix is a decimal SI prefix.
type Prefix struct {
	Symbol string
	Name   string
	Exp    int
}

// SI lists the decimal prefixes of the International System of Units.
var SI = []Prefix{
	{"Q", "quetta", 30},
	{"R", "ronna", 27},
	{"Y", "yotta", 24},
	{"Z", "zetta", 21},
	{"E", "exa", 18},
	{"P", "peta", 15},
	{"T", "tera", 12},
	{"G", "giga", 9},
	{"M", "mega", 6},
	{"k", "kilo", 3},
	{"h", "hecto", 2},
	{"da", "deca", 1},
	{"d", "deci", -1},
	{"c", "centi", -2},
	{"m", "milli", -3},
	{"µ", "micro", -6},
	{"n", "nano", -9},
	{"p", "pico", -12},
	{"f", "femto", -15},
	{"a", "atto", -18},
	{"z", "zepto", -21},
	{"y", "yocto", -24},
	{"r", "ronto", -27},
	{"q", "quecto", -30},
}

// LookupPrefix returns the SI prefix with the given symbol or name.
// The ASCII "u" is accepted for micro.
func LookupPrefix(s string) (Prefix, bool) {
	if s == "u" {
		s = "µ"
	}
	for _, p := range SI {
		if p.Symbol == s || p.Name == s {
			return p, true
		}
	}
	return Prefix{}, false
}

// Factor returns 10^p.Exp.
func (p Prefix) Factor() *big.Rat {
	n := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(abs(p.Exp))), nil)
	if p.Exp < 0 {
		return new(big.Rat).SetFrac(big.NewInt(1), n)
	}
	return new(big.Rat).SetInt(n)
}

// DefinePrefixed declares a prefixed variant of u for each of the given
// prefix symbols or names, for example "k" and "milli" for "km" and "mm".
// Prefixed units that already exist with the same definition are reused.
func DefinePrefixed(u quantity.Unit, prefixes ...string) ([]quantity.Unit, error) {
	res := make([]quantity.Unit, 0, len(prefixes))
	for _, s := range prefixes {
		p, ok := LookupPrefix(s)
		if !ok {
			return nil, fmt.Errorf("prefixing %v: unknown prefix %q: %w", u, s, ErrDefinition)
		}
		sym := p.Symbol + u.Symbol()
		def := quantity.NewNumTerm(p.Factor(), quantity.Factor[quantity.Unit]{Elem: u, Exp: 1})
		if v, ok := u.Type().System().UnitBySymbol(sym); ok {
			if vdef, ok := v.Definition(); ok && vdef.Equal(def) {
				res = append(res, v)
				continue
			}
		}
		var name string
		if n := u.Name(); n != u.Symbol() {
			name = p.Name + strings.ToLower(n)
		}
		v, err := u.Type().DefineUnit(quantity.UnitConfig{Symbol: sym, Name: name, Definition: def})
		if err != nil {
			return nil, fmt.Errorf("prefixing %v with %v: %w", u, p.Name, err)
		}
		res = append(res, v)
	}
	return res, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
