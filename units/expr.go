package units

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/govalues/quantity"
)

var ErrDefinition = errors.New("invalid definition")

var superscripts = map[rune]byte{
	'⁰': '0', '¹': '1', '²': '2', '³': '3', '⁴': '4',
	'⁵': '5', '⁶': '6', '⁷': '7', '⁸': '8', '⁹': '9', '⁻': '-',
}

type factor struct {
	name string
	exp  int
}

// splitExp splits a token like "m^2", "m²" or "s⁻¹" into name and exponent.
func splitExp(tok string) (string, int, error) {
	if name, exp, ok := strings.Cut(tok, "^"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(exp))
		if err != nil || n == 0 {
			return "", 0, fmt.Errorf("exponent of %q: %w", tok, ErrDefinition)
		}
		return strings.TrimSpace(name), n, nil
	}
	runes := []rune(tok)
	i := len(runes)
	for i > 0 {
		if _, ok := superscripts[runes[i-1]]; !ok {
			break
		}
		i--
	}
	if i == len(runes) {
		return tok, 1, nil
	}
	digits := make([]byte, 0, len(runes)-i)
	for _, r := range runes[i:] {
		digits = append(digits, superscripts[r])
	}
	n, err := strconv.Atoi(string(digits))
	if err != nil || n == 0 || i == 0 {
		return "", 0, fmt.Errorf("exponent of %q: %w", tok, ErrDefinition)
	}
	return string(runes[:i]), n, nil
}

// parseFactors parses one side of a fraction, for example "kg·m²".
func parseFactors(s string, sign int, known func(string) bool) ([]factor, error) {
	s = strings.TrimSpace(s)
	if s == "1" {
		return nil, nil
	}
	toks := strings.FieldsFunc(s, func(r rune) bool { return r == '*' || r == '·' })
	if len(toks) == 0 {
		return nil, fmt.Errorf("%q has no factors: %w", s, ErrDefinition)
	}
	res := make([]factor, 0, len(toks))
	for _, tok := range toks {
		tok = strings.TrimSpace(tok)
		if known(tok) {
			res = append(res, factor{name: tok, exp: sign})
			continue
		}
		name, exp, err := splitExp(tok)
		if err != nil {
			return nil, err
		}
		if !known(name) {
			return nil, fmt.Errorf("unknown name %q: %w", name, ErrDefinition)
		}
		res = append(res, factor{name: name, exp: sign * exp})
	}
	return res, nil
}

// parseExpr parses an expression like "1000 m", "km/h" or "kg·m²/s²".
// A leading number is optional. An expression equal to a known name is
// taken as a whole, so symbols containing a slash need no quoting.
func parseExpr(s string, known func(string) bool) (*big.Rat, []factor, error) {
	s = strings.TrimSpace(s)
	var num *big.Rat
	if fields := strings.Fields(s); len(fields) > 1 {
		if r, ok := new(big.Rat).SetString(fields[0]); ok {
			num = r
			s = strings.TrimSpace(strings.TrimPrefix(s, fields[0]))
		}
	}
	if s == "" {
		return nil, nil, fmt.Errorf("empty expression: %w", ErrDefinition)
	}
	if known(s) {
		return num, []factor{{name: s, exp: 1}}, nil
	}
	if strings.Count(s, "/") > 1 {
		return nil, nil, fmt.Errorf("%q has more than one division: %w", s, ErrDefinition)
	}
	numer, denom, isQuo := strings.Cut(s, "/")
	res, err := parseFactors(numer, 1, known)
	if err != nil {
		return nil, nil, err
	}
	if isQuo {
		den, err := parseFactors(denom, -1, known)
		if err != nil {
			return nil, nil, err
		}
		if len(den) == 0 {
			return nil, nil, fmt.Errorf("%q has an empty denominator: %w", s, ErrDefinition)
		}
		res = append(res, den...)
	}
	if len(res) == 0 {
		return nil, nil, fmt.Errorf("%q has no factors: %w", s, ErrDefinition)
	}
	return num, res, nil
}

// ParseTypeTerm parses a type definition such as "Length/Duration" or
// "Mass·Length²/Duration²" over the types of sys.
func ParseTypeTerm(sys *quantity.System, s string) (quantity.Term[quantity.Type], error) {
	known := func(name string) bool {
		_, ok := sys.TypeByName(name)
		return ok
	}
	num, fs, err := parseExpr(s, known)
	if err != nil {
		return quantity.Term[quantity.Type]{}, fmt.Errorf("parsing type definition %q: %w", s, err)
	}
	if num != nil {
		return quantity.Term[quantity.Type]{}, fmt.Errorf("parsing type definition %q: numeric factor: %w", s, ErrDefinition)
	}
	factors := make([]quantity.Factor[quantity.Type], len(fs))
	for i, f := range fs {
		t, _ := sys.TypeByName(f.name)
		factors[i] = quantity.Factor[quantity.Type]{Elem: t, Exp: f.exp}
	}
	return quantity.NewTerm(factors...), nil
}

// ParseUnitTerm parses a unit definition such as "1000 m", "1/60 h" or
// "km/h" over the units of sys.
func ParseUnitTerm(sys *quantity.System, s string) (quantity.Term[quantity.Unit], error) {
	known := func(sym string) bool {
		_, ok := sys.UnitBySymbol(sym)
		return ok
	}
	num, fs, err := parseExpr(s, known)
	if err != nil {
		return quantity.Term[quantity.Unit]{}, fmt.Errorf("parsing unit definition %q: %w", s, err)
	}
	factors := make([]quantity.Factor[quantity.Unit], len(fs))
	for i, f := range fs {
		u, _ := sys.UnitBySymbol(f.name)
		factors[i] = quantity.Factor[quantity.Unit]{Elem: u, Exp: f.exp}
	}
	return quantity.NewNumTerm(num, factors...), nil
}
