package quantity

import (
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/govalues/decimal"
)

// Parse converts a string of the form "<amount> <symbol>" to a quantity.
// The amount is parsed as a decimal, or as an exact fraction such as "1/3"
// if that fails; fractions without finite decimal representation are kept
// exact. The symbol must belong to a unit declared in s.
// A string without symbol results in a plain number.
func (s *System) Parse(str string) (Quantity, error) {
	return s.parse(str, Unit{})
}

// ParseTo is like [System.Parse] but returns the quantity converted into
// unit to. A string without symbol is interpreted in unit to.
func (s *System) ParseTo(str string, to Unit) (Quantity, error) {
	return s.parse(str, to)
}

func (s *System) parse(str string, to Unit) (Quantity, error) {
	str = strings.TrimLeft(str, " \t")
	num, sym, _ := strings.Cut(str, " ")
	sym = strings.TrimSpace(sym)
	if num == "" {
		return Quantity{}, fmt.Errorf("parsing %q: no amount: %w", str, ErrQuantity)
	}
	unit := to
	if sym != "" {
		u, ok := s.UnitBySymbol(sym)
		if !ok {
			return Quantity{}, fmt.Errorf("parsing %q: unknown symbol %q: %w", str, sym, ErrQuantity)
		}
		unit = u
	}
	var (
		q   Quantity
		err error
	)
	if d, derr := decimal.Parse(num); derr == nil {
		q, err = NewQuantity(d, unit)
	} else {
		r, ok := new(big.Rat).SetString(num)
		if !ok {
			return Quantity{}, fmt.Errorf("parsing %q: %q is not a rational number: %w", str, num, ErrQuantity)
		}
		q, err = newQuantityRat(r, unit)
	}
	if err != nil {
		return Quantity{}, fmt.Errorf("parsing %q: %w", str, err)
	}
	if to.IsZero() || q.unit == to {
		return q, nil
	}
	return q.Convert(to)
}

// Format implements the [fmt.Formatter] interface.
// The following format verbs are available:
//
//	| Verb       | Example        | Description                   |
//	| ---------- | -------------- | ----------------------------- |
//	| %s, %v     | 5.2 km         | Amount and symbol             |
//	| %q         | "5.2 km"       | Quoted amount and symbol      |
//	| %f, %.2f   | 5.20 km        | Amount in fixed-point format  |
//
// With %s, %v and %q, amounts without finite decimal representation are
// written as fractions. %f always writes a rounded decimal.
//
// The width applies to the whole string, the '-' flag pads on the right.
func (q Quantity) Format(state fmt.State, verb rune) {
	var s string
	switch verb {
	case 'f', 'F':
		f := "%" + string(verb)
		if p, ok := state.Precision(); ok {
			f = "%." + strconv.Itoa(p) + string(verb)
		}
		s = fmt.Sprintf(f, q.amount)
	case 's', 'v', 'q':
		s = q.amountString()
	default:
		fmt.Fprintf(state, "%%!%c(quantity.Quantity=%s)", verb, q.String())
		return
	}
	if !q.IsNumber() {
		s += " " + q.unit.String()
	}
	if verb == 'q' {
		s = strconv.Quote(s)
	}
	if w, ok := state.Width(); ok {
		if n := w - utf8.RuneCountInString(s); n > 0 {
			pad := strings.Repeat(" ", n)
			if state.Flag('-') {
				s += pad
			} else {
				s = pad + s
			}
		}
	}
	_, _ = io.WriteString(state, s)
}

// DefaultFormatSpec is the spec used by [Quantity.FormatSpec] for an empty
// spec.
const DefaultFormatSpec = "{a} {u}"

// FormatSpec formats q according to a spec with the two fields {a} for the
// amount and {u} for the unit symbol.
// Each field may carry a format directive for the respective value,
// for example "{a:%8.2f} {u:%-3s}". Braces are escaped by doubling them.
// Plain numbers render {u} as an empty string.
func (q Quantity) FormatSpec(spec string) (string, error) {
	if spec == "" {
		spec = DefaultFormatSpec
	}
	var b strings.Builder
	for i := 0; i < len(spec); {
		c := spec[i]
		switch {
		case c == '{' && strings.HasPrefix(spec[i:], "{{"):
			b.WriteByte('{')
			i += 2
		case c == '}' && strings.HasPrefix(spec[i:], "}}"):
			b.WriteByte('}')
			i += 2
		case c == '{':
			end := strings.IndexByte(spec[i:], '}')
			if end < 0 {
				return "", fmt.Errorf("format spec %q: unclosed field: %w", spec, ErrQuantity)
			}
			field, directive, _ := strings.Cut(spec[i+1:i+end], ":")
			if directive == "" {
				directive = "%v"
			}
			switch field {
			case "a":
				if q.frac != nil && strings.ContainsAny(directive[len(directive)-1:], "svq") {
					fmt.Fprintf(&b, directive, q.amountString())
				} else {
					fmt.Fprintf(&b, directive, q.amount)
				}
			case "u":
				fmt.Fprintf(&b, directive, q.unit.String())
			default:
				return "", fmt.Errorf("format spec %q: unknown field %q: %w", spec, field, ErrQuantity)
			}
			i += end + 1
		case c == '}':
			return "", fmt.Errorf("format spec %q: single '}': %w", spec, ErrQuantity)
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), nil
}
