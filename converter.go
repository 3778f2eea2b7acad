package quantity

import (
	"fmt"
	"math/big"

	"github.com/govalues/decimal"
)

// Converter is a strategy for converting the amount of a quantity into
// another unit of the same type.
// Convert returns the exact amount in unit to, or false if the converter
// cannot handle the combination of units.
type Converter interface {
	Convert(q Quantity, to Unit) (*big.Rat, bool)
}

// ConverterFunc is an adapter allowing the use of ordinary functions as
// converters.
type ConverterFunc func(q Quantity, to Unit) (*big.Rat, bool)

// Convert calls f(q, to).
func (f ConverterFunc) Convert(q Quantity, to Unit) (*big.Rat, bool) {
	return f(q, to)
}

// RefUnitConverter converts between units related to the reference unit of
// their type, using the ratio of their normalized definitions.
type RefUnitConverter struct{}

// Convert implements the [Converter] interface.
func (RefUnitConverter) Convert(q Quantity, to Unit) (*big.Rat, bool) {
	f, ok := q.unit.ConvertTo(to)
	if !ok {
		return nil, false
	}
	return q.scaled(f), true
}

// TableEntry maps an amount a in unit From to the amount a·Scale+Offset in
// unit To.
type TableEntry struct {
	From, To      Unit
	Scale, Offset decimal.Decimal
}

type unitPair struct {
	from, to Unit
}

// TableConverter converts between units using a table of linear formulas.
// Only one direction needs to be given for each pair of units; the reverse
// direction is computed as (a-Offset)/Scale.
type TableConverter struct {
	table map[unitPair]TableEntry
}

// NewTableConverter returns a converter using the given entries.
// Entries with a zero scale are rejected.
func NewTableConverter(entries ...TableEntry) (*TableConverter, error) {
	c := &TableConverter{table: make(map[unitPair]TableEntry, len(entries))}
	for _, e := range entries {
		if e.Scale.IsZero() {
			return nil, fmt.Errorf("table entry %v -> %v: zero scale: %w", e.From, e.To, ErrQuantity)
		}
		if e.From.Type() != e.To.Type() {
			return nil, fmt.Errorf("table entry %v -> %v: %w", e.From, e.To, ErrIncompatibleUnits)
		}
		c.table[unitPair{from: e.From, to: e.To}] = e
	}
	return c, nil
}

// NewTableConverterFromMap returns a converter from a map keyed by pairs of
// units to [scale, offset].
func NewTableConverterFromMap(m map[[2]Unit][2]decimal.Decimal) (*TableConverter, error) {
	entries := make([]TableEntry, 0, len(m))
	for k, v := range m {
		entries = append(entries, TableEntry{From: k[0], To: k[1], Scale: v[0], Offset: v[1]})
	}
	return NewTableConverter(entries...)
}

// Equal returns true if c and d hold the same formulas for the same pairs
// of units.
func (c *TableConverter) Equal(d *TableConverter) bool {
	if len(c.table) != len(d.table) {
		return false
	}
	for k, e := range c.table {
		f, ok := d.table[k]
		if !ok || e.Scale.Cmp(f.Scale) != 0 || e.Offset.Cmp(f.Offset) != 0 {
			return false
		}
	}
	return true
}

// Convert implements the [Converter] interface.
func (c *TableConverter) Convert(q Quantity, to Unit) (*big.Rat, bool) {
	a := q.rat()
	if e, ok := c.table[unitPair{from: q.unit, to: to}]; ok {
		a.Mul(a, ratFromDecimal(e.Scale))
		a.Add(a, ratFromDecimal(e.Offset))
	} else if e, ok := c.table[unitPair{from: to, to: q.unit}]; ok {
		a.Sub(a, ratFromDecimal(e.Offset))
		a.Quo(a, ratFromDecimal(e.Scale))
	} else {
		return nil, false
	}
	return a, true
}

type converterEntry struct {
	conv Converter
}

// ConverterHandle represents the registration of a converter.
type ConverterHandle struct {
	typ   Type
	entry *converterEntry
}

// RegisterConverter adds c to the converters of t.
// Converters are tried in reverse order of registration.
//
// Registrations follow a stack discipline: the returned handle must be
// released before any converter registered earlier.
// Handles must not be shared across goroutines.
func (t Type) RegisterConverter(c Converter) *ConverterHandle {
	info := t.info()
	e := &converterEntry{conv: c}
	t.sys.mu.Lock()
	info.converters = append(info.converters, e)
	n := len(info.converters)
	t.sys.mu.Unlock()
	t.sys.logger.Debug("converter registered", "type", info.name, "converter", fmt.Sprintf("%T", c), "count", n)
	return &ConverterHandle{typ: t, entry: e}
}

// Release removes the converter from its type.
// It returns an error wrapping [ErrConverterOrder] if the converter is not
// the most recently registered one; the registration is then kept.
// Releasing a handle twice is a no-op.
func (h *ConverterHandle) Release() error {
	if h == nil || h.entry == nil {
		return nil
	}
	info := h.typ.info()
	s := h.typ.sys
	s.mu.Lock()
	n := len(info.converters)
	if n == 0 || info.converters[n-1] != h.entry {
		s.mu.Unlock()
		return fmt.Errorf("releasing %T from %v: %w", h.entry.conv, h.typ, ErrConverterOrder)
	}
	info.converters[n-1] = nil
	info.converters = info.converters[:n-1]
	s.mu.Unlock()
	s.logger.Debug("converter released", "type", info.name, "converter", fmt.Sprintf("%T", h.entry.conv), "count", n-1)
	h.entry = nil
	return nil
}

// Converters returns the converters of t in the order they are tried.
func (t Type) Converters() []Converter {
	info := t.info()
	t.sys.mu.RLock()
	defer t.sys.mu.RUnlock()
	res := make([]Converter, 0, len(info.converters))
	for i := len(info.converters) - 1; i >= 0; i-- {
		res = append(res, info.converters[i].conv)
	}
	return res
}

// convertAmount returns the exact amount of q expressed in unit to.
//
// The units must measure the same type. The converters of the type are
// tried first, most recently registered first. If none of them succeeds,
// the amount is scaled by the ratio of the normalized definitions of both
// units, provided the ratio is a plain number.
func convertAmount(q Quantity, to Unit) (*big.Rat, error) {
	if q.unit == to {
		return q.rat(), nil
	}
	if q.IsNumber() || to.IsZero() {
		return nil, fmt.Errorf("converting %v to %q: %w", q, to, ErrIncompatibleUnits)
	}
	t := q.unit.Type()
	if t != to.Type() {
		return nil, fmt.Errorf("converting %v (%v) to %v (%v): %w", q, t, to, to.Type(), ErrIncompatibleUnits)
	}
	s := q.unit.sys
	s.conversions.Add(1)
	for _, c := range t.Converters() {
		if r, ok := c.Convert(q, to); ok && r != nil {
			return new(big.Rat).Set(r), nil
		}
	}
	if f, ok := definitionRatio(q.unit, to); ok {
		return q.scaled(f), nil
	}
	s.convFailures.Add(1)
	return nil, fmt.Errorf("converting %v to %v: %w", q, to, ErrUnitConversion)
}

// definitionRatio returns the factor f so that 1 from = f to, computed from
// the normalized definitions of both units.
func definitionRatio(from, to Unit) (*big.Rat, bool) {
	r := from.Term().Quo(to.Term()).Normalized()
	if !r.IsNumber() {
		return nil, false
	}
	return r.Num(), true
}
