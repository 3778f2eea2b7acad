package units

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/govalues/decimal"
	"github.com/govalues/quantity"
	"gopkg.in/yaml.v3"
)

// Document is a set of quantity type declarations, usually read from YAML.
// Types may only refer to types declared before them.
type Document struct {
	Quantities []TypeDef `yaml:"quantities" validate:"required,min=1,dive"`
}

// TypeDef declares a quantity type with its units.
type TypeDef struct {
	Name        string          `yaml:"name" validate:"required,symbol"`
	Definition  string          `yaml:"definition"`
	RefUnit     *UnitDef        `yaml:"ref_unit"`
	Quantum     string          `yaml:"quantum" validate:"omitempty,rational"`
	Units       []UnitDef       `yaml:"units" validate:"dive"`
	Prefixes    *PrefixDef      `yaml:"prefixes"`
	Conversions []ConversionDef `yaml:"conversions" validate:"dive"`
}

// UnitDef declares a unit.
// The definition of a reference unit is ignored.
type UnitDef struct {
	Symbol     string `yaml:"symbol" validate:"required,symbol"`
	Name       string `yaml:"name"`
	Definition string `yaml:"definition"`
	Quantum    string `yaml:"quantum" validate:"omitempty,rational"`
}

// PrefixDef declares prefixed variants of a unit.
type PrefixDef struct {
	Unit  string   `yaml:"unit" validate:"required,symbol"`
	Names []string `yaml:"names" validate:"required,min=1,dive,required"`
}

// ConversionDef declares an affine conversion between two units without
// common definition, see [quantity.TableEntry].
type ConversionDef struct {
	From   string `yaml:"from" validate:"required,symbol"`
	To     string `yaml:"to" validate:"required,symbol,nefield=From"`
	Scale  string `yaml:"scale" validate:"required,decimal"`
	Offset string `yaml:"offset" validate:"omitempty,decimal"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("symbol", func(fl validator.FieldLevel) bool {
		return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
	})
	v.RegisterValidation("rational", func(fl validator.FieldLevel) bool {
		r, ok := new(big.Rat).SetString(fl.Field().String())
		return ok && r.Sign() > 0
	})
	v.RegisterValidation("decimal", func(fl validator.FieldLevel) bool {
		_, err := decimal.Parse(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks the document for missing or malformed fields.
// It does not check references to types or units.
func (d *Document) Validate() error {
	if err := validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%v: %v %v", fe.Namespace(), fe.Tag(), fe.Param())
			}
			return fmt.Errorf("%v: %w", strings.Join(msgs, "; "), ErrDefinition)
		}
		return fmt.Errorf("%w: %w", err, ErrDefinition)
	}
	return nil
}

// Load reads a YAML document from r and declares its types in sys.
// Unknown fields are rejected.
func Load(sys *quantity.System, r io.Reader) ([]quantity.Type, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("loading definitions: %w: %w", err, ErrDefinition)
	}
	types, err := Define(sys, &doc)
	if err != nil {
		return nil, fmt.Errorf("loading definitions: %w", err)
	}
	return types, nil
}

// LoadFile is like [Load] but reads the named file.
func LoadFile(sys *quantity.System, name string) ([]quantity.Type, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("loading definitions: %w", err)
	}
	defer f.Close()
	return Load(sys, f)
}

// Define validates doc and declares its types in order.
// Declaring the same document twice is allowed as long as it matches what is
// already declared.
// Table converters stay registered for the lifetime of sys; an equal table
// is registered only once.
func Define(sys *quantity.System, doc *Document) ([]quantity.Type, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	types := make([]quantity.Type, 0, len(doc.Quantities))
	for _, td := range doc.Quantities {
		t, err := defineType(sys, td)
		if err != nil {
			return nil, fmt.Errorf("type %v: %w", td.Name, err)
		}
		types = append(types, t)
	}
	return types, nil
}

func defineType(sys *quantity.System, td TypeDef) (quantity.Type, error) {
	cfg := quantity.TypeConfig{Name: td.Name}
	if td.Definition != "" {
		def, err := ParseTypeTerm(sys, td.Definition)
		if err != nil {
			return quantity.Type{}, err
		}
		cfg.Definition = def
	}
	if td.RefUnit != nil {
		cfg.RefSymbol, cfg.RefName = td.RefUnit.Symbol, td.RefUnit.Name
	}
	if td.Quantum != "" {
		cfg.Quantum, _ = new(big.Rat).SetString(td.Quantum)
	}
	t, err := sys.DefineType(cfg)
	if err != nil {
		return quantity.Type{}, err
	}
	for _, ud := range td.Units {
		if _, err := defineUnit(t, ud); err != nil {
			return quantity.Type{}, err
		}
	}
	if p := td.Prefixes; p != nil {
		u, ok := sys.UnitBySymbol(p.Unit)
		if !ok || u.Type() != t {
			return quantity.Type{}, fmt.Errorf("prefixes: unit %q is not a unit of %v: %w", p.Unit, t, ErrDefinition)
		}
		if _, err := DefinePrefixed(u, p.Names...); err != nil {
			return quantity.Type{}, err
		}
	}
	if len(td.Conversions) > 0 {
		c, err := tableConverter(sys, t, td.Conversions)
		if err != nil {
			return quantity.Type{}, err
		}
		if !hasConverter(t, c) {
			t.RegisterConverter(c)
		}
	}
	return t, nil
}

// hasConverter reports whether a table converter equal to c is registered
// for t.
func hasConverter(t quantity.Type, c *quantity.TableConverter) bool {
	for _, conv := range t.Converters() {
		if tc, ok := conv.(*quantity.TableConverter); ok && tc.Equal(c) {
			return true
		}
	}
	return false
}

func defineUnit(t quantity.Type, ud UnitDef) (quantity.Unit, error) {
	sys := t.System()
	cfg := quantity.UnitConfig{Symbol: ud.Symbol, Name: ud.Name}
	if ud.Definition != "" {
		def, err := ParseUnitTerm(sys, ud.Definition)
		if err != nil {
			return quantity.Unit{}, err
		}
		cfg.Definition = def
	}
	if ud.Quantum != "" {
		cfg.Quantum, _ = new(big.Rat).SetString(ud.Quantum)
	}
	if u, ok := sys.UnitBySymbol(ud.Symbol); ok && sameUnit(u, t, cfg) {
		return u, nil
	}
	return t.DefineUnit(cfg)
}

// sameUnit reports whether u was declared with cfg, so that loading a
// document twice is harmless.
func sameUnit(u quantity.Unit, t quantity.Type, cfg quantity.UnitConfig) bool {
	if u.Type() != t {
		return false
	}
	if cfg.Name != "" && u.Name() != cfg.Name {
		return false
	}
	def, ok := u.Definition()
	if ok != !cfg.Definition.IsOne() || (ok && !def.Equal(cfg.Definition)) {
		return false
	}
	if cfg.Quantum != nil {
		q := u.Quantum()
		return q != nil && q.Cmp(cfg.Quantum) == 0
	}
	return true
}

func tableConverter(sys *quantity.System, t quantity.Type, defs []ConversionDef) (*quantity.TableConverter, error) {
	entries := make([]quantity.TableEntry, len(defs))
	for i, cd := range defs {
		from, ok := sys.UnitBySymbol(cd.From)
		if !ok || from.Type() != t {
			return nil, fmt.Errorf("conversion: unit %q is not a unit of %v: %w", cd.From, t, ErrDefinition)
		}
		to, ok := sys.UnitBySymbol(cd.To)
		if !ok || to.Type() != t {
			return nil, fmt.Errorf("conversion: unit %q is not a unit of %v: %w", cd.To, t, ErrDefinition)
		}
		e := quantity.TableEntry{From: from, To: to, Scale: decimal.MustParse(cd.Scale)}
		if cd.Offset != "" {
			e.Offset = decimal.MustParse(cd.Offset)
		}
		entries[i] = e
	}
	return quantity.NewTableConverter(entries...)
}
