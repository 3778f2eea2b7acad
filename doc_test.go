package quantity_test

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/govalues/decimal"
	"github.com/govalues/quantity"
)

// newSystem returns a system with a few mechanical types and units.
func newSystem(opts ...quantity.Option) *quantity.System {
	sys := quantity.NewSystem(opts...)
	length := sys.MustDefineType(quantity.TypeConfig{Name: "Length", RefSymbol: "m", RefName: "Metre"})
	length.MustDefineUnit(quantity.UnitConfig{Symbol: "km", Definition: sys.MustParse("1000 m").Term()})
	duration := sys.MustDefineType(quantity.TypeConfig{Name: "Duration", RefSymbol: "s", RefName: "Second"})
	duration.MustDefineUnit(quantity.UnitConfig{Symbol: "h", Definition: sys.MustParse("3600 s").Term()})
	sys.MustDefineType(quantity.TypeConfig{Name: "Area", Definition: length.Pow(2)})
	velocity := sys.MustDefineType(quantity.TypeConfig{Name: "Velocity", Definition: length.Quo(duration)})
	velocity.MustDefineUnit(quantity.UnitConfig{
		Symbol: "km/h",
		Definition: quantity.NewTerm(
			quantity.Factor[quantity.Unit]{Elem: unit(sys, "km"), Exp: 1},
			quantity.Factor[quantity.Unit]{Elem: unit(sys, "h"), Exp: -1},
		),
	})
	return sys
}

func unit(sys *quantity.System, symbol string) quantity.Unit {
	u, ok := sys.UnitBySymbol(symbol)
	if !ok {
		panic(fmt.Sprintf("unit(%q) failed: unknown symbol", symbol))
	}
	return u
}

// This example shows how the type of a quotient is derived from the
// definitions of the declared types.
func Example_velocity() {
	sys := newSystem()
	v := sys.MustParse("15 m").MustQuo(sys.MustParse("3 s"))
	fmt.Println(v)
	fmt.Println(v.Type())
	fmt.Println(v.MustConvert(unit(sys, "km/h")))
	// Output:
	// 5 m/s
	// Velocity
	// 18 km/h
}

func ExampleSystem_DefineType() {
	sys := quantity.NewSystem()
	length := sys.MustDefineType(quantity.TypeConfig{Name: "Length", RefSymbol: "m"})
	duration := sys.MustDefineType(quantity.TypeConfig{Name: "Duration", RefSymbol: "s"})
	velocity := sys.MustDefineType(quantity.TypeConfig{Name: "Velocity", Definition: length.Quo(duration)})
	ref, _ := velocity.RefUnit()
	fmt.Println(velocity, ref)
	_, err := sys.DefineType(quantity.TypeConfig{Name: "Speed", Definition: length.Quo(duration)})
	fmt.Println(errors.Is(err, quantity.ErrDuplicateDefinition))
	// Output:
	// Velocity m/s
	// true
}

func ExampleType_DefineUnit() {
	sys := newSystem()
	length, _ := sys.TypeByName("Length")
	mile := length.MustDefineUnit(quantity.UnitConfig{Symbol: "mi", Name: "Mile", Definition: sys.MustParse("1609.344 m").Term()})
	equiv, _ := mile.Equiv()
	fmt.Println(mile.Name(), equiv.FloatString(3))
	fmt.Println(sys.MustParse("2 mi").MustConvert(unit(sys, "km")))
	// Output:
	// Mile 1609.344
	// 3.218688 km
}

func ExampleSystem_Parse() {
	sys := newSystem()
	fmt.Println(sys.Parse("1.5 km"))
	fmt.Println(sys.Parse("1/3 m"))
	fmt.Println(sys.Parse("42"))
	// Output:
	// 1.5 km <nil>
	// 1/3 m <nil>
	// 42 <nil>
}

func ExampleQuantity_Rat() {
	sys := newSystem()
	q := sys.MustParse("1/3 m")
	fmt.Println(q, q.Amount(), q.Rat(), q.IsDecimal())
	fmt.Println(q.MulNum(decimal.MustParse("3")))
	// Output:
	// 1/3 m 0.3333333333333333333 1/3 false
	// 1 m <nil>
}

func ExampleSystem_ParseTo() {
	sys := newSystem()
	fmt.Println(sys.ParseTo("1.5 km", unit(sys, "m")))
	fmt.Println(sys.ParseTo("90", unit(sys, "km/h")))
	// Output:
	// 1500 m <nil>
	// 90 km/h <nil>
}

func ExampleSystem_FromTerm() {
	sys := newSystem()
	term := quantity.NewTerm(
		quantity.Factor[quantity.Unit]{Elem: unit(sys, "km"), Exp: 1},
		quantity.Factor[quantity.Unit]{Elem: unit(sys, "s"), Exp: -1},
	)
	fmt.Println(sys.FromTerm(term))
	// Output: 1000 m/s <nil>
}

func ExampleQuantity_Add() {
	sys := newSystem()
	a := sys.MustParse("1 km")
	b := sys.MustParse("250 m")
	fmt.Println(a.Add(b))
	fmt.Println(b.Add(a))
	// Output:
	// 1.25 km <nil>
	// 1250 m <nil>
}

func ExampleQuantity_Sub() {
	sys := newSystem()
	a := sys.MustParse("1 km")
	b := sys.MustParse("250 m")
	fmt.Println(a.Sub(b))
	fmt.Println(b.Sub(a))
	// Output:
	// 0.75 km <nil>
	// -750 m <nil>
}

func ExampleQuantity_Mul() {
	sys := newSystem()
	a := sys.MustParse("2 m")
	b := sys.MustParse("3 m")
	fmt.Println(a.Mul(b))
	_, err := a.Mul(sys.MustParse("3 s"))
	fmt.Println(errors.Is(err, quantity.ErrUndefinedResult))
	// Output:
	// 6 m² <nil>
	// true
}

func ExampleQuantity_Quo() {
	sys := newSystem()
	fmt.Println(sys.MustParse("72 km").Quo(sys.MustParse("2 h")))
	fmt.Println(sys.MustParse("6 km").Quo(sys.MustParse("1500 m")))
	// Output:
	// 36 km/h <nil>
	// 4 <nil>
}

func ExampleQuantity_Pow() {
	sys := newSystem()
	q := sys.MustParse("3 m")
	fmt.Println(q.Pow(2))
	// Output: 9 m² <nil>
}

func ExampleQuantity_Convert() {
	sys := newSystem()
	fmt.Println(sys.MustParse("36 km/h").Convert(unit(sys, "m/s")))
	fmt.Println(sys.MustParse("1.5 km").Convert(unit(sys, "m")))
	_, err := sys.MustParse("1 km").Convert(unit(sys, "s"))
	fmt.Println(errors.Is(err, quantity.ErrIncompatibleUnits))
	// Output:
	// 10 m/s <nil>
	// 1500 m <nil>
	// true
}

func ExampleQuantity_Cmp() {
	sys := newSystem()
	a := sys.MustParse("1 km")
	b := sys.MustParse("999 m")
	fmt.Println(a.Cmp(b))
	fmt.Println(b.Cmp(a))
	fmt.Println(a.Cmp(sys.MustParse("1000 m")))
	// Output:
	// 1 <nil>
	// -1 <nil>
	// 0 <nil>
}

func ExampleQuantity_Quantize() {
	sys := newSystem()
	q := sys.MustParse("1.7314 km")
	fmt.Println(q.Quantize(sys.MustParse("25 m"), quantity.Up))
	fmt.Println(q.QuantizeUnit(unit(sys, "m"), quantity.HalfEven))
	// Output:
	// 1.75 km <nil>
	// 1.731 km <nil>
}

func ExampleQuantity_Allocate() {
	sys := quantity.NewSystem(quantity.WithRounding(quantity.HalfUp))
	sys.MustDefineType(quantity.TypeConfig{Name: "Money", RefSymbol: "EUR", Quantum: big.NewRat(1, 100)})
	q := sys.MustParse("10 EUR")
	ratios := []decimal.Decimal{
		decimal.MustParse("3"),
		decimal.MustParse("7"),
		decimal.MustParse("5"),
		decimal.MustParse("6"),
		decimal.MustParse("81"),
		decimal.MustParse("3"),
		decimal.MustParse("7"),
	}
	fmt.Println(q.Allocate(ratios, false))
	fmt.Println(q.Allocate(ratios, true))
	// Output:
	// [0.27 EUR 0.63 EUR 0.45 EUR 0.54 EUR 7.23 EUR 0.27 EUR 0.63 EUR] -0.02 EUR <nil>
	// [0.27 EUR 0.62 EUR 0.45 EUR 0.54 EUR 7.23 EUR 0.27 EUR 0.62 EUR] 0.00 EUR <nil>
}

func ExampleQuantity_AllocateByQuantities() {
	sys := newSystem(quantity.WithRounding(quantity.HalfUp))
	q := sys.MustParse("12 km")
	ratios := []quantity.Quantity{
		sys.MustParse("1 h"),
		sys.MustParse("1800 s"),
	}
	fmt.Println(q.AllocateByQuantities(ratios, false))
	// Output: [8 km 4 km] 0 km <nil>
}

func ExampleQuantity_Format() {
	sys := newSystem()
	q := sys.MustParse("5.2 km")
	fmt.Printf("%v\n", q)
	fmt.Printf("%.2f\n", q)
	fmt.Printf("%q\n", q)
	fmt.Printf("[%10v]\n", q)
	// Output:
	// 5.2 km
	// 5.20 km
	// "5.2 km"
	// [    5.2 km]
}

func ExampleQuantity_FormatSpec() {
	sys := newSystem()
	q := sys.MustParse("19.36 m²")
	fmt.Println(q.FormatSpec("{a:%.1f} {u}"))
	fmt.Println(q.FormatSpec("{u:%-3s}|{a:%8.3f}"))
	// Output:
	// 19.4 m² <nil>
	// m² |  19.360 <nil>
}

func ExampleTableConverter() {
	sys := quantity.NewSystem()
	temperature := sys.MustDefineType(quantity.TypeConfig{Name: "Temperature"})
	celsius := temperature.MustDefineUnit(quantity.UnitConfig{Symbol: "°C"})
	fahrenheit := temperature.MustDefineUnit(quantity.UnitConfig{Symbol: "°F"})
	c, err := quantity.NewTableConverter(quantity.TableEntry{
		From:   celsius,
		To:     fahrenheit,
		Scale:  decimal.MustParse("1.8"),
		Offset: decimal.MustParse("32"),
	})
	if err != nil {
		panic(err)
	}
	temperature.RegisterConverter(c)
	fmt.Println(sys.MustParse("100 °C").Convert(fahrenheit))
	fmt.Println(sys.MustParse("98.6 °F").Convert(celsius))
	// Output:
	// 212 °F <nil>
	// 37 °C <nil>
}

func ExampleConverterHandle_Release() {
	sys := newSystem()
	length, _ := sys.TypeByName("Length")
	km, m := unit(sys, "km"), unit(sys, "m")
	h := length.RegisterConverter(quantity.ConverterFunc(func(q quantity.Quantity, to quantity.Unit) (*big.Rat, bool) {
		if q.Unit() != km || to != m {
			return nil, false
		}
		a := q.Rat()
		return a.Mul(a, big.NewRat(999, 1)), true
	}))
	fmt.Println(sys.MustParse("1 km").Convert(m))
	fmt.Println(h.Release())
	fmt.Println(sys.MustParse("1 km").Convert(m))
	// Output:
	// 999 m <nil>
	// <nil>
	// 1000 m <nil>
}

func ExampleTerm_String() {
	sys := newSystem()
	length, _ := sys.TypeByName("Length")
	duration, _ := sys.TypeByName("Duration")
	fmt.Println(length.Quo(duration).Pow(2))
	fmt.Println(quantity.NewTerm(
		quantity.Factor[quantity.Unit]{Elem: unit(sys, "m/s"), Exp: 1},
		quantity.Factor[quantity.Unit]{Elem: unit(sys, "km"), Exp: 1},
	))
	// Output:
	// Length²/Duration²
	// m·km/s
}

func ExampleTerm_Normalized() {
	sys := newSystem()
	term := quantity.ElemTerm(unit(sys, "km/h"))
	fmt.Println(term.Normalized())
	fmt.Println(term.Normalized().Num().RatString())
	// Output:
	// 5·m/18·s
	// 5/18
}
