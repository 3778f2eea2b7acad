/*
Package quantity implements quantities with units of measure and checks the
dimensional compatibility of arithmetic at the moment of computation.
It is designed for programs handling physical and financial amounts, where
mixing up metres and seconds or euros and dollars must be an error rather
than a silent bug.

# Types and units

A [System] holds quantity types, for example Length or Money, and the units
measuring them. Types are either base types or derived from other types by
an algebraic definition:

	length := sys.MustDefineType(quantity.TypeConfig{Name: "Length", RefSymbol: "m"})
	duration := sys.MustDefineType(quantity.TypeConfig{Name: "Duration", RefSymbol: "s"})
	velocity := sys.MustDefineType(quantity.TypeConfig{Name: "Velocity", Definition: length.Quo(duration)})

A derived type whose factors all have a reference unit gets a reference unit
of its own, here "m/s". Each normalized definition can be declared only
once, so Length/Duration and Duration⁻¹·Length name the same type.

Units are declared for a type, optionally with a definition in terms of
other units:

	km := length.MustDefineUnit(quantity.UnitConfig{Symbol: "km", Definition: sys.MustParse("1000 m").Term()})

# Terms

Definitions are expressed as [Term] values: products of elements raised to
integer powers, with an exact rational factor. Terms are normalized by
recursively replacing derived elements by their definitions, merging equal
elements and folding convertible ones into each other. Two terms are equal if
their normalized forms are equal.

# Arithmetic

Quantities of the same type can be added and subtracted; the right operand
is converted into the unit of the left operand first.
Multiplication, division and integer powers look up the type registered for
the resulting normalized definition, so 15 m / 3 s gives 5 m/s if Velocity
was declared, and an error wrapping [ErrUndefinedResult] otherwise.
Results are memoized per pair of operands.
If the dimensions cancel out, the result is a plain number.

Amounts are exact. An amount without finite decimal representation, such as
1 min in hours, is kept as a fraction and written as "1/60 h", so converting
it back gives exactly 1 min. [Quantity.Amount] rounds such fractions to a
decimal, [Quantity.Rat] returns them unchanged. Amounts are only rounded when
a quantum, [Quantity.Round] or [Quantity.Quantize] asks for it.

# Conversion

Converting a quantity into another unit of its type tries the converters
registered for the type, most recently registered first, and falls back to
the ratio of the normalized definitions of both units.
[TableConverter] handles affine conversions such as between temperature
scales; currency conversion lives in the money package.

# Quantization and allocation

A type may declare a quantum, the smallest amount in terms of its reference
unit. Amounts are rounded to an integer multiple of the quantum on
construction, using the [RoundingMode] of the system.
[Quantity.Allocate] splits a quantity proportionally to a list of ratios
without losing any part of it.

# Errors

All operations return errors wrapping one of the exported sentinel errors,
for example [ErrIncompatibleUnits] or [ErrUnitConversion], which can be
checked with [errors.Is]. Must-variants panic instead.
*/
package quantity
