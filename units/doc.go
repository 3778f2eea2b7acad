/*
Package units declares quantity types and units from definition documents.

A document lists quantity types in YAML, each with an optional definition in
terms of earlier types, a reference unit, further units with definitions in
terms of other units, SI prefixes and table conversions:

	quantities:
	  - name: Length
	    ref_unit: {symbol: m, name: Metre}
	    units:
	      - {symbol: in, name: Inch, definition: "0.0254 m"}
	    prefixes: {unit: m, names: [k, c, m]}
	  - name: Velocity
	    definition: Length/Duration
	    units:
	      - {symbol: km/h, definition: km/h}

Definitions are products of names separated by "*" or "·", with at most one
"/", integer exponents written as "^2" or "²" and an optional leading number,
for example "1/16 lb" or "kg·m²/s²".

[LoadSI] declares a predefined set of SI types and units.
*/
package units
