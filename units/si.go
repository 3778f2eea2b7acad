package units

import (
	"bytes"
	_ "embed"

	"github.com/govalues/quantity"
)

//go:embed si.yaml
var siYAML []byte

// LoadSI declares the SI base types, common derived types and their usual
// units in sys, including Temperature with table conversions between kelvin,
// degree Celsius and degree Fahrenheit.
// Calling it twice on the same system is harmless, except that the
// temperature converter is registered again.
func LoadSI(sys *quantity.System) ([]quantity.Type, error) {
	return Load(sys, bytes.NewReader(siYAML))
}
