package units

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/govalues/quantity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kinematics = `
quantities:
  - name: Length
    ref_unit: {symbol: m, name: Metre}
    units:
      - {symbol: km, name: Kilometre, definition: "1000 m"}
    prefixes: {unit: m, names: [k, c, m]}
  - name: Duration
    ref_unit: {symbol: s}
    units:
      - {symbol: h, definition: "3600 s"}
  - name: Velocity
    definition: Length/Duration
    units:
      - {symbol: km/h, definition: km/h}
  - name: Temperature
    units: [{symbol: °C}, {symbol: °F}]
    conversions:
      - {from: °C, to: °F, scale: "1.8", offset: "32"}
`

func TestLoad(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		sys := quantity.NewSystem()
		types, err := Load(sys, strings.NewReader(kinematics))
		require.NoError(t, err)
		require.Len(t, types, 4)
		assert.Equal(t, "Velocity", types[2].Name())

		ref, ok := types[2].RefUnit()
		require.True(t, ok)
		assert.Equal(t, "m/s", ref.Symbol())

		km := unit(t, sys, "km")
		assert.Equal(t, "Kilometre", km.Name())
		assert.Equal(t, types[0], unit(t, sys, "cm").Type())

		got, err := sys.MustParse("36 km/h").Convert(ref)
		require.NoError(t, err)
		assert.Equal(t, "10 m/s", got.String())

		got, err = sys.MustParse("100 °C").Convert(unit(t, sys, "°F"))
		require.NoError(t, err)
		assert.Equal(t, "212 °F", got.String())
		got, err = sys.MustParse("-40 °F").Convert(unit(t, sys, "°C"))
		require.NoError(t, err)
		assert.Equal(t, "-40 °C", got.String())
	})

	t.Run("twice", func(t *testing.T) {
		sys := quantity.NewSystem()
		types, err := Load(sys, strings.NewReader(kinematics))
		require.NoError(t, err)
		before := sys.Stats()
		converters := len(types[3].Converters())
		_, err = Load(sys, strings.NewReader(kinematics))
		require.NoError(t, err)
		after := sys.Stats()
		assert.Equal(t, before.Types, after.Types)
		assert.Equal(t, before.Units, after.Units)
		assert.Len(t, types[3].Converters(), converters)

		changed := strings.Replace(kinematics, `offset: "32"`, `offset: "31"`, 1)
		_, err = Load(sys, strings.NewReader(changed))
		require.NoError(t, err)
		assert.Len(t, types[3].Converters(), converters+1)
	})

	t.Run("error", func(t *testing.T) {
		tests := map[string]struct {
			doc     string
			wantErr error
		}{
			"empty": {
				doc:     "",
				wantErr: ErrDefinition,
			},
			"no quantities": {
				doc:     "quantities: []",
				wantErr: ErrDefinition,
			},
			"unknown field": {
				doc:     "quantities:\n  - name: Length\n    colour: red",
				wantErr: ErrDefinition,
			},
			"missing name": {
				doc:     "quantities:\n  - ref_unit: {symbol: m}",
				wantErr: ErrDefinition,
			},
			"missing symbol": {
				doc:     "quantities:\n  - name: Length\n    ref_unit: {name: Metre}",
				wantErr: ErrDefinition,
			},
			"symbol with space": {
				doc:     "quantities:\n  - name: Length\n    ref_unit: {symbol: k m}",
				wantErr: ErrDefinition,
			},
			"bad quantum": {
				doc:     "quantities:\n  - name: Length\n    ref_unit: {symbol: m}\n    quantum: \"-1\"",
				wantErr: ErrDefinition,
			},
			"bad scale": {
				doc:     "quantities:\n  - name: Temperature\n    units: [{symbol: K}, {symbol: °C}]\n    conversions: [{from: °C, to: K, scale: x}]",
				wantErr: ErrDefinition,
			},
			"same units": {
				doc:     "quantities:\n  - name: Temperature\n    units: [{symbol: K}]\n    conversions: [{from: K, to: K, scale: \"1\"}]",
				wantErr: ErrDefinition,
			},
			"unknown conversion unit": {
				doc:     "quantities:\n  - name: Temperature\n    units: [{symbol: K}]\n    conversions: [{from: K, to: °R, scale: \"1.8\"}]",
				wantErr: ErrDefinition,
			},
			"unknown type": {
				doc:     "quantities:\n  - name: Velocity\n    definition: Length/Time",
				wantErr: ErrDefinition,
			},
			"unknown unit": {
				doc:     "quantities:\n  - name: Length\n    ref_unit: {symbol: m}\n    units: [{symbol: ft, definition: \"0.3048 metre\"}]",
				wantErr: ErrDefinition,
			},
			"foreign prefixed unit": {
				doc:     "quantities:\n  - name: Length\n    ref_unit: {symbol: m}\n  - name: Duration\n    ref_unit: {symbol: s}\n    prefixes: {unit: m, names: [k]}",
				wantErr: ErrDefinition,
			},
			"unknown prefix": {
				doc:     "quantities:\n  - name: Length\n    ref_unit: {symbol: m}\n    prefixes: {unit: m, names: [x]}",
				wantErr: ErrDefinition,
			},
			"wrong dimension": {
				doc:     "quantities:\n  - name: Length\n    ref_unit: {symbol: m}\n  - name: Duration\n    ref_unit: {symbol: s}\n    units: [{symbol: h, definition: \"3600 m\"}]",
				wantErr: quantity.ErrIncompatibleUnits,
			},
			"duplicate definition": {
				doc:     "quantities:\n  - name: Length\n    ref_unit: {symbol: m}\n  - name: Area\n    definition: Length^2\n  - name: Surface\n    definition: Length²",
				wantErr: quantity.ErrDuplicateDefinition,
			},
			"duplicate symbol": {
				doc:     "quantities:\n  - name: Length\n    ref_unit: {symbol: m}\n  - name: Mass\n    ref_unit: {symbol: m}",
				wantErr: quantity.ErrDuplicateSymbol,
			},
		}
		for name, tt := range tests {
			t.Run(name, func(t *testing.T) {
				_, err := Load(quantity.NewSystem(), strings.NewReader(tt.doc))
				assert.ErrorIs(t, err, tt.wantErr)
			})
		}
	})
}

func TestLoadFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "units.yaml")
	require.NoError(t, os.WriteFile(name, []byte(kinematics), 0o600))
	sys := quantity.NewSystem()
	types, err := LoadFile(sys, name)
	require.NoError(t, err)
	assert.Len(t, types, 4)

	_, err = LoadFile(sys, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDocument_Validate(t *testing.T) {
	doc := Document{Quantities: []TypeDef{{
		Name:    "Length",
		RefUnit: &UnitDef{Symbol: "m"},
		Conversions: []ConversionDef{
			{From: "m", To: "ft", Scale: "3.28084"},
		},
	}}}
	require.NoError(t, doc.Validate())

	doc.Quantities[0].Conversions[0].Offset = "zero"
	err := doc.Validate()
	require.ErrorIs(t, err, ErrDefinition)
	assert.Contains(t, err.Error(), "Offset")
}

func TestLoadSI(t *testing.T) {
	sys := newSI(t)

	t.Run("convert", func(t *testing.T) {
		tests := []struct {
			q, to, want string
		}{
			{"1 km", "m", "1000 m"},
			{"36 km/h", "m/s", "10 m/s"},
			{"1 kWh", "J", "3600000 J"},
			{"1 ha", "m²", "10000 m²"},
			{"1 l", "ml", "1000 ml"},
			{"1 mi", "ft", "5280 ft"},
			{"1 lb", "oz", "16 oz"},
			{"1 d", "min", "1440 min"},
			{"1 bar", "kPa", "100 kPa"},
			{"100 °C", "K", "373.15 K"},
			{"0 K", "°F", "-459.67 °F"},
			{"212 °F", "°C", "100 °C"},
		}
		for _, tt := range tests {
			q, err := sys.Parse(tt.q)
			require.NoError(t, err, tt.q)
			got, err := q.Convert(unit(t, sys, tt.to))
			require.NoError(t, err, tt.q)
			assert.Equal(t, tt.want, got.String(), tt.q)
		}
	})

	t.Run("arithmetic", func(t *testing.T) {
		tests := []struct {
			x, y     string
			mul      bool
			wantType string
		}{
			{"10 N", "2 m", true, "Energy"},
			{"100 km", "2 h", false, "Velocity"},
			{"6 kJ", "2 s", false, "Power"},
			{"10 kg", "2 l", false, "Density"},
			{"4 m²", "2 m", true, "Volume"},
		}
		for _, tt := range tests {
			x, y := sys.MustParse(tt.x), sys.MustParse(tt.y)
			var got quantity.Quantity
			var err error
			if tt.mul {
				got, err = x.Mul(y)
			} else {
				got, err = x.Quo(y)
			}
			require.NoError(t, err, "%v, %v", tt.x, tt.y)
			assert.Equal(t, tt.wantType, got.Type().Name(), "%v, %v", tt.x, tt.y)
		}
	})

	t.Run("twice", func(t *testing.T) {
		_, err := LoadSI(sys)
		require.NoError(t, err)
	})
}
