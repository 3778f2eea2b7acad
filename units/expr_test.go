package units

import (
	"testing"

	"github.com/govalues/quantity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSI(t *testing.T) *quantity.System {
	t.Helper()
	sys := quantity.NewSystem()
	_, err := LoadSI(sys)
	require.NoError(t, err)
	return sys
}

func unit(t *testing.T, sys *quantity.System, sym string) quantity.Unit {
	t.Helper()
	u, ok := sys.UnitBySymbol(sym)
	require.True(t, ok, sym)
	return u
}

func TestSplitExp(t *testing.T) {
	tests := []struct {
		tok      string
		wantName string
		wantExp  int
	}{
		{"m", "m", 1},
		{"m^2", "m", 2},
		{"m ^ 3", "m", 3},
		{"s^-1", "s", -1},
		{"m²", "m", 2},
		{"s⁻¹", "s", -1},
		{"m¹²", "m", 12},
	}
	for _, tt := range tests {
		name, exp, err := splitExp(tt.tok)
		require.NoError(t, err, tt.tok)
		assert.Equal(t, tt.wantName, name, tt.tok)
		assert.Equal(t, tt.wantExp, exp, tt.tok)
	}

	for _, tok := range []string{"m^", "m^x", "m^0", "²", "m⁻", "m⁰"} {
		_, _, err := splitExp(tok)
		assert.ErrorIs(t, err, ErrDefinition, tok)
	}
}

func TestParseUnitTerm(t *testing.T) {
	sys := newSI(t)

	t.Run("success", func(t *testing.T) {
		tests := []struct {
			s    string
			want string
		}{
			{"1000 m", "km"},
			{"km/h", "km/h"},
			{"m*s^-1", "m/s"},
			{"kg·m²/s²", "J"},
			{"kg * m^2 / s^2", "J"},
			{"1/s", "Hz"},
			{"s⁻¹", "Hz"},
			{"1/16 lb", "oz"},
			{"0.001 m³", "l"},
		}
		for _, tt := range tests {
			got, err := ParseUnitTerm(sys, tt.s)
			require.NoError(t, err, tt.s)
			want := quantity.ElemTerm(unit(t, sys, tt.want))
			assert.True(t, got.Equal(want), "%q: got %v, want %v", tt.s, got, want)
		}
	})

	t.Run("error", func(t *testing.T) {
		for _, s := range []string{"", "  ", "1", "1/", "m/s/s", "furlong", "2 furlong", "m^x", "m s", "/s"} {
			_, err := ParseUnitTerm(sys, s)
			assert.ErrorIs(t, err, ErrDefinition, s)
		}
	})
}

func TestParseTypeTerm(t *testing.T) {
	sys := newSI(t)
	typ := func(t *testing.T, name string) quantity.Type {
		t.Helper()
		tp, ok := sys.TypeByName(name)
		require.True(t, ok, name)
		return tp
	}

	t.Run("success", func(t *testing.T) {
		tests := []struct {
			s    string
			want string
		}{
			{"Length", "Length"},
			{"Length/Duration", "Velocity"},
			{"Length^2", "Area"},
			{"Length³", "Volume"},
			{"1/Duration", "Frequency"},
			{"Mass·Length²/Duration²", "Energy"},
			{"Force*Length", "Energy"},
			{"Energy/Duration", "Power"},
		}
		for _, tt := range tests {
			got, err := ParseTypeTerm(sys, tt.s)
			require.NoError(t, err, tt.s)
			want := typ(t, tt.want).Term()
			assert.True(t, got.Equal(want), "%q: got %v, want %v", tt.s, got, want)
		}
	})

	t.Run("error", func(t *testing.T) {
		for _, s := range []string{"", "Time", "2 Length", "Length/Duration/Duration", "Length^"} {
			_, err := ParseTypeTerm(sys, s)
			assert.ErrorIs(t, err, ErrDefinition, s)
		}
	})
}
