package units

import (
	"math/big"
	"testing"

	"github.com/govalues/quantity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupPrefix(t *testing.T) {
	tests := []struct {
		s       string
		wantSym string
		wantExp int
	}{
		{"k", "k", 3},
		{"kilo", "k", 3},
		{"da", "da", 1},
		{"µ", "µ", -6},
		{"u", "µ", -6},
		{"micro", "µ", -6},
		{"Q", "Q", 30},
		{"q", "q", -30},
	}
	for _, tt := range tests {
		p, ok := LookupPrefix(tt.s)
		require.True(t, ok, tt.s)
		assert.Equal(t, tt.wantSym, p.Symbol, tt.s)
		assert.Equal(t, tt.wantExp, p.Exp, tt.s)
	}

	for _, s := range []string{"", "x", "K", "Kilo"} {
		_, ok := LookupPrefix(s)
		assert.False(t, ok, s)
	}
}

func TestPrefix_Factor(t *testing.T) {
	tests := []struct {
		s    string
		want string
	}{
		{"k", "1000"},
		{"da", "10"},
		{"d", "1/10"},
		{"m", "1/1000"},
		{"G", "1000000000"},
		{"n", "1/1000000000"},
	}
	for _, tt := range tests {
		p, ok := LookupPrefix(tt.s)
		require.True(t, ok, tt.s)
		assert.Equal(t, tt.want, p.Factor().RatString(), tt.s)
	}
}

func TestDefinePrefixed(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		sys := quantity.NewSystem()
		length := sys.MustDefineType(quantity.TypeConfig{Name: "Length", RefSymbol: "m", RefName: "Metre"})
		m, _ := length.RefUnit()

		got, err := DefinePrefixed(m, "k", "micro", "u")
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "km", got[0].Symbol())
		assert.Equal(t, "kilometre", got[0].Name())
		assert.Equal(t, "µm", got[1].Symbol())
		assert.Equal(t, "micrometre", got[1].Name())
		assert.Equal(t, got[1], got[2])

		equiv, ok := got[0].Equiv()
		require.True(t, ok)
		assert.Equal(t, "1000", equiv.RatString())
		equiv, ok = got[1].Equiv()
		require.True(t, ok)
		assert.Equal(t, "1/1000000", equiv.RatString())

		again, err := DefinePrefixed(m, "kilo")
		require.NoError(t, err)
		assert.Equal(t, got[0], again[0])
	})

	t.Run("unnamed", func(t *testing.T) {
		sys := quantity.NewSystem()
		length := sys.MustDefineType(quantity.TypeConfig{Name: "Length", RefSymbol: "m"})
		m, _ := length.RefUnit()
		got, err := DefinePrefixed(m, "c")
		require.NoError(t, err)
		assert.Equal(t, "cm", got[0].Symbol())
		assert.Equal(t, "cm", got[0].Name())
	})

	t.Run("error", func(t *testing.T) {
		sys := quantity.NewSystem()
		length := sys.MustDefineType(quantity.TypeConfig{Name: "Length", RefSymbol: "m"})
		m, _ := length.RefUnit()

		_, err := DefinePrefixed(m, "x")
		assert.ErrorIs(t, err, ErrDefinition)

		length.MustDefineUnit(quantity.UnitConfig{Symbol: "mm", Definition: quantity.NewNumTerm(
			big.NewRat(1, 100), quantity.Factor[quantity.Unit]{Elem: m, Exp: 1})})
		_, err = DefinePrefixed(m, "m")
		assert.ErrorIs(t, err, quantity.ErrDuplicateSymbol)
	})
}
