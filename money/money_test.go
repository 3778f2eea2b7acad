package money

import (
	"testing"

	"github.com/govalues/decimal"
	"github.com/govalues/quantity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMoney(t *testing.T) *Money {
	t.Helper()
	m, err := New(quantity.NewSystem())
	require.NoError(t, err)
	return m
}

func TestLookupCurrency(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		tests := []struct {
			code     string
			want     string
			numeric  string
			minor    int
			smallest string
		}{
			{"EUR", "Euro", "978", 2, "0.01"},
			{" usd ", "US Dollar", "840", 2, "0.01"},
			{"JPY", "Yen", "392", 0, "1"},
			{"BHD", "Bahraini Dinar", "048", 3, "0.001"},
			{"CLF", "Unidad de Fomento", "990", 4, "0.0001"},
		}
		for _, tt := range tests {
			c, err := LookupCurrency(tt.code)
			require.NoError(t, err, tt.code)
			assert.Equal(t, tt.want, c.Name)
			assert.Equal(t, tt.numeric, c.Numeric)
			assert.Equal(t, tt.minor, c.MinorUnit)
			assert.Equal(t, tt.smallest, c.SmallestFraction().String())
		}
	})

	t.Run("fallback", func(t *testing.T) {
		c, err := LookupCurrency("THB")
		require.NoError(t, err)
		assert.Equal(t, "THB", c.Code)
		assert.Equal(t, 2, c.MinorUnit)
	})

	t.Run("unknown", func(t *testing.T) {
		for _, code := range []string{"", "QQQ", "EURO", "12"} {
			_, err := LookupCurrency(code)
			assert.ErrorIs(t, err, ErrUnknownCurrency, code)
		}
	})

	t.Run("list", func(t *testing.T) {
		cs := Currencies()
		require.NotEmpty(t, cs)
		assert.Equal(t, "AUD", cs[0].Code)
		assert.IsNonDecreasing(t, codes(cs))
		assert.Contains(t, codes(cs), "EUR")
	})
}

func codes(cs []Currency) []string {
	res := make([]string, len(cs))
	for i, c := range cs {
		res[i] = c.Code
	}
	return res
}

func TestMoney(t *testing.T) {
	t.Run("type", func(t *testing.T) {
		sys := quantity.NewSystem()
		m1, err := New(sys)
		require.NoError(t, err)
		m2, err := New(sys)
		require.NoError(t, err)
		assert.Equal(t, m1.Type(), m2.Type())
		assert.Equal(t, TypeName, m1.Type().Name())
		_, ok := m1.Type().RefUnit()
		assert.False(t, ok)
	})

	t.Run("currency", func(t *testing.T) {
		m := newMoney(t)
		eur, err := m.Currency("eur")
		require.NoError(t, err)
		assert.Equal(t, "EUR", eur.Symbol())
		assert.Equal(t, "Euro", eur.Name())
		assert.Equal(t, m.Type(), eur.Type())
		assert.Equal(t, "1/100", eur.Quantum().RatString())
		again, err := m.Currency("EUR")
		require.NoError(t, err)
		assert.Equal(t, eur, again)

		c, ok := m.CurrencyOf(eur)
		assert.True(t, ok)
		assert.Equal(t, "978", c.Numeric)
		_, ok = m.CurrencyOf(quantity.Unit{})
		assert.False(t, ok)
	})

	t.Run("quantized", func(t *testing.T) {
		m := newMoney(t)
		tests := []struct {
			amount, code, want string
		}{
			{"10.005", "EUR", "10.00 EUR"},
			{"10.015", "EUR", "10.02 EUR"},
			{"10", "EUR", "10.00 EUR"},
			{"1234.5", "JPY", "1234 JPY"},
			{"0.0005", "BHD", "0.000 BHD"},
		}
		for _, tt := range tests {
			q, err := m.New(decimal.MustParse(tt.amount), tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.String())
			assert.True(t, m.IsMoney(q))
		}
		assert.False(t, m.IsMoney(quantity.Number(decimal.One)))
	})

	t.Run("symbol conflict", func(t *testing.T) {
		m := newMoney(t)
		m.System().MustDefineType(quantity.TypeConfig{Name: "Flow", RefSymbol: "CHF"})
		_, err := m.Currency("CHF")
		assert.ErrorIs(t, err, quantity.ErrDuplicateSymbol)
		_, err = m.Currency("QQQ")
		assert.ErrorIs(t, err, ErrUnknownCurrency)
	})

	t.Run("arithmetic", func(t *testing.T) {
		m := newMoney(t)
		a, err := m.New(decimal.MustParse("10"), "EUR")
		require.NoError(t, err)
		b, err := m.New(decimal.MustParse("0.35"), "EUR")
		require.NoError(t, err)
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, "10.35 EUR", sum.String())
		usd, err := m.New(decimal.One, "USD")
		require.NoError(t, err)
		_, err = a.Add(usd)
		assert.ErrorIs(t, err, quantity.ErrUnitConversion)
	})
}
