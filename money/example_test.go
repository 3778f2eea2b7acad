package money_test

import (
	"fmt"
	"strings"
	"time"

	"github.com/govalues/decimal"
	"github.com/govalues/quantity"
	"github.com/govalues/quantity/money"
)

func ExampleNewExchangeRate() {
	m, _ := money.New(quantity.NewSystem())
	eur, usd := m.MustCurrency("EUR"), m.MustCurrency("USD")
	r, _ := money.NewExchangeRate(eur, decimal.MustParse("50"), usd, decimal.MustParse("50.38"))
	fmt.Println(r)
	fmt.Println(r.Rate())
	// Output:
	// 10 EUR = 10.076 USD
	// 1.0076
}

func ExampleExchangeRate_Mul() {
	m, _ := money.New(quantity.NewSystem())
	eur, usd, hkd := m.MustCurrency("EUR"), m.MustCurrency("USD"), m.MustCurrency("HKD")
	eurhkd := money.MustNewExchangeRate(eur, decimal.One, hkd, decimal.MustParse("8.395804"))
	eurusd := money.MustNewExchangeRate(eur, decimal.One, usd, decimal.MustParse("1.0457"))
	hkdeur, _ := eurhkd.Inverted()
	fmt.Println(hkdeur)
	fmt.Println(eurusd.Mul(hkdeur))
	// Output:
	// 1 HKD = 0.119107 EUR
	// 1 HKD = 0.12455 USD <nil>
}

func ExampleConverter() {
	m, _ := money.New(quantity.NewSystem())
	c, err := money.LoadRates(m, strings.NewReader(`
base = "EUR"

[[rates]]
validity = "2024-03"
quotes = [{ currency = "USD", amount = "1.087" }, { currency = "HKD", amount = "8.5" }]
`), money.WithToday(func() time.Time { return time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC) }))
	if err != nil {
		panic(err)
	}
	h := c.Register()
	defer h.Release()

	price, _ := m.New(decimal.MustParse("100"), "HKD")
	fmt.Println(price.Convert(m.MustCurrency("USD")))
	fmt.Println(price.Convert(m.MustCurrency("EUR")))
	// Output:
	// 12.79 USD <nil>
	// 11.76 EUR <nil>
}
