/*
Package money adds currencies and exchange rates to a quantity system.

Currencies are units of the quantity type Money. Their quantum is the
smallest fraction of the currency, so amounts are always rounded to whole
cents, yen or fils:

	m, _ := money.New(sys)
	eur := m.MustCurrency("EUR")
	price := quantity.MustNewQuantity(decimal.MustParse("10.005"), eur) // 10.00 EUR

The currency data comes from a built-in ISO 4217 table, with
golang.org/x/text/currency as fallback for codes missing there.

# Exchange rates

An [ExchangeRate] states the value of a multiple of one currency in another
one. Rates sharing a currency can be multiplied or divided to triangulate a
rate between the two other currencies.

A [Converter] holds rates relative to a base currency for periods of time,
for example per month, and derives rates between any two known currencies.
Registered with the money type, it makes amounts of money convertible with
[quantity.Quantity.Convert]:

	c, _ := money.LoadRatesFile(m, "rates.toml")
	h := c.Register()
	defer h.Release()
*/
package money
