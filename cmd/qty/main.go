// Command qty converts, allocates and inspects quantities with units of
// measure and money.
//
//	qty convert "36 km/h" m/s
//	qty convert --rates rates.toml "100 EUR" USD
//	qty allocate "100.00 EUR" 1 1 1
//	qty units Velocity
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
