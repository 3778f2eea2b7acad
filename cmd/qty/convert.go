package main

import (
	"fmt"

	"github.com/govalues/quantity"
	"github.com/spf13/cobra"
)

func newConvertCmd(a *app) *cobra.Command {
	var (
		at     string
		format string
	)
	cmd := &cobra.Command{
		Use:   "convert <quantity> <unit>",
		Short: "Convert a quantity into another unit",
		Long: `Convert a quantity into another unit of the same type.

Examples:
  qty convert "36 km/h" m/s
  qty convert "100 °C" °F
  qty convert --rates rates.toml --at 2024-03-15 "100 EUR" USD`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := a.parse(args[0])
			if err != nil {
				return err
			}
			to, err := a.unit(args[1])
			if err != nil {
				return err
			}
			t, err := parseDate(at)
			if err != nil {
				return err
			}
			var got quantity.Quantity
			if a.conv != nil && a.money.IsMoney(q) && !t.IsZero() {
				got, err = a.conv.ConvertAt(q, to, t)
			} else {
				got, err = q.Convert(to)
			}
			if err != nil {
				return err
			}
			s, err := got.FormatSpec(format)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "date of the exchange rate, YYYY-MM-DD")
	cmd.Flags().StringVar(&format, "format", quantity.DefaultFormatSpec, "output format, for example \"{a:%.2f} {u}\"")
	return cmd
}
