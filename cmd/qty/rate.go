package main

import (
	"errors"
	"fmt"

	"github.com/govalues/quantity"
	"github.com/spf13/cobra"
)

func newRateCmd(a *app) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "rate <currency> <currency>",
		Short: "Show the exchange rate between two currencies",
		Long: `Show the exchange rate between two currencies from a rate file.
Rates between two currencies other than the base are triangulated.

Examples:
  qty rate --rates rates.toml EUR USD
  qty rate --rates rates.toml --at 2024-02-01 HKD USD`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.conv == nil {
				return errors.New("no rate file given, use --rates")
			}
			unit, err := a.unit(args[0])
			if err != nil {
				return err
			}
			term, err := a.unit(args[1])
			if err != nil {
				return err
			}
			t, err := parseDate(at)
			if err != nil {
				return err
			}
			r, ok := a.conv.Rate(unit, term, t)
			if !ok {
				return fmt.Errorf("no rate %v/%v: %w", unit, term, quantity.ErrUnitConversion)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, r)
			if inv, err := r.Inverted(); err == nil {
				fmt.Fprintln(out, inv)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "date of the rate, YYYY-MM-DD")
	return cmd
}
