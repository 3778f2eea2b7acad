package main

import (
	"fmt"

	"github.com/govalues/decimal"
	"github.com/spf13/cobra"
)

func newAllocateCmd(a *app) *cobra.Command {
	var keep bool
	cmd := &cobra.Command{
		Use:   "allocate <quantity> <ratio>...",
		Short: "Split a quantity proportionally to ratios",
		Long: `Split a quantity proportionally to ratios without losing any part of it.

The remainder left by quantization is dispersed over the portions unless
--keep-remainder is given.

Examples:
  qty allocate "100.00 EUR" 1 1 1
  qty allocate --keep-remainder "100.00 EUR" 1 1 1`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := a.parse(args[0])
			if err != nil {
				return err
			}
			ratios := make([]decimal.Decimal, len(args)-1)
			for i, s := range args[1:] {
				if ratios[i], err = decimal.Parse(s); err != nil {
					return fmt.Errorf("ratio %q: %w", s, err)
				}
			}
			portions, rem, err := q.Allocate(ratios, !keep)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range portions {
				fmt.Fprintln(out, p)
			}
			if !rem.IsZero() {
				fmt.Fprintf(out, "remainder: %v\n", rem)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&keep, "keep-remainder", false, "print the remainder instead of dispersing it")
	return cmd
}
