package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/govalues/quantity"
	"github.com/spf13/cobra"
)

func newUnitsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "units [type]...",
		Short: "List quantity types and their units",
		Long: `List the declared quantity types with their units.
Currencies are declared on first use and therefore not listed.

Examples:
  qty units
  qty units Length Velocity
  qty units --units extra.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			types := a.sys.Types()
			if len(args) > 0 {
				types = types[:0:0]
				for _, name := range args {
					t, ok := a.sys.TypeByName(name)
					if !ok {
						return fmt.Errorf("unknown type %q: %w", name, quantity.ErrNotRegistered)
					}
					types = append(types, t)
				}
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, t := range types {
				if def, ok := t.Definition(); ok {
					fmt.Fprintf(w, "%v = %v\n", t, def)
				} else {
					fmt.Fprintf(w, "%v\n", t)
				}
				for _, u := range t.Units() {
					equiv := ""
					if e, ok := u.Equiv(); ok {
						equiv = e.RatString()
					}
					ref := ""
					if u.IsRef() {
						ref = "ref"
					}
					fmt.Fprintf(w, "  %v\t%v\t%v\t%v\n", u.Symbol(), u.Name(), equiv, ref)
				}
			}
			return w.Flush()
		},
	}
}
