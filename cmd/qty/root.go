package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/govalues/quantity"
	"github.com/govalues/quantity/money"
	"github.com/govalues/quantity/units"
	"github.com/spf13/cobra"
)

type app struct {
	verbose  bool
	rounding string
	defs     []string
	rates    string

	logger *slog.Logger
	sys    *quantity.System
	money  *money.Money
	conv   *money.Converter
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "qty",
		Short: "Quantities with units of measure",
		Long: `qty works with quantities of the SI types and of money.

Further types and units can be declared in YAML definition files,
exchange rates are read from TOML rate files.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug messages")
	root.PersistentFlags().StringVar(&a.rounding, "rounding", quantity.HalfEven.String(), "rounding mode")
	root.PersistentFlags().StringArrayVar(&a.defs, "units", nil, "YAML definition file, can be repeated")
	root.PersistentFlags().StringVar(&a.rates, "rates", "", "TOML exchange rate file")

	root.AddCommand(
		newConvertCmd(a),
		newAllocateCmd(a),
		newRateCmd(a),
		newUnitsCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	mode, err := quantity.ParseRoundingMode(a.rounding)
	if err != nil {
		return err
	}
	a.sys = quantity.NewSystem(quantity.WithLogger(a.logger), quantity.WithRounding(mode))
	if _, err := units.LoadSI(a.sys); err != nil {
		return err
	}
	for _, name := range a.defs {
		types, err := units.LoadFile(a.sys, name)
		if err != nil {
			return err
		}
		a.logger.Info("definitions loaded", "file", name, "types", len(types))
	}
	if a.money, err = money.New(a.sys); err != nil {
		return err
	}
	if a.rates != "" {
		if a.conv, err = money.LoadRatesFile(a.money, a.rates, money.WithLogger(a.logger)); err != nil {
			return err
		}
		a.conv.Register()
	}
	return nil
}

// unit returns the unit with the given symbol, declaring currencies on
// first use.
func (a *app) unit(sym string) (quantity.Unit, error) {
	if u, ok := a.sys.UnitBySymbol(sym); ok {
		return u, nil
	}
	if _, err := money.LookupCurrency(sym); err == nil {
		return a.money.Currency(sym)
	}
	return quantity.Unit{}, fmt.Errorf("unknown unit %q: %w", sym, quantity.ErrNotRegistered)
}

// parse parses "<amount> <symbol>", where the symbol may be a currency code.
func (a *app) parse(s string) (quantity.Quantity, error) {
	s = strings.TrimSpace(s)
	num, sym, ok := strings.Cut(s, " ")
	if !ok {
		return a.sys.Parse(s)
	}
	u, err := a.unit(strings.TrimSpace(sym))
	if err != nil {
		return quantity.Quantity{}, err
	}
	return a.sys.Parse(num + " " + u.Symbol())
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}
