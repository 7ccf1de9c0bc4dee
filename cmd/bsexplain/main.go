// Command bsexplain prints the worked Black-Scholes derivation of an option's
// price and greeks.
//
//	bsexplain -config hull_19_1.yaml -v=2 -logtostderr
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"

	bs "github.com/joshi-prasad/go_bsexplain"
	"github.com/joshi-prasad/go_bsexplain/internal/config"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (yaml, toml or json)")
	flag.Parse()
	defer glog.Flush()

	conf, err := config.Load(*configPath)
	if err != nil {
		glog.Exitf("load config: %v", err)
	}
	glog.V(1).Infof("contract %+v display %+v", conf.Contract, conf.Display)

	option, err := newOption(conf)
	if err != nil {
		glog.Exitf("build option: %v", err)
	}
	if err := run(context.Background(), os.Stdout, option, conf.Display.Quantities); err != nil {
		glog.Exitf("calculate: %v", err)
	}
}

func newOption(conf *config.Config) (*bs.AnalyticalOption, error) {
	c := conf.Contract
	style, err := bs.ParseOptionStyle(c.Style)
	if err != nil {
		return nil, err
	}
	kind, err := bs.ParseOptionType(c.Type)
	if err != nil {
		return nil, err
	}
	contract, err := bs.NewContract(style, kind,
		c.SpotPrice, c.StrikePrice, c.TimeToMaturity, c.Volatility, c.RiskFreeRate, c.DividendYield)
	if err != nil {
		return nil, err
	}

	d := conf.Display
	stepMethod, err := bs.ParseRoundingMethod(d.Rounding)
	if err != nil {
		return nil, err
	}
	dTermMethod, err := bs.ParseRoundingMethod(d.DTermRounding)
	if err != nil {
		return nil, err
	}
	return bs.NewAnalyticalOption(contract,
		bs.WithStepPrecision(bs.Precision{Digits: d.Precision, Method: stepMethod}),
		bs.WithDTermPrecision(bs.Precision{Digits: d.DTermPrecision, Method: dTermMethod}),
	)
}

func run(ctx context.Context, w io.Writer, option *bs.AnalyticalOption, names []string) error {
	calcs, err := option.CalculateAll(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		q, err := bs.ParseQuantity(name)
		if err != nil {
			return err
		}
		calc := calcs[q]
		fmt.Fprintf(w, "# %s\n", q)
		for i, line := range calc.Lines() {
			fmt.Fprintf(w, "%d. %s\n", i+1, line)
		}
		fmt.Fprintf(w, "answer: %.10g\n\n", calc.Answer())
	}
	return nil
}
