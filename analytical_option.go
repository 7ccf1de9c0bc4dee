package go_bsexplain

import (
	"context"
	"fmt"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"
)

var defaultDTermPrecision = Precision{Digits: 4, Method: DecimalPlaces}

// DefaultDTermPrecision is the display precision of d_1 and d_2 in the price
// and delta derivations: 4 decimal places.
func DefaultDTermPrecision() Precision { return defaultDTermPrecision }

// AnalyticalOption explains the closed-form price and greeks of a European
// contract step by step. It is immutable and safe for concurrent use.
type AnalyticalOption struct {
	contract Contract
	bs       *BlackScholes
	dist     Distribution
	step     Precision
	dTerm    Precision
}

// Setting configures an AnalyticalOption at construction.
type Setting func(*AnalyticalOption)

// WithStepPrecision sets the precision of every step that does not override it.
func WithStepPrecision(p Precision) Setting {
	return func(o *AnalyticalOption) {
		o.step = p
	}
}

// WithDTermPrecision sets the precision of d_1 and d_2 in the price and delta
// derivations.
func WithDTermPrecision(p Precision) Setting {
	return func(o *AnalyticalOption) {
		o.dTerm = p
	}
}

// WithDistribution replaces the standard normal primitive.
func WithDistribution(d Distribution) Setting {
	return func(o *AnalyticalOption) {
		o.dist = d
	}
}

// NewAnalyticalOption fails with ErrUnsupportedStyle unless the contract is
// European, and with ErrInvalidPrecision for a non-positive precision.
func NewAnalyticalOption(c Contract, settings ...Setting) (*AnalyticalOption, error) {
	if c.Style() != European {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedStyle, c.Style())
	}
	o := &AnalyticalOption{
		contract: c,
		dist:     unitNormal,
		step:     defaultPrecision,
		dTerm:    defaultDTermPrecision,
	}
	for _, s := range settings {
		s(o)
	}
	if o.dist == nil {
		o.dist = unitNormal
	}
	if err := o.step.validate(); err != nil {
		return nil, fmt.Errorf("step precision: %w", err)
	}
	if err := o.dTerm.validate(); err != nil {
		return nil, fmt.Errorf("d-term precision: %w", err)
	}
	o.bs = NewBlackScholes(c, o.dist)
	return o, nil
}

func (o *AnalyticalOption) Contract() Contract { return o.contract }

func (o *AnalyticalOption) StepPrecision() Precision { return o.step }

func (o *AnalyticalOption) D1() float64 { return o.bs.D1() }

func (o *AnalyticalOption) D2() float64 { return o.bs.D2() }

func (o *AnalyticalOption) Price() float64 { return o.bs.Price() }

func (o *AnalyticalOption) Delta() float64 { return o.bs.Delta() }

func (o *AnalyticalOption) Gamma() float64 { return o.bs.Gamma() }

func (o *AnalyticalOption) Vega() float64 { return o.bs.Vega() }

func (o *AnalyticalOption) Theta() float64 { return o.bs.Theta() }

func (o *AnalyticalOption) Rho() float64 { return o.bs.Rho() }

// Greeks returns every direct value at once.
func (o *AnalyticalOption) Greeks() Greeks { return o.bs.Greeks() }

// Calculate dispatches to the derivation of q.
func (o *AnalyticalOption) Calculate(q Quantity) (Calculation, error) {
	switch q {
	case QuantityPrice:
		return o.PriceCalculation()
	case QuantityDelta:
		return o.DeltaCalculation()
	case QuantityGamma:
		return o.GammaCalculation()
	case QuantityVega:
		return o.VegaCalculation()
	case QuantityTheta:
		return o.ThetaCalculation()
	case QuantityRho:
		return o.RhoCalculation()
	}
	return Calculation{}, fmt.Errorf("%w: %d", ErrUnknownQuantity, int(q))
}

// CalculateAll derives every quantity concurrently.
func (o *AnalyticalOption) CalculateAll(ctx context.Context) (map[Quantity]Calculation, error) {
	results := make([]Calculation, len(Quantities))
	g, ctx := errgroup.WithContext(ctx)
	for i, q := range Quantities {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			calc, err := o.Calculate(q)
			if err != nil {
				return fmt.Errorf("%s: %w", q, err)
			}
			results[i] = calc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := make(map[Quantity]Calculation, len(Quantities))
	for i, q := range Quantities {
		out[q] = results[i]
	}
	return out, nil
}

// PriceCalculation explains c or p in five steps: d_1, d_2, N(d_1), N(d_2) and
// the price formula. Puts use N(-d_1) and N(-d_2).
func (o *AnalyticalOption) PriceCalculation() (Calculation, error) {
	b := o.newBuilder(QuantityPrice)
	b.add(o.d1Step(o.dTerm))
	b.add(o.d2Step(o.dTerm))
	b.add(o.cdfStep(SymbolD1, o.D1(), o.dTerm))
	b.add(o.cdfStep(SymbolD2, o.D2(), o.dTerm))

	var notation, formula string
	if o.isCall() {
		notation = SymbolCall
		formula = SymbolS + " " + Exponential("-"+SymbolQ+" "+SymbolTau) + " " + SymbolNd1 +
			" - " + SymbolK + " " + Exponential("-"+SymbolR+" "+SymbolTau) + " " + SymbolNd2
	} else {
		notation = SymbolPut
		formula = SymbolK + " " + Exponential("-"+SymbolR+" "+SymbolTau) + " " + SymbolNMinusD2 +
			" - " + SymbolS + " " + Exponential("-"+SymbolQ+" "+SymbolTau) + " " + SymbolNMinusD1
	}
	b.add(o.namedStep(notation, formula, o.Price(),
		o.cdfBinding(SymbolD1, o.D1()),
		o.cdfBinding(SymbolD2, o.D2()),
	))
	return b.build(o.Price())
}

// DeltaCalculation explains e^{-q tau} N(d_1), or -e^{-q tau} N(-d_1) for puts.
func (o *AnalyticalOption) DeltaCalculation() (Calculation, error) {
	b := o.newBuilder(QuantityDelta)
	b.add(o.d1Step(o.dTerm))
	b.add(o.cdfStep(SymbolD1, o.D1(), o.dTerm))

	formula := Exponential("-"+SymbolQ+" "+SymbolTau) + " " + SymbolNd1
	if !o.isCall() {
		formula = "-" + Exponential("-"+SymbolQ+" "+SymbolTau) + " " + SymbolNMinusD1
	}
	b.add(o.namedStep(SymbolDelta, formula, o.Delta(), o.cdfBinding(SymbolD1, o.D1())))
	return b.build(o.Delta())
}

// GammaCalculation explains e^{-q tau} N'(d_1) / (S sigma sqrt(tau)).
func (o *AnalyticalOption) GammaCalculation() (Calculation, error) {
	b := o.newBuilder(QuantityGamma)
	b.add(o.d1Step(o.step))
	b.add(o.pdfStep(o.step))

	formula := Fraction(
		Exponential("-"+SymbolQ+" "+SymbolTau)+" "+SymbolNPrimeD1,
		SymbolS+" "+SymbolSigma+" "+SquareRoot(SymbolTau),
	)
	b.add(o.namedStep(SymbolGamma, formula, o.Gamma(), o.pdfBinding()))
	return b.build(o.Gamma())
}

// VegaCalculation explains S e^{-q tau} N'(d_1) sqrt(tau).
func (o *AnalyticalOption) VegaCalculation() (Calculation, error) {
	b := o.newBuilder(QuantityVega)
	b.add(o.d1Step(o.step))
	b.add(o.pdfStep(o.step))

	formula := SymbolS + " " + Exponential("-"+SymbolQ+" "+SymbolTau) + " " + SymbolNPrimeD1 + " " + SquareRoot(SymbolTau)
	b.add(o.namedStep(SymbolVega, formula, o.Vega(), o.pdfBinding()))
	return b.build(o.Vega())
}

// ThetaCalculation explains the three-term theta: time decay, the rate term
// and the dividend term.
func (o *AnalyticalOption) ThetaCalculation() (Calculation, error) {
	b := o.newBuilder(QuantityTheta)
	b.add(o.d1Step(o.step))
	b.add(o.d2Step(o.step))
	b.add(o.pdfStep(o.step))
	b.add(o.cdfStep(SymbolD1, o.D1(), o.step))
	b.add(o.cdfStep(SymbolD2, o.D2(), o.step))

	decay := "-" + Fraction(
		Exponential("-"+SymbolQ+" "+SymbolTau)+" "+SymbolS+" "+SymbolNPrimeD1+" "+SymbolSigma,
		"2 "+SquareRoot(SymbolTau),
	)
	rateTerm := SymbolR + " " + SymbolK + " " + Exponential("-"+SymbolR+" "+SymbolTau)
	dividendTerm := SymbolQ + " " + SymbolS + " " + Exponential("-"+SymbolQ+" "+SymbolTau)
	var formula string
	if o.isCall() {
		formula = decay + " - " + rateTerm + " " + SymbolNd2 + " + " + dividendTerm + " " + SymbolNd1
	} else {
		formula = decay + " + " + rateTerm + " " + SymbolNMinusD2 + " - " + dividendTerm + " " + SymbolNMinusD1
	}
	b.add(o.namedStep(SymbolTheta, formula, o.Theta(),
		o.pdfBinding(),
		o.cdfBinding(SymbolD1, o.D1()),
		o.cdfBinding(SymbolD2, o.D2()),
	))
	return b.build(o.Theta())
}

// RhoCalculation explains K tau e^{-r tau} N(d_2), or its put counterpart.
func (o *AnalyticalOption) RhoCalculation() (Calculation, error) {
	b := o.newBuilder(QuantityRho)
	b.add(o.d1Step(o.step))
	b.add(o.d2Step(o.step))
	b.add(o.cdfStep(SymbolD2, o.D2(), o.step))

	formula := SymbolK + " " + SymbolTau + " " + Exponential("-"+SymbolR+" "+SymbolTau) + " " + SymbolNd2
	if !o.isCall() {
		formula = "-" + SymbolK + " " + SymbolTau + " " + Exponential("-"+SymbolR+" "+SymbolTau) + " " + SymbolNMinusD2
	}
	b.add(o.namedStep(SymbolRho, formula, o.Rho(), o.cdfBinding(SymbolD2, o.D2())))
	return b.build(o.Rho())
}

// StandardNormalCDFStep explains N(x) for a named variable:
// [N(x), N(value), result].
func (o *AnalyticalOption) StandardNormalCDFStep(variable string, value float64) ([]string, error) {
	return o.distributionStep(CDF(variable), variable, value, o.dist.CDF(value))
}

// StandardNormalPDFStep explains N'(x) for a named variable:
// [N'(x), N'(value), result].
func (o *AnalyticalOption) StandardNormalPDFStep(variable string, value float64) ([]string, error) {
	return o.distributionStep(PDF(variable), variable, value, o.dist.Prob(value))
}

func (o *AnalyticalOption) distributionStep(formula, variable string, value, answer float64) ([]string, error) {
	in, err := NewEquationInput(variable, value, WithPrecision(o.step))
	if err != nil {
		return nil, err
	}
	display, err := o.round(answer, o.step)
	if err != nil {
		return nil, err
	}
	return Solve([]string{formula}, []EquationInput{in}, display)
}

func (o *AnalyticalOption) isCall() bool { return o.contract.Type() == Call }

func (o *AnalyticalOption) round(v float64, p Precision) (string, error) {
	return Round(v, p.Digits, p.Method)
}

// d1Step: d_1 = [ln(S/K) + (r - q + sigma^2/2) tau] / (sigma sqrt(tau)).
func (o *AnalyticalOption) d1Step(p Precision) ([]string, error) {
	numerator := NaturalLog(Fraction(SymbolS, SymbolK)) + " + " +
		Parentheses(SymbolR+" - "+SymbolQ+" + "+Fraction(Squared(SymbolSigma), "2")) + " " + SymbolTau
	formula := Fraction(numerator, SymbolSigma+" "+SquareRoot(SymbolTau))
	inputs, err := o.inputs(o.step, DelimiterAuto, o.contractBindings()...)
	if err != nil {
		return nil, err
	}
	display, err := o.round(o.D1(), p)
	if err != nil {
		return nil, err
	}
	return solveNamed(SymbolD1, formula, inputs, display)
}

// d2Step substitutes d_1 at the precision its own step displayed.
func (o *AnalyticalOption) d2Step(p Precision) ([]string, error) {
	formula := SymbolD1 + " - " + SymbolSigma + " " + SquareRoot(SymbolTau)
	inputs, err := o.inputs(o.step, DelimiterAuto, o.contractBindings()...)
	if err != nil {
		return nil, err
	}
	d1, err := NewEquationInput(SymbolD1, o.D1(), WithPrecision(p))
	if err != nil {
		return nil, err
	}
	display, err := o.round(o.D2(), p)
	if err != nil {
		return nil, err
	}
	return solveNamed(SymbolD2, formula, append(inputs, d1), display)
}

// cdfStep explains N(d) for calls and N(-d) for puts. d is shown at the
// precision of its own step, the result at the step precision.
func (o *AnalyticalOption) cdfStep(symbol string, d float64, p Precision) ([]string, error) {
	arg, value := symbol, d
	if !o.isCall() {
		arg, value = "-"+symbol, -d
	}
	in, err := NewEquationInput(symbol, d, WithPrecision(p))
	if err != nil {
		return nil, err
	}
	display, err := o.round(o.dist.CDF(value), o.step)
	if err != nil {
		return nil, err
	}
	return Solve([]string{CDF(arg)}, []EquationInput{in}, display)
}

func (o *AnalyticalOption) pdfStep(p Precision) ([]string, error) {
	in, err := NewEquationInput(SymbolD1, o.D1(), WithPrecision(p))
	if err != nil {
		return nil, err
	}
	display, err := o.round(o.dist.Prob(o.D1()), o.step)
	if err != nil {
		return nil, err
	}
	return Solve([]string{SymbolNPrimeD1}, []EquationInput{in}, display)
}

// namedStep builds a closing step over the contract inputs plus extra
// bindings, all bracketed and shown at the step precision.
func (o *AnalyticalOption) namedStep(notation, formula string, answer float64, extra ...binding) ([]string, error) {
	inputs, err := o.inputs(o.step, DelimiterParentheses, append(o.contractBindings(), extra...)...)
	if err != nil {
		return nil, err
	}
	display, err := o.round(answer, o.step)
	if err != nil {
		return nil, err
	}
	return solveNamed(notation, formula, inputs, display)
}

// binding is a name and value not yet validated into an EquationInput.
type binding struct {
	name  string
	value float64
}

// cdfBinding binds N(d), or N(-d) for puts.
func (o *AnalyticalOption) cdfBinding(symbol string, d float64) binding {
	if !o.isCall() {
		return binding{CDF("-" + symbol), o.dist.CDF(-d)}
	}
	return binding{CDF(symbol), o.dist.CDF(d)}
}

func (o *AnalyticalOption) pdfBinding() binding {
	return binding{SymbolNPrimeD1, o.dist.Prob(o.D1())}
}

func (o *AnalyticalOption) contractBindings() []binding {
	c := o.contract
	return []binding{
		{SymbolS, c.SpotPrice()},
		{SymbolK, c.StrikePrice()},
		{SymbolTau, c.TimeToMaturity()},
		{SymbolSigma, c.Volatility()},
		{SymbolR, c.RiskFreeRate()},
		{SymbolQ, c.DividendYield()},
	}
}

func (o *AnalyticalOption) inputs(p Precision, d Delimiter, bindings ...binding) ([]EquationInput, error) {
	out := make([]EquationInput, 0, len(bindings))
	for _, b := range bindings {
		in, err := NewEquationInput(b.name, b.value, WithPrecision(p), WithDelimiter(d))
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, nil
}

// calculationBuilder collects steps and keeps the first error.
type calculationBuilder struct {
	quantity Quantity
	kind     OptionType
	steps    [][]string
	err      error
}

func (o *AnalyticalOption) newBuilder(q Quantity) *calculationBuilder {
	return &calculationBuilder{quantity: q, kind: o.contract.Type()}
}

func (b *calculationBuilder) add(step []string, err error) {
	if b.err != nil {
		return
	}
	if err != nil {
		b.err = fmt.Errorf("%s step %d: %w", b.quantity, len(b.steps)+1, err)
		return
	}
	b.steps = append(b.steps, step)
}

func (b *calculationBuilder) build(answer float64) (Calculation, error) {
	if b.err != nil {
		return Calculation{}, b.err
	}
	if glog.V(2) {
		glog.Infof("%s %s: %d steps, answer %g", b.kind, b.quantity, len(b.steps), answer)
	}
	return newCalculation(answer, b.steps...), nil
}
