package go_bsexplain

import (
	"context"
	"errors"
	"math"
	"reflect"
	"strings"
	"sync"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func mustOption(t *testing.T, c Contract, settings ...Setting) *AnalyticalOption {
	t.Helper()
	o, err := NewAnalyticalOption(c, settings...)
	if err != nil {
		t.Fatalf("NewAnalyticalOption: %v", err)
	}
	return o
}

func mustCalculate(t *testing.T, o *AnalyticalOption, q Quantity) Calculation {
	t.Helper()
	calc, err := o.Calculate(q)
	if err != nil {
		t.Fatalf("Calculate(%s): %v", q, err)
	}
	return calc
}

// Hull section 15: S=52, K=50, tau=0.25, sigma=0.3, r=0.12.
func TestPriceCalculationHull15(t *testing.T) {
	o := mustOption(t, mustContract(t, Call, 52, 50, 0.25, 0.3, 0.12, 0))
	calc := mustCalculate(t, o, QuantityPrice)

	want := [][]string{
		{
			"d_1",
			`\frac{\ln \left( \frac{S}{K} \right) + \left( r - q + \frac{\sigma^{2}}{2} \right) \tau}{\sigma \sqrt{\tau}}`,
			`\frac{\ln \left( \frac{52.0}{50.0} \right) + \left( 0.120 - 0.00 + \frac{0.300^{2}}{2} \right) 0.250}{0.300 \sqrt{0.250}}`,
			"0.5365",
		},
		{"d_2", `d_1 - \sigma \sqrt{\tau}`, `0.5365 - 0.300 \sqrt{0.250}`, "0.3865"},
		{`\mathrm{N}(d_1)`, `\mathrm{N}(0.5365)`, "0.704"},
		{`\mathrm{N}(d_2)`, `\mathrm{N}(0.3865)`, "0.650"},
		{
			"c",
			`S e^{-q \tau} \mathrm{N}(d_1) - K e^{-r \tau} \mathrm{N}(d_2)`,
			`\left( 52.0 \right) e^{-\left( 0.00 \right) \left( 0.250 \right)} \left( 0.704 \right) - \left( 50.0 \right) e^{-\left( 0.120 \right) \left( 0.250 \right)} \left( 0.650 \right)`,
			"5.06",
		},
	}
	if got := calc.Steps(); !reflect.DeepEqual(got, want) {
		t.Errorf("steps =\n%q\nwant\n%q", got, want)
	}

	var lens []int
	for _, s := range calc.Steps() {
		lens = append(lens, len(s))
	}
	if !reflect.DeepEqual(lens, []int{4, 4, 3, 3, 4}) {
		t.Errorf("step lengths = %v, want [4 4 3 3 4]", lens)
	}
	if !scalar.EqualWithinAbs(calc.Answer(), 5.06, 0.01) {
		t.Errorf("Answer() = %v, want 5.06 ± 0.01", calc.Answer())
	}
}

func TestGreekCalculationsHull19(t *testing.T) {
	o := mustOption(t, mustContract(t, Call, 49, 50, 0.3846, 0.2, 0.05, 0))
	tests := []struct {
		q         Quantity
		steps     int
		display   string
		want, tol float64
	}{
		{QuantityDelta, 3, "0.522", 0.522, 0.001},
		{QuantityGamma, 3, "0.0655", 0.066, 0.001},
		{QuantityVega, 3, "12.1", 12.1, 0.1},
		{QuantityTheta, 6, "-4.31", -4.31, 0.01},
		{QuantityRho, 4, "8.91", 8.91, 0.01},
	}
	for _, tt := range tests {
		t.Run(tt.q.String(), func(t *testing.T) {
			calc := mustCalculate(t, o, tt.q)
			if calc.Len() != tt.steps {
				t.Errorf("Len() = %d, want %d", calc.Len(), tt.steps)
			}
			if calc.DisplayAnswer() != tt.display {
				t.Errorf("DisplayAnswer() = %q, want %q", calc.DisplayAnswer(), tt.display)
			}
			if !scalar.EqualWithinAbs(calc.Answer(), tt.want, tt.tol) {
				t.Errorf("Answer() = %v, want %v ± %v", calc.Answer(), tt.want, tt.tol)
			}
		})
	}

	delta := mustCalculate(t, o, QuantityDelta).Steps()
	if want := []string{`\mathrm{N}(d_1)`, `\mathrm{N}(0.0542)`, "0.522"}; !reflect.DeepEqual(delta[1], want) {
		t.Errorf("delta N(d_1) step = %q, want %q", delta[1], want)
	}
}

func TestPutCalculationsBracketNegativeTerms(t *testing.T) {
	o := mustOption(t, mustContract(t, Put, 49, 50, 0.3846, 0.2, 0.05, 0))
	rho := mustCalculate(t, o, QuantityRho)
	steps := rho.Steps()

	want := []string{`\mathrm{N}(-d_2)`, `\mathrm{N}(-\left( -0.0699 \right))`, "0.528"}
	if !reflect.DeepEqual(steps[2], want) {
		t.Errorf("N(-d_2) step = %q, want %q", steps[2], want)
	}
	if last := steps[3]; last[0] != SymbolRho || last[1] != `-K \tau e^{-r \tau} \mathrm{N}(-d_2)` {
		t.Errorf("rho step = %q", last)
	}
	if rho.DisplayAnswer() != "-9.96" {
		t.Errorf("DisplayAnswer() = %q, want -9.96", rho.DisplayAnswer())
	}

	price := mustCalculate(t, o, QuantityPrice).Steps()
	if price[4][0] != SymbolPut {
		t.Errorf("put price notation = %q, want p", price[4][0])
	}
	if !strings.Contains(price[4][1], SymbolNMinusD2) || !strings.Contains(price[4][1], SymbolNMinusD1) {
		t.Errorf("put price formula = %q", price[4][1])
	}
}

// The narrative substitutes intermediates as displayed, while the answer is
// computed from the unrounded chain.
func TestNarrativePrecisionIsNotAnswerPrecision(t *testing.T) {
	c := mustContract(t, Call, 52, 50, 0.25, 0.3, 0.12, 0)
	o := mustOption(t, c)
	calc := mustCalculate(t, o, QuantityPrice)
	steps := calc.Steps()

	if d1 := steps[0][3]; !strings.HasPrefix(steps[1][2], d1+" ") {
		t.Errorf("d_2 substitution %q does not reuse displayed d_1 %q", steps[1][2], d1)
	}
	if calc.Answer() != NewBlackScholes(c, nil).Price() {
		t.Errorf("Answer() = %v, want the unrounded kernel price", calc.Answer())
	}
	if calc.Answer() == 5.06 {
		t.Error("Answer() was rounded")
	}
	if got := MustRound(calc.Answer(), o.StepPrecision()); got != calc.DisplayAnswer() {
		t.Errorf("display %q is not the rounded answer %q", calc.DisplayAnswer(), got)
	}
}

func TestCalculationAnswerEqualsKernel(t *testing.T) {
	contracts := []Contract{
		mustContract(t, Call, 52, 50, 0.25, 0.3, 0.12, 0),
		mustContract(t, Put, 52, 50, 0.25, 0.3, 0.12, 0),
		mustContract(t, Call, 930, 900, 2.0/12.0, 0.2, 0.08, 0.03),
		mustContract(t, Put, 90, 87, 0.5, 0.25, 0.09, 0.03),
		mustContract(t, Put, 1.6, 1.6, 0.3333, 0.1, -0.01, 0.11),
	}
	for _, c := range contracts {
		o := mustOption(t, c)
		bs := NewBlackScholes(c, nil)
		direct := map[Quantity]float64{
			QuantityPrice: bs.Price(),
			QuantityDelta: bs.Delta(),
			QuantityGamma: bs.Gamma(),
			QuantityVega:  bs.Vega(),
			QuantityTheta: bs.Theta(),
			QuantityRho:   bs.Rho(),
		}
		for q, want := range direct {
			calc := mustCalculate(t, o, q)
			if calc.Answer() != want {
				t.Errorf("%s %s: Answer() = %v, kernel %v", c.Type(), q, calc.Answer(), want)
			}
			if got := MustRound(want, DefaultPrecision()); calc.DisplayAnswer() != got {
				t.Errorf("%s %s: display %q, want %q", c.Type(), q, calc.DisplayAnswer(), got)
			}
		}
		if o.Greeks() != bs.Greeks() {
			t.Errorf("Greeks() = %+v, want %+v", o.Greeks(), bs.Greeks())
		}
	}
}

func TestAnalyticalOptionSettings(t *testing.T) {
	c := mustContract(t, Call, 52, 50, 0.25, 0.3, 0.12, 0)

	o := mustOption(t, c, WithStepPrecision(Precision{Digits: 5, Method: DecimalPlaces}))
	if got := mustCalculate(t, o, QuantityPrice).DisplayAnswer(); got != "5.05739" {
		t.Errorf("DisplayAnswer() = %q, want 5.05739", got)
	}

	o = mustOption(t, c, WithDTermPrecision(Precision{Digits: 2, Method: SignificantFigures}))
	if got := mustCalculate(t, o, QuantityDelta).Steps()[0][3]; got != "0.54" {
		t.Errorf("d_1 display = %q, want 0.54", got)
	}

	o = mustOption(t, c, WithDistribution(fixedDistribution{}))
	if got, want := mustCalculate(t, o, QuantityPrice).Answer(), NewBlackScholes(c, fixedDistribution{}).Price(); got != want {
		t.Errorf("Answer() = %v, want %v", got, want)
	}

	if _, err := NewAnalyticalOption(c, WithStepPrecision(Precision{Digits: 0})); !errors.Is(err, ErrInvalidPrecision) {
		t.Errorf("err = %v, want ErrInvalidPrecision", err)
	}
	if _, err := NewAnalyticalOption(c, WithDTermPrecision(Precision{Digits: -2, Method: DecimalPlaces})); !errors.Is(err, ErrInvalidPrecision) {
		t.Errorf("err = %v, want ErrInvalidPrecision", err)
	}
}

func TestNewAnalyticalOptionRejectsAmerican(t *testing.T) {
	c, err := NewAmericanContract(Call, 52, 50, 0.25, 0.3, 0.12, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewAnalyticalOption(c); !errors.Is(err, ErrUnsupportedStyle) {
		t.Errorf("err = %v, want ErrUnsupportedStyle", err)
	}
}

func TestCalculateUnknownQuantity(t *testing.T) {
	o := mustOption(t, mustContract(t, Call, 52, 50, 0.25, 0.3, 0.12, 0))
	if _, err := o.Calculate(Quantity(42)); !errors.Is(err, ErrUnknownQuantity) {
		t.Errorf("err = %v, want ErrUnknownQuantity", err)
	}
}

type nanDistribution struct{}

func (nanDistribution) CDF(float64) float64 { return math.NaN() }
func (nanDistribution) Prob(float64) float64 { return math.NaN() }

func TestNonFiniteValuesFailWithoutPartialResult(t *testing.T) {
	tests := []struct {
		name     string
		contract Contract
		settings []Setting
	}{
		{
			"distribution returns NaN",
			mustContract(t, Call, 52, 50, 0.25, 0.3, 0.12, 0),
			[]Setting{WithDistribution(nanDistribution{})},
		},
		{
			"S/K overflows into an infinite d_1",
			mustContract(t, Put, math.MaxFloat64, math.SmallestNonzeroFloat64, 1, 0.2, 0, 0),
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := mustOption(t, tt.contract, tt.settings...)
			for _, q := range Quantities {
				calc, err := o.Calculate(q)
				if !errors.Is(err, ErrInvalidParameter) {
					t.Errorf("%s: err = %v, want ErrInvalidParameter", q, err)
				}
				if calc.Len() != 0 || calc.Answer() != 0 {
					t.Errorf("%s: partial result with %d steps", q, calc.Len())
				}
			}
			if all, err := o.CalculateAll(context.Background()); err == nil || all != nil {
				t.Errorf("CalculateAll = %v, %v; want an error", all, err)
			}
		})
	}
}

func TestAnalyticalOptionDefaults(t *testing.T) {
	c := mustContract(t, Call, 52, 50, 0.25, 0.3, 0.12, 0)
	o := mustOption(t, c, WithDistribution(nil))
	if o.StepPrecision() != DefaultPrecision() {
		t.Errorf("StepPrecision() = %+v, want %+v", o.StepPrecision(), DefaultPrecision())
	}
	if got, want := o.Price(), NewBlackScholes(c, StandardNormal()).Price(); got != want {
		t.Errorf("Price() = %v, want %v", got, want)
	}
	if got := mustCalculate(t, o, QuantityPrice).Steps()[0][3]; got != MustRound(o.D1(), DefaultDTermPrecision()) {
		t.Errorf("d_1 display = %q, want it at %+v", got, DefaultDTermPrecision())
	}
}

func TestCalculateAll(t *testing.T) {
	o := mustOption(t, mustContract(t, Put, 90, 87, 0.5, 0.25, 0.09, 0.03))
	all, err := o.CalculateAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(Quantities) {
		t.Fatalf("len = %d, want %d", len(all), len(Quantities))
	}
	for _, q := range Quantities {
		if want := mustCalculate(t, o, q); !reflect.DeepEqual(all[q], want) {
			t.Errorf("%s differs from Calculate", q)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := o.CalculateAll(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestAnalyticalOptionConcurrentUse(t *testing.T) {
	o := mustOption(t, mustContract(t, Call, 49, 50, 0.3846, 0.2, 0.05, 0))
	want := mustCalculate(t, o, QuantityTheta)

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := o.ThetaCalculation()
			if err != nil {
				errs <- err.Error()
				return
			}
			if !reflect.DeepEqual(got, want) {
				errs <- "theta calculation differs between goroutines"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}

func TestStandardNormalSteps(t *testing.T) {
	o := mustOption(t, mustContract(t, Call, 52, 50, 0.25, 0.3, 0.12, 0))

	cdf, err := o.StandardNormalCDFStep("x", 0)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{`\mathrm{N}(x)`, `\mathrm{N}(0.00)`, "0.500"}; !reflect.DeepEqual(cdf, want) {
		t.Errorf("CDF step = %q, want %q", cdf, want)
	}

	pdf, err := o.StandardNormalPDFStep(SymbolD1, o.D1())
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{`\mathrm{N'}(d_1)`, `\mathrm{N'}(0.536)`, "0.345"}; !reflect.DeepEqual(pdf, want) {
		t.Errorf("PDF step = %q, want %q", pdf, want)
	}
}

func TestCalculationStepsAreCopies(t *testing.T) {
	o := mustOption(t, mustContract(t, Call, 52, 50, 0.25, 0.3, 0.12, 0))
	calc := mustCalculate(t, o, QuantityDelta)
	steps := calc.Steps()
	steps[0][0] = "mutated"
	if calc.Steps()[0][0] != SymbolD1 {
		t.Error("Steps() exposes internal state")
	}
	if lines := calc.Lines(); !strings.HasPrefix(lines[len(lines)-1], SymbolDelta+" = ") {
		t.Errorf("last line = %q", lines[len(lines)-1])
	}
}

func TestParseQuantity(t *testing.T) {
	for _, q := range Quantities {
		got, err := ParseQuantity(strings.ToUpper(q.String()))
		if err != nil || got != q {
			t.Errorf("ParseQuantity(%s) = %v, %v", q, got, err)
		}
	}
	if _, err := ParseQuantity("vanna"); !errors.Is(err, ErrUnknownQuantity) {
		t.Errorf("err = %v, want ErrUnknownQuantity", err)
	}
}
