package go_bsexplain

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

// OptionType is the call/put tag every formula branches on.
type OptionType int

const (
	Call OptionType = iota
	Put
)

func (t OptionType) String() string {
	switch t {
	case Call:
		return "call"
	case Put:
		return "put"
	}
	return fmt.Sprintf("OptionType(%d)", int(t))
}

// ParseOptionType accepts "call"/"c" and "put"/"p" in any case.
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "c":
		return Call, nil
	case "put", "p":
		return Put, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidOptionType, s)
}

// OptionStyle is the exercise style of a contract.
type OptionStyle int

const (
	European OptionStyle = iota
	American
)

func (s OptionStyle) String() string {
	switch s {
	case European:
		return "european"
	case American:
		return "american"
	}
	return fmt.Sprintf("OptionStyle(%d)", int(s))
}

// ParseOptionStyle accepts "european" and "american".
func ParseOptionStyle(s string) (OptionStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "european", "eu":
		return European, nil
	case "american", "am":
		return American, nil
	}
	return 0, fmt.Errorf("%w: unknown style %q", ErrUnsupportedStyle, s)
}

// Contract is the immutable set of option parameters.
type Contract struct {
	style OptionStyle
	kind  OptionType
	terms contractTerms
}

type contractTerms struct {
	S     float64 `validate:"gt=0"` // spot price
	K     float64 `validate:"gt=0"` // strike price
	Tau   float64 `validate:"gt=0"` // time to maturity in years
	Sigma float64 `validate:"gt=0"` // annualised volatility
	R     float64 // continuously compounded risk-free rate
	Q     float64 // continuous dividend yield
}

var validate = validator.New()

// NewContract validates the parameters. Every parameter must be finite. S, K,
// tau and sigma must be strictly positive, and sigma sqrt(tau) must not
// underflow to zero; r and q may take any sign.
func NewContract(style OptionStyle, kind OptionType, s, k, tau, sigma, r, q float64) (Contract, error) {
	if kind != Call && kind != Put {
		return Contract{}, fmt.Errorf("%w: %d", ErrInvalidOptionType, int(kind))
	}
	terms := contractTerms{S: s, K: k, Tau: tau, Sigma: sigma, R: r, Q: q}
	if err := terms.checkFinite(); err != nil {
		return Contract{}, err
	}
	if err := validate.Struct(terms); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return Contract{}, fmt.Errorf("%w: %s must be greater than zero", ErrInvalidParameter, fieldErrs[0].Field())
		}
		return Contract{}, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	if sigma*math.Sqrt(tau) == 0 {
		return Contract{}, fmt.Errorf("%w: Sigma * sqrt(Tau) underflows to zero", ErrInvalidParameter)
	}
	return Contract{style: style, kind: kind, terms: terms}, nil
}

func (t contractTerms) checkFinite() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"S", t.S}, {"K", t.K}, {"Tau", t.Tau}, {"Sigma", t.Sigma}, {"R", t.R}, {"Q", t.Q},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidParameter, f.name, f.value)
		}
	}
	return nil
}

// NewEuropeanContract is NewContract with the European style.
func NewEuropeanContract(kind OptionType, s, k, tau, sigma, r, q float64) (Contract, error) {
	return NewContract(European, kind, s, k, tau, sigma, r, q)
}

// NewAmericanContract is NewContract with the American style.
func NewAmericanContract(kind OptionType, s, k, tau, sigma, r, q float64) (Contract, error) {
	return NewContract(American, kind, s, k, tau, sigma, r, q)
}

func (c Contract) Style() OptionStyle { return c.style }
func (c Contract) Type() OptionType { return c.kind }
func (c Contract) SpotPrice() float64 { return c.terms.S }
func (c Contract) StrikePrice() float64 { return c.terms.K }
func (c Contract) TimeToMaturity() float64 { return c.terms.Tau }
func (c Contract) Volatility() float64 { return c.terms.Sigma }
func (c Contract) RiskFreeRate() float64 { return c.terms.R }
func (c Contract) DividendYield() float64 { return c.terms.Q }
