package go_bsexplain

import (
	"fmt"
	"strings"
)

// Quantity names one of the values an analytical option can explain.
type Quantity int

const (
	QuantityPrice Quantity = iota
	QuantityDelta
	QuantityGamma
	QuantityVega
	QuantityTheta
	QuantityRho
)

// Quantities lists every quantity in display order.
var Quantities = []Quantity{QuantityPrice, QuantityDelta, QuantityGamma, QuantityVega, QuantityTheta, QuantityRho}

func (q Quantity) String() string {
	switch q {
	case QuantityPrice:
		return "price"
	case QuantityDelta:
		return "delta"
	case QuantityGamma:
		return "gamma"
	case QuantityVega:
		return "vega"
	case QuantityTheta:
		return "theta"
	case QuantityRho:
		return "rho"
	}
	return fmt.Sprintf("Quantity(%d)", int(q))
}

// ParseQuantity accepts the names produced by String.
func ParseQuantity(s string) (Quantity, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, q := range Quantities {
		if q.String() == name {
			return q, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownQuantity, s)
}

// Calculation is the worked derivation of one quantity: the ordered steps and
// the unrounded answer. The last step ends with the answer rounded for display.
type Calculation struct {
	steps  [][]string
	answer float64
}

func newCalculation(answer float64, steps ...[]string) Calculation {
	return Calculation{steps: steps, answer: answer}
}

// Steps returns a copy of the derivation steps.
func (c Calculation) Steps() [][]string {
	out := make([][]string, len(c.steps))
	for i, s := range c.steps {
		out[i] = append([]string(nil), s...)
	}
	return out
}

func (c Calculation) Answer() float64 { return c.answer }

func (c Calculation) Len() int { return len(c.steps) }

// DisplayAnswer is the rounded answer closing the last step.
func (c Calculation) DisplayAnswer() string {
	if len(c.steps) == 0 {
		return ""
	}
	last := c.steps[len(c.steps)-1]
	return last[len(last)-1]
}

// Lines renders each step as a chain of equalities,
// e.g. "d_1 = \frac{...}{...} = \frac{...}{...} = 0.5365".
func (c Calculation) Lines() []string {
	lines := make([]string, len(c.steps))
	for i, s := range c.steps {
		lines[i] = strings.Join(s, " = ")
	}
	return lines
}
