package go_bsexplain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Delimiter controls how a substituted value is bracketed.
type Delimiter int

const (
	// DelimiterAuto brackets negative values only, so that -d_1 renders as
	// -\left( -0.45 \right) rather than --0.45.
	DelimiterAuto Delimiter = iota
	// DelimiterParentheses always brackets, for juxtaposed products like r \tau.
	DelimiterParentheses
	// DelimiterNone never brackets.
	DelimiterNone
)

// EquationInput binds a symbolic name to the value substituted for it.
type EquationInput struct {
	name      string
	value     float64
	precision Precision
	delimiter Delimiter
}

// InputOption configures an EquationInput.
type InputOption func(*EquationInput)

// WithPrecision overrides the display precision (default 3 significant figures).
func WithPrecision(p Precision) InputOption {
	return func(in *EquationInput) {
		in.precision = p
	}
}

// WithDelimiter overrides how the displayed value is bracketed.
func WithDelimiter(d Delimiter) InputOption {
	return func(in *EquationInput) {
		in.delimiter = d
	}
}

// NewEquationInput validates and builds an input. The value must be finite.
func NewEquationInput(name string, value float64, opts ...InputOption) (EquationInput, error) {
	in := EquationInput{
		name:      strings.TrimSpace(name),
		value:     value,
		precision: defaultPrecision,
		delimiter: DelimiterAuto,
	}
	for _, opt := range opts {
		opt(&in)
	}
	if in.name == "" {
		return EquationInput{}, fmt.Errorf("%w: equation input needs a symbolic name", ErrUnresolvedVariable)
	}
	if err := in.precision.validate(); err != nil {
		return EquationInput{}, fmt.Errorf("input %s: %w", in.name, err)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return EquationInput{}, fmt.Errorf("%w: input %s is %v", ErrInvalidParameter, in.name, value)
	}
	return in, nil
}

func (in EquationInput) SymbolicName() string { return in.name }

func (in EquationInput) RawValue() float64 { return in.value }

func (in EquationInput) Precision() Precision { return in.precision }

// DisplayValue is the rounded value as it appears in a substituted formula.
// An input not built by NewEquationInput that cannot be rounded shows its
// shortest float form instead.
func (in EquationInput) DisplayValue() string {
	s, err := in.display()
	if err != nil {
		return strconv.FormatFloat(in.value, 'g', -1, 64)
	}
	return s
}

func (in EquationInput) display() (string, error) {
	s, err := Round(in.value, in.precision.Digits, in.precision.Method)
	if err != nil {
		return "", fmt.Errorf("input %s: %w", in.name, err)
	}
	switch in.delimiter {
	case DelimiterParentheses:
		return Parentheses(s), nil
	case DelimiterAuto:
		if strings.HasPrefix(s, "-") {
			return Parentheses(s), nil
		}
	}
	return s, nil
}
