package go_bsexplain

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// RoundingMethod selects how a value is cut down for display.
type RoundingMethod int

const (
	// SignificantFigures keeps the first n meaningful digits regardless of
	// magnitude: 12.134 -> "12.1", 0.066012 -> "0.0660".
	SignificantFigures RoundingMethod = iota
	// DecimalPlaces keeps n digits after the decimal point: 0.522 -> "0.52200".
	DecimalPlaces
)

func (m RoundingMethod) String() string {
	switch m {
	case SignificantFigures:
		return "significant_figures"
	case DecimalPlaces:
		return "decimal_places"
	}
	return fmt.Sprintf("RoundingMethod(%d)", int(m))
}

// ParseRoundingMethod accepts the names produced by String.
func ParseRoundingMethod(s string) (RoundingMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "significant_figures", "sf", "sig":
		return SignificantFigures, nil
	case "decimal_places", "dp":
		return DecimalPlaces, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidRoundingMethod, s)
}

// Precision pairs a digit count with the method that interprets it.
type Precision struct {
	Digits int
	Method RoundingMethod
}

// MaxDigits bounds Precision.Digits. A float64 carries at most 17 significant
// decimal digits, anything past that is padding.
const MaxDigits = 100

var defaultPrecision = Precision{Digits: 3, Method: SignificantFigures}

// DefaultPrecision is three significant figures.
func DefaultPrecision() Precision { return defaultPrecision }

func (p Precision) validate() error {
	if p.Digits <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidPrecision, p.Digits)
	}
	if p.Digits > MaxDigits {
		return fmt.Errorf("%w: %d exceeds %d", ErrInvalidPrecision, p.Digits, MaxDigits)
	}
	if p.Method != SignificantFigures && p.Method != DecimalPlaces {
		return fmt.Errorf("%w: %d", ErrInvalidRoundingMethod, int(p.Method))
	}
	return nil
}

// Round returns the canonical display string for value. Halves are rounded
// away from zero and trailing zeros are kept, so the string always carries
// exactly the requested number of digits. NaN and infinities fail with
// ErrInvalidParameter.
func Round(value float64, precision int, method RoundingMethod) (string, error) {
	if err := (Precision{Digits: precision, Method: method}).validate(); err != nil {
		return "", err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "", fmt.Errorf("%w: cannot round %v", ErrInvalidParameter, value)
	}
	d := decimal.NewFromFloat(value)
	if method == DecimalPlaces {
		return d.StringFixed(int32(precision)), nil
	}
	return significantFigures(d, precision), nil
}

// MustRound is Round for a validated precision and a finite value. It panics
// otherwise.
func MustRound(value float64, p Precision) string {
	s, err := Round(value, p.Digits, p.Method)
	if err != nil {
		panic(err)
	}
	return s
}

func significantFigures(d decimal.Decimal, n int) string {
	if d.IsZero() {
		return decimal.Zero.StringFixed(int32(n - 1))
	}
	places := int32(n) - 1 - magnitude(d)
	rounded := d.Round(places)
	// 9.996 -> 10.00 carries into a new leading digit.
	if magnitude(rounded) > magnitude(d) {
		places--
		rounded = d.Round(places)
	}
	if places < 0 {
		return rounded.StringFixed(0)
	}
	return rounded.StringFixed(places)
}

// magnitude is the base-10 exponent of the leading digit of a non-zero d.
func magnitude(d decimal.Decimal) int32 {
	digits := int32(len(new(big.Int).Abs(d.Coefficient()).String()))
	return digits - 1 + d.Exponent()
}
