package go_bsexplain

import "strings"

// Symbols used in the formula templates. Each is also a placeholder name
// that an EquationInput can bind.
const (
	SymbolS     = "S"
	SymbolK     = "K"
	SymbolTau   = `\tau`
	SymbolSigma = `\sigma`
	SymbolR     = "r"
	SymbolQ     = "q"

	SymbolD1 = "d_1"
	SymbolD2 = "d_2"

	SymbolCall  = "c"
	SymbolPut   = "p"
	SymbolDelta = `\Delta`
	SymbolGamma = `\Gamma`
	SymbolVega  = `\mathcal{V}`
	SymbolTheta = `\Theta`
	SymbolRho   = `\rho`
)

var (
	SymbolNd1      = CDF(SymbolD1)
	SymbolNMinusD1 = CDF("-" + SymbolD1)
	SymbolNd2      = CDF(SymbolD2)
	SymbolNMinusD2 = CDF("-" + SymbolD2)
	SymbolNPrimeD1 = PDF(SymbolD1)
)

// knownSymbols is every placeholder the engine's templates may contain.
// A substituted formula must not contain any of them.
var knownSymbols = []string{
	SymbolS, SymbolK, SymbolTau, SymbolSigma, SymbolR, SymbolQ,
	SymbolD1, SymbolD2,
	SymbolNd1, SymbolNMinusD1, SymbolNd2, SymbolNMinusD2, SymbolNPrimeD1,
}

// Fraction renders \frac{num}{den}.
func Fraction(num, den string) string {
	return `\frac{` + strings.TrimSpace(num) + `}{` + strings.TrimSpace(den) + `}`
}

// Exponential renders e^{x}.
func Exponential(x string) string {
	return `e^{` + strings.TrimSpace(x) + `}`
}

// Parentheses renders x between auto-sized parentheses.
func Parentheses(x string) string {
	return `\left( ` + strings.TrimSpace(x) + ` \right)`
}

// SquareRoot renders \sqrt{x}.
func SquareRoot(x string) string {
	return `\sqrt{` + strings.TrimSpace(x) + `}`
}

// NaturalLog renders \ln x, bracketing x.
func NaturalLog(x string) string {
	return `\ln ` + Parentheses(x)
}

// Squared renders x^{2}.
func Squared(x string) string {
	return strings.TrimSpace(x) + `^{2}`
}

// CDF renders the standard normal cumulative distribution N(x).
func CDF(x string) string {
	return `\mathrm{N}(` + strings.TrimSpace(x) + `)`
}

// PDF renders the standard normal density N'(x).
func PDF(x string) string {
	return `\mathrm{N'}(` + strings.TrimSpace(x) + `)`
}
