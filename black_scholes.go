package go_bsexplain

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Distribution is the standard normal primitive the kernel consumes.
// distuv.Normal satisfies it.
type Distribution interface {
	CDF(x float64) float64
	Prob(x float64) float64
}

var unitNormal Distribution = distuv.UnitNormal

// StandardNormal returns the default distribution, N(0, 1).
func StandardNormal() Distribution { return unitNormal }

// Greeks holds the price and the five sensitivities of one contract.
type Greeks struct {
	Price float64
	Delta float64
	Gamma float64
	Vega  float64
	Theta float64
	Rho   float64
}

// BlackScholes evaluates the closed-form Black-Scholes-Merton formulas for a
// European contract with a continuous dividend yield.
type BlackScholes struct {
	IsCallOption         bool
	UnderlyingAssetPrice float64 /* S */
	StrikePrice          float64 /* K */
	AnnualizedVolatility float64 /* Sigma */
	TimeToExpiryInYear   float64 /* T */
	InterestRate         float64 /* r */
	DividendYield        float64 /* q */

	dist              Distribution
	_d1               float64
	_d2               float64
	_a                float64
	_sqrt_t           float64
	_deflater         float64
	_dividendDeflater float64
}

// NewBlackScholes precomputes the intermediate terms shared by every formula.
// The contract is assumed valid; dist may be nil for the standard normal.
func NewBlackScholes(c Contract, dist Distribution) *BlackScholes {
	if dist == nil {
		dist = unitNormal
	}
	bs := &BlackScholes{
		IsCallOption:         c.Type() == Call,
		UnderlyingAssetPrice: c.SpotPrice(),
		StrikePrice:          c.StrikePrice(),
		AnnualizedVolatility: c.Volatility(),
		TimeToExpiryInYear:   c.TimeToMaturity(),
		InterestRate:         c.RiskFreeRate(),
		DividendYield:        c.DividendYield(),
		dist:                 dist,
		_sqrt_t:              math.Sqrt(c.TimeToMaturity()),
	}
	bs._deflater = bs.deflater()
	bs._dividendDeflater = bs.dividendDeflater()
	bs._a = bs.a(bs.AnnualizedVolatility)
	bs._d1 = bs.d1(bs.AnnualizedVolatility)
	bs._d2 = bs.d2(bs._d1)
	return bs
}

// Greeks computes the price and all five sensitivities.
func (bs *BlackScholes) Greeks() Greeks {
	return Greeks{
		Price: bs.Price(),
		Delta: bs.Delta(),
		Gamma: bs.Gamma(),
		Vega:  bs.Vega(),
		Theta: bs.Theta(),
		Rho:   bs.Rho(),
	}
}

func (bs *BlackScholes) D1() float64 { return bs._d1 }

func (bs *BlackScholes) D2() float64 { return bs._d2 }

func (bs *BlackScholes) Price() float64 {
	if bs.IsCallOption {
		return bs.callPrice()
	}
	return bs.putPrice()
}

func (bs *BlackScholes) callPrice() float64 {
	// c = S e^(-qT) N(d1) - K e^(-rT) N(d2)
	return bs.UnderlyingAssetPrice*bs._dividendDeflater*bs.normCdf(bs._d1) -
		bs.StrikePrice*bs._deflater*bs.normCdf(bs._d2)
}

func (bs *BlackScholes) putPrice() float64 {
	// p = K e^(-rT) N(-d2) - S e^(-qT) N(-d1)
	return bs.StrikePrice*bs._deflater*bs.normCdf(-bs._d2) -
		bs.UnderlyingAssetPrice*bs._dividendDeflater*bs.normCdf(-bs._d1)
}

func (bs *BlackScholes) Delta() float64 {
	if bs.IsCallOption {
		return bs._dividendDeflater * bs.normCdf(bs._d1)
	}
	return -bs._dividendDeflater * bs.normCdf(-bs._d1)
}

func (bs *BlackScholes) Gamma() float64 {
	return bs._dividendDeflater * bs.normPdf(bs._d1) / (bs.UnderlyingAssetPrice * bs._a)
}

// Vega is per unit of volatility, not per percentage point.
func (bs *BlackScholes) Vega() float64 {
	return bs.UnderlyingAssetPrice * bs._dividendDeflater * bs.normPdf(bs._d1) * bs._sqrt_t
}

// Theta is per year.
func (bs *BlackScholes) Theta() float64 {
	if bs.IsCallOption {
		return bs.callTheta()
	}
	return bs.putTheta()
}

func (bs *BlackScholes) thetaDecay() float64 {
	// -e^(-qT) S N'(d1) sigma / (2 sqrt(T))
	return -bs._dividendDeflater * bs.UnderlyingAssetPrice * bs.normPdf(bs._d1) *
		bs.AnnualizedVolatility / (2 * bs._sqrt_t)
}

func (bs *BlackScholes) callTheta() float64 {
	return bs.thetaDecay() -
		bs.InterestRate*bs.StrikePrice*bs._deflater*bs.normCdf(bs._d2) +
		bs.DividendYield*bs.UnderlyingAssetPrice*bs._dividendDeflater*bs.normCdf(bs._d1)
}

func (bs *BlackScholes) putTheta() float64 {
	return bs.thetaDecay() +
		bs.InterestRate*bs.StrikePrice*bs._deflater*bs.normCdf(-bs._d2) -
		bs.DividendYield*bs.UnderlyingAssetPrice*bs._dividendDeflater*bs.normCdf(-bs._d1)
}

// Rho is per unit of rate.
func (bs *BlackScholes) Rho() float64 {
	if bs.IsCallOption {
		return bs.StrikePrice * bs.TimeToExpiryInYear * bs._deflater * bs.normCdf(bs._d2)
	}
	return -bs.StrikePrice * bs.TimeToExpiryInYear * bs._deflater * bs.normCdf(-bs._d2)
}

// a is sigma sqrt(T), the standard deviation of log returns to expiry.
func (bs *BlackScholes) a(volatility float64) float64 {
	return volatility * bs._sqrt_t
}

// d1 = (ln(S/K) + (r - q + sigma^2/2) T) / (sigma sqrt(T))
func (bs *BlackScholes) d1(volatility float64) float64 {
	return (math.Log(bs.UnderlyingAssetPrice/bs.StrikePrice) +
		(bs.InterestRate-bs.DividendYield+volatility*volatility/2)*bs.TimeToExpiryInYear) /
		bs.a(volatility)
}

// d2 = d1 - sigma sqrt(T)
func (bs *BlackScholes) d2(d1 float64) float64 {
	return d1 - bs._a
}

func (bs *BlackScholes) normCdf(x float64) float64 {
	return bs.dist.CDF(x)
}

func (bs *BlackScholes) normPdf(x float64) float64 {
	return bs.dist.Prob(x)
}

// deflater discounts a payoff at the risk-free rate, e^(-rT).
func (bs *BlackScholes) deflater() float64 {
	return math.Exp(-bs.InterestRate * bs.TimeToExpiryInYear)
}

// dividendDeflater removes the dividends paid before expiry, e^(-qT).
func (bs *BlackScholes) dividendDeflater() float64 {
	return math.Exp(-bs.DividendYield * bs.TimeToExpiryInYear)
}
