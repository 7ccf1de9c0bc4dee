package go_bsexplain

import "github.com/wyfcoding/pkg/xerrors"

var (
	// ErrInvalidParameter a contract input violates its positivity precondition.
	ErrInvalidParameter = xerrors.New(xerrors.ErrInvalidArg, 400101, "invalid parameter", "S, K, tau and sigma must be greater than zero", nil)
	// ErrInvalidPrecision a rounding precision that is not positive.
	ErrInvalidPrecision = xerrors.New(xerrors.ErrInvalidArg, 400102, "invalid precision", "precision must be greater than zero", nil)
	// ErrInvalidOptionType the option type is neither call nor put.
	ErrInvalidOptionType = xerrors.New(xerrors.ErrInvalidArg, 400103, "invalid option type", "supported types: call, put", nil)
	// ErrInvalidRoundingMethod unknown rounding method.
	ErrInvalidRoundingMethod = xerrors.New(xerrors.ErrInvalidArg, 400104, "invalid rounding method", "supported methods: decimal_places, significant_figures", nil)
	// ErrUnsupportedStyle no closed-form solution exists for the contract style.
	ErrUnsupportedStyle = xerrors.New(xerrors.ErrInvalidArg, 400105, "unsupported option style", "analytical calculations require a european contract", nil)
	// ErrUnknownQuantity the requested quantity is not price or one of the five greeks.
	ErrUnknownQuantity = xerrors.New(xerrors.ErrInvalidArg, 400106, "unknown quantity", "supported quantities: price, delta, gamma, vega, theta, rho", nil)
	// ErrUnresolvedVariable a formula template references a symbol with no
	// equation input. It is a wiring defect, not a data problem.
	ErrUnresolvedVariable = xerrors.New(xerrors.ErrInternal, 500101, "unresolved variable", "formula template references a symbol that was not supplied", nil)
)
