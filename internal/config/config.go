// Package config loads the contract and display settings of the bsexplain
// command from a file and BSEXPLAIN_* environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the top-level command configuration.
type Config struct {
	Contract ContractConfig `mapstructure:"contract"`
	Display  DisplayConfig  `mapstructure:"display"`
}

// ContractConfig holds the option parameters.
type ContractConfig struct {
	Style          string  `mapstructure:"style"            validate:"oneof=european american"`
	Type           string  `mapstructure:"type"             validate:"oneof=call put"`
	SpotPrice      float64 `mapstructure:"spot_price"       validate:"gt=0"`
	StrikePrice    float64 `mapstructure:"strike_price"     validate:"gt=0"`
	TimeToMaturity float64 `mapstructure:"time_to_maturity" validate:"gt=0"`
	Volatility     float64 `mapstructure:"volatility"       validate:"gt=0"`
	RiskFreeRate   float64 `mapstructure:"risk_free_rate"`
	DividendYield  float64 `mapstructure:"dividend_yield"`
}

// DisplayConfig controls rounding and which quantities are printed.
type DisplayConfig struct {
	Precision      int      `mapstructure:"precision"        validate:"gt=0,lte=100"`
	Rounding       string   `mapstructure:"rounding"         validate:"oneof=significant_figures decimal_places"`
	DTermPrecision int      `mapstructure:"d_term_precision" validate:"gt=0,lte=100"`
	DTermRounding  string   `mapstructure:"d_term_rounding"  validate:"oneof=significant_figures decimal_places"`
	Quantities     []string `mapstructure:"quantities"       validate:"min=1,dive,oneof=price delta gamma vega theta rho"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("contract.style", "european")
	v.SetDefault("contract.type", "call")
	v.SetDefault("contract.spot_price", 0.0)
	v.SetDefault("contract.strike_price", 0.0)
	v.SetDefault("contract.time_to_maturity", 0.0)
	v.SetDefault("contract.volatility", 0.0)
	v.SetDefault("contract.risk_free_rate", 0.0)
	v.SetDefault("contract.dividend_yield", 0.0)

	v.SetDefault("display.precision", 3)
	v.SetDefault("display.rounding", "significant_figures")
	v.SetDefault("display.d_term_precision", 4)
	v.SetDefault("display.d_term_rounding", "decimal_places")
	v.SetDefault("display.quantities", []string{"price", "delta", "gamma", "vega", "theta", "rho"})
}

// Load reads path (any format viper understands; empty means environment and
// defaults only), applies BSEXPLAIN_* overrides and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BSEXPLAIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config error: %w", err)
		}
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("unmarshal config error: %w", err)
	}

	if err := validator.New().Struct(&conf); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &conf, nil
}
