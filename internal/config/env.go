package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config contains all configuration parameters for the application.
type Config struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	DataDir         string        `envconfig:"PRISM_DATA_DIR" default:"prism-data"`
	MainnetRPCURL   string        `envconfig:"SOLANA_MAINNET_RPC_URL" default:"https://rpc.ankr.com/solana"`
	DevnetRPCURL    string        `envconfig:"SOLANA_DEVNET_RPC_URL" default:"https://api.devnet.solana.com"`
	JupiterBaseURL  string        `envconfig:"JUPITER_BASE_URL" default:"https://quote-api.jup.ag/v6"`
	RefreshInterval time.Duration `envconfig:"REFRESH_INTERVAL" default:"20s"`
	ConfirmTimeout  time.Duration `envconfig:"CONFIRM_TIMEOUT" default:"90s"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	cfg = &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}
