// Package config loads and validates the simulator run configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mr-tron/base58"
	"gopkg.in/yaml.v3"

	"live-strategy-lab/internal/domain"
	"live-strategy-lab/internal/feed"
)

// Defaults applied by Load and Default.
const (
	DefaultRuntimeMinutes     = 10
	DefaultInitialCash        = 100.0
	DefaultHeartbeatSeconds   = 15
	DefaultReadTimeoutSeconds = 15
	DefaultMetricsAddr        = ":9090"
	DefaultLogLevel           = "info"
	DefaultStubSymbol         = "SIMUSDT"
)

// Configuration errors
var (
	ErrMissingSymbol   = errors.New("config: feed symbol is required")
	ErrMissingContract = errors.New("config: feed contract is required")
	ErrUnknownProvider = errors.New("config: unknown feed provider")
	ErrUnknownPlatform = errors.New("config: unknown platform id")
	ErrInvalidContract = errors.New("config: contract is not a 32-byte base58 address")
	ErrInvalidRuntime  = errors.New("config: runtime must be a positive number of minutes")
	ErrInvalidCash     = errors.New("config: initial cash must be positive")
	ErrInvalidInterval = errors.New("config: heartbeat and read timeout must be positive")
)

// Config is the full configuration record for one simulator run.
type Config struct {
	App        AppConfig        `yaml:"app"`
	Feed       FeedConfig       `yaml:"feed"`
	Run        RunConfig        `yaml:"run"`
	Strategies []StrategyConfig `yaml:"strategies"`
}

// AppConfig holds process-level settings.
type AppConfig struct {
	LogLevel    string `yaml:"log_level"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// FeedConfig selects and parameterizes the price stream.
type FeedConfig struct {
	Provider string `yaml:"provider"`
	// Symbol is the trading pair for the binance and stub providers.
	Symbol string `yaml:"symbol"`
	// Contract and PlatformID address an instrument on the coinmarketcap
	// provider.
	Contract   string `yaml:"contract"`
	PlatformID int    `yaml:"platform_id"`
	// URL overrides the provider's default endpoint. Mostly for tests.
	URL                string `yaml:"url"`
	HeartbeatSeconds   int    `yaml:"heartbeat_interval_seconds"`
	ReadTimeoutSeconds int    `yaml:"read_timeout_seconds"`
}

// RunConfig bounds the simulation.
type RunConfig struct {
	RuntimeMinutes int     `yaml:"runtime_minutes"`
	InitialCash    float64 `yaml:"initial_cash"`
}

// StrategyConfig declares one strategy instance in the YAML roster.
type StrategyConfig struct {
	Name            string   `yaml:"name"`
	Type            string   `yaml:"type"`
	StopLossPct     *float64 `yaml:"stop_loss_pct,omitempty"`
	TakeProfitPct   *float64 `yaml:"take_profit_pct,omitempty"`
	ReinvestDropPct *float64 `yaml:"reinvest_drop_pct,omitempty"`
	RecoveryRisePct *float64 `yaml:"recovery_rise_pct,omitempty"`
	ThresholdPct    *float64 `yaml:"threshold_pct,omitempty"`
}

// Domain converts the YAML record to the domain strategy config.
func (s StrategyConfig) Domain() domain.StrategyConfig {
	return domain.StrategyConfig{
		Name:            s.Name,
		Type:            s.Type,
		StopLossPct:     s.StopLossPct,
		TakeProfitPct:   s.TakeProfitPct,
		ReinvestDropPct: s.ReinvestDropPct,
		RecoveryRisePct: s.RecoveryRisePct,
		ThresholdPct:    s.ThresholdPct,
	}
}

// Default returns the configuration used when no file is given: the stub
// provider with the stock runtime bounds.
func Default() *Config {
	cfg := &Config{}
	cfg.Feed.Provider = feed.ProviderStub
	cfg.Feed.Symbol = DefaultStubSymbol
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML config file and applies defaults. Validation is a
// separate step so flag overrides can land in between.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = DefaultLogLevel
	}
	if c.App.MetricsAddr == "" {
		c.App.MetricsAddr = DefaultMetricsAddr
	}
	if c.Run.RuntimeMinutes == 0 {
		c.Run.RuntimeMinutes = DefaultRuntimeMinutes
	}
	if c.Run.InitialCash == 0 {
		c.Run.InitialCash = DefaultInitialCash
	}
	if c.Feed.HeartbeatSeconds == 0 {
		c.Feed.HeartbeatSeconds = DefaultHeartbeatSeconds
	}
	if c.Feed.ReadTimeoutSeconds == 0 {
		c.Feed.ReadTimeoutSeconds = DefaultReadTimeoutSeconds
	}
}

// Validate checks the configuration for a runnable combination.
func (c *Config) Validate() error {
	switch c.Feed.Provider {
	case feed.ProviderBinance, feed.ProviderStub:
		if c.Feed.Symbol == "" {
			return ErrMissingSymbol
		}
	case feed.ProviderCoinMarketCap:
		if c.Feed.Contract == "" {
			return ErrMissingContract
		}
		switch c.Feed.PlatformID {
		case feed.PlatformEthereum:
		case feed.PlatformSolana:
			if err := validateSolanaAddress(c.Feed.Contract); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %d", ErrUnknownPlatform, c.Feed.PlatformID)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Feed.Provider)
	}

	if c.Run.RuntimeMinutes <= 0 {
		return ErrInvalidRuntime
	}
	if c.Run.InitialCash <= 0 {
		return ErrInvalidCash
	}
	if c.Feed.HeartbeatSeconds <= 0 || c.Feed.ReadTimeoutSeconds <= 0 {
		return ErrInvalidInterval
	}
	return nil
}

// validateSolanaAddress checks that the contract decodes to a 32-byte key.
func validateSolanaAddress(contract string) error {
	raw, err := base58.Decode(contract)
	if err != nil || len(raw) != 32 {
		return fmt.Errorf("%w: %q", ErrInvalidContract, contract)
	}
	return nil
}

// Runtime returns the configured run duration.
func (c *Config) Runtime() time.Duration {
	return time.Duration(c.Run.RuntimeMinutes) * time.Minute
}

// HeartbeatInterval returns the configured heartbeat interval.
func (c *Config) HeartbeatInterval() time.Duration {
	return time.Duration(c.Feed.HeartbeatSeconds) * time.Second
}

// ReadTimeout returns the configured per-read window.
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Feed.ReadTimeoutSeconds) * time.Second
}

// Instrument returns the tick symbol for the configured provider: the
// contract address on coinmarketcap, the trading symbol elsewhere.
func (c *Config) Instrument() string {
	if c.Feed.Provider == feed.ProviderCoinMarketCap {
		return c.Feed.Contract
	}
	return c.Feed.Symbol
}

// StrategyConfigs returns the configured roster as domain configs. An
// empty roster returns nil; callers fall back to the stock set.
func (c *Config) StrategyConfigs() []domain.StrategyConfig {
	if len(c.Strategies) == 0 {
		return nil
	}
	out := make([]domain.StrategyConfig, 0, len(c.Strategies))
	for _, s := range c.Strategies {
		out = append(out, s.Domain())
	}
	return out
}
