// Package config loads application configuration from a YAML file with
// environment variable overrides for connection strings and endpoints.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration for YAML parsing ("5m", "1h30m").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// ValidatorConfig configures the token validator and its list registry.
type ValidatorConfig struct {
	EnforceWhitelist bool     `yaml:"enforceWhitelist"`
	EnforceBlacklist bool     `yaml:"enforceBlacklist"`
	RequireMetadata  bool     `yaml:"requireMetadata"`
	RequireDecimals  bool     `yaml:"requireDecimals"`
	MinLiquidityUsd  float64  `yaml:"minLiquidityUsd"`
	WhitelistPath    string   `yaml:"whitelistPath"`
	BlacklistPath    string   `yaml:"blacklistPath"`
	CombinedListPath string   `yaml:"combinedListPath"` // takes precedence when set
	ReloadInterval   Duration `yaml:"reloadInterval"`
}

// ScorerConfig configures opportunity detection thresholds.
type ScorerConfig struct {
	MaxInitialPriceUsd float64 `yaml:"maxInitialPriceUsd"`
	MinLiquidityUsd    float64 `yaml:"minLiquidityUsd"`
	TradeSizeUsd       float64 `yaml:"tradeSizeUsd"`
	TargetProfitPct    float64 `yaml:"targetProfitPct"`
}

// LedgerConfig configures the performance ledger and its stores.
type LedgerConfig struct {
	TradeRecordsPath string `yaml:"tradeRecordsPath"`
	RetentionDays    int    `yaml:"retentionDays"`
	PostgresDSN      string `yaml:"postgresDSN"`   // replaces the JSON file store when set
	ClickhouseDSN    string `yaml:"clickhouseDSN"` // enables the analytics archive when set
}

// AnalyzerConfig configures the periodic trend analysis.
type AnalyzerConfig struct {
	Interval             Duration `yaml:"interval"`
	MinTradesForAnalysis int      `yaml:"minTradesForAnalysis"`
	ReportsDir           string   `yaml:"reportsDir"`
}

// SolanaConfig configures RPC/WS endpoints and pricing inputs.
type SolanaConfig struct {
	RPCEndpoint string  `yaml:"rpcEndpoint"`
	WSEndpoint  string  `yaml:"wsEndpoint"`
	SolPriceUsd float64 `yaml:"solPriceUsd"` // static quote price, no oracle
}

// CacheConfig configures the token metadata cache.
type CacheConfig struct {
	RedisAddr string   `yaml:"redisAddr"` // in-process cache when empty
	TTL       Duration `yaml:"ttl"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	ListenAddr string `yaml:"listenAddr"`
}

// Config is the root application configuration.
type Config struct {
	Validator ValidatorConfig `yaml:"validator"`
	Scorer    ScorerConfig    `yaml:"scorer"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	Analyzer  AnalyzerConfig  `yaml:"analyzer"`
	Solana    SolanaConfig    `yaml:"solana"`
	Cache     CacheConfig     `yaml:"cache"`
	Server    ServerConfig    `yaml:"server"`
}

// Default returns the configuration used when no file is provided.
func Default() *Config {
	return &Config{
		Validator: ValidatorConfig{
			EnforceBlacklist: true,
			MinLiquidityUsd:  1000,
			WhitelistPath:    "data/whitelist.json",
			BlacklistPath:    "data/blacklist.json",
			ReloadInterval:   Duration(5 * time.Minute),
		},
		Scorer: ScorerConfig{
			MaxInitialPriceUsd: 0.01,
			MinLiquidityUsd:    1000,
			TradeSizeUsd:       50,
			TargetProfitPct:    25,
		},
		Ledger: LedgerConfig{
			TradeRecordsPath: "data/trade_records.json",
			RetentionDays:    90,
		},
		Analyzer: AnalyzerConfig{
			Interval:             Duration(15 * time.Minute),
			MinTradesForAnalysis: 10,
			ReportsDir:           "data/reports",
		},
		Solana: SolanaConfig{
			RPCEndpoint: "https://api.mainnet-beta.solana.com",
			WSEndpoint:  "wss://api.mainnet-beta.solana.com",
			SolPriceUsd: 150,
		},
		Cache: CacheConfig{
			TTL: Duration(time.Hour),
		},
		Server: ServerConfig{
			ListenAddr: ":8080",
		},
	}
}

// Load reads configuration from path, applying defaults for missing
// fields and environment overrides on top. An empty path returns the
// defaults plus environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides maps SCOUT_* environment variables onto the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SCOUT_RPC_ENDPOINT"); v != "" {
		cfg.Solana.RPCEndpoint = v
	}
	if v := os.Getenv("SCOUT_WS_ENDPOINT"); v != "" {
		cfg.Solana.WSEndpoint = v
	}
	if v := os.Getenv("SCOUT_POSTGRES_DSN"); v != "" {
		cfg.Ledger.PostgresDSN = v
	}
	if v := os.Getenv("SCOUT_CLICKHOUSE_DSN"); v != "" {
		cfg.Ledger.ClickhouseDSN = v
	}
	if v := os.Getenv("SCOUT_REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("SCOUT_LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
}
