package config

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the overall configuration for the application.
type Config struct {
	Server        ServerConfig     `yaml:"server"`
	Alchemy       AlchemyConfig    `yaml:"alchemy"`
	Cache         CacheConfig      `yaml:"cache"`
	Enrichment    EnrichmentConfig `yaml:"enrichment"`
	Logging       LoggingConfig    `yaml:"logging"`
	SwapContracts []string         `yaml:"swapContracts"`
}

// ServerConfig holds the HTTP server configuration for serve mode.
type ServerConfig struct {
	Port                    string `yaml:"port"`
	ReadTimeout             int    `yaml:"readTimeout"`
	WriteTimeout            int    `yaml:"writeTimeout"`
	IdleTimeout             int    `yaml:"idleTimeout"`
	ResponseCacheTTLSeconds int    `yaml:"responseCacheTTLSeconds"`
}

// AlchemyConfig holds the upstream endpoints and transport limits.
type AlchemyConfig struct {
	RPCBaseURL           string `yaml:"rpcBaseURL"`
	PricesBaseURL        string `yaml:"pricesBaseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	RateLimit            int    `yaml:"rateLimit"`
	BurstLimit           int    `yaml:"burstLimit"`
}

// RequestTimeout returns the per-request transport timeout.
func (c AlchemyConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMillis) * time.Millisecond
}

// CacheProfile sizes one cache: maximum resident entries and time-to-live.
type CacheProfile struct {
	MaxSize    int `yaml:"maxSize"`
	TTLSeconds int `yaml:"ttlSeconds"`
}

// TTL returns the profile's time-to-live as a duration.
func (p CacheProfile) TTL() time.Duration {
	return time.Duration(p.TTLSeconds) * time.Second
}

// CacheConfig holds one profile per cached data kind.
type CacheConfig struct {
	Balances       CacheProfile `yaml:"balances"`
	EthBalance     CacheProfile `yaml:"ethBalance"`
	Prices         CacheProfile `yaml:"prices"`
	Metadata       CacheProfile `yaml:"metadata"`
	Transfers      CacheProfile `yaml:"transfers"`
	ValuedBalances CacheProfile `yaml:"valuedBalances"`
}

// EnrichmentConfig bounds the concurrent valuation and historization work.
type EnrichmentConfig struct {
	MaxConcurrentTasks int `yaml:"maxConcurrentTasks"`
	TaskTimeoutSeconds int `yaml:"taskTimeoutSeconds"`
}

// TaskTimeout returns the per-token enrichment timeout.
func (c EnrichmentConfig) TaskTimeout() time.Duration {
	return time.Duration(c.TaskTimeoutSeconds) * time.Second
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
	File  string `yaml:"file"`
}

// Default returns the built-in configuration: mainnet endpoints, the cache
// profiles tuned for typical wallet sizes, and a 15-second enrichment timeout.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                    "8080",
			ReadTimeout:             15,
			WriteTimeout:            30,
			IdleTimeout:             60,
			ResponseCacheTTLSeconds: 60,
		},
		Alchemy: AlchemyConfig{
			RPCBaseURL:           "https://eth-mainnet.g.alchemy.com/v2",
			PricesBaseURL:        "https://api.g.alchemy.com/prices/v1",
			RequestTimeoutMillis: 10000,
		},
		Cache: CacheConfig{
			Balances:       CacheProfile{MaxSize: 10000, TTLSeconds: 300},
			EthBalance:     CacheProfile{MaxSize: 2000, TTLSeconds: 120},
			Prices:         CacheProfile{MaxSize: 1000, TTLSeconds: 30},
			Metadata:       CacheProfile{MaxSize: 5000, TTLSeconds: 3600},
			Transfers:      CacheProfile{MaxSize: 1000, TTLSeconds: 600},
			ValuedBalances: CacheProfile{MaxSize: 1000, TTLSeconds: 120},
		},
		Enrichment: EnrichmentConfig{
			MaxConcurrentTasks: 32,
			TaskTimeoutSeconds: 15,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// LoadConfig loads configuration from a YAML file on top of the built-in
// defaults; an empty path returns the defaults unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		logrus.Info("No config file given, using built-in defaults")
		return cfg, nil
	}

	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	applyDefaults(cfg)
	logrus.Info("Configuration loaded successfully.")
	return cfg, nil
}

// applyDefaults backfills fields a partial config file left zeroed.
func applyDefaults(cfg *Config) {
	def := Default()

	if cfg.Alchemy.RPCBaseURL == "" {
		cfg.Alchemy.RPCBaseURL = def.Alchemy.RPCBaseURL
		logrus.Infof("Alchemy.RPCBaseURL not set, defaulting to %s", cfg.Alchemy.RPCBaseURL)
	}
	if cfg.Alchemy.PricesBaseURL == "" {
		cfg.Alchemy.PricesBaseURL = def.Alchemy.PricesBaseURL
		logrus.Infof("Alchemy.PricesBaseURL not set, defaulting to %s", cfg.Alchemy.PricesBaseURL)
	}
	if cfg.Alchemy.RequestTimeoutMillis == 0 {
		cfg.Alchemy.RequestTimeoutMillis = def.Alchemy.RequestTimeoutMillis
		logrus.Infof("Alchemy.RequestTimeoutMillis not set, defaulting to %d ms", cfg.Alchemy.RequestTimeoutMillis)
	}

	fillProfile(&cfg.Cache.Balances, def.Cache.Balances, "balances")
	fillProfile(&cfg.Cache.EthBalance, def.Cache.EthBalance, "ethBalance")
	fillProfile(&cfg.Cache.Prices, def.Cache.Prices, "prices")
	fillProfile(&cfg.Cache.Metadata, def.Cache.Metadata, "metadata")
	fillProfile(&cfg.Cache.Transfers, def.Cache.Transfers, "transfers")
	fillProfile(&cfg.Cache.ValuedBalances, def.Cache.ValuedBalances, "valuedBalances")

	if cfg.Enrichment.MaxConcurrentTasks == 0 {
		cfg.Enrichment.MaxConcurrentTasks = def.Enrichment.MaxConcurrentTasks
		logrus.Infof("Enrichment.MaxConcurrentTasks not set, defaulting to %d", cfg.Enrichment.MaxConcurrentTasks)
	}
	if cfg.Enrichment.TaskTimeoutSeconds == 0 {
		cfg.Enrichment.TaskTimeoutSeconds = def.Enrichment.TaskTimeoutSeconds
		logrus.Infof("Enrichment.TaskTimeoutSeconds not set, defaulting to %d s", cfg.Enrichment.TaskTimeoutSeconds)
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = def.Server.Port
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = def.Server.ReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = def.Server.WriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = def.Server.IdleTimeout
	}
	if cfg.Server.ResponseCacheTTLSeconds == 0 {
		cfg.Server.ResponseCacheTTLSeconds = def.Server.ResponseCacheTTLSeconds
	}
}

func fillProfile(p *CacheProfile, def CacheProfile, name string) {
	if p.MaxSize == 0 {
		p.MaxSize = def.MaxSize
		logrus.Infof("Cache.%s.maxSize not set, defaulting to %d", name, p.MaxSize)
	}
	if p.TTLSeconds == 0 {
		p.TTLSeconds = def.TTLSeconds
		logrus.Infof("Cache.%s.ttlSeconds not set, defaulting to %d s", name, p.TTLSeconds)
	}
}
