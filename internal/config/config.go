package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	Gamma  GammaConfig  `mapstructure:"gamma"`
	Clob   ClobConfig   `mapstructure:"clob"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Engine EngineConfig `mapstructure:"engine"`
	Cron   CronConfig   `mapstructure:"cron"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type GammaConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type ClobConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig carries one TTL per cache layer. Expiry is lazy: an entry
// older than its TTL is treated as absent on read.
type CacheConfig struct {
	CatalogTTL  time.Duration `mapstructure:"catalog_ttl"`
	DetailTTL   time.Duration `mapstructure:"detail_ttl"`
	LocationTTL time.Duration `mapstructure:"location_ttl"`
	TagsTTL     time.Duration `mapstructure:"tags_ttl"`
}

type EngineConfig struct {
	MinVolume         float64 `mapstructure:"min_volume"`
	DefaultLimit      int     `mapstructure:"default_limit"`
	MaxLimit          int     `mapstructure:"max_limit"`
	PageLimit         int     `mapstructure:"page_limit"`
	TargetMovePct     float64 `mapstructure:"target_move_pct"`
	EnrichConcurrency int     `mapstructure:"enrich_concurrency"`
}

type CronConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	CatalogPrewarm string `mapstructure:"catalog_prewarm"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("WE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("gamma.base_url", "https://gamma-api.polymarket.com")
	v.SetDefault("gamma.timeout", "10s")
	v.SetDefault("clob.base_url", "https://clob.polymarket.com")
	v.SetDefault("clob.timeout", "5s")
	v.SetDefault("cache.catalog_ttl", "10m")
	v.SetDefault("cache.detail_ttl", "5m")
	v.SetDefault("cache.location_ttl", "15m")
	v.SetDefault("cache.tags_ttl", "1h")
	v.SetDefault("engine.min_volume", 1000)
	v.SetDefault("engine.default_limit", 10)
	v.SetDefault("engine.max_limit", 50)
	v.SetDefault("engine.page_limit", 500)
	v.SetDefault("engine.target_move_pct", 5)
	v.SetDefault("engine.enrich_concurrency", 4)
	v.SetDefault("cron.enabled", false)
	v.SetDefault("cron.catalog_prewarm", "@every 10m")

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
