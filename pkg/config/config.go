// Package config loads the dashboard server configuration from struct
// defaults, an optional dotenv file, and SEODASH_ prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override. Nested keys use a double
// underscore: SEODASH_SERVER__ADDR sets server.addr.
const EnvPrefix = "SEODASH_"

// Config is the full server configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Pages    PagesConfig    `koanf:"pages"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Store    StoreConfig    `koanf:"store"`
	Charts   ChartsConfig   `koanf:"charts"`
	Rankings RankingsConfig `koanf:"rankings"`
	Remote   RemoteConfig   `koanf:"remote"`
	Log      LogConfig      `koanf:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr     string `koanf:"addr" validate:"required"`
	BasePath string `koanf:"base_path" validate:"omitempty,startswith=/"`
	APIPath  string `koanf:"api_path" validate:"required,startswith=/"`
	Locale   string `koanf:"locale"`
}

// PagesConfig adds pages from a manifest file on top of the built-in ones.
type PagesConfig struct {
	Manifest string `koanf:"manifest"`
}

// MetricsConfig configures the Prometheus listener. An empty address disables it.
type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

// StoreConfig configures the mock data provider.
type StoreConfig struct {
	ReadLatency  time.Duration `koanf:"read_latency" validate:"gte=0"`
	WriteLatency time.Duration `koanf:"write_latency" validate:"gte=0"`
	Simulate     bool          `koanf:"simulate"`
	Seed         uint64        `koanf:"seed"`
	ContentHost  string        `koanf:"content_host" validate:"omitempty,url"`
}

// ChartsConfig configures chart rendering.
type ChartsConfig struct {
	CacheSize int           `koanf:"cache_size" validate:"gte=0"`
	CacheTTL  time.Duration `koanf:"cache_ttl" validate:"gte=0"`
	Theme     string        `koanf:"theme"`
}

// RankingsConfig configures the scheduled ranking refresh. An empty schedule disables it.
type RankingsConfig struct {
	RefreshSchedule string `koanf:"refresh_schedule"`
}

// RemoteConfig points the repositories at a REST backend instead of fixtures.
type RemoteConfig struct {
	BaseURL string        `koanf:"base_url" validate:"omitempty,url"`
	APIKey  string        `koanf:"api_key"`
	Timeout time.Duration `koanf:"timeout" validate:"gte=0"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `koanf:"json"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:    ":8080",
			APIPath: "/api",
			Locale:  "en",
		},
		Store: StoreConfig{
			ReadLatency:  300 * time.Millisecond,
			WriteLatency: 300 * time.Millisecond,
			Simulate:     true,
			ContentHost:  "https://example.com",
		},
		Charts: ChartsConfig{
			CacheSize: 128,
			CacheTTL:  5 * time.Minute,
			Theme:     "westeros",
		},
		Remote: RemoteConfig{
			Timeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadOptions customizes Load.
type LoadOptions struct {
	// EnvFile is loaded into the process environment when it exists.
	EnvFile string
}

// Load merges defaults, the dotenv file and environment overrides, then validates.
func Load(opts LoadOptions) (Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", opts.EnvFile, err)
		}
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("config: load defaults: %w", err)
	}
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: transformEnv,
	}), nil); err != nil {
		return Config{}, fmt.Errorf("config: load environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func Validate(cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config: invalid configuration: %w", err)
	}
	return nil
}

func transformEnv(key, value string) (string, any) {
	key = strings.TrimPrefix(key, EnvPrefix)
	key = strings.ToLower(strings.ReplaceAll(key, "__", "."))
	return key, value
}
