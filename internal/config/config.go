// Package config provides configuration management for optionlab.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "optionlab/internal/errors"
	"optionlab/internal/logging"
)

// Config holds all application configuration.
type Config struct {
	Analysis    AnalysisConfig `mapstructure:"analysis"`
	Store       StoreConfig    `mapstructure:"store"`
	Quote       QuoteConfig    `mapstructure:"quote"`
	Server      ServerConfig   `mapstructure:"server"`
	Log         LogSettings    `mapstructure:"log"`
	UI          UIConfig       `mapstructure:"ui"`
	Credentials Credentials    `mapstructure:"-"` // Loaded separately

	// Dir is the directory the configuration was loaded from.
	Dir string `mapstructure:"-"`
}

// AnalysisConfig holds payoff analysis defaults.
type AnalysisConfig struct {
	Samples     int     `mapstructure:"samples"`
	DefaultBase float64 `mapstructure:"default_base"`
}

// StoreConfig holds strategy store configuration.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// QuoteConfig holds quote provider configuration.
type QuoteConfig struct {
	Provider      string        `mapstructure:"provider"` // finnhub, kite, none
	Exchange      string        `mapstructure:"exchange"` // used by kite
	Timeout       time.Duration `mapstructure:"timeout"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	RedisURL      string        `mapstructure:"redis_url"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
}

// ServerConfig holds HTTP API configuration.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// LogSettings holds logging configuration.
type LogSettings struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled   bool   `mapstructure:"color_enabled"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
}

// Credentials holds API credentials.
type Credentials struct {
	Finnhub FinnhubCredentials `mapstructure:"finnhub"`
	Kite    KiteCredentials    `mapstructure:"kite"`
	OpenAI  OpenAICredentials  `mapstructure:"openai"`
}

// FinnhubCredentials holds the Finnhub API token.
type FinnhubCredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// KiteCredentials holds Kite Connect credentials.
type KiteCredentials struct {
	APIKey      string `mapstructure:"api_key"`
	AccessToken string `mapstructure:"access_token"`
}

// OpenAICredentials holds OpenAI API credentials.
type OpenAICredentials struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/optionlab"
	}
	return filepath.Join(home, ".config", "optionlab")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. Missing files are
// created from templates and then read back.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{Dir: configDir}

	if err := loadConfigFile(configDir, cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	loadDotEnv(configDir)
	applyEnvOverrides(cfg)

	if cfg.Store.Path == "" {
		cfg.Store.Path = filepath.Join(configDir, "strategies.db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("analysis.samples", 100)
	v.SetDefault("analysis.default_base", 100.0)
	v.SetDefault("quote.provider", "finnhub")
	v.SetDefault("quote.exchange", "NSE")
	v.SetDefault("quote.timeout", "5s")
	v.SetDefault("quote.cache_ttl", "30s")
	v.SetDefault("quote.retry_attempts", 3)
	v.SetDefault("server.addr", "127.0.0.1:5000")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", true)
	v.SetDefault("log.max_size_mb", 20)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 14)
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.currency_symbol", "$")
}

func loadConfigFile(configDir string, cfg *Config) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v)

	if err := readOrCreate(v, configDir, "config.toml", configTemplate, 0644); err != nil {
		return err
	}

	return v.Unmarshal(cfg)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	v.SetDefault("openai.model", "gpt-4o-mini")

	// Use restricted permissions for credentials file
	if err := readOrCreate(v, configDir, "credentials.toml", credentialsTemplate, 0600); err != nil {
		return err
	}

	return v.Unmarshal(creds)
}

func readOrCreate(v *viper.Viper, configDir, file, template string, perm os.FileMode) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		return err
	}

	if err := writeTemplate(configDir, file, template, perm); err != nil {
		return err
	}
	return v.ReadInConfig()
}

// loadDotEnv loads .env files from the config directory and the working
// directory. Variables already set in the environment win.
func loadDotEnv(configDir string) {
	for _, path := range []string{filepath.Join(configDir, ".env"), ".env"} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		_ = godotenv.Load(path)
	}
}

func applyEnvOverrides(cfg *Config) {
	// Finnhub token, FINNHUB is the legacy variable name
	if v := os.Getenv("FINNHUB"); v != "" {
		cfg.Credentials.Finnhub.APIKey = v
	}
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		cfg.Credentials.Finnhub.APIKey = v
	}

	// Kite credentials
	if v := os.Getenv("KITE_API_KEY"); v != "" {
		cfg.Credentials.Kite.APIKey = v
	}
	if v := os.Getenv("KITE_ACCESS_TOKEN"); v != "" {
		cfg.Credentials.Kite.AccessToken = v
	}

	// OpenAI credentials
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAI.APIKey = v
	}

	if v := os.Getenv("OPTIONLAB_REDIS_URL"); v != "" {
		cfg.Quote.RedisURL = v
	}
	if v := os.Getenv("OPTIONLAB_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Analysis.Samples < 0 || c.Analysis.Samples > 10000 {
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "analysis.samples must be between 0 and 10000, got %d", c.Analysis.Samples)
	}
	if c.Analysis.DefaultBase < 0 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "analysis.default_base must be non-negative")
	}

	switch c.Quote.Provider {
	case "finnhub", "none", "":
	case "kite":
		if c.Quote.Exchange == "" {
			return apperrors.Wrap(apperrors.ErrConfigInvalid, "quote.exchange is required for the kite provider")
		}
	default:
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "unknown quote.provider %q (must be finnhub, kite or none)", c.Quote.Provider)
	}
	if c.Quote.Timeout < 0 || c.Quote.CacheTTL < 0 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "quote durations must be non-negative")
	}
	if c.Quote.RetryAttempts < 0 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "quote.retry_attempts must be non-negative")
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "unknown log.level %q", c.Log.Level)
	}

	return nil
}

// HasFinnhub reports whether a Finnhub token is configured.
func (c *Config) HasFinnhub() bool {
	return c.Credentials.Finnhub.APIKey != ""
}

// HasOpenAI reports whether an OpenAI key is configured.
func (c *Config) HasOpenAI() bool {
	return c.Credentials.OpenAI.APIKey != ""
}

// LogConfig converts the [log] section into a logging.LogConfig.
func (c *Config) LogConfig() logging.LogConfig {
	lc := logging.DefaultLogConfig()
	lc.Level = strings.ToLower(c.Log.Level)
	lc.Console = c.Log.Console
	lc.File = c.Log.File
	if c.Dir != "" {
		lc.FilePath = filepath.Join(c.Dir, "logs", "optionlab.log")
	}
	if c.Log.MaxSizeMB > 0 {
		lc.MaxSize = c.Log.MaxSizeMB
	}
	if c.Log.MaxBackups > 0 {
		lc.MaxBackups = c.Log.MaxBackups
	}
	if c.Log.MaxAgeDays > 0 {
		lc.MaxAge = c.Log.MaxAgeDays
	}
	return lc
}
