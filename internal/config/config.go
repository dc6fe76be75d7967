// Package config loads settings from the environment.
package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"

	"spendlog/internal/core"
	"spendlog/internal/insights"
)

type Config struct {
	// HTTP Server
	Port string `koanf:"PORT"`

	// Backend selection: memory, file, sqlite or postgres
	DataBackend string `koanf:"DATA_BACKEND"`

	// file backend
	DataDir string `koanf:"DATA_DIR"`

	// sqlite backend
	SQLiteDBPath string `koanf:"SQLITE_DB_PATH"`

	// postgres backend
	PostgresURL string `koanf:"POSTGRES_URL"`

	// StorageOpenAttempts bounds connection attempts at startup.
	StorageOpenAttempts int `koanf:"STORAGE_OPEN_ATTEMPTS"`

	// Insight policy
	NearLimitPercent float64 `koanf:"NEAR_LIMIT_PERCENT"`
	// SavingsCategoriesRaw is a comma separated category list.
	SavingsCategoriesRaw string `koanf:"SAVINGS_CATEGORIES"`

	// Logging
	LogLevel  string `koanf:"LOG_LEVEL"`
	LogFormat string `koanf:"LOG_FORMAT"`

	// Server lifecycle
	ShutdownTimeout   time.Duration `koanf:"SHUTDOWN_TIMEOUT"`
	RequestsPerMinute int           `koanf:"RATE_LIMIT_PER_MINUTE"`
}

// Defaults returns the configuration used when no variable is set.
func Defaults() Config {
	return Config{
		Port:                 "8081",
		DataBackend:          "file",
		DataDir:              "./data",
		SQLiteDBPath:         "./data/spendlog.db",
		StorageOpenAttempts:  3,
		NearLimitPercent:     80,
		SavingsCategoriesRaw: "Entertainment,Shopping",
		LogLevel:             "info",
		LogFormat:            "text",
		ShutdownTimeout:      30 * time.Second,
		RequestsPerMinute:    60,
	}
}

// Load reads the environment over Defaults. It does not validate.
func Load() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", nil), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf", FlatPaths: true}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// SavingsCategories splits SavingsCategoriesRaw, dropping empty entries.
func (c *Config) SavingsCategories() []string {
	var out []string
	for _, s := range strings.Split(c.SavingsCategoriesRaw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Policy builds the insight policy. Unknown categories are an error.
func (c *Config) Policy() (insights.Policy, error) {
	p := insights.Policy{NearLimitPercent: decimal.NewFromFloat(c.NearLimitPercent)}
	for _, name := range c.SavingsCategories() {
		cat, err := core.ParseCategory(name)
		if err != nil {
			return insights.Policy{}, err
		}
		p.SavingsCategories = append(p.SavingsCategories, cat)
	}
	if err := p.Validate(); err != nil {
		return insights.Policy{}, err
	}
	return p, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{"memory", "file", "sqlite", "postgres"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case "file":
		if c.DataDir == "" {
			errors = append(errors, "data directory cannot be empty when using file backend")
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		}
	case "postgres":
		if c.PostgresURL == "" {
			errors = append(errors, "POSTGRES_URL is required when using postgres backend")
		} else if u, err := url.Parse(c.PostgresURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid POSTGRES_URL: %v", err))
		} else if u.Scheme != "postgres" && u.Scheme != "postgresql" {
			errors = append(errors, fmt.Sprintf("invalid POSTGRES_URL scheme '%s': must be 'postgres' or 'postgresql'", u.Scheme))
		}
	}

	if c.StorageOpenAttempts < 1 || c.StorageOpenAttempts > 20 {
		errors = append(errors, fmt.Sprintf("invalid storage open attempts %d: must be between 1 and 20", c.StorageOpenAttempts))
	}

	if c.NearLimitPercent <= 0 || c.NearLimitPercent > 100 {
		errors = append(errors, fmt.Sprintf("invalid near limit percent %v: must be in (0, 100]", c.NearLimitPercent))
	}
	for _, name := range c.SavingsCategories() {
		if _, err := core.ParseCategory(name); err != nil {
			errors = append(errors, fmt.Sprintf("invalid savings category '%s'", name))
		}
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be text or json", c.LogFormat))
	}

	if c.ShutdownTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	}
	if c.RequestsPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1", c.RequestsPerMinute))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}
