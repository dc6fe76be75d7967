package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Defaults()
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		errorString string
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{
			name:   "valid postgres backend",
			mutate: func(c *Config) { c.DataBackend = "postgres"; c.PostgresURL = "postgres://u:p@localhost:5432/spendlog" },
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid data backend",
			mutate:      func(c *Config) { c.DataBackend = "sheets" },
			errorString: "invalid data backend 'sheets': must be one of [memory file sqlite postgres]",
		},
		{
			name:        "sqlite backend missing database path",
			mutate:      func(c *Config) { c.DataBackend = "sqlite"; c.SQLiteDBPath = "" },
			errorString: "SQLite database path cannot be empty",
		},
		{
			name:        "postgres backend missing url",
			mutate:      func(c *Config) { c.DataBackend = "postgres" },
			errorString: "POSTGRES_URL is required",
		},
		{
			name:        "postgres url wrong scheme",
			mutate:      func(c *Config) { c.DataBackend = "postgres"; c.PostgresURL = "mysql://localhost/db" },
			errorString: "invalid POSTGRES_URL scheme 'mysql'",
		},
		{
			name:        "near limit out of range",
			mutate:      func(c *Config) { c.NearLimitPercent = 120 },
			errorString: "invalid near limit percent 120",
		},
		{
			name:        "unknown savings category",
			mutate:      func(c *Config) { c.SavingsCategoriesRaw = "Shopping, Pets" },
			errorString: "invalid savings category 'Pets'",
		},
		{
			name:        "bad log format",
			mutate:      func(c *Config) { c.LogFormat = "xml" },
			errorString: "invalid log format 'xml'",
		},
		{
			name:        "shutdown timeout too short",
			mutate:      func(c *Config) { c.ShutdownTimeout = 10 * time.Millisecond },
			errorString: "invalid shutdown timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(&c)
			err := c.Validate()
			if tt.errorString == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.errorString)
			}
			if !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.errorString)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	c := validConfig()
	c.Port = "abc"
	c.DataBackend = "nope"
	c.LogFormat = "xml"

	err := c.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if n := strings.Count(err.Error(), "\n- "); n != 3 {
		t.Errorf("expected 3 collected errors, got %d: %v", n, err)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("SQLITE_DB_PATH", "/tmp/spendlog-test.db")
	t.Setenv("NEAR_LIMIT_PERCENT", "75.5")
	t.Setenv("SAVINGS_CATEGORIES", "Food, Shopping")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")
	t.Setenv("STORAGE_OPEN_ATTEMPTS", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" || cfg.DataBackend != "sqlite" || cfg.SQLiteDBPath != "/tmp/spendlog-test.db" {
		t.Errorf("strings not loaded: %+v", cfg)
	}
	if cfg.NearLimitPercent != 75.5 || cfg.StorageOpenAttempts != 7 {
		t.Errorf("numbers not loaded: %+v", cfg)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
	}
	if got := cfg.SavingsCategories(); len(got) != 2 || got[0] != "Food" || got[1] != "Shopping" {
		t.Errorf("SavingsCategories = %v", got)
	}
	if cfg.DataDir != "./data" {
		t.Errorf("unset variables should keep defaults, DataDir = %q", cfg.DataDir)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config should validate: %v", err)
	}
}

func TestConfig_Policy(t *testing.T) {
	c := validConfig()
	c.NearLimitPercent = 90
	c.SavingsCategoriesRaw = "food,  Bills ,"

	p, err := c.Policy()
	if err != nil {
		t.Fatalf("Policy: %v", err)
	}
	if p.NearLimitPercent.String() != "90" {
		t.Errorf("NearLimitPercent = %s", p.NearLimitPercent)
	}
	if len(p.SavingsCategories) != 2 || p.SavingsCategories[0] != "Food" || p.SavingsCategories[1] != "Bills" {
		t.Errorf("SavingsCategories = %v", p.SavingsCategories)
	}

	c.SavingsCategoriesRaw = "Pets"
	if _, err := c.Policy(); err == nil {
		t.Error("expected error for unknown category")
	}
}
