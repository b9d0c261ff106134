package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/coursepilot/coursepilot/internal/scheduler"
)

type Config struct {
	Canvas   CanvasConfig    `yaml:"canvas"`
	Provider ProviderConfig  `yaml:"provider"`
	Store    StoreConfig     `yaml:"store"`
	Cache    CacheConfig     `yaml:"cache"`
	Gateway  GatewayConfig   `yaml:"gateway"`
	Preparer PreparerConfig  `yaml:"preparer"`
	Jobs     []scheduler.Job `yaml:"jobs"`
	Log      LogConfig       `yaml:"log"`
}

type CanvasConfig struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
}

type ProviderConfig struct {
	ID          string   `yaml:"id"`
	BaseURL     string   `yaml:"base_url"`
	APIKey      string   `yaml:"api_key"`
	API         string   `yaml:"api"` // openai-completions (default) or anthropic-messages
	Model       string   `yaml:"model"`
	Temperature *float64 `yaml:"temperature,omitempty"`
}

type StoreConfig struct {
	Driver        string `yaml:"driver"` // memory, sqlite, postgres
	DataDir       string `yaml:"data_dir"`
	DSN           string `yaml:"dsn"`
	MaxIdleDays   int    `yaml:"max_idle_days"`
	HistoryWindow int    `yaml:"history_window"`
}

type CacheConfig struct {
	RedisAddr string `yaml:"redis_addr"`
	TTL       string `yaml:"ttl"`
}

type GatewayConfig struct {
	Listen string `yaml:"listen"`
}

type PreparerConfig struct {
	Script string `yaml:"script"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// CacheTTL parses the cache TTL, defaulting to a minute.
func (c *Config) CacheTTL() time.Duration {
	if c.Cache.TTL == "" {
		return time.Minute
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return time.Minute
	}
	return d
}

var envPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// expandEnv substitutes ${VAR} references so secrets stay out of the file.
// Unset variables are left as-is to make misconfiguration visible.
func expandEnv(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envPattern.FindStringSubmatch(match)[1]
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

func (c *Config) expandSecrets() {
	c.Canvas.BaseURL = expandEnv(c.Canvas.BaseURL)
	c.Canvas.Token = expandEnv(c.Canvas.Token)
	c.Provider.BaseURL = expandEnv(c.Provider.BaseURL)
	c.Provider.APIKey = expandEnv(c.Provider.APIKey)
	c.Store.DSN = expandEnv(c.Store.DSN)
	c.Cache.RedisAddr = expandEnv(c.Cache.RedisAddr)
}

func (c *Config) applyDefaults() {
	if c.Provider.ID == "" {
		c.Provider.ID = "groq"
	}
	if c.Provider.Model == "" {
		c.Provider.Model = "llama-3.3-70b-versatile"
	}
	if c.Store.Driver == "" {
		c.Store.Driver = "memory"
	}
	if c.Gateway.Listen == "" {
		c.Gateway.Listen = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) Validate() error {
	if c.Canvas.BaseURL == "" {
		return fmt.Errorf("config: canvas.base_url is required")
	}
	if c.Canvas.Token == "" {
		return fmt.Errorf("config: canvas.token is required")
	}
	if c.Provider.APIKey == "" {
		return fmt.Errorf("config: provider.api_key is required")
	}
	switch c.Store.Driver {
	case "memory":
	case "sqlite":
		if c.Store.DataDir == "" {
			return fmt.Errorf("config: store.data_dir is required for the sqlite driver")
		}
	case "postgres":
		if c.Store.DSN == "" {
			return fmt.Errorf("config: store.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	return nil
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.expandSecrets()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
