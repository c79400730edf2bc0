package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"

	// ConfigFileEnv names an optional YAML file loaded beneath the environment.
	ConfigFileEnv = "EVENTS_CONFIG"
)

var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)

// Config keys match the lowercased environment variable names, so
// MONGODB_URI and a YAML "mongodb_uri" set the same field.
type Config struct {
	Port                  string `koanf:"port"`
	Environment           string `koanf:"environment"`
	LogLevel              string `koanf:"log_level"`
	StoreDriver           string `koanf:"store_driver"`
	MongoDBURI            string `koanf:"mongodb_uri"`
	MongoDBPassword       string `koanf:"mongodb_password"`
	MongoDBDatabase       string `koanf:"mongodb_database"`
	ScrapingEnabled       bool   `koanf:"scraping_enabled"`
	ScrapingIntervalHours int    `koanf:"scraping_interval_hours"`
	CORSAllowedOrigins    string `koanf:"cors_allowed_origins"`
	MetricsEnabled        bool   `koanf:"metrics_enabled"`
}

func New() *Config {
	return &Config{
		Port:                  "8080",
		Environment:           "development",
		LogLevel:              "info",
		StoreDriver:           DriverMongo,
		MongoDBDatabase:       "lankaevents",
		ScrapingEnabled:       false,
		ScrapingIntervalHours: 6,
		CORSAllowedOrigins:    "http://localhost:3000",
		MetricsEnabled:        true,
	}
}

// LoadConfig layers defaults, the optional EVENTS_CONFIG file and the
// environment, lowest precedence first.
func LoadConfig(ctx context.Context) (*Config, error) {
	cfg := New()
	keys := knownKeys()

	k := koanf.New(".")
	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	envProvider := env.Provider("", ".", func(s string) string {
		key := strings.ToLower(s)
		if !keys[key] {
			return ""
		}
		return key
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func knownKeys() map[string]bool {
	return map[string]bool{
		"port":                    true,
		"environment":             true,
		"log_level":               true,
		"store_driver":            true,
		"mongodb_uri":             true,
		"mongodb_password":        true,
		"mongodb_database":        true,
		"scraping_enabled":        true,
		"scraping_interval_hours": true,
		"cors_allowed_origins":    true,
		"metrics_enabled":         true,
	}
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoDBURI == "" {
			return fmt.Errorf("%w: MONGODB_URI is required for the mongo driver", ErrInvalidConfig)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("%w: unknown STORE_DRIVER %q", ErrInvalidConfig, c.StoreDriver)
	}
	if c.ScrapingIntervalHours < 1 {
		return fmt.Errorf("%w: SCRAPING_INTERVAL_HOURS must be positive, got %d", ErrInvalidConfig, c.ScrapingIntervalHours)
	}
	if c.Port == "" {
		return fmt.Errorf("%w: PORT must not be empty", ErrInvalidConfig)
	}
	return nil
}

// MongoURI returns the connection string with the <password> placeholder filled in.
func (c *Config) MongoURI() string {
	return strings.Replace(c.MongoDBURI, "<password>", c.MongoDBPassword, 1)
}

func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
