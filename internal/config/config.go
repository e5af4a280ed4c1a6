package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all runtime settings for the service.
// Precedence: built-in defaults < TOML file < IDEAHUB_* environment variables.
type Config struct {
	App struct {
		Env string `koanf:"env"`
	} `koanf:"app"`

	Log struct {
		Level     string `koanf:"level"`
		Format    string `koanf:"format"`
		Component string `koanf:"component"`
		Source    bool   `koanf:"source"`
	} `koanf:"log"`

	DB struct {
		DSN      string `koanf:"dsn"`
		Host     string `koanf:"host"`
		Port     string `koanf:"port"`
		User     string `koanf:"user"`
		Password string `koanf:"password"`
		Name     string `koanf:"name"`
	} `koanf:"db"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
		DB       int    `koanf:"db"`
	} `koanf:"redis"`

	GRPC struct {
		Host string `koanf:"host"`
		Port string `koanf:"port"`
	} `koanf:"grpc"`

	Session struct {
		TTLMinutes int `koanf:"ttl_minutes"`
	} `koanf:"session"`
}

// SessionTTL returns the configured session lifetime.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLMinutes) * time.Minute
}

// New loads configuration from the default locations. A missing config file
// is not an error; environment variables alone are enough to run the service.
func New() (*Config, error) {
	return Load(os.Getenv("IDEAHUB_CONFIG"))
}

// Load reads configuration from defaults, an optional TOML file, and
// IDEAHUB_-prefixed environment variables (IDEAHUB_DB_HOST -> db.host).
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	k.Load(confmap.Provider(map[string]interface{}{
		"app.env":             "development",
		"log.level":           "info",
		"log.format":          "text",
		"log.component":       "ideahub",
		"log.source":          false,
		"db.host":             "localhost",
		"db.port":             "3306",
		"db.user":             "root",
		"db.password":         "root",
		"db.name":             "ideahub",
		"redis.addr":          "localhost:6379",
		"redis.password":      "",
		"redis.db":            0,
		"grpc.host":           "127.0.0.1",
		"grpc.port":           "50051",
		"session.ttl_minutes": 60 * 24,
	}, "."), nil)

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	} else {
		for _, path := range []string{"./ideahub.toml", "$HOME/.ideahub.toml"} {
			path = os.ExpandEnv(path)
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err == nil {
					break
				}
			}
		}
	}

	k.Load(env.Provider("IDEAHUB_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "IDEAHUB_")
		return strings.Replace(strings.ToLower(s), "_", ".", -1)
	}), nil)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if cfg.DB.DSN == "" {
		cfg.DB.DSN = fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
			cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name,
		)
	}

	return &cfg, nil
}
