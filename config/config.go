// Package config resolves runtime settings from defaults, an optional TOML
// file, a .env file and the environment, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

type Config struct {
	DatabaseURL    string   `toml:"database_url"`
	DatabaseName   string   `toml:"database_name"`
	SecretKey      string   `toml:"secret_key"`
	IP             string   `toml:"ip"`
	Port           string   `toml:"port"`
	StoreBackend   string   `toml:"store_backend"`
	SeedCategories []string `toml:"seed_categories"`
	AppEnv         string   `toml:"app_env"`
}

// Load builds the configuration for the current process.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	// APP_ENV from the environment wins over app_env from the file
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = cfg.AppEnv
	}
	if appEnv != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, continuing..")
		}
	}

	cfg.loadEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		IP:           "0.0.0.0",
		Port:         "5000",
		StoreBackend: BackendPostgres,
		AppEnv:       "development",
	}
}

func (c *Config) loadFile(path string) error {
	if _, err := toml.DecodeFile(path, c); err != nil {
		return fmt.Errorf("loading config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() {
	setString := func(name string, dst *string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	setString("DATABASE_URL", &c.DatabaseURL)
	setString("DATABASE_NAME", &c.DatabaseName)
	setString("SECRET_KEY", &c.SecretKey)
	setString("IP", &c.IP)
	setString("PORT", &c.Port)
	setString("STORE_BACKEND", &c.StoreBackend)
	setString("APP_ENV", &c.AppEnv)

	if v := os.Getenv("SEED_CATEGORIES"); v != "" {
		c.SeedCategories = splitList(v)
	}
}

// Validate reports the first setting that would keep the server from starting.
func (c *Config) Validate() error {
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	switch c.StoreBackend {
	case BackendPostgres, BackendRedis:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s store", c.StoreBackend)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}

	if c.SecretKey == "" {
		return errors.New("SECRET_KEY is required to sign sessions")
	}

	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	return nil
}

// Addr is the listen address built from IP and Port.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.IP, c.Port)
}

// Production reports whether cookies should be marked secure.
func (c *Config) Production() bool {
	return c.AppEnv == "production"
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
