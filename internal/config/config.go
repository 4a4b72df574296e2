package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the importer
type Config struct {
	Epsol    EpsolConfig    `mapstructure:"epsol"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
}

// EpsolConfig describes the remote catalog and crawl bounds
type EpsolConfig struct {
	BaseURL     string   `mapstructure:"base_url"`
	CatalogPath string   `mapstructure:"catalog_path"`
	Timeout     int      `mapstructure:"timeout"` // seconds
	MaxRetries  int      `mapstructure:"max_retries"`
	UserAgent   string   `mapstructure:"user_agent"`
	Proxies     []string `mapstructure:"proxies"`

	// Products visited per listing
	CatalogLimit int `mapstructure:"catalog_limit"` // full crawl
	ListingLimit int `mapstructure:"listing_limit"` // explicit start URLs
}

// StorageConfig selects the equipment repository: postgres, redis or log
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
	Stream   string `mapstructure:"stream"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads config.yaml from the working directory, or path when given, with
// environment variable overrides (epsol.base_url -> EPSOL_BASE_URL). A missing
// file is not an error: defaults and environment apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Epsol.validate(); err != nil {
		return nil, fmt.Errorf("invalid epsol config: %w", err)
	}

	return &config, nil
}

// validate rejects settings that would lift the request timeout or the per-listing caps.
func (c EpsolConfig) validate() error {
	switch {
	case c.Timeout <= 0:
		return fmt.Errorf("timeout must be positive, got %d", c.Timeout)
	case c.MaxRetries < 0:
		return fmt.Errorf("max_retries must not be negative, got %d", c.MaxRetries)
	case c.CatalogLimit <= 0:
		return fmt.Errorf("catalog_limit must be positive, got %d", c.CatalogLimit)
	case c.ListingLimit <= 0:
		return fmt.Errorf("listing_limit must be positive, got %d", c.ListingLimit)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("epsol.base_url", "https://epsol.ru")
	v.SetDefault("epsol.catalog_path", "/katalog/")
	v.SetDefault("epsol.timeout", 30)
	v.SetDefault("epsol.max_retries", 0)
	v.SetDefault("epsol.user_agent", "")
	v.SetDefault("epsol.proxies", []string{})
	v.SetDefault("epsol.catalog_limit", 80)
	v.SetDefault("epsol.listing_limit", 120)

	v.SetDefault("storage.driver", "postgres")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "equipment")
	v.SetDefault("database.user", "equipment_user")
	v.SetDefault("database.password", "equipment_pass")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.stream", "epsol:stream:equipment")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}
