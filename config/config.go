package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Cache     CacheConfig
	Sources   SourcesConfig
	Extractor ExtractorConfig
	Nutrition NutritionConfig
	Enrich    EnrichConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CacheConfig holds result-cache configuration
type CacheConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// SourcesConfig bounds the item source aggregation chain
type SourcesConfig struct {
	SnapshotPath     string `mapstructure:"snapshot_path"`
	SubjectsPath     string `mapstructure:"subjects_path"`
	DefaultLocale    string `mapstructure:"default_locale"`
	GroceryVenueName string `mapstructure:"grocery_venue_name"`
	GroceryVenueURL  string `mapstructure:"grocery_venue_url"`
	MaxVenues        int    `mapstructure:"max_venues"`
	MaxItemsPerVenue int    `mapstructure:"max_items_per_venue"`
	DiscoveryMax     int    `mapstructure:"discovery_max"`
	// Oversample multiplies source limits so filtering loss still leaves
	// enough material.
	Oversample int `mapstructure:"oversample"`
	BasketSize int `mapstructure:"basket_size"`
}

// ExtractorConfig holds content-extraction service configuration
type ExtractorConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	RequestsPerSec float64       `mapstructure:"requests_per_sec"`
	Burst          int           `mapstructure:"burst"`
}

// NutritionConfig holds nutrition-resolution configuration
type NutritionConfig struct {
	DatabasePath string  `mapstructure:"database_path"`
	ServingGrams float64 `mapstructure:"serving_grams"`
	// LowEnergyKcal discards a single-ingredient match of a multi-token
	// decomposition below this per-100g energy. Empirically tuned, kept
	// configurable on purpose.
	LowEnergyKcal float64 `mapstructure:"low_energy_kcal"`
}

// EnrichConfig bounds the item enrichment worker pool
type EnrichConfig struct {
	Workers     int           `mapstructure:"workers"`
	ItemTimeout time.Duration `mapstructure:"item_timeout"`
	BatchLimit  int           `mapstructure:"batch_limit"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/nutricart/")

	v.SetEnvPrefix("NUTRICART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("cache.ttl", "6h")
	v.SetDefault("cache.cleanup_interval", "10m")

	v.SetDefault("sources.snapshot_path", "data/all_menus.json")
	v.SetDefault("sources.subjects_path", "data/subjects.jsonl")
	v.SetDefault("sources.default_locale", "braga-norte")
	v.SetDefault("sources.grocery_venue_name", "Continente Bom Dia Braga")
	v.SetDefault("sources.grocery_venue_url", "https://www.ubereats.com/store/continente-bom-dia-braga-oficinas/BONZWzrmSnOr26sNmYfjhA")
	v.SetDefault("sources.max_venues", 3)
	v.SetDefault("sources.max_items_per_venue", 20)
	v.SetDefault("sources.discovery_max", 30)
	v.SetDefault("sources.oversample", 2)
	v.SetDefault("sources.basket_size", 6)

	v.SetDefault("extractor.base_url", "http://localhost:4600")
	v.SetDefault("extractor.timeout", "25s")
	v.SetDefault("extractor.requests_per_sec", 2.0)
	v.SetDefault("extractor.burst", 5)

	v.SetDefault("nutrition.database_path", "")
	v.SetDefault("nutrition.serving_grams", 200.0)
	v.SetDefault("nutrition.low_energy_kcal", 80.0)

	v.SetDefault("enrich.workers", 8)
	v.SetDefault("enrich.item_timeout", "6s")
	v.SetDefault("enrich.batch_limit", 20)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got: %s", config.Cache.TTL)
	}
	if config.Sources.BasketSize <= 0 {
		return fmt.Errorf("basket size must be positive, got: %d", config.Sources.BasketSize)
	}
	if config.Sources.Oversample < 1 {
		return fmt.Errorf("oversample must be at least 1, got: %d", config.Sources.Oversample)
	}
	if config.Enrich.Workers < 1 {
		return fmt.Errorf("enrich workers must be at least 1, got: %d", config.Enrich.Workers)
	}
	if config.Nutrition.ServingGrams <= 0 {
		return fmt.Errorf("serving grams must be positive, got: %g", config.Nutrition.ServingGrams)
	}
	return nil
}
