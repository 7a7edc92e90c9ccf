// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"culinary-quest/internal/model"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Validation errors.
var (
	ErrUnknownDriver   = errors.New("unknown storage driver")
	ErrInvalidTick     = errors.New("tick interval must be positive")
	ErrInvalidPoolSize = errors.New("pool sizes must be positive")
	ErrMissingPlayerID = errors.New("player id is required")
)

// Config holds all application configuration.
type Config struct {
	Player   PlayerConfig   `mapstructure:"player"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Game     GameConfig     `mapstructure:"game"`
}

// PlayerConfig identifies the local player.
type PlayerConfig struct {
	ID   string `mapstructure:"id"`
	Name string `mapstructure:"name"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// GameConfig holds engine configuration.
type GameConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"`
	Timezone     string        `mapstructure:"timezone"`
	CatalogPath  string        `mapstructure:"catalog_path"`
	// Seed fixes the catalog's random sampling. 0 picks a random seed.
	Seed      uint64          `mapstructure:"seed"`
	PoolSizes PoolSizesConfig `mapstructure:"pool_sizes"`
}

// PoolSizesConfig holds the pool size of each random-pool mode.
type PoolSizesConfig struct {
	CulinaryChallenge SizeConfig `mapstructure:"culinary_challenge"`
	IngredientMastery SizeConfig `mapstructure:"ingredient_mastery"`
	ARHunt            SizeConfig `mapstructure:"ar_hunt"`
}

// SizeConfig is a pool size per difficulty.
type SizeConfig struct {
	Easy   int `mapstructure:"easy"`
	Medium int `mapstructure:"medium"`
	Hard   int `mapstructure:"hard"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// Location returns the configured timezone, falling back to the local zone.
func (g *GameConfig) Location() (*time.Location, error) {
	if g.Timezone == "" || strings.EqualFold(g.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(g.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", g.Timezone, err)
	}
	return loc, nil
}

// ByMode returns the pool sizes keyed by mode.
func (p PoolSizesConfig) ByMode() map[model.GameMode]SizeConfig {
	return map[model.GameMode]SizeConfig{
		model.ModeCulinaryChallenge: p.CulinaryChallenge,
		model.ModeIngredientMastery: p.IngredientMastery,
		model.ModeARHunt:            p.ARHunt,
	}
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the config directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// e.g. STORAGE_DRIVER, DATABASE_HOST, GAME_TICK_INTERVAL
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The file is optional; defaults and env vars can provide everything.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	if c.Player.ID == "" {
		return ErrMissingPlayerID
	}
	switch c.Storage.Driver {
	case DriverMemory, DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Storage.Driver)
	}
	if c.Game.TickInterval <= 0 {
		return ErrInvalidTick
	}
	for mode, s := range c.Game.PoolSizes.ByMode() {
		if s.Easy <= 0 || s.Medium <= 0 || s.Hard <= 0 {
			return fmt.Errorf("%w: %s", ErrInvalidPoolSize, mode)
		}
	}
	if _, err := c.Game.Location(); err != nil {
		return err
	}
	return nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("player.id", "local")
	v.SetDefault("player.name", "Chef")

	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.sqlite_path", "data/culinary-quest.db")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "culinary")
	v.SetDefault("database.name", "culinary_quest")
	v.SetDefault("database.pool_size", 10)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	v.SetDefault("log.level", "info")

	v.SetDefault("game.tick_interval", "1s")
	v.SetDefault("game.timezone", "Local")
	v.SetDefault("game.catalog_path", "")
	v.SetDefault("game.seed", 0)

	v.SetDefault("game.pool_sizes.culinary_challenge.easy", 3)
	v.SetDefault("game.pool_sizes.culinary_challenge.medium", 5)
	v.SetDefault("game.pool_sizes.culinary_challenge.hard", 7)
	v.SetDefault("game.pool_sizes.ingredient_mastery.easy", 5)
	v.SetDefault("game.pool_sizes.ingredient_mastery.medium", 8)
	v.SetDefault("game.pool_sizes.ingredient_mastery.hard", 12)
	v.SetDefault("game.pool_sizes.ar_hunt.easy", 3)
	v.SetDefault("game.pool_sizes.ar_hunt.medium", 5)
	v.SetDefault("game.pool_sizes.ar_hunt.hard", 8)
}
