// Package config assembles runtime settings from .env, an optional YAML file
// and the process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigFile = "navigator.yml"

type Config struct {
	Port        string        `yaml:"port" validate:"required,numeric"`
	DBDriver    string        `yaml:"db_driver" validate:"oneof=sqlite postgres"`
	DBPath      string        `yaml:"db_path" validate:"required_if=DBDriver sqlite"`
	DatabaseURL string        `yaml:"database_url" validate:"required_if=DBDriver postgres"`
	RoutesDir   string        `yaml:"routes_dir"`
	TileURL     string        `yaml:"tile_url" validate:"required,contains={z},contains={x},contains={y}"`
	TileCache   string        `yaml:"tile_cache" validate:"oneof=sqlite redis none"`
	RedisAddr   string        `yaml:"redis_addr" validate:"required_if=TileCache redis"`
	TileTTL     time.Duration `yaml:"tile_ttl" validate:"gte=0"`
	SpeechLang  string        `yaml:"speech_lang" validate:"oneof=pt-BR en"`
	UserAgent   string        `yaml:"user_agent" validate:"required"`
}

func Defaults() Config {
	return Config{
		Port:       "8080",
		DBDriver:   "sqlite",
		DBPath:     "data/navigator.db",
		RoutesDir:  "routes",
		TileURL:    "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
		TileCache:  "sqlite",
		RedisAddr:  "localhost:6379",
		TileTTL:    720 * time.Hour,
		SpeechLang: "pt-BR",
		UserAgent:  "gpx-navigation-service/1.0",
	}
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads .env (if present), then the YAML file named by NAV_CONFIG, then
// environment overrides, and validates the result.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := Defaults()

	path := Get("NAV_CONFIG", defaultConfigFile)
	if err := loadFile(path, &cfg); err != nil {
		return Config{}, err
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.Port = Get("PORT", cfg.Port)
	cfg.DBDriver = Get("DB_DRIVER", cfg.DBDriver)
	cfg.DBPath = Get("DB_PATH", cfg.DBPath)
	cfg.DatabaseURL = Get("DATABASE_URL", cfg.DatabaseURL)
	cfg.RoutesDir = Get("ROUTES_DIR", cfg.RoutesDir)
	cfg.TileURL = Get("TILE_URL", cfg.TileURL)
	cfg.TileCache = Get("TILE_CACHE", cfg.TileCache)
	cfg.RedisAddr = Get("REDIS_ADDR", cfg.RedisAddr)
	cfg.SpeechLang = Get("SPEECH_LANG", cfg.SpeechLang)
	cfg.UserAgent = Get("USER_AGENT", cfg.UserAgent)

	if v := os.Getenv("TILE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: TILE_TTL %q: %w", v, err)
		}
		cfg.TileTTL = ttl
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}
