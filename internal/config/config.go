// Package config loads server settings from the environment.
//
// Values come from (highest precedence first):
//   - process environment, ALPHABET_ prefix (ALPHABET_PORT, ALPHABET_DB_PATH, ...)
//   - a .env file in the working directory, if present
//   - defaults below
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "ALPHABET"

// Config holds all server configuration.
type Config struct {
	Port           int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel       string `mapstructure:"log_level" validate:"required,oneof=trace debug info warn error fatal"`
	DBPath         string `mapstructure:"db_path" validate:"required"`
	JWTSecret      string `mapstructure:"jwt_secret" validate:"required,min=16"`
	JWTExpiresDays int    `mapstructure:"jwt_expires_days" validate:"gt=0"`
	CookieName     string `mapstructure:"cookie_name" validate:"required"`
	CookieSecure   bool   `mapstructure:"cookie_secure"`
	ClientOrigin   string `mapstructure:"client_origin" validate:"required,url"`
	GridSize       int    `mapstructure:"grid_size" validate:"gte=1,lte=64"`
	MaxAttempts    int    `mapstructure:"max_attempts" validate:"gte=1,lte=20"`
	Seed           bool   `mapstructure:"seed"` // load bundled languages into an empty catalog
	// WordsDir holds optional <code>.txt word lists imported at startup.
	WordsDir    string        `mapstructure:"words_dir"`
	SessionIdle time.Duration `mapstructure:"session_idle" validate:"gte=1m"`
	DailySalt   string        `mapstructure:"daily_salt" validate:"required"`
}

var defaults = map[string]any{
	"port":             5175,
	"log_level":        "info",
	"db_path":          "./data/alphabet.db",
	"jwt_secret":       "dev_secret_change_me",
	"jwt_expires_days": 14,
	"cookie_name":      "alphabet_token",
	"cookie_secure":    false,
	"client_origin":    "http://localhost:5173",
	"grid_size":        12,
	"max_attempts":     5,
	"seed":             true,
	"words_dir":        "",
	"session_idle":     "2h",
	"daily_salt":       "local_dev_salt",
}

// Load reads .env (if any), then the environment, applies defaults and validates.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, val := range defaults {
		v.SetDefault(key, val)
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Addr returns the listen address for Port.
func (c *Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }
