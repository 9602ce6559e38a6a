// Package config loads the application settings from the environment, an
// optional .env file and an optional YAML config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingToken is returned by RequireBot when no bot token is configured
var ErrMissingToken = errors.New("TELEGRAM_BOT_TOKEN is not set")

// Config holds all application configuration
type Config struct {
	TelegramBotToken string `mapstructure:"telegram_bot_token"`

	DBType      string `mapstructure:"db_type" validate:"required,oneof=sqlite postgres memory"`
	DBPath      string `mapstructure:"db_path"`
	DatabaseURL string `mapstructure:"database_url" validate:"required_if=DBType postgres"`

	NotificationStartHour int           `mapstructure:"notification_start_hour" validate:"gte=0,lte=23"`
	NotificationEndHour   int           `mapstructure:"notification_end_hour" validate:"gte=0,lte=23"`
	ReminderInterval      time.Duration `mapstructure:"reminder_interval" validate:"gt=0"`

	LogLevel  string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" validate:"oneof=json text"`

	TranslateAPIURL  string        `mapstructure:"translate_api_url" validate:"required,url"`
	TranslateTimeout time.Duration `mapstructure:"translate_timeout" validate:"gt=0"`

	// Profile the CLI commands operate on
	Profile string `mapstructure:"profile" validate:"required"`
}

var defaults = map[string]any{
	"telegram_bot_token":      "",
	"db_type":                 "sqlite",
	"db_path":                 "data/voicelingo.db",
	"database_url":            "",
	"notification_start_hour": 8,
	"notification_end_hour":   22,
	"reminder_interval":       time.Hour,
	"log_level":               "info",
	"log_format":              "text",
	"translate_api_url":       "https://api.mymemory.translated.net/get",
	"translate_timeout":       10 * time.Second,
	"profile":                 "default",
}

// Load reads the configuration. Environment variables take precedence over
// the config file, which takes precedence over the defaults. A .env file in
// the working directory is loaded into the environment first if present.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the field constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// RequireBot checks the settings only the bot needs
func (c *Config) RequireBot() error {
	if c.TelegramBotToken == "" {
		return ErrMissingToken
	}
	return nil
}
