// Package config loads CLI and daemon configuration from environment
// variables, an optional .env file, and an optional YAML config file.
// Environment variables use the CARTSYNC_ prefix and win over file values.
package config

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/cartsync/cartsync/pkg/errors"
)

// Config is the assembled configuration for a cartsync session.
type Config struct {
	Username    string `mapstructure:"username" validate:"required"`
	Password    string `mapstructure:"password" validate:"required"`
	BaseURL     string `mapstructure:"base_url" validate:"omitempty,url"`
	List        string `mapstructure:"list"`
	Locale      string `mapstructure:"locale"`
	StoragePath string `mapstructure:"storage"`
	Output      string `mapstructure:"output" validate:"omitempty,oneof=table json yaml"`

	SyncInterval time.Duration `mapstructure:"sync_interval" validate:"omitempty,min=0"`
}

// Load assembles a Config. The precedence order is environment variables,
// then the config file, then built-in defaults. A .env file in the working
// directory is folded into the environment if present. Passing an explicit
// configFile makes that file required; otherwise config.yaml is searched in
// the working directory and ~/.cartsync and is optional.
func Load(configFile string) (*Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CARTSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("username", "")
	v.SetDefault("password", "")
	v.SetDefault("base_url", "")
	v.SetDefault("list", "")
	v.SetDefault("locale", "")
	v.SetDefault("storage", "")
	v.SetDefault("output", "table")
	v.SetDefault("sync_interval", time.Duration(0))

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "reading config file", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.cartsync")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, errors.NewConfigError("config", "reading config file", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.NewConfigError("config", "unmarshaling configuration", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the assembled configuration against its constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.NewConfigError("config", "invalid configuration", err)
	}
	return nil
}
