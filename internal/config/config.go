package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	API APIConfig `mapstructure:"api"`
	UI  UIConfig  `mapstructure:"ui"`
}

// APIConfig holds tracking-service settings.
type APIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat  string `mapstructure:"date_format"`
	DefaultSort string `mapstructure:"default_sort"`
}

// Load reads configuration from file and env. Env var overrides use
// prefix RISKWATCH_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("api.base_url", "http://127.0.0.1:5000")
	v.SetDefault("api.timeout_seconds", 15)
	v.SetDefault("ui.date_format", "02 Jan 2006 15:04")
	v.SetDefault("ui.default_sort", "student_name")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("RISKWATCH_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "riskwatch"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("RISKWATCH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
