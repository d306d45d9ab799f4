package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "AUTORCTL"

// Config holds the client settings resolved from flags, environment
// variables and an optional .env file, in that order of precedence.
type Config struct {
	BaseURL  string        `mapstructure:"base_url"`
	LogLevel string        `mapstructure:"log_level"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Defaults registers defaults on v. Flags bound later override them.
func Defaults(v *viper.Viper) {
	v.SetDefault("base_url", "http://127.0.0.1:8080")
	v.SetDefault("log_level", "warn")
	v.SetDefault("timeout", time.Duration(0))
}

// BindFlags maps the persistent flags onto their config keys.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, flag := range map[string]string{
		"base_url":  "base-url",
		"log_level": "log-level",
		"timeout":   "timeout",
	} {
		if f := flags.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind flag %s: %w", flag, err)
			}
		}
	}
	return nil
}

// Load resolves the configuration. A missing .env file is not an error.
func Load(v *viper.Viper) (*Config, error) {
	_ = godotenv.Load(".env")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base_url %q: scheme must be http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base_url %q: missing host", c.BaseURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout %s (must not be negative)", c.Timeout)
	}
	return nil
}
