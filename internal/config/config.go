// Package config loads verbiage settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ZaguanLabs/verbiage"
	"github.com/caarlos0/env/v11"
)

// Config holds settings shared by the CLI and examples. Command-line flags
// override these values.
type Config struct {
	BaseURL      string        `env:"VERBIAGE_BASE_URL"`
	Locales      []string      `env:"VERBIAGE_LOCALES" envSeparator:","`
	Tag          string        `env:"VERBIAGE_TAG"`
	Store        string        `env:"VERBIAGE_STORE"`
	KeyPrefix    string        `env:"VERBIAGE_KEY_PREFIX" envDefault:"verbiage:"`
	Timeout      time.Duration `env:"VERBIAGE_TIMEOUT" envDefault:"30s"`
	NotifyRedis  string        `env:"VERBIAGE_NOTIFY_REDIS"`
	NotifyStream string        `env:"VERBIAGE_NOTIFY_STREAM" envDefault:"verbiage:events"`
	Verbose      bool          `env:"VERBIAGE_VERBOSE"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the environment and fills derived defaults.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Store == "" {
		cfg.Store = DefaultStore()
	}
	return cfg, nil
}

// LocaleSet returns the configured locales, or the library defaults when
// none are set.
func (c Config) LocaleSet() verbiage.LocaleSet {
	var set verbiage.LocaleSet
	for _, l := range c.Locales {
		if l != "" {
			set = append(set, l)
		}
	}
	if len(set) == 0 {
		return append(verbiage.LocaleSet(nil), verbiage.DefaultLocales...)
	}
	return set
}

// DefaultStore returns a bbolt DSN under the user cache directory, falling
// back to the working directory.
func DefaultStore() string {
	dir, err := os.UserCacheDir()
	if err != nil || dir == "" {
		return "bolt://verbiage.db"
	}
	return "bolt://" + filepath.Join(dir, "verbiage", "cache.db")
}
