// Package config loads runtime settings from the environment.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
)

// Config holds every setting the CLI and server read from PLUGCHECK_* variables.
// Command-line flags default to these values.
type Config struct {
	LogLevel        string        `env:"PLUGCHECK_LOG_LEVEL"        envDefault:"info"`
	LogFormat       string        `env:"PLUGCHECK_LOG_FORMAT"       envDefault:"json"`
	HostName        string        `env:"PLUGCHECK_HOST_NAME"        envDefault:"host"`
	DBPath          string        `env:"PLUGCHECK_DB"`
	InventoryPath   string        `env:"PLUGCHECK_INVENTORY"`
	Addr            string        `env:"PLUGCHECK_ADDR"             envDefault:":8080"`
	CacheTTL        time.Duration `env:"PLUGCHECK_CACHE_TTL"        envDefault:"1m"`
	RefreshSchedule string        `env:"PLUGCHECK_REFRESH_SCHEDULE" envDefault:"@every 5m"`
}

// Load parses the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}

	return cfg, nil
}

// LoadFrom parses environ instead of the process environment.
func LoadFrom(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}

	return cfg, nil
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	if c.CacheTTL < 0 {
		return errors.Newf("cache TTL must not be negative, got %s", c.CacheTTL)
	}

	if c.DBPath != "" && c.InventoryPath != "" {
		return errors.New("inventory file and database are mutually exclusive")
	}

	return nil
}
