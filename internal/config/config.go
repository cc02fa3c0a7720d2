// Package config reads server settings from the environment.
package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
)

// Config holds every tunable of the portfolio server.
type Config struct {
	Port    string `env:"PORT"     envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"debug"`

	DBPath         string        `env:"PORTFOLIO_DB_PATH"         envDefault:"data/portfolio.db"`
	TrackVisitors  bool          `env:"PORTFOLIO_TRACK_VISITORS"  envDefault:"true"`
	VisitRetention time.Duration `env:"PORTFOLIO_VISIT_RETENTION" envDefault:"8760h"`

	AdminUsername string `env:"ADMIN_USERNAME"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	LoadingDelay    time.Duration `env:"PORTFOLIO_LOADING_DELAY"     envDefault:"2s"`
	ClockInterval   time.Duration `env:"PORTFOLIO_CLOCK_INTERVAL"    envDefault:"1s"`
	ViewIdleTimeout time.Duration `env:"PORTFOLIO_VIEW_IDLE_TIMEOUT" envDefault:"30m"`
	ViewMountGrace  time.Duration `env:"PORTFOLIO_VIEW_MOUNT_GRACE"  envDefault:"1m"`
	Timezone        string        `env:"PORTFOLIO_TIMEZONE"`

	ParticleCount int           `env:"PORTFOLIO_PARTICLE_COUNT" envDefault:"100"`
	FrameInterval time.Duration `env:"PORTFOLIO_FRAME_INTERVAL" envDefault:"33ms"`
}

// Load parses the environment, fills development defaults for admin
// credentials and checks ranges.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.AdminUsername == "" {
		cfg.AdminUsername = defaultAdminUsername
		log.Println("WARNING: Using default admin username. Set ADMIN_USERNAME environment variable.")
	}
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = defaultAdminPassword
		log.Println("WARNING: Using default admin password. Set ADMIN_PASSWORD environment variable.")
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: GIN_MODE must be debug, release or test, got %q", c.GinMode)
	}
	if c.ParticleCount <= 0 {
		return fmt.Errorf("config: PORTFOLIO_PARTICLE_COUNT must be positive, got %d", c.ParticleCount)
	}
	for name, d := range map[string]time.Duration{
		"PORTFOLIO_LOADING_DELAY":     c.LoadingDelay,
		"PORTFOLIO_CLOCK_INTERVAL":    c.ClockInterval,
		"PORTFOLIO_FRAME_INTERVAL":    c.FrameInterval,
		"PORTFOLIO_VIEW_IDLE_TIMEOUT": c.ViewIdleTimeout,
		"PORTFOLIO_VIEW_MOUNT_GRACE":  c.ViewMountGrace,
		"PORTFOLIO_VISIT_RETENTION":   c.VisitRetention,
	} {
		if d <= 0 {
			return fmt.Errorf("config: %s must be positive, got %s", name, d)
		}
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone; empty means the host's local time.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
