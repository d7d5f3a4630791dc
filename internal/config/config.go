// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor
// principles; a local .env file is honored when present.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Base URL short links are minted under (e.g. https://m.tiktoker.win)
	ShortBaseURL string `env:"SHORT_BASE_URL" envDefault:"https://m.tiktoker.win"`

	// Upstream endpoints. DetailURL and MusicURL are Sprintf templates taking
	// the numeric id; PlaybackURL takes the rendition source URI.
	DetailURL   string `env:"UPSTREAM_DETAIL_URL" envDefault:"https://api2.musical.ly/aweme/v1/aweme/detail/?aweme_id=%d"`
	MusicURL    string `env:"UPSTREAM_MUSIC_URL" envDefault:"https://tiktok.com/api/music/detail/?language=en&musicId=%d"`
	PlaybackURL string `env:"UPSTREAM_PLAYBACK_URL" envDefault:"https://api2.musical.ly/aweme/v1/play/?video_id=%s&line=0&ratio=720p"`

	// Upstream request timeouts
	FetchTimeout    time.Duration `env:"FETCH_TIMEOUT" envDefault:"5s"`
	RedirectTimeout time.Duration `env:"REDIRECT_TIMEOUT" envDefault:"5s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load parses environment variables and returns a Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
