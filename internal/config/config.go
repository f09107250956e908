package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Game      GameConfig
	Archive   ArchiveConfig
	Narration NarrationConfig
	Logging   LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
	Host string `env:"HOST" envDefault:"0.0.0.0"`
	Env  string `env:"ENV" envDefault:"development"`
}

// GameConfig holds story engine configuration
type GameConfig struct {
	// WaitlistTiers are population thresholds; an accepted submitter
	// waits one extra submission per threshold the current population
	// meets.
	WaitlistTiers []int `env:"WAITLIST_TIERS" envSeparator:"," envDefault:"4,8,12"`

	// TitleDuration is how long eligible titlers have before the
	// partial title is finalized.
	TitleDuration time.Duration `env:"TITLE_DURATION" envDefault:"30s"`

	// IdentityMaxIdle is how long a disconnected identity slot is
	// reserved for its origin address before being purged.
	IdentityMaxIdle time.Duration `env:"IDENTITY_MAX_IDLE" envDefault:"6h"`

	// IdentityPurgeInterval is how often expired identity slots are
	// swept.
	IdentityPurgeInterval time.Duration `env:"IDENTITY_PURGE_INTERVAL" envDefault:"1h"`
}

// ArchiveConfig holds the external story archive collaborator settings
type ArchiveConfig struct {
	BaseURL    string        `env:"ARCHIVE_BASE_URL" envDefault:"http://localhost:4000"`
	RetryDelay time.Duration `env:"ARCHIVE_RETRY_DELAY" envDefault:"10s"`

	// MaxRetries caps archive submission attempts. 0 retries forever,
	// matching the original behavior; the cap exists because unbounded
	// retry can stall story rotation when the archive is down.
	MaxRetries uint64 `env:"ARCHIVE_MAX_RETRIES" envDefault:"0"`
}

// NarrationConfig holds text-to-speech collaborator settings
type NarrationConfig struct {
	BaseURL string `env:"NARRATION_BASE_URL" envDefault:"http://localhost:5500"`

	// Voices is the weighted narrator pool as name:weight pairs.
	Voices []string `env:"NARRATION_VOICES" envSeparator:"," envDefault:"en_US-ryan:3,en_GB-alan:2,en_US-amy:2,en_GB-jenny:1"`

	// ClipBuffer is the pause inserted between the title clip and the
	// story clip.
	ClipBuffer time.Duration `env:"NARRATION_CLIP_BUFFER" envDefault:"2s"`

	// MaxPresentation clamps the total cooldown presentation window.
	MaxPresentation time.Duration `env:"NARRATION_MAX_PRESENTATION" envDefault:"60s"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"` // "json" or "text"
}

// Load parses configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}
