package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string `env:"PORT" envDefault:"8080"`
	Env  string `env:"ENV" envDefault:"development"`

	// Datastores
	DatabaseURL string `env:"DATABASE_URL,required"`
	RedisURL    string `env:"REDIS_URL,required"`

	// Admin access
	AdminPassphraseHash string        `env:"ADMIN_PASSPHRASE_HASH,required"`
	AdminJWTSecret      string        `env:"ADMIN_JWT_SECRET,required"`
	AdminTokenTTL       time.Duration `env:"ADMIN_TOKEN_TTL" envDefault:"1h"`

	// Session lifecycle
	SessionDuration time.Duration `env:"SESSION_DURATION" envDefault:"30m"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"10m"`
	TickInterval    time.Duration `env:"TICK_INTERVAL" envDefault:"1s"`

	// Finalize flush workers
	FinalizeWorkers int `env:"FINALIZE_WORKERS" envDefault:"2"`

	// Frontend
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces the timer configuration invariants. The idle threshold
// must be strictly shorter than the session duration, otherwise idle expiry
// could never fire before the session budget runs out.
func (c *Config) Validate() error {
	if c.SessionDuration <= 0 {
		return fmt.Errorf("SESSION_DURATION must be positive, got %s", c.SessionDuration)
	}
	if c.IdleTimeout <= 0 {
		return fmt.Errorf("IDLE_TIMEOUT must be positive, got %s", c.IdleTimeout)
	}
	if c.IdleTimeout >= c.SessionDuration {
		return fmt.Errorf("IDLE_TIMEOUT (%s) must be shorter than SESSION_DURATION (%s)", c.IdleTimeout, c.SessionDuration)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("TICK_INTERVAL must be positive, got %s", c.TickInterval)
	}
	if c.FinalizeWorkers <= 0 {
		return fmt.Errorf("FINALIZE_WORKERS must be positive, got %d", c.FinalizeWorkers)
	}
	return nil
}
