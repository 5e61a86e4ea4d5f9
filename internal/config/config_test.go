package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Port:                "8080",
		DatabaseURL:         "postgres://localhost/uplift",
		RedisURL:            "redis://localhost:6379",
		AdminPassphraseHash: "$2a$10$abcdefghijklmnopqrstuv",
		AdminJWTSecret:      "secret",
		AdminTokenTTL:       time.Hour,
		SessionDuration:     30 * time.Minute,
		IdleTimeout:         10 * time.Minute,
		TickInterval:        time.Second,
		FinalizeWorkers:     2,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"zero session duration", func(c *Config) { c.SessionDuration = 0 }, true},
		{"zero idle timeout", func(c *Config) { c.IdleTimeout = 0 }, true},
		{"idle equals duration", func(c *Config) { c.IdleTimeout = c.SessionDuration }, true},
		{"idle exceeds duration", func(c *Config) { c.IdleTimeout = c.SessionDuration + time.Minute }, true},
		{"zero tick interval", func(c *Config) { c.TickInterval = 0 }, true},
		{"zero finalize workers", func(c *Config) { c.FinalizeWorkers = 0 }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Errorf("Expected validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}
