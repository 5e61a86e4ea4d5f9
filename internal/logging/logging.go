package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Canonical field names for structured logging.
const (
	FieldSessionID = "session_id"
	FieldKioskID   = "kiosk_id"
	FieldActivity  = "activity"
	FieldRequestID = "request_id"
	FieldComponent = "component"
	FieldReason    = "reason"
	FieldDomain    = "domain"
)

// New builds the root logger. Development gets human-readable console
// output, everything else gets JSON lines.
func New(env string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	var logger zerolog.Logger
	if env == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	} else {
		logger = zerolog.New(os.Stderr)
	}

	return logger.With().Timestamp().Logger()
}
