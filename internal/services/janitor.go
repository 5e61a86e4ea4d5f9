package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/genepreston69/uplift-frame/internal/logging"
	"github.com/genepreston69/uplift-frame/internal/repository"
)

const (
	janitorPollInterval = 1 * time.Hour
	abandonedAfter      = 24 * time.Hour
)

// Janitor closes session rows whose finalize flush never arrived, which
// happens when a kiosk loses power or the network mid-session. Those
// rows would otherwise sit open forever with no end_time.
type Janitor struct {
	sessions *repository.SessionRepo
	logger   zerolog.Logger
	stopChan chan struct{}
}

func NewJanitor(sessions *repository.SessionRepo, logger zerolog.Logger) *Janitor {
	return &Janitor{
		sessions: sessions,
		logger:   logger.With().Str(logging.FieldComponent, "janitor").Logger(),
		stopChan: make(chan struct{}),
	}
}

func (j *Janitor) Start() {
	go j.loop()
	j.logger.Info().Msg("session janitor started")
}

func (j *Janitor) Stop() {
	select {
	case <-j.stopChan:
		return
	default:
		close(j.stopChan)
	}
}

func (j *Janitor) loop() {
	// Sweep on startup as well as by interval.
	j.sweep(context.Background())

	ticker := time.NewTicker(janitorPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-j.stopChan:
			return
		case <-ticker.C:
			j.sweep(context.Background())
		}
	}
}

func (j *Janitor) sweep(ctx context.Context) {
	n, err := j.sessions.SweepAbandoned(ctx, abandonedAfter)
	if err != nil {
		j.logger.Error().Err(err).Msg("abandoned session sweep failed")
		return
	}
	if n > 0 {
		j.logger.Info().Int64("sessions", n).Msg("closed abandoned sessions")
	}
}
