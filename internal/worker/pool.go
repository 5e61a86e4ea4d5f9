package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/genepreston69/uplift-frame/internal/logging"
	"github.com/genepreston69/uplift-frame/internal/repository"
)

// Pool drains the finalize queue and writes session end states to
// Postgres. Jobs get a few attempts; after that they are dropped with
// an error log rather than wedging the queue, since the resident-facing
// session has long since ended.
type Pool struct {
	redis       *redis.Client
	sessions    *repository.SessionRepo
	workerCount int
	logger      zerolog.Logger
	stopChan    chan struct{}
}

func NewPool(redisClient *redis.Client, sessions *repository.SessionRepo, workerCount int, logger zerolog.Logger) *Pool {
	return &Pool{
		redis:       redisClient,
		sessions:    sessions,
		workerCount: workerCount,
		logger:      logger.With().Str(logging.FieldComponent, "finalize-worker").Logger(),
		stopChan:    make(chan struct{}),
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		go p.worker(i)
	}
	p.logger.Info().Int("workers", p.workerCount).Msg("finalize flush workers started")
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int) {
	for {
		select {
		case <-p.stopChan:
			return
		default:
		}

		ctx := context.Background()

		result, err := p.redis.BRPop(ctx, 5*time.Second, finalizeQueue).Result()
		if err != nil {
			continue // timeout or transient error, poll again
		}
		if len(result) < 2 {
			continue
		}

		var job finalizeJob
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			p.logger.Error().Err(err).Int("worker", id).Msg("failed to parse finalize job")
			continue
		}

		if err := p.sessions.FinalizeSession(ctx, job.FinalizeParams); err == nil {
			continue
		} else {
			job.Attempts++
			if job.Attempts >= maxAttempts {
				p.logger.Error().
					Err(err).
					Str(logging.FieldSessionID, job.ID.String()).
					Int("attempts", job.Attempts).
					Msg("dropping finalize job after repeated failures")
				continue
			}

			p.logger.Warn().
				Err(err).
				Str(logging.FieldSessionID, job.ID.String()).
				Int("attempts", job.Attempts).
				Msg("finalize flush failed, requeueing")

			payload, merr := json.Marshal(job)
			if merr != nil {
				p.logger.Error().Err(merr).Msg("failed to re-encode finalize job")
				continue
			}
			if perr := p.redis.LPush(ctx, finalizeQueue, payload).Err(); perr != nil {
				p.logger.Error().
					Err(perr).
					Str(logging.FieldSessionID, job.ID.String()).
					Msg("failed to requeue finalize job")
			}
		}
	}
}
