package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/genepreston69/uplift-frame/internal/repository"
	"github.com/genepreston69/uplift-frame/internal/session"
)

const (
	finalizeQueue = "queue:session-finalize"
	maxAttempts   = 3
)

type finalizeJob struct {
	session.FinalizeParams
	Attempts int `json:"attempts"`
}

// QueuedStore is the production session.Store: creates go straight to
// Postgres, finalizes are enqueued to redis and flushed by the Pool.
// Enqueueing keeps the finalize path fast and tolerant of database
// hiccups at the moment a session ends.
type QueuedStore struct {
	sessions *repository.SessionRepo
	redis    *redis.Client
}

func NewQueuedStore(sessions *repository.SessionRepo, redisClient *redis.Client) *QueuedStore {
	return &QueuedStore{sessions: sessions, redis: redisClient}
}

func (s *QueuedStore) CreateSession(ctx context.Context) (uuid.UUID, error) {
	return s.sessions.CreateSession(ctx)
}

func (s *QueuedStore) FinalizeSession(ctx context.Context, p session.FinalizeParams) error {
	payload, err := json.Marshal(finalizeJob{FinalizeParams: p})
	if err != nil {
		return fmt.Errorf("failed to encode finalize job: %w", err)
	}
	if err := s.redis.LPush(ctx, finalizeQueue, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue finalize job: %w", err)
	}
	return nil
}
