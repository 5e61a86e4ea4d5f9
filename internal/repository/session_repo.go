package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/genepreston69/uplift-frame/internal/models"
	"github.com/genepreston69/uplift-frame/internal/session"
)

// SessionRepo persists session rows. It satisfies session.Store with
// direct writes; production wiring routes FinalizeSession through the
// redis queue instead (worker.QueuedStore) and the flush worker calls
// back into this repo.
type SessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

func (r *SessionRepo) CreateSession(ctx context.Context) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		INSERT INTO sessions DEFAULT VALUES
		RETURNING id
	`).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create session: %w", err)
	}
	return id, nil
}

// FinalizeSession writes the end state exactly once; a second write for
// the same id is a no-op thanks to the end_time guard.
func (r *SessionRepo) FinalizeSession(ctx context.Context, p session.FinalizeParams) error {
	logJSON, err := json.Marshal(p.ActivityLog)
	if err != nil {
		return fmt.Errorf("failed to encode activity log: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		UPDATE sessions
		SET end_time = $2,
			duration = $3,
			activity_log = $4
		WHERE id = $1
		  AND end_time IS NULL
	`, p.ID, p.EndTime, p.DurationSeconds, logJSON)
	if err != nil {
		return fmt.Errorf("failed to finalize session %s: %w", p.ID, err)
	}
	return nil
}

func (r *SessionRepo) List(ctx context.Context, limit, offset int) ([]*models.Session, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, start_time, end_time, duration, COALESCE(activity_log, '[]'::jsonb), created_at
		FROM sessions
		ORDER BY start_time DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		s := &models.Session{}
		var logJSON []byte
		if err := rows.Scan(&s.ID, &s.StartTime, &s.EndTime, &s.Duration, &logJSON, &s.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan session: %w", err)
		}
		if err := json.Unmarshal(logJSON, &s.ActivityLog); err != nil {
			return nil, 0, fmt.Errorf("failed to decode activity log for session %s: %w", s.ID, err)
		}
		sessions = append(sessions, s)
	}
	return sessions, total, rows.Err()
}

// SweepAbandoned closes session rows that never got a finalize flush,
// typically because a kiosk lost power mid-session. Duration falls back
// to the wall-clock span capped at 12 hours.
func (r *SessionRepo) SweepAbandoned(ctx context.Context, olderThan time.Duration) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE sessions
		SET end_time = NOW(),
			duration = GREATEST(0, LEAST(43200, EXTRACT(EPOCH FROM (NOW() - start_time))::INT))
		WHERE end_time IS NULL
		  AND start_time < NOW() - make_interval(secs => $1)
	`, olderThan.Seconds())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep abandoned sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
