package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/genepreston69/uplift-frame/internal/models"
)

type SubmissionRepo struct {
	pool *pgxpool.Pool
}

func NewSubmissionRepo(pool *pgxpool.Pool) *SubmissionRepo {
	return &SubmissionRepo{pool: pool}
}

func (r *SubmissionRepo) Create(ctx context.Context, s *models.Submission) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO submissions (session_id, type, reference_number, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, s.SessionID, s.Type, s.ReferenceNumber, s.Content).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

// List returns submissions newest first, optionally filtered by type.
func (r *SubmissionRepo) List(ctx context.Context, submissionType string, limit, offset int) ([]*models.Submission, int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM submissions
		WHERE ($1 = '' OR type = $1)
	`, submissionType).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, session_id, type, reference_number, content, created_at
		FROM submissions
		WHERE ($1 = '' OR type = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, submissionType, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var submissions []*models.Submission
	for rows.Next() {
		s := &models.Submission{}
		if err := rows.Scan(&s.ID, &s.SessionID, &s.Type, &s.ReferenceNumber, &s.Content, &s.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan submission: %w", err)
		}
		submissions = append(submissions, s)
	}
	return submissions, total, rows.Err()
}
