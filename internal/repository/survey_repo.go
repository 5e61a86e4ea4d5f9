package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/genepreston69/uplift-frame/internal/models"
)

type SurveyRepo struct {
	pool *pgxpool.Pool
}

func NewSurveyRepo(pool *pgxpool.Pool) *SurveyRepo {
	return &SurveyRepo{pool: pool}
}

func (r *SurveyRepo) Create(ctx context.Context, s *models.SurveyResponse) error {
	if len(s.Responses) == 0 {
		s.Responses = json.RawMessage("{}")
	}
	if len(s.OpenFeedback) == 0 {
		s.OpenFeedback = json.RawMessage("{}")
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO survey_responses (session_id, reference_number, location, tenure, responses, open_feedback)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, s.SessionID, s.ReferenceNumber, s.Location, s.Tenure, s.Responses, s.OpenFeedback).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create survey response: %w", err)
	}
	return nil
}

func (r *SurveyRepo) List(ctx context.Context, limit, offset int) ([]*models.SurveyResponse, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM survey_responses`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count survey responses: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, session_id, reference_number, location, tenure, responses, open_feedback, created_at
		FROM survey_responses
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list survey responses: %w", err)
	}
	defer rows.Close()

	var responses []*models.SurveyResponse
	for rows.Next() {
		s := &models.SurveyResponse{}
		if err := rows.Scan(&s.ID, &s.SessionID, &s.ReferenceNumber, &s.Location, &s.Tenure, &s.Responses, &s.OpenFeedback, &s.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan survey response: %w", err)
		}
		responses = append(responses, s)
	}
	return responses, total, rows.Err()
}
