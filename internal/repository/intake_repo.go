package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/genepreston69/uplift-frame/internal/models"
)

type IntakeRepo struct {
	pool *pgxpool.Pool
}

func NewIntakeRepo(pool *pgxpool.Pool) *IntakeRepo {
	return &IntakeRepo{pool: pool}
}

func (r *IntakeRepo) Create(ctx context.Context, s *models.IntakeSubmission) error {
	if len(s.FormData) == 0 {
		s.FormData = json.RawMessage("{}")
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO intake_submissions (
			session_id, reference_number,
			first_name, last_name, date_of_birth, phone, email,
			address, city, state, zip_code,
			emergency_contact_name, emergency_contact_phone, emergency_contact_relationship,
			referral_source, form_data
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at
	`,
		s.SessionID, s.ReferenceNumber,
		s.FirstName, s.LastName, s.DateOfBirth, s.Phone, s.Email,
		s.Address, s.City, s.State, s.ZipCode,
		s.EmergencyContactName, s.EmergencyContactPhone, s.EmergencyContactRelation,
		s.ReferralSource, s.FormData,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create intake submission: %w", err)
	}
	return nil
}

func (r *IntakeRepo) List(ctx context.Context, limit, offset int) ([]*models.IntakeSubmission, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM intake_submissions`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count intake submissions: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, session_id, reference_number,
			first_name, last_name, date_of_birth, phone, email,
			address, city, state, zip_code,
			emergency_contact_name, emergency_contact_phone, emergency_contact_relationship,
			referral_source, form_data, created_at, updated_at
		FROM intake_submissions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list intake submissions: %w", err)
	}
	defer rows.Close()

	var submissions []*models.IntakeSubmission
	for rows.Next() {
		s := &models.IntakeSubmission{}
		err := rows.Scan(
			&s.ID, &s.SessionID, &s.ReferenceNumber,
			&s.FirstName, &s.LastName, &s.DateOfBirth, &s.Phone, &s.Email,
			&s.Address, &s.City, &s.State, &s.ZipCode,
			&s.EmergencyContactName, &s.EmergencyContactPhone, &s.EmergencyContactRelation,
			&s.ReferralSource, &s.FormData, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan intake submission: %w", err)
		}
		submissions = append(submissions, s)
	}
	return submissions, total, rows.Err()
}
