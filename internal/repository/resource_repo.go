package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/genepreston69/uplift-frame/internal/models"
)

// ErrNotFound is returned by lookups for rows that do not exist.
var ErrNotFound = errors.New("not found")

type ResourceRepo struct {
	pool *pgxpool.Pool
}

func NewResourceRepo(pool *pgxpool.Pool) *ResourceRepo {
	return &ResourceRepo{pool: pool}
}

// List returns the catalog ordered by category then title, optionally
// narrowed by category and a free-text search over title, description
// and category.
func (r *ResourceRepo) List(ctx context.Context, category, search string) ([]*models.Resource, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, category, title, description, url, file_url, guide_text, created_at, updated_at
		FROM resources
		WHERE ($1 = '' OR category = $1)
		  AND ($2 = '' OR title ILIKE '%' || $2 || '%'
			OR description ILIKE '%' || $2 || '%'
			OR category ILIKE '%' || $2 || '%')
		ORDER BY category ASC, title ASC
	`, category, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	defer rows.Close()

	var resources []*models.Resource
	for rows.Next() {
		res := &models.Resource{}
		if err := rows.Scan(&res.ID, &res.Category, &res.Title, &res.Description, &res.URL, &res.FileURL, &res.GuideText, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		resources = append(resources, res)
	}
	return resources, rows.Err()
}

func (r *ResourceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Resource, error) {
	res := &models.Resource{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, category, title, description, url, file_url, guide_text, created_at, updated_at
		FROM resources
		WHERE id = $1
	`, id).Scan(&res.ID, &res.Category, &res.Title, &res.Description, &res.URL, &res.FileURL, &res.GuideText, &res.CreatedAt, &res.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get resource %s: %w", id, err)
	}
	return res, nil
}

func (r *ResourceRepo) Create(ctx context.Context, res *models.Resource) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO resources (category, title, description, url, file_url, guide_text)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, res.Category, res.Title, res.Description, res.URL, res.FileURL, res.GuideText).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}
	return nil
}

func (r *ResourceRepo) Update(ctx context.Context, res *models.Resource) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE resources
		SET category = $2, title = $3, description = $4, url = $5, file_url = $6, guide_text = $7,
			updated_at = NOW()
		WHERE id = $1
	`, res.ID, res.Category, res.Title, res.Description, res.URL, res.FileURL, res.GuideText)
	if err != nil {
		return fmt.Errorf("failed to update resource %s: %w", res.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ResourceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete resource %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
