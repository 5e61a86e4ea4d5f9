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

type ExternalLinkRepo struct {
	pool *pgxpool.Pool
}

func NewExternalLinkRepo(pool *pgxpool.Pool) *ExternalLinkRepo {
	return &ExternalLinkRepo{pool: pool}
}

func (r *ExternalLinkRepo) List(ctx context.Context, category string) ([]*models.ExternalLink, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, category, title, description, url, guide_text, created_at, updated_at
		FROM external_links
		WHERE ($1 = '' OR category = $1)
		ORDER BY category ASC, title ASC
	`, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list external links: %w", err)
	}
	defer rows.Close()

	var links []*models.ExternalLink
	for rows.Next() {
		link := &models.ExternalLink{}
		if err := rows.Scan(&link.ID, &link.Category, &link.Title, &link.Description, &link.URL, &link.GuideText, &link.CreatedAt, &link.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan external link: %w", err)
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func (r *ExternalLinkRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ExternalLink, error) {
	link := &models.ExternalLink{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, category, title, description, url, guide_text, created_at, updated_at
		FROM external_links
		WHERE id = $1
	`, id).Scan(&link.ID, &link.Category, &link.Title, &link.Description, &link.URL, &link.GuideText, &link.CreatedAt, &link.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get external link %s: %w", id, err)
	}
	return link, nil
}

func (r *ExternalLinkRepo) Create(ctx context.Context, link *models.ExternalLink) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO external_links (category, title, description, url, guide_text)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, link.Category, link.Title, link.Description, link.URL, link.GuideText).Scan(&link.ID, &link.CreatedAt, &link.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create external link: %w", err)
	}
	return nil
}

func (r *ExternalLinkRepo) Update(ctx context.Context, link *models.ExternalLink) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE external_links
		SET category = $2, title = $3, description = $4, url = $5, guide_text = $6,
			updated_at = NOW()
		WHERE id = $1
	`, link.ID, link.Category, link.Title, link.Description, link.URL, link.GuideText)
	if err != nil {
		return fmt.Errorf("failed to update external link %s: %w", link.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ExternalLinkRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM external_links WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete external link %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
