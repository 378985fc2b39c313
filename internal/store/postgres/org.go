package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fieldstack/fieldstack/internal/domain"
)

type OrgRepo struct {
	pool *pgxpool.Pool
}

func NewOrgRepo(pool *pgxpool.Pool) *OrgRepo {
	return &OrgRepo{pool: pool}
}

const orgColumns = `id, name, slug, industry, subscription_tier, is_active,
	deployment_status, max_users, max_data_points, settings, branding,
	created_at, updated_at`

func (r *OrgRepo) Create(ctx context.Context, o *domain.Organization) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO organizations (`+orgColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		o.ID, o.Name, o.Slug, o.Industry, o.SubscriptionTier, o.IsActive,
		o.DeploymentStatus, o.MaxUsers, o.MaxDataPoints, o.Settings, o.Branding,
		o.CreatedAt, o.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("orgRepo.Create: slug %q: %w", o.Slug, domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("orgRepo.Create: %w", err)
	}

	return nil
}

func (r *OrgRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+orgColumns+` FROM organizations WHERE id = $1`, id)

	o, err := scanOrg(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("orgRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("orgRepo.GetByID: %w", err)
	}

	return o, nil
}

func (r *OrgRepo) GetBySlug(ctx context.Context, slug string) (*domain.Organization, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+orgColumns+` FROM organizations WHERE slug = $1`, slug)

	o, err := scanOrg(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("orgRepo.GetBySlug: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("orgRepo.GetBySlug: %w", err)
	}

	return o, nil
}

func (r *OrgRepo) Update(ctx context.Context, o *domain.Organization) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE organizations
		 SET name = $1, industry = $2, subscription_tier = $3, is_active = $4,
		     deployment_status = $5, max_users = $6, max_data_points = $7,
		     settings = $8, branding = $9, updated_at = now()
		 WHERE id = $10`,
		o.Name, o.Industry, o.SubscriptionTier, o.IsActive,
		o.DeploymentStatus, o.MaxUsers, o.MaxDataPoints,
		o.Settings, o.Branding, o.ID,
	)
	if err != nil {
		return fmt.Errorf("orgRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("orgRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *OrgRepo) UpdateDeploymentStatus(ctx context.Context, id uuid.UUID, status domain.DeploymentStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE organizations SET deployment_status = $1, updated_at = now() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("orgRepo.UpdateDeploymentStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("orgRepo.UpdateDeploymentStatus: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *OrgRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("orgRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("orgRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *OrgRepo) List(ctx context.Context) ([]*domain.Organization, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orgColumns+` FROM organizations ORDER BY created_at LIMIT 500`)
	if err != nil {
		return nil, fmt.Errorf("orgRepo.List: %w", err)
	}
	defer rows.Close()

	var orgs []*domain.Organization
	for rows.Next() {
		o, scanErr := scanOrg(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("orgRepo.List: scan: %w", scanErr)
		}
		orgs = append(orgs, o)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("orgRepo.List: rows: %w", err)
	}

	return orgs, nil
}

func scanOrg(row pgx.Row) (*domain.Organization, error) {
	var o domain.Organization
	err := row.Scan(
		&o.ID, &o.Name, &o.Slug, &o.Industry, &o.SubscriptionTier, &o.IsActive,
		&o.DeploymentStatus, &o.MaxUsers, &o.MaxDataPoints, &o.Settings, &o.Branding,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
