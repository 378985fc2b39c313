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

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

func (r *ProfileRepo) Create(ctx context.Context, p *domain.ClientProfile) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO client_profiles (id, org_id, dashboard_layout, metrics, terminology, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.OrgID, p.DashboardLayout, p.Metrics, p.Terminology, p.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("profileRepo.Create: org %s: %w", p.OrgID, domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("profileRepo.Create: %w", err)
	}

	return nil
}

func (r *ProfileRepo) GetByOrg(ctx context.Context, orgID uuid.UUID) (*domain.ClientProfile, error) {
	var p domain.ClientProfile

	err := r.pool.QueryRow(ctx,
		`SELECT id, org_id, dashboard_layout, metrics, terminology, created_at
		 FROM client_profiles WHERE org_id = $1`, orgID,
	).Scan(&p.ID, &p.OrgID, &p.DashboardLayout, &p.Metrics, &p.Terminology, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("profileRepo.GetByOrg: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("profileRepo.GetByOrg: %w", err)
	}

	return &p, nil
}

func (r *ProfileRepo) Delete(ctx context.Context, orgID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM client_profiles WHERE org_id = $1`, orgID)
	if err != nil {
		return fmt.Errorf("profileRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("profileRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
