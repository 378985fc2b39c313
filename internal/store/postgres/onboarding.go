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

// OnboardingRunRepo persists onboarding runs as an audit trail. The full step
// list is stored as a JSONB document; runs are small and read back whole.
type OnboardingRunRepo struct {
	pool *pgxpool.Pool
}

func NewOnboardingRunRepo(pool *pgxpool.Pool) *OnboardingRunRepo {
	return &OnboardingRunRepo{pool: pool}
}

func (r *OnboardingRunRepo) Create(ctx context.Context, p *domain.OnboardingProgress) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO onboarding_runs (run_id, org_id, current_step, total_steps, status,
		     steps, errors, started_at, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.RunID, p.OrgID, p.CurrentStep, p.TotalSteps, p.Status,
		p.Steps, p.Errors, p.StartedAt, p.CompletedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("onboardingRunRepo.Create: run %s: %w", p.RunID, domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("onboardingRunRepo.Create: %w", err)
	}

	return nil
}

func (r *OnboardingRunRepo) Update(ctx context.Context, p *domain.OnboardingProgress) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE onboarding_runs
		 SET org_id = $1, current_step = $2, status = $3, steps = $4,
		     errors = $5, completed_at = $6
		 WHERE run_id = $7`,
		p.OrgID, p.CurrentStep, p.Status, p.Steps, p.Errors, p.CompletedAt, p.RunID,
	)
	if err != nil {
		return fmt.Errorf("onboardingRunRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("onboardingRunRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *OnboardingRunRepo) GetByID(ctx context.Context, runID uuid.UUID) (*domain.OnboardingProgress, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT run_id, org_id, current_step, total_steps, status, steps, errors,
		     started_at, completed_at
		 FROM onboarding_runs WHERE run_id = $1`, runID)

	p, err := scanRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("onboardingRunRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("onboardingRunRepo.GetByID: %w", err)
	}

	return p, nil
}

func (r *OnboardingRunRepo) GetLatestByOrg(ctx context.Context, orgID uuid.UUID) (*domain.OnboardingProgress, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT run_id, org_id, current_step, total_steps, status, steps, errors,
		     started_at, completed_at
		 FROM onboarding_runs WHERE org_id = $1
		 ORDER BY started_at DESC LIMIT 1`, orgID)

	p, err := scanRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("onboardingRunRepo.GetLatestByOrg: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("onboardingRunRepo.GetLatestByOrg: %w", err)
	}

	return p, nil
}

func scanRun(row pgx.Row) (*domain.OnboardingProgress, error) {
	var p domain.OnboardingProgress
	err := row.Scan(
		&p.RunID, &p.OrgID, &p.CurrentStep, &p.TotalSteps, &p.Status,
		&p.Steps, &p.Errors, &p.StartedAt, &p.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
