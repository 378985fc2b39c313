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

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `id, email, org_id, role, permissions, is_active, profile,
	last_login_at, created_at, updated_at`

func (r *UserRepo) Upsert(ctx context.Context, u *domain.User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (id, org_id) DO UPDATE
		 SET email = EXCLUDED.email, role = EXCLUDED.role,
		     permissions = EXCLUDED.permissions, is_active = EXCLUDED.is_active,
		     profile = EXCLUDED.profile, updated_at = EXCLUDED.updated_at`,
		u.ID, u.Email, u.OrgID, u.Role, u.Permissions, u.IsActive, u.Profile,
		u.LastLoginAt, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("userRepo.Upsert: %w", err)
	}

	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*domain.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE org_id = $1 AND id = $2`,
		orgID, id)

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("userRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("userRepo.GetByID: %w", err)
	}

	return u, nil
}

func (r *UserRepo) GetByOrgAndEmail(ctx context.Context, orgID uuid.UUID, email string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE org_id = $1 AND email = $2`,
		orgID, email)

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("userRepo.GetByOrgAndEmail: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("userRepo.GetByOrgAndEmail: %w", err)
	}

	return u, nil
}

func (r *UserRepo) GetAdmin(ctx context.Context, orgID uuid.UUID) (*domain.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE org_id = $1 AND role = $2 AND is_active
		 ORDER BY created_at LIMIT 1`,
		orgID, domain.RoleAdmin)

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("userRepo.GetAdmin: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("userRepo.GetAdmin: %w", err)
	}

	return u, nil
}

func (r *UserRepo) UpdatePreferences(ctx context.Context, orgID uuid.UUID, email string, prefs domain.UserPreferences) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users
		 SET profile = jsonb_set(profile, '{preferences}', $1), updated_at = now()
		 WHERE org_id = $2 AND email = $3`,
		prefs, orgID, email,
	)
	if err != nil {
		return fmt.Errorf("userRepo.UpdatePreferences: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("userRepo.UpdatePreferences: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *UserRepo) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*domain.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE org_id = $1 ORDER BY created_at`,
		orgID)
	if err != nil {
		return nil, fmt.Errorf("userRepo.ListByOrg: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, scanErr := scanUser(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("userRepo.ListByOrg: scan: %w", scanErr)
		}
		users = append(users, u)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("userRepo.ListByOrg: rows: %w", err)
	}

	return users, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Email, &u.OrgID, &u.Role, &u.Permissions, &u.IsActive,
		&u.Profile, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
