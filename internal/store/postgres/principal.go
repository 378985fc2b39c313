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

type PrincipalRepo struct {
	pool *pgxpool.Pool
}

func NewPrincipalRepo(pool *pgxpool.Pool) *PrincipalRepo {
	return &PrincipalRepo{pool: pool}
}

func (r *PrincipalRepo) Create(ctx context.Context, p *domain.Principal) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO principals (id, email, password_hash, first_name, last_name, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Email, p.PasswordHash, p.FirstName, p.LastName, p.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("principalRepo.Create: email %q: %w", p.Email, domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("principalRepo.Create: %w", err)
	}

	return nil
}

func (r *PrincipalRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Principal, error) {
	var p domain.Principal

	err := r.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, first_name, last_name, created_at
		 FROM principals WHERE id = $1`, id,
	).Scan(&p.ID, &p.Email, &p.PasswordHash, &p.FirstName, &p.LastName, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("principalRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("principalRepo.GetByID: %w", err)
	}

	return &p, nil
}

func (r *PrincipalRepo) GetByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	var p domain.Principal

	err := r.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, first_name, last_name, created_at
		 FROM principals WHERE email = $1`, email,
	).Scan(&p.ID, &p.Email, &p.PasswordHash, &p.FirstName, &p.LastName, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("principalRepo.GetByEmail: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("principalRepo.GetByEmail: %w", err)
	}

	return &p, nil
}

func (r *PrincipalRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM principals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("principalRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("principalRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
