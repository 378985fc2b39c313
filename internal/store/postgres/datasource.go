package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fieldstack/fieldstack/internal/domain"
)

type DataSourceRepo struct {
	pool *pgxpool.Pool
}

func NewDataSourceRepo(pool *pgxpool.Pool) *DataSourceRepo {
	return &DataSourceRepo{pool: pool}
}

func (r *DataSourceRepo) Create(ctx context.Context, ds *domain.DataSource) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO data_sources (id, org_id, name, kind, connection_config, refresh_interval_seconds, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ds.ID, ds.OrgID, ds.Name, ds.Kind, ds.ConnectionConfig,
		int(ds.RefreshInterval/time.Second), ds.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("dataSourceRepo.Create: %q: %w", ds.Name, domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("dataSourceRepo.Create: %w", err)
	}

	return nil
}

func (r *DataSourceRepo) GetByOrgAndName(ctx context.Context, orgID uuid.UUID, name string) (*domain.DataSource, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, org_id, name, kind, connection_config, refresh_interval_seconds, created_at
		 FROM data_sources WHERE org_id = $1 AND name = $2`,
		orgID, name)

	ds, err := scanDataSource(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("dataSourceRepo.GetByOrgAndName: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("dataSourceRepo.GetByOrgAndName: %w", err)
	}

	return ds, nil
}

func (r *DataSourceRepo) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*domain.DataSource, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, org_id, name, kind, connection_config, refresh_interval_seconds, created_at
		 FROM data_sources WHERE org_id = $1 ORDER BY created_at`,
		orgID)
	if err != nil {
		return nil, fmt.Errorf("dataSourceRepo.ListByOrg: %w", err)
	}
	defer rows.Close()

	var sources []*domain.DataSource
	for rows.Next() {
		ds, scanErr := scanDataSource(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("dataSourceRepo.ListByOrg: scan: %w", scanErr)
		}
		sources = append(sources, ds)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("dataSourceRepo.ListByOrg: rows: %w", err)
	}

	return sources, nil
}

func (r *DataSourceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM data_sources WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("dataSourceRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("dataSourceRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

func scanDataSource(row pgx.Row) (*domain.DataSource, error) {
	var ds domain.DataSource
	var refreshSeconds int

	err := row.Scan(&ds.ID, &ds.OrgID, &ds.Name, &ds.Kind, &ds.ConnectionConfig,
		&refreshSeconds, &ds.CreatedAt)
	if err != nil {
		return nil, err
	}

	ds.RefreshInterval = time.Duration(refreshSeconds) * time.Second
	return &ds, nil
}
