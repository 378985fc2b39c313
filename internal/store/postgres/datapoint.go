package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fieldstack/fieldstack/internal/domain"
)

type DataPointRepo struct {
	pool *pgxpool.Pool
}

func NewDataPointRepo(pool *pgxpool.Pool) *DataPointRepo {
	return &DataPointRepo{pool: pool}
}

func (r *DataPointRepo) CreateBatch(ctx context.Context, points []*domain.DataPoint) error {
	if len(points) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, p := range points {
		batch.Queue(
			`INSERT INTO data_points (id, org_id, kind, metrics, recorded_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			p.ID, p.OrgID, p.Kind, p.Metrics, p.RecordedAt,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range points {
		_, err := results.Exec()
		if err != nil {
			return fmt.Errorf("dataPointRepo.CreateBatch: %w", err)
		}
	}

	return nil
}

func (r *DataPointRepo) CountByOrg(ctx context.Context, orgID uuid.UUID) (int, error) {
	var n int

	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM data_points WHERE org_id = $1`, orgID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("dataPointRepo.CountByOrg: %w", err)
	}

	return n, nil
}

func (r *DataPointRepo) ListByOrg(ctx context.Context, orgID uuid.UUID, limit int) ([]*domain.DataPoint, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, org_id, kind, metrics, recorded_at
		 FROM data_points WHERE org_id = $1 ORDER BY recorded_at DESC LIMIT $2`,
		orgID, limit)
	if err != nil {
		return nil, fmt.Errorf("dataPointRepo.ListByOrg: %w", err)
	}
	defer rows.Close()

	var points []*domain.DataPoint
	for rows.Next() {
		var p domain.DataPoint

		err = rows.Scan(&p.ID, &p.OrgID, &p.Kind, &p.Metrics, &p.RecordedAt)
		if err != nil {
			return nil, fmt.Errorf("dataPointRepo.ListByOrg: scan: %w", err)
		}

		points = append(points, &p)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("dataPointRepo.ListByOrg: rows: %w", err)
	}

	return points, nil
}
