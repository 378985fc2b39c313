package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fieldstack/fieldstack/internal/domain"
)

type RecommendationRepo struct {
	pool *pgxpool.Pool
}

func NewRecommendationRepo(pool *pgxpool.Pool) *RecommendationRepo {
	return &RecommendationRepo{pool: pool}
}

const recommendationColumns = `id, org_id, category, industry_type, title, description,
	impact_score, difficulty, estimated_cost, estimated_savings, payback_period_months,
	priority, action_items, status, generated_by, created_at`

func (r *RecommendationRepo) CreateBatch(ctx context.Context, recs []*domain.Recommendation) error {
	if len(recs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, rec := range recs {
		batch.Queue(
			`INSERT INTO recommendations (`+recommendationColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
			rec.ID, rec.OrgID, rec.Category, rec.IndustryType, rec.Title, rec.Description,
			rec.ImpactScore, rec.Difficulty, rec.EstimatedCost, rec.EstimatedSavings,
			rec.PaybackPeriodMonths, rec.Priority, rec.ActionItems, rec.Status,
			rec.GeneratedBy, rec.CreatedAt,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range recs {
		_, err := results.Exec()
		if err != nil {
			return fmt.Errorf("recommendationRepo.CreateBatch: %w", err)
		}
	}

	return nil
}

func (r *RecommendationRepo) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*domain.Recommendation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+recommendationColumns+` FROM recommendations
		 WHERE org_id = $1 ORDER BY created_at`,
		orgID)
	if err != nil {
		return nil, fmt.Errorf("recommendationRepo.ListByOrg: %w", err)
	}
	defer rows.Close()

	var recs []*domain.Recommendation
	for rows.Next() {
		var rec domain.Recommendation

		err = rows.Scan(
			&rec.ID, &rec.OrgID, &rec.Category, &rec.IndustryType, &rec.Title, &rec.Description,
			&rec.ImpactScore, &rec.Difficulty, &rec.EstimatedCost, &rec.EstimatedSavings,
			&rec.PaybackPeriodMonths, &rec.Priority, &rec.ActionItems, &rec.Status,
			&rec.GeneratedBy, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("recommendationRepo.ListByOrg: scan: %w", err)
		}

		recs = append(recs, &rec)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("recommendationRepo.ListByOrg: rows: %w", err)
	}

	domain.SortRecommendations(recs)
	return recs, nil
}

func (r *RecommendationRepo) CountByOrg(ctx context.Context, orgID uuid.UUID) (int, error) {
	var n int

	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM recommendations WHERE org_id = $1`, orgID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("recommendationRepo.CountByOrg: %w", err)
	}

	return n, nil
}

func (r *RecommendationRepo) DeleteByOrg(ctx context.Context, orgID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM recommendations WHERE org_id = $1`, orgID)
	if err != nil {
		return fmt.Errorf("recommendationRepo.DeleteByOrg: %w", err)
	}

	return nil
}
