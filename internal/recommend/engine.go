package recommend

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fieldstack/fieldstack/internal/domain"
)

// Engine wraps a Generator with a bounded timeout and the deterministic
// fallback. It never fails: when the generator errors or times out, the
// rule-based set for the industry is returned instead, so recommendation
// initialization can never block tenant activation.
type Engine struct {
	gen     Generator // nil means fallback-only
	timeout time.Duration
	now     func() time.Time
}

// NewEngine creates an Engine. gen may be nil, in which case only the
// fallback table is used.
func NewEngine(gen Generator, timeout time.Duration) *Engine {
	return &Engine{
		gen:     gen,
		timeout: timeout,
		now:     time.Now,
	}
}

// InitialRecommendations produces the recommendations seeded for a freshly
// provisioned organization. Every returned recommendation is bound to orgID
// and tagged with its provenance.
func (e *Engine) InitialRecommendations(ctx context.Context, orgID uuid.UUID, industry domain.Industry, metrics map[string]PerformanceMetric, history []*domain.DataPoint) []*domain.Recommendation {
	if e.gen != nil {
		genCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()

		recs, err := e.gen.Generate(genCtx, industry, metrics, history)
		if err == nil {
			return e.bind(recs, orgID, domain.GeneratedByEngine)
		}

		log.Warn().
			Err(err).
			Str("industry", string(industry)).
			Str("org_id", orgID.String()).
			Msg("recommendation generator failed, using fallback rules")
	}

	return e.bind(Fallback(industry), orgID, domain.GeneratedByFallback)
}

func (e *Engine) bind(recs []*domain.Recommendation, orgID uuid.UUID, generatedBy string) []*domain.Recommendation {
	now := e.now()
	for _, rec := range recs {
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
		}
		rec.OrgID = orgID
		rec.Status = "new"
		rec.GeneratedBy = generatedBy
		rec.CreatedAt = now
	}
	domain.SortRecommendations(recs)
	return recs
}

// Fallback returns the deterministic rule-based recommendation set for the
// industry. Always non-empty for a valid industry.
func Fallback(industry domain.Industry) []*domain.Recommendation {
	templates := domain.ProfileFor(industry).FallbackRecs

	recs := make([]*domain.Recommendation, 0, len(templates))
	for _, t := range templates {
		recs = append(recs, &domain.Recommendation{
			Category:            t.Category,
			IndustryType:        t.IndustryType,
			Title:               t.Title,
			Description:         t.Description,
			ImpactScore:         t.ImpactScore,
			Difficulty:          t.Difficulty,
			EstimatedCost:       t.EstimatedCost,
			EstimatedSavings:    t.EstimatedSavings,
			PaybackPeriodMonths: t.PaybackPeriodMonths,
			Priority:            t.Priority,
			ActionItems:         append([]string(nil), t.ActionItems...),
		})
	}

	return recs
}
