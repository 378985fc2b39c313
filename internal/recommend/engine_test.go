package recommend_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldstack/fieldstack/internal/domain"
	"github.com/fieldstack/fieldstack/internal/recommend"
)

type stubGenerator struct {
	recs []*domain.Recommendation
	err  error
}

func (g *stubGenerator) Generate(_ context.Context, _ domain.Industry, _ map[string]recommend.PerformanceMetric, _ []*domain.DataPoint) ([]*domain.Recommendation, error) {
	return g.recs, g.err
}

type blockingGenerator struct{}

func (blockingGenerator) Generate(ctx context.Context, _ domain.Industry, _ map[string]recommend.PerformanceMetric, _ []*domain.DataPoint) ([]*domain.Recommendation, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func assertBound(t *testing.T, recs []*domain.Recommendation, orgID uuid.UUID, generatedBy string) {
	t.Helper()

	require.NotEmpty(t, recs)
	for _, rec := range recs {
		assert.NotEqual(t, uuid.Nil, rec.ID)
		assert.Equal(t, orgID, rec.OrgID)
		assert.Equal(t, "new", rec.Status)
		assert.Equal(t, generatedBy, rec.GeneratedBy)
		assert.False(t, rec.CreatedAt.IsZero())
	}
}

func TestInitialRecommendations_NilGeneratorUsesFallback(t *testing.T) {
	t.Parallel()

	engine := recommend.NewEngine(nil, time.Second)
	orgID := uuid.New()

	recs := engine.InitialRecommendations(context.Background(), orgID, domain.IndustryAutoRepair, nil, nil)

	assertBound(t, recs, orgID, domain.GeneratedByFallback)
	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t,
			recs[i-1].Priority.Rank(),
			recs[i].Priority.Rank(),
			"recommendations must be sorted most urgent first")
	}
}

func TestInitialRecommendations_GeneratorFailureFallsBack(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{err: errors.New("service unavailable")}
	engine := recommend.NewEngine(gen, time.Second)
	orgID := uuid.New()

	recs := engine.InitialRecommendations(context.Background(), orgID, domain.IndustryContractors, nil, nil)

	assertBound(t, recs, orgID, domain.GeneratedByFallback)
}

func TestInitialRecommendations_GeneratorTimeoutFallsBack(t *testing.T) {
	t.Parallel()

	engine := recommend.NewEngine(blockingGenerator{}, 20*time.Millisecond)
	orgID := uuid.New()

	recs := engine.InitialRecommendations(context.Background(), orgID, domain.IndustryPropertyManagement, nil, nil)

	assertBound(t, recs, orgID, domain.GeneratedByFallback)
}

func TestInitialRecommendations_GeneratorSuccess(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{recs: []*domain.Recommendation{
		{Title: "Cut idle bay time", Priority: domain.PriorityLow, EstimatedSavings: 1200},
		{Title: "Renegotiate parts supply", Priority: domain.PriorityUrgent, EstimatedSavings: 9000},
	}}
	engine := recommend.NewEngine(gen, time.Second)
	orgID := uuid.New()

	recs := engine.InitialRecommendations(context.Background(), orgID, domain.IndustryAutoRepair, nil, nil)

	assertBound(t, recs, orgID, domain.GeneratedByEngine)
	require.Len(t, recs, 2)
	assert.Equal(t, "Renegotiate parts supply", recs[0].Title, "urgent sorts first")
}

func TestFallback_NonEmptyPerIndustry(t *testing.T) {
	t.Parallel()

	for _, industry := range domain.Industries() {
		recs := recommend.Fallback(industry)
		require.NotEmpty(t, recs, industry)
		for _, rec := range recs {
			assert.NotEmpty(t, rec.Title, industry)
			assert.NotEmpty(t, rec.ActionItems, industry)
		}
	}
}
