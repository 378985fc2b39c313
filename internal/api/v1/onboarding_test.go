package v1_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/fieldstack/fieldstack/internal/api/v1"
	"github.com/fieldstack/fieldstack/internal/domain"
	"github.com/fieldstack/fieldstack/internal/provision"
)

func sampleProgress() *domain.OnboardingProgress {
	return &domain.OnboardingProgress{
		RunID:      uuid.New(),
		OrgID:      uuid.New(),
		TotalSteps: 13,
		Status:     domain.RunInProgress,
		Steps: []domain.OnboardingStep{
			{ID: "validate_data", Name: "Validate Client Data", Status: domain.StepPending},
		},
		StartedAt: time.Now(),
	}
}

// ---------------------------------------------------------------------------
// POST /onboarding/runs
// ---------------------------------------------------------------------------

func TestStartOnboarding(t *testing.T) {
	t.Parallel()

	t.Run("happy_path_accepted", func(t *testing.T) {
		t.Parallel()

		progress := sampleProgress()

		_, api := humatest.New(t)
		svc := &mockOnboardingService{
			beginFunc: func(_ context.Context, in provision.Input) (*domain.OnboardingProgress, error) {
				assert.Equal(t, "precision-auto", in.OrganizationSlug)
				return progress, nil
			},
		}

		v1.RegisterOnboardingRoutes(api, svc)

		resp := api.PostCtx(adminCtx(), "/onboarding/runs", provisionBody())

		require.Equal(t, http.StatusAccepted, resp.Code)

		var body domain.OnboardingProgress
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, progress.RunID, body.RunID)
		assert.Equal(t, 13, body.TotalSteps)
		assert.Equal(t, domain.RunInProgress, body.Status)
	})

	t.Run("non_admin_forbidden", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockOnboardingService{}

		v1.RegisterOnboardingRoutes(api, svc)

		resp := api.PostCtx(operatorCtx("viewer"), "/onboarding/runs", provisionBody())

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("service_error", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockOnboardingService{
			beginFunc: func(_ context.Context, _ provision.Input) (*domain.OnboardingProgress, error) {
				return nil, fmt.Errorf("pg: connection refused")
			},
		}

		v1.RegisterOnboardingRoutes(api, svc)

		resp := api.PostCtx(adminCtx(), "/onboarding/runs", provisionBody())

		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// POST /onboarding/runs/{orgID}/resume
// ---------------------------------------------------------------------------

func TestResumeOnboarding(t *testing.T) {
	t.Parallel()

	t.Run("happy_path_accepted", func(t *testing.T) {
		t.Parallel()

		progress := sampleProgress()

		_, api := humatest.New(t)
		svc := &mockOnboardingService{
			resumeFunc: func(_ context.Context, orgID uuid.UUID) (*domain.OnboardingProgress, error) {
				assert.Equal(t, progress.OrgID, orgID)
				return progress, nil
			},
		}

		v1.RegisterOnboardingRoutes(api, svc)

		resp := api.PostCtx(adminCtx(), "/onboarding/runs/"+progress.OrgID.String()+"/resume")

		require.Equal(t, http.StatusAccepted, resp.Code)

		var body domain.OnboardingProgress
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, progress.RunID, body.RunID)
	})

	t.Run("unknown_org_not_found", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockOnboardingService{
			resumeFunc: func(_ context.Context, _ uuid.UUID) (*domain.OnboardingProgress, error) {
				return nil, fmt.Errorf("onboarding.ResumeOnboarding: load run: %w", domain.ErrNotFound)
			},
		}

		v1.RegisterOnboardingRoutes(api, svc)

		resp := api.PostCtx(adminCtx(), "/onboarding/runs/"+uuid.NewString()+"/resume")

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("non_admin_forbidden", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockOnboardingService{}

		v1.RegisterOnboardingRoutes(api, svc)

		resp := api.PostCtx(operatorCtx("viewer"), "/onboarding/runs/"+uuid.NewString()+"/resume")

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// GET /onboarding/runs/{runID}
// ---------------------------------------------------------------------------

func TestGetOnboardingRun(t *testing.T) {
	t.Parallel()

	t.Run("any_authenticated_role", func(t *testing.T) {
		t.Parallel()

		progress := sampleProgress()
		progress.Status = domain.RunCompleted

		_, api := humatest.New(t)
		svc := &mockOnboardingService{
			getProgressFunc: func(_ context.Context, runID uuid.UUID) (*domain.OnboardingProgress, error) {
				assert.Equal(t, progress.RunID, runID)
				return progress, nil
			},
		}

		v1.RegisterOnboardingRoutes(api, svc)

		resp := api.GetCtx(operatorCtx("viewer"), "/onboarding/runs/"+progress.RunID.String())

		require.Equal(t, http.StatusOK, resp.Code)

		var body domain.OnboardingProgress
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, domain.RunCompleted, body.Status)
	})

	t.Run("unknown_run_not_found", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockOnboardingService{
			getProgressFunc: func(_ context.Context, _ uuid.UUID) (*domain.OnboardingProgress, error) {
				return nil, fmt.Errorf("onboarding.GetProgress: %w", domain.ErrNotFound)
			},
		}

		v1.RegisterOnboardingRoutes(api, svc)

		resp := api.GetCtx(operatorCtx("viewer"), "/onboarding/runs/"+uuid.NewString())

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("unauthenticated_forbidden", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockOnboardingService{}

		v1.RegisterOnboardingRoutes(api, svc)

		resp := api.GetCtx(context.Background(), "/onboarding/runs/"+uuid.NewString())

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}
