package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/fieldstack/fieldstack/internal/domain"
	"github.com/fieldstack/fieldstack/internal/provision"
	"github.com/fieldstack/fieldstack/internal/server/middleware"
)

type StartOnboardingInput struct {
	Body provision.Input
}

type StartOnboardingOutput struct {
	Status int
	Body   *domain.OnboardingProgress
}

type ResumeOnboardingInput struct {
	OrgID uuid.UUID `path:"orgID" doc:"Organization ID whose latest run to resume"`
}

type ResumeOnboardingOutput struct {
	Status int
	Body   *domain.OnboardingProgress
}

type GetOnboardingRunInput struct {
	RunID uuid.UUID `path:"runID" doc:"Onboarding run ID"`
}

type GetOnboardingRunOutput struct {
	Body *domain.OnboardingProgress
}

func RegisterOnboardingRoutes(api huma.API, svc OnboardingService) {
	huma.Register(api, huma.Operation{
		OperationID:   "start-onboarding",
		Method:        http.MethodPost,
		Path:          "/onboarding/runs",
		Summary:       "Start an onboarding run for a new client",
		Tags:          []string{"Onboarding"},
		DefaultStatus: http.StatusAccepted,
	}, func(ctx context.Context, input *StartOnboardingInput) (*StartOnboardingOutput, error) {
		role, ok := middleware.RoleFromContext(ctx)
		if !ok || role != "admin" {
			return nil, huma.Error403Forbidden("admin role required")
		}

		progress, err := svc.BeginOnboarding(ctx, input.Body)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to start onboarding", err)
		}

		return &StartOnboardingOutput{Status: http.StatusAccepted, Body: progress}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "resume-onboarding",
		Method:        http.MethodPost,
		Path:          "/onboarding/runs/{orgID}/resume",
		Summary:       "Resume the latest onboarding run of an organization",
		Tags:          []string{"Onboarding"},
		DefaultStatus: http.StatusAccepted,
	}, func(ctx context.Context, input *ResumeOnboardingInput) (*ResumeOnboardingOutput, error) {
		role, ok := middleware.RoleFromContext(ctx)
		if !ok || role != "admin" {
			return nil, huma.Error403Forbidden("admin role required")
		}

		progress, err := svc.BeginResume(ctx, input.OrgID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("no onboarding run for organization")
			}
			return nil, huma.Error500InternalServerError("failed to resume onboarding", err)
		}

		return &ResumeOnboardingOutput{Status: http.StatusAccepted, Body: progress}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-onboarding-run",
		Method:      http.MethodGet,
		Path:        "/onboarding/runs/{runID}",
		Summary:     "Get the progress of an onboarding run",
		Tags:        []string{"Onboarding"},
	}, func(ctx context.Context, input *GetOnboardingRunInput) (*GetOnboardingRunOutput, error) {
		if _, ok := middleware.RoleFromContext(ctx); !ok {
			return nil, huma.Error403Forbidden("authentication required")
		}

		progress, err := svc.GetProgress(ctx, input.RunID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("onboarding run not found")
			}
			return nil, huma.Error500InternalServerError("failed to load onboarding run", err)
		}

		return &GetOnboardingRunOutput{Body: progress}, nil
	})
}
