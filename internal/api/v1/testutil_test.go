package v1_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/fieldstack/fieldstack/internal/domain"
	"github.com/fieldstack/fieldstack/internal/provision"
	"github.com/fieldstack/fieldstack/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers -- inject operator identity and role for DoCtx
// ---------------------------------------------------------------------------

func operatorCtx(role string) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeyOperatorID, uuid.New())
	if role != "" {
		ctx = context.WithValue(ctx, middleware.ContextKeyRole, role)
	}
	return ctx
}

func adminCtx() context.Context {
	return operatorCtx("admin")
}

// ---------------------------------------------------------------------------
// Mock services
// ---------------------------------------------------------------------------

type mockProvisioningService struct {
	provisionFunc func(ctx context.Context, in provision.Input) *provision.Result
}

func (m *mockProvisioningService) ProvisionNewClient(ctx context.Context, in provision.Input) *provision.Result {
	return m.provisionFunc(ctx, in)
}

type mockOnboardingService struct {
	beginFunc       func(ctx context.Context, in provision.Input) (*domain.OnboardingProgress, error)
	resumeFunc      func(ctx context.Context, orgID uuid.UUID) (*domain.OnboardingProgress, error)
	getProgressFunc func(ctx context.Context, runID uuid.UUID) (*domain.OnboardingProgress, error)
}

func (m *mockOnboardingService) BeginOnboarding(ctx context.Context, in provision.Input) (*domain.OnboardingProgress, error) {
	return m.beginFunc(ctx, in)
}

func (m *mockOnboardingService) BeginResume(ctx context.Context, orgID uuid.UUID) (*domain.OnboardingProgress, error) {
	return m.resumeFunc(ctx, orgID)
}

func (m *mockOnboardingService) GetProgress(ctx context.Context, runID uuid.UUID) (*domain.OnboardingProgress, error) {
	return m.getProgressFunc(ctx, runID)
}

// ---------------------------------------------------------------------------
// Request fixtures
// ---------------------------------------------------------------------------

func provisionBody() map[string]any {
	return map[string]any{
		"organizationName": "Precision Auto Works",
		"organizationSlug": "precision-auto",
		"industry":         "auto-repair",
		"subscriptionTier": "pro",
		"adminUser": map[string]any{
			"email":     "owner@precisionauto.example",
			"firstName": "Dana",
			"lastName":  "Reyes",
		},
		"settings": map[string]any{
			"timezone": "America/Chicago",
			"currency": "USD",
		},
	}
}
