package v1

import (
	"context"

	"github.com/google/uuid"

	"github.com/fieldstack/fieldstack/internal/domain"
	"github.com/fieldstack/fieldstack/internal/provision"
)

// ProvisioningService abstracts tenant provisioning for handler testing.
// *provision.Service satisfies this interface.
type ProvisioningService interface {
	ProvisionNewClient(ctx context.Context, in provision.Input) *provision.Result
}

// OnboardingService abstracts onboarding run control for handler testing.
// *onboarding.Workflow satisfies this interface.
type OnboardingService interface {
	BeginOnboarding(ctx context.Context, in provision.Input) (*domain.OnboardingProgress, error)
	BeginResume(ctx context.Context, orgID uuid.UUID) (*domain.OnboardingProgress, error)
	GetProgress(ctx context.Context, runID uuid.UUID) (*domain.OnboardingProgress, error)
}
