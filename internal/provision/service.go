// Package provision creates one tenant's complete infrastructure:
// organization record, admin principal, tenant user record, dashboard
// profile, and initial recommendations.
package provision

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fieldstack/fieldstack/internal/domain"
	"github.com/fieldstack/fieldstack/internal/identity"
	"github.com/fieldstack/fieldstack/internal/recommend"
)

// Store is the subset of the tenant store the provisioning flow writes to.
// Both the postgres and the in-memory store satisfy it.
type Store interface {
	Organizations() domain.OrganizationRepository
	Principals() domain.PrincipalRepository
	Users() domain.UserRepository
	Profiles() domain.ClientProfileRepository
	Recommendations() domain.RecommendationRepository
}

// Result reports the outcome of one provisioning run. Success=false always
// carries Error; Success=true may carry Warnings for degraded-but-usable
// outcomes.
type Result struct {
	Success        bool       `json:"success"`
	OrganizationID *uuid.UUID `json:"organizationId,omitempty"`
	UserID         *uuid.UUID `json:"userId,omitempty"`
	ProfileID      *uuid.UUID `json:"profileId,omitempty"`
	AccessURL      string     `json:"accessUrl,omitempty"`
	Error          string     `json:"error,omitempty"`
	Warnings       []string   `json:"warnings,omitempty"`
}

// Service provisions new tenants. All collaborators are injected so the
// service can be faked in tests and scoped per request.
type Service struct {
	store    Store
	identity identity.Provider
	engine   *recommend.Engine
	baseURL  string
	now      func() time.Time
}

func NewService(store Store, provider identity.Provider, engine *recommend.Engine, baseURL string) *Service {
	return &Service{
		store:    store,
		identity: provider,
		engine:   engine,
		baseURL:  strings.TrimRight(baseURL, "/"),
		now:      time.Now,
	}
}

// AccessURL returns the tenant entry point for a slug.
func (s *Service) AccessURL(slug string) string {
	return s.baseURL + "/" + slug
}

// ProvisionNewClient runs the full provisioning sequence. Domain failures are
// reported in the result, never raised: validation errors and slug conflicts
// abort before any durable write; a principal-creation failure after the
// organization exists triggers a compensating deletion so no orphan tenant is
// left behind; profile and user-record failures degrade to warnings.
func (s *Service) ProvisionNewClient(ctx context.Context, in Input) *Result {
	var warnings []string

	// Step 0: syntactic validation, no side effects.
	if err := in.Validate(); err != nil {
		return &Result{Success: false, Error: err.Error()}
	}

	// Step 1: fast-fail on a taken slug. The store's uniqueness constraint
	// is the authoritative check; this read just avoids pointless work.
	_, err := s.store.Organizations().GetBySlug(ctx, in.OrganizationSlug)
	if err == nil {
		return &Result{
			Success: false,
			Error:   fmt.Sprintf("organization slug %q already exists", in.OrganizationSlug),
		}
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return &Result{Success: false, Error: fmt.Sprintf("slug lookup failed: %v", err)}
	}

	// Step 2: an existing principal email is a warning, not an error.
	existingPrincipal, err := s.store.Principals().GetByEmail(ctx, in.AdminUser.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return &Result{Success: false, Error: fmt.Sprintf("email lookup failed: %v", err)}
	}
	if existingPrincipal != nil {
		warnings = append(warnings, fmt.Sprintf("email %s already exists in system, reusing existing principal", in.AdminUser.Email))
	}

	// Step 3: create the organization in pending state with tier quotas and
	// industry branding defaults.
	org := s.buildOrganization(in)

	err = s.store.Organizations().Create(ctx, org)
	if errors.Is(err, domain.ErrConflict) {
		// Lost a concurrent race on the slug.
		return &Result{
			Success: false,
			Error:   fmt.Sprintf("organization slug %q already exists", in.OrganizationSlug),
		}
	}
	if err != nil {
		return &Result{Success: false, Error: fmt.Sprintf("failed to create organization: %v", err)}
	}

	// Step 4: create or reuse the admin principal. Failure here compensates
	// by deleting the fresh organization: the system must never leave an
	// organization with no admin principal.
	principalID, created, err := s.identity.CreatePrincipal(ctx, in.AdminUser.Email, identity.PrincipalMetadata{
		FirstName: in.AdminUser.FirstName,
		LastName:  in.AdminUser.LastName,
		OrgID:     org.ID,
		Role:      domain.RoleAdmin,
	})
	if err != nil {
		if delErr := s.store.Organizations().Delete(ctx, org.ID); delErr != nil {
			log.Error().Err(delErr).Str("org_id", org.ID.String()).
				Msg("compensating organization delete failed")
		}
		return &Result{Success: false, Error: fmt.Sprintf("failed to create admin principal: %v", err)}
	}
	if !created && existingPrincipal == nil {
		// Principal appeared between the lookup and the create.
		warnings = append(warnings, fmt.Sprintf("email %s already exists in system, reusing existing principal", in.AdminUser.Email))
	}

	// Step 5: upsert the tenant-scoped user record. Non-fatal: the principal
	// exists, so a failed record can be repaired later.
	err = s.store.Users().Upsert(ctx, s.buildAdminUser(principalID, org.ID, in))
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("user record creation warning: %v", err))
	}

	// Step 6: industry-template dashboard profile. Non-fatal: the tenant is
	// usable with a default view.
	var profileID *uuid.UUID
	profile := s.buildProfile(org.ID, in.Industry)

	err = s.store.Profiles().Create(ctx, profile)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("profile creation warning: %v", err))
	} else {
		profileID = &profile.ID
	}

	// Step 7: initial recommendations. The engine falls back to the
	// rule-based set on generator failure; a store error is a warning.
	recs := s.engine.InitialRecommendations(ctx, org.ID, in.Industry, nil, nil)
	err = s.store.Recommendations().CreateBatch(ctx, recs)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("recommendation initialization warning: %v", err))
	}

	// Step 8: activation is the single authoritative readiness signal. On
	// failure the organization stays pending and is never reachable by end
	// users.
	err = s.store.Organizations().UpdateDeploymentStatus(ctx, org.ID, domain.DeploymentActive)
	if err != nil {
		return &Result{
			Success:        false,
			OrganizationID: &org.ID,
			Error:          fmt.Sprintf("failed to activate organization: %v", err),
			Warnings:       warnings,
		}
	}

	log.Info().
		Str("org_id", org.ID.String()).
		Str("slug", org.Slug).
		Str("industry", string(org.Industry)).
		Int("warnings", len(warnings)).
		Msg("tenant provisioned")

	return &Result{
		Success:        true,
		OrganizationID: &org.ID,
		UserID:         &principalID,
		ProfileID:      profileID,
		AccessURL:      s.AccessURL(org.Slug),
		Warnings:       warnings,
	}
}

func (s *Service) buildOrganization(in Input) *domain.Organization {
	profile := domain.ProfileFor(in.Industry)
	now := s.now()

	retention := in.Settings.DataRetentionDays
	if retention == 0 {
		retention = in.SubscriptionTier.DefaultRetentionDays()
	}

	primary := in.Branding.PrimaryColor
	if primary == "" {
		primary = profile.PrimaryColor
	}
	secondary := in.Branding.SecondaryColor
	if secondary == "" {
		secondary = profile.SecondaryColor
	}

	return &domain.Organization{
		ID:               uuid.New(),
		Name:             in.OrganizationName,
		Slug:             in.OrganizationSlug,
		Industry:         in.Industry,
		SubscriptionTier: in.SubscriptionTier,
		IsActive:         true,
		DeploymentStatus: domain.DeploymentPending,
		MaxUsers:         in.SubscriptionTier.MaxUsers(),
		MaxDataPoints:    in.SubscriptionTier.MaxDataPoints(),
		Settings: domain.OrgSettings{
			Timezone:          in.Settings.Timezone,
			Currency:          in.Settings.Currency,
			DateFormat:        "MM/DD/YYYY",
			DataRetentionDays: retention,
			FeaturesEnabled:   in.SubscriptionTier.EnabledFeatures(),
		},
		Branding: domain.BrandingConfig{
			PrimaryColor:   primary,
			SecondaryColor: secondary,
			LogoURL:        in.Branding.LogoURL,
			CustomCSS:      in.Branding.CustomCSS,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Service) buildAdminUser(principalID, orgID uuid.UUID, in Input) *domain.User {
	now := s.now()

	return &domain.User{
		ID:          principalID,
		Email:       in.AdminUser.Email,
		OrgID:       orgID,
		Role:        domain.RoleAdmin,
		Permissions: domain.AdminPermissions(),
		IsActive:    true,
		Profile: domain.UserProfile{
			FirstName: in.AdminUser.FirstName,
			LastName:  in.AdminUser.LastName,
			Phone:     in.AdminUser.Phone,
			Preferences: domain.UserPreferences{
				Theme:                "dark",
				Notifications:        true,
				DashboardRefreshRate: 300,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Service) buildProfile(orgID uuid.UUID, industry domain.Industry) *domain.ClientProfile {
	ip := domain.ProfileFor(industry)
	layout, metrics := ip.DefaultProfile()

	return &domain.ClientProfile{
		ID:              uuid.New(),
		OrgID:           orgID,
		DashboardLayout: layout,
		Metrics:         metrics,
		Terminology:     ip.Terminology,
		CreatedAt:       s.now(),
	}
}
