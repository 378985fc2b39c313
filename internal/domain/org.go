package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Industry is the closed set of verticals the platform serves.
type Industry string

const (
	IndustryAutoRepair         Industry = "auto-repair"
	IndustryContractors        Industry = "contractors"
	IndustryPropertyManagement Industry = "property-management"
)

// Industries lists all supported industries in a fixed order.
func Industries() []Industry {
	return []Industry{IndustryAutoRepair, IndustryContractors, IndustryPropertyManagement}
}

func (i Industry) Valid() bool {
	switch i {
	case IndustryAutoRepair, IndustryContractors, IndustryPropertyManagement:
		return true
	}
	return false
}

// ParseIndustry converts a wire string into an Industry.
func ParseIndustry(s string) (Industry, error) {
	i := Industry(s)
	if !i.Valid() {
		return "", fmt.Errorf("domain.ParseIndustry: unknown industry %q", s)
	}
	return i, nil
}

// SubscriptionTier determines quota limits and enabled feature flags.
type SubscriptionTier string

const (
	TierBasic      SubscriptionTier = "basic"
	TierPro        SubscriptionTier = "pro"
	TierEnterprise SubscriptionTier = "enterprise"
)

func (t SubscriptionTier) Valid() bool {
	switch t {
	case TierBasic, TierPro, TierEnterprise:
		return true
	}
	return false
}

// ParseTier converts a wire string into a SubscriptionTier.
func ParseTier(s string) (SubscriptionTier, error) {
	t := SubscriptionTier(s)
	if !t.Valid() {
		return "", fmt.Errorf("domain.ParseTier: unknown subscription tier %q", s)
	}
	return t, nil
}

// tierLimits is the single lookup table for tier-derived quotas and features.
type tierLimits struct {
	maxUsers      int
	maxDataPoints int
	retentionDays int
	features      []string
}

var tierTable = map[SubscriptionTier]tierLimits{
	TierBasic: {
		maxUsers:      5,
		maxDataPoints: 10000,
		retentionDays: 90,
		features:      []string{"analytics", "basic_reports"},
	},
	TierPro: {
		maxUsers:      25,
		maxDataPoints: 100000,
		retentionDays: 365,
		features:      []string{"analytics", "reports", "predictions", "api_access"},
	},
	TierEnterprise: {
		maxUsers:      100,
		maxDataPoints: 1000000,
		retentionDays: 1095,
		features:      []string{"analytics", "reports", "predictions", "api_access", "custom_integrations", "priority_support"},
	},
}

// MaxUsers returns the user quota for this tier. Unknown tiers fall back to basic.
func (t SubscriptionTier) MaxUsers() int { return t.limits().maxUsers }

// MaxDataPoints returns the data point quota for this tier.
func (t SubscriptionTier) MaxDataPoints() int { return t.limits().maxDataPoints }

// DefaultRetentionDays returns the default data retention window for this tier.
func (t SubscriptionTier) DefaultRetentionDays() int { return t.limits().retentionDays }

// EnabledFeatures returns a copy of the feature flags enabled for this tier.
func (t SubscriptionTier) EnabledFeatures() []string {
	src := t.limits().features
	out := make([]string, len(src))
	copy(out, src)
	return out
}

func (t SubscriptionTier) limits() tierLimits {
	if l, ok := tierTable[t]; ok {
		return l
	}
	return tierTable[TierBasic]
}

// DeploymentStatus tracks whether a tenant is ready for end-user login.
// Only an "active" organization is reachable by end users.
type DeploymentStatus string

const (
	DeploymentPending DeploymentStatus = "pending"
	DeploymentActive  DeploymentStatus = "active"
	DeploymentFailed  DeploymentStatus = "failed"
)

// OrgSettings holds per-tenant operational settings.
type OrgSettings struct {
	Timezone            string     `json:"timezone"`
	Currency            string     `json:"currency"`
	DateFormat          string     `json:"dateFormat"`
	DataRetentionDays   int        `json:"dataRetentionDays"`
	FeaturesEnabled     []string   `json:"featuresEnabled"`
	DatabaseInitialized bool       `json:"databaseInitialized"`
	InitializedAt       *time.Time `json:"initializedAt,omitempty"`
	SchemaVersion       string     `json:"schemaVersion,omitempty"`
}

// BrandingConfig holds per-tenant presentation overrides.
type BrandingConfig struct {
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	LogoURL        string `json:"logoUrl,omitempty"`
	CustomCSS      string `json:"customCss,omitempty"`
}

// Organization is the identity unit of the system. The slug is immutable and
// globally unique; tenant-scoped routing is keyed on it.
type Organization struct {
	ID               uuid.UUID        `json:"id"`
	Name             string           `json:"name"`
	Slug             string           `json:"slug"`
	Industry         Industry         `json:"industry"`
	SubscriptionTier SubscriptionTier `json:"subscriptionTier"`
	IsActive         bool             `json:"isActive"`
	DeploymentStatus DeploymentStatus `json:"deploymentStatus"`
	MaxUsers         int              `json:"maxUsers"`
	MaxDataPoints    int              `json:"maxDataPoints"`
	Settings         OrgSettings      `json:"settings"`
	Branding         BrandingConfig   `json:"branding"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

type OrganizationRepository interface {
	// Create inserts the organization. Returns ErrConflict (wrapped) when the
	// slug is already taken; the store-level uniqueness constraint is the
	// serialization point for concurrent provisioning of the same slug.
	Create(ctx context.Context, o *Organization) error
	GetByID(ctx context.Context, id uuid.UUID) (*Organization, error)
	GetBySlug(ctx context.Context, slug string) (*Organization, error)
	Update(ctx context.Context, o *Organization) error
	UpdateDeploymentStatus(ctx context.Context, id uuid.UUID, status DeploymentStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*Organization, error)
}
