package onboarding

import (
	"context"
	"time"
)

// Step ids of the base pipeline.
const (
	StepValidateData      = "validate_data"
	StepProvisionInfra    = "provision_infrastructure"
	StepSetupDatabase     = "setup_database"
	StepConfigureDash     = "configure_dashboard"
	StepSetupDataSources  = "setup_data_sources"
	StepGenerateSample    = "generate_sample_data"
	StepInitRecommend     = "initialize_recommendations"
	StepConfigureBranding = "configure_branding"
	StepSetupNotify       = "setup_notifications"
	StepFinalValidation   = "final_validation"
	StepSendWelcome       = "send_welcome_package"
)

// Industry extension step ids.
const (
	StepTechnicianTracking = "setup_technician_tracking"
	StepServiceCategories  = "setup_service_categories"
	StepProjectTracking    = "setup_project_tracking"
	StepBiddingSystem      = "setup_bidding_system"
	StepPropertyProfiles   = "setup_property_profiles"
	StepTenantTracking     = "setup_tenant_tracking"
)

// Definition is one step of the onboarding pipeline: its metadata, declared
// dependencies, and the action it performs. Actions must be idempotent
// (create-if-absent) so a resumed run can safely re-execute a step that was
// interrupted mid-flight.
type Definition struct {
	ID                string
	Name              string
	Description       string
	EstimatedDuration time.Duration
	DependsOn         []string
	Run               func(ctx context.Context, st *runState) error
}
