package onboarding

import (
	"context"
	"time"

	"github.com/fieldstack/fieldstack/internal/domain"
)

// catalog builds the full step list for an industry: the base pipeline
// followed by that industry's extension steps. The returned definitions are
// compiled into a dependency-respecting plan before execution.
func (w *Workflow) catalog(industry domain.Industry) []Definition {
	base := []Definition{
		{
			ID:                StepValidateData,
			Name:              "Validate Client Data",
			Description:       "Validate organization information and admin user details",
			EstimatedDuration: 2 * time.Minute,
			Run:               w.runValidateData,
		},
		{
			ID:                StepProvisionInfra,
			Name:              "Provision Infrastructure",
			Description:       "Create organization, admin user, and basic infrastructure",
			EstimatedDuration: 5 * time.Minute,
			DependsOn:         []string{StepValidateData},
			Run:               w.runProvisionInfra,
		},
		{
			ID:                StepSetupDatabase,
			Name:              "Initialize Database",
			Description:       "Set up client-specific database schema and initial data",
			EstimatedDuration: 3 * time.Minute,
			DependsOn:         []string{StepProvisionInfra},
			Run:               w.runSetupDatabase,
		},
		{
			ID:                StepConfigureDash,
			Name:              "Configure Dashboard",
			Description:       "Set up industry-specific dashboard layout and components",
			EstimatedDuration: 4 * time.Minute,
			DependsOn:         []string{StepSetupDatabase},
			Run:               w.runConfigureDashboard,
		},
		{
			ID:                StepSetupDataSources,
			Name:              "Configure Data Sources",
			Description:       "Set up default data connections and import templates",
			EstimatedDuration: 6 * time.Minute,
			DependsOn:         []string{StepConfigureDash},
			Run:               w.runSetupDataSources,
		},
		{
			ID:                StepGenerateSample,
			Name:              "Generate Sample Data",
			Description:       "Create sample data for demonstration and testing",
			EstimatedDuration: 8 * time.Minute,
			DependsOn:         []string{StepSetupDataSources},
			Run:               w.runGenerateSampleData,
		},
		{
			ID:                StepInitRecommend,
			Name:              "Initialize Recommendation Engine",
			Description:       "Seed recommendations and verify initial insights exist",
			EstimatedDuration: 5 * time.Minute,
			DependsOn:         []string{StepGenerateSample},
			Run:               w.runInitRecommendations,
		},
		{
			ID:                StepConfigureBranding,
			Name:              "Apply Branding",
			Description:       "Apply client-specific branding and customization",
			EstimatedDuration: 3 * time.Minute,
			DependsOn:         []string{StepInitRecommend},
			Run:               w.runConfigureBranding,
		},
		{
			ID:                StepSetupNotify,
			Name:              "Configure Notifications",
			Description:       "Set up email notifications and alerts for the admin",
			EstimatedDuration: 4 * time.Minute,
			DependsOn:         []string{StepConfigureBranding},
			Run:               w.runSetupNotifications,
		},
		{
			ID:                StepFinalValidation,
			Name:              "Final Validation",
			Description:       "Re-read provisioned state and verify it is consistent",
			EstimatedDuration: 6 * time.Minute,
			DependsOn:         []string{StepSetupNotify},
			Run:               w.runFinalValidation,
		},
		{
			ID:                StepSendWelcome,
			Name:              "Send Welcome Package",
			Description:       "Send welcome email with access details and getting started guide",
			EstimatedDuration: 2 * time.Minute,
			DependsOn:         []string{StepFinalValidation},
			Run:               w.runSendWelcome,
		},
	}

	return append(base, w.industrySteps(industry)...)
}

// industrySteps returns the extension steps for an industry. Each extension
// registers an auxiliary data feed (create-if-absent), so extensions stay
// idempotent like the base steps.
func (w *Workflow) industrySteps(industry domain.Industry) []Definition {
	switch industry {
	case domain.IndustryAutoRepair:
		return []Definition{
			{
				ID:                StepTechnicianTracking,
				Name:              "Configure Technician Tracking",
				Description:       "Set up technician performance tracking and analytics",
				EstimatedDuration: 7 * time.Minute,
				DependsOn:         []string{StepConfigureDash},
				Run: w.runRegisterExtensionFeed(domain.DataSourceTemplate{
					Name: "Technician Hours",
					Kind: domain.DataSourceDatabase,
					ConnectionConfig: map[string]any{
						"table":  "data_points",
						"filter": map[string]any{"kind": "technician_shift"},
					},
					RefreshInterval: time.Hour,
				}),
			},
			{
				ID:                StepServiceCategories,
				Name:              "Configure Service Categories",
				Description:       "Set up auto repair service types and pricing templates",
				EstimatedDuration: 5 * time.Minute,
				DependsOn:         []string{StepTechnicianTracking},
				Run: w.runRegisterExtensionFeed(domain.DataSourceTemplate{
					Name: "Service Catalog",
					Kind: domain.DataSourceFile,
					ConnectionConfig: map[string]any{
						"template": "auto-repair/service-categories.csv",
					},
					RefreshInterval: 24 * time.Hour,
				}),
			},
		}
	case domain.IndustryContractors:
		return []Definition{
			{
				ID:                StepProjectTracking,
				Name:              "Configure Project Tracking",
				Description:       "Set up project management and timeline tracking",
				EstimatedDuration: 8 * time.Minute,
				DependsOn:         []string{StepConfigureDash},
				Run: w.runRegisterExtensionFeed(domain.DataSourceTemplate{
					Name: "Project Timeline",
					Kind: domain.DataSourceDatabase,
					ConnectionConfig: map[string]any{
						"table":  "data_points",
						"filter": map[string]any{"kind": "project_milestone"},
					},
					RefreshInterval: time.Hour,
				}),
			},
			{
				ID:                StepBiddingSystem,
				Name:              "Configure Bidding Analytics",
				Description:       "Set up bid tracking and success rate analytics",
				EstimatedDuration: 6 * time.Minute,
				DependsOn:         []string{StepProjectTracking},
				Run: w.runRegisterExtensionFeed(domain.DataSourceTemplate{
					Name: "Bid History",
					Kind: domain.DataSourceDatabase,
					ConnectionConfig: map[string]any{
						"table":  "data_points",
						"filter": map[string]any{"kind": "bid_record"},
					},
					RefreshInterval: 30 * time.Minute,
				}),
			},
		}
	case domain.IndustryPropertyManagement:
		return []Definition{
			{
				ID:                StepPropertyProfiles,
				Name:              "Configure Property Profiles",
				Description:       "Set up property portfolio tracking and analytics",
				EstimatedDuration: 9 * time.Minute,
				DependsOn:         []string{StepConfigureDash},
				Run: w.runRegisterExtensionFeed(domain.DataSourceTemplate{
					Name: "Property Portfolio",
					Kind: domain.DataSourceDatabase,
					ConnectionConfig: map[string]any{
						"table":  "data_points",
						"filter": map[string]any{"kind": "property_record"},
					},
					RefreshInterval: time.Hour,
				}),
			},
			{
				ID:                StepTenantTracking,
				Name:              "Configure Tenant Management",
				Description:       "Set up tenant tracking and satisfaction monitoring",
				EstimatedDuration: 7 * time.Minute,
				DependsOn:         []string{StepPropertyProfiles},
				Run: w.runRegisterExtensionFeed(domain.DataSourceTemplate{
					Name: "Tenant Registry",
					Kind: domain.DataSourceDatabase,
					ConnectionConfig: map[string]any{
						"table":  "data_points",
						"filter": map[string]any{"kind": "tenant_record"},
					},
					RefreshInterval: 2 * time.Hour,
				}),
			},
		}
	}

	return nil
}

// runRegisterExtensionFeed returns a step action that registers one
// industry extension data source if it does not already exist.
func (w *Workflow) runRegisterExtensionFeed(tmpl domain.DataSourceTemplate) func(context.Context, *runState) error {
	return func(ctx context.Context, st *runState) error {
		return w.ensureDataSource(ctx, st.orgID, tmpl)
	}
}
