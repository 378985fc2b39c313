package domain

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// DataSourceTemplate is an industry default feed, stamped with an org id
// during onboarding.
type DataSourceTemplate struct {
	Name             string
	Kind             DataSourceKind
	ConnectionConfig map[string]any
	RefreshInterval  time.Duration
}

// RecommendationTemplate is a fallback recommendation before it is bound to
// an organization.
type RecommendationTemplate struct {
	Category            RecommendationCategory
	IndustryType        string
	Title               string
	Description         string
	ImpactScore         int
	Difficulty          Difficulty
	EstimatedCost       float64
	EstimatedSavings    float64
	PaybackPeriodMonths int
	Priority            RecommendationPriority
	ActionItems         []string
}

// IndustryProfile is the single per-industry record of defaults: dashboard
// components, metric catalog, terminology, branding colors, default data
// sources, benchmark values, the deterministic fallback recommendations, and
// the sample data shape. Looked up once instead of re-switching on the
// industry string in every helper.
type IndustryProfile struct {
	Industry           Industry
	DefaultComponents  []string
	AvailableMetrics   []string
	Terminology        map[string]string
	PrimaryColor       string
	SecondaryColor     string
	Benchmarks         map[string]float64
	DefaultDataSources []DataSourceTemplate
	FallbackRecs       []RecommendationTemplate

	// SampleKind is the data point kind written by the sample data step;
	// SampleMetrics produces one demo record's metric map.
	SampleKind    string
	SampleMetrics func(r *rand.Rand) map[string]any
}

// ProfileFor returns the IndustryProfile for the given industry. Unknown
// industries fall back to auto repair, matching the platform's oldest
// vertical.
func ProfileFor(industry Industry) *IndustryProfile {
	if p, ok := industryTable[industry]; ok {
		return p
	}
	return industryTable[IndustryAutoRepair]
}

var industryTable = map[Industry]*IndustryProfile{
	IndustryAutoRepair: {
		Industry: IndustryAutoRepair,
		DefaultComponents: []string{
			"auto-repair-metrics",
			"technician-analysis",
			"financial-calculator",
			"systemic-issues",
			"predictive-analytics",
		},
		AvailableMetrics: []string{
			"repair_completion_time",
			"customer_satisfaction",
			"revenue_per_repair",
			"technician_efficiency",
			"parts_cost_ratio",
			"comeback_rate",
			"labor_productivity",
		},
		Terminology: map[string]string{
			"clients":  "Customers",
			"projects": "Repairs",
			"workers":  "Technicians",
			"revenue":  "Service Revenue",
		},
		PrimaryColor:   "#1976d2",
		SecondaryColor: "#42a5f5",
		Benchmarks: map[string]float64{
			"customer_satisfaction": 4.5,
			"comeback_rate":         0.05,
			"technician_efficiency": 0.85,
		},
		DefaultDataSources: []DataSourceTemplate{
			{
				Name: "Service Records",
				Kind: DataSourceDatabase,
				ConnectionConfig: map[string]any{
					"table":  "data_points",
					"filter": map[string]any{"kind": "service_record"},
				},
				RefreshInterval: time.Hour,
			},
			{
				Name: "Customer Feedback",
				Kind: DataSourceAPI,
				ConnectionConfig: map[string]any{
					"endpoint": "/api/feedback",
					"method":   "GET",
				},
				RefreshInterval: 2 * time.Hour,
			},
		},
		FallbackRecs: []RecommendationTemplate{
			{
				Category:            CategoryEfficiency,
				IndustryType:        "technician_productivity",
				Title:               "Optimize Technician Scheduling",
				Description:         "Analyze peak hours and technician availability to improve scheduling efficiency and reduce customer wait times.",
				ImpactScore:         85,
				Difficulty:          DifficultyMedium,
				EstimatedSavings:    15000,
				PaybackPeriodMonths: 6,
				Priority:            PriorityHigh,
				ActionItems: []string{
					"Review current scheduling patterns",
					"Identify peak demand periods",
					"Implement dynamic scheduling system",
				},
			},
		},
		SampleKind: "service_record",
		SampleMetrics: func(r *rand.Rand) map[string]any {
			partsCost := 50 + r.Float64()*300
			laborCost := 80 + r.Float64()*200
			return map[string]any{
				"vehicle_make":          pick(r, "Toyota", "Honda", "Ford", "Chevrolet"),
				"service_type":          pick(r, "Oil Change", "Brake Repair", "Engine Diagnostic"),
				"technician_name":       pick(r, "John Smith", "Mike Johnson", "Sarah Davis"),
				"labor_hours":           1 + r.Float64()*5,
				"parts_cost":            partsCost,
				"labor_cost":            laborCost,
				"customer_satisfaction": 4 + r.Float64(),
				"total_cost":            partsCost + laborCost,
			}
		},
	},
	IndustryContractors: {
		Industry: IndustryContractors,
		DefaultComponents: []string{
			"contractor-jobs",
			"contractor-revenue",
			"contractor-leads",
			"project-timeline",
			"resource-allocation",
		},
		AvailableMetrics: []string{
			"project_completion_rate",
			"average_project_value",
			"lead_conversion_rate",
			"customer_acquisition_cost",
			"profit_margin",
		},
		Terminology: map[string]string{
			"clients":  "Clients",
			"projects": "Jobs",
			"workers":  "Contractors",
			"revenue":  "Project Revenue",
		},
		PrimaryColor:   "#ff9800",
		SecondaryColor: "#ffb74d",
		Benchmarks: map[string]float64{
			"project_completion_rate": 0.9,
			"profit_margin":           0.2,
			"lead_conversion_rate":    0.3,
		},
		DefaultDataSources: []DataSourceTemplate{
			{
				Name: "Project Data",
				Kind: DataSourceDatabase,
				ConnectionConfig: map[string]any{
					"table":  "data_points",
					"filter": map[string]any{"kind": "project_record"},
				},
				RefreshInterval: time.Hour,
			},
			{
				Name: "Bid Tracking",
				Kind: DataSourceDatabase,
				ConnectionConfig: map[string]any{
					"table":  "data_points",
					"filter": map[string]any{"kind": "bid_record"},
				},
				RefreshInterval: 30 * time.Minute,
			},
		},
		FallbackRecs: []RecommendationTemplate{
			{
				Category:            CategoryRevenue,
				IndustryType:        "project_optimization",
				Title:               "Improve Project Bidding Strategy",
				Description:         "Analyze successful project patterns to optimize bidding and increase win rates.",
				ImpactScore:         78,
				Difficulty:          DifficultyMedium,
				EstimatedSavings:    25000,
				PaybackPeriodMonths: 9,
				Priority:            PriorityHigh,
				ActionItems: []string{
					"Analyze historical bid data",
					"Identify winning bid patterns",
					"Develop pricing optimization model",
				},
			},
		},
		SampleKind: "project_record",
		SampleMetrics: func(r *rand.Rand) map[string]any {
			value := 5000 + r.Float64()*50000
			return map[string]any{
				"project_type":    pick(r, "Residential", "Commercial", "Industrial"),
				"project_value":   value,
				"completion_days": 1 + r.Float64()*30,
				"profit_margin":   10 + r.Float64()*20,
				"total_cost":      value,
			}
		},
	},
	IndustryPropertyManagement: {
		Industry: IndustryPropertyManagement,
		DefaultComponents: []string{
			"property-occupancy",
			"property-maintenance",
			"property-financials",
			"tenant-satisfaction",
			"maintenance-tracking",
		},
		AvailableMetrics: []string{
			"occupancy_rate",
			"rent_collection_rate",
			"maintenance_response_time",
			"tenant_satisfaction",
			"property_value_growth",
		},
		Terminology: map[string]string{
			"clients":  "Tenants",
			"projects": "Properties",
			"workers":  "Staff",
			"revenue":  "Rental Income",
		},
		PrimaryColor:   "#4caf50",
		SecondaryColor: "#81c784",
		Benchmarks: map[string]float64{
			"occupancy_rate":       0.95,
			"rent_collection_rate": 0.98,
			"tenant_satisfaction":  4.2,
		},
		DefaultDataSources: []DataSourceTemplate{
			{
				Name: "Property Data",
				Kind: DataSourceDatabase,
				ConnectionConfig: map[string]any{
					"table":  "data_points",
					"filter": map[string]any{"kind": "property_record"},
				},
				RefreshInterval: time.Hour,
			},
			{
				Name: "Tenant Records",
				Kind: DataSourceDatabase,
				ConnectionConfig: map[string]any{
					"table":  "data_points",
					"filter": map[string]any{"kind": "tenant_record"},
				},
				RefreshInterval: 2 * time.Hour,
			},
		},
		FallbackRecs: []RecommendationTemplate{
			{
				Category:            CategoryOccupancy,
				IndustryType:        "tenant_retention",
				Title:               "Enhance Tenant Retention Program",
				Description:         "Implement proactive tenant engagement strategies to reduce turnover and increase occupancy rates.",
				ImpactScore:         82,
				Difficulty:          DifficultyLow,
				EstimatedSavings:    18000,
				PaybackPeriodMonths: 4,
				Priority:            PriorityHigh,
				ActionItems: []string{
					"Survey current tenants",
					"Identify retention factors",
					"Implement engagement program",
				},
			},
		},
		SampleKind: "property_record",
		SampleMetrics: func(r *rand.Rand) map[string]any {
			rent := 800 + r.Float64()*2000
			occupancy := "occupied"
			if r.Float64() <= 0.1 {
				occupancy = "vacant"
			}
			return map[string]any{
				"property_type":    pick(r, "Apartment", "House", "Condo"),
				"monthly_rent":     rent,
				"occupancy_status": occupancy,
				"maintenance_cost": r.Float64() * 500,
				"total_cost":       rent,
			}
		},
	},
}

func pick(r *rand.Rand, options ...string) string {
	return options[r.IntN(len(options))]
}

// DefaultProfile builds the ClientProfile template content for this industry.
// Caller assigns IDs and the org binding.
func (ip *IndustryProfile) DefaultProfile() ([]ComponentPlacement, []MetricDefinition) {
	layout := make([]ComponentPlacement, 0, len(ip.DefaultComponents))
	for i, componentType := range ip.DefaultComponents {
		layout = append(layout, ComponentPlacement{
			ID:   fmt.Sprintf("%s-%d", componentType, i),
			Type: componentType,
			Position: ComponentPosition{
				X: (i % 2) * 6,
				Y: (i / 2) * 4,
				W: 6,
				H: 4,
			},
			Permissions: []string{RoleViewer},
		})
	}

	metrics := make([]MetricDefinition, 0, len(ip.AvailableMetrics))
	for _, id := range ip.AvailableMetrics {
		metrics = append(metrics, MetricDefinition{
			ID:          id,
			Name:        MetricDisplayName(id),
			Type:        "kpi",
			DataSource:  "default",
			Calculation: "avg",
			Format:      "number",
		})
	}

	return layout, metrics
}
