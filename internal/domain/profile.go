package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ComponentPosition places a dashboard component on the grid.
type ComponentPosition struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// ComponentPlacement is one dashboard component with its grid position and
// the viewer permission required to see it.
type ComponentPlacement struct {
	ID          string            `json:"id"`
	Type        string            `json:"type"`
	Position    ComponentPosition `json:"position"`
	Permissions []string          `json:"permissions"`
}

// MetricDefinition is one named metric in a tenant's catalog.
type MetricDefinition struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"` // "kpi", "chart", "table", "gauge"
	DataSource  string `json:"dataSource"`
	Calculation string `json:"calculation"`
	Format      string `json:"format"` // "number", "currency", "percentage", "date"
}

// ClientProfile is the per-organization dashboard composition and metric
// catalog, created once at provisioning time from the industry template.
type ClientProfile struct {
	ID              uuid.UUID            `json:"id"`
	OrgID           uuid.UUID            `json:"orgId"`
	DashboardLayout []ComponentPlacement `json:"dashboardLayout"`
	Metrics         []MetricDefinition   `json:"metrics"`
	Terminology     map[string]string    `json:"terminology"`
	CreatedAt       time.Time            `json:"createdAt"`
}

type ClientProfileRepository interface {
	Create(ctx context.Context, p *ClientProfile) error
	GetByOrg(ctx context.Context, orgID uuid.UUID) (*ClientProfile, error)
	Delete(ctx context.Context, orgID uuid.UUID) error
}

// MetricDisplayName converts a snake_case metric id into its human name,
// e.g. "repair_completion_time" -> "Repair Completion Time".
func MetricDisplayName(id string) string {
	words := strings.Split(id, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
