package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DataSourceKind is the connection kind of a feed.
type DataSourceKind string

const (
	DataSourceDatabase DataSourceKind = "database"
	DataSourceAPI      DataSourceKind = "api"
	DataSourceFile     DataSourceKind = "file"
)

// DataSource describes one external or internal feed for an organization.
type DataSource struct {
	ID               uuid.UUID      `json:"id"`
	OrgID            uuid.UUID      `json:"orgId"`
	Name             string         `json:"name"`
	Kind             DataSourceKind `json:"kind"`
	ConnectionConfig map[string]any `json:"connectionConfig"`
	RefreshInterval  time.Duration  `json:"refreshInterval"`
	CreatedAt        time.Time      `json:"createdAt"`
}

type DataSourceRepository interface {
	Create(ctx context.Context, ds *DataSource) error
	GetByOrgAndName(ctx context.Context, orgID uuid.UUID, name string) (*DataSource, error)
	ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*DataSource, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// DataPoint is one row of tenant analytics data (service record, project
// record, property record, ...).
type DataPoint struct {
	ID         uuid.UUID      `json:"id"`
	OrgID      uuid.UUID      `json:"orgId"`
	Kind       string         `json:"kind"`
	Metrics    map[string]any `json:"metrics"`
	RecordedAt time.Time      `json:"recordedAt"`
}

type DataPointRepository interface {
	CreateBatch(ctx context.Context, points []*DataPoint) error
	CountByOrg(ctx context.Context, orgID uuid.UUID) (int, error)
	ListByOrg(ctx context.Context, orgID uuid.UUID, limit int) ([]*DataPoint, error)
}
