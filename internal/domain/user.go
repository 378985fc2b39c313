package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Principal is an authenticated identity owned by the identity provider.
// Email is unique across the whole system, not per tenant.
type Principal struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string // argon2id
	FirstName    string
	LastName     string
	CreatedAt    time.Time
}

type PrincipalRepository interface {
	// Create inserts a principal. Returns ErrConflict (wrapped) when the email
	// already exists.
	Create(ctx context.Context, p *Principal) error
	GetByID(ctx context.Context, id uuid.UUID) (*Principal, error)
	GetByEmail(ctx context.Context, email string) (*Principal, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Roles a tenant-scoped user can hold.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleAnalyst = "analyst"
	RoleViewer  = "viewer"
)

// AdminPermissions is the full capability set granted to a provisioned admin.
func AdminPermissions() []string {
	return []string{"admin", "analytics", "reports", "settings", "users"}
}

// UserPreferences drive notification and dashboard behavior.
type UserPreferences struct {
	Theme                  string `json:"theme"`
	Notifications          bool   `json:"notifications"`
	DashboardRefreshRate   int    `json:"dashboardRefreshRate"` // seconds
	EmailNotifications     bool   `json:"emailNotifications"`
	DashboardNotifications bool   `json:"dashboardNotifications"`
	WeeklyReports          bool   `json:"weeklyReports"`
}

// UserProfile holds the human-facing attributes of a user record.
type UserProfile struct {
	FirstName   string          `json:"firstName"`
	LastName    string          `json:"lastName"`
	Phone       string          `json:"phone,omitempty"`
	Preferences UserPreferences `json:"preferences"`
}

// User is the tenant-scoped record for a principal. The same principal may
// hold user records in multiple organizations; ID always equals the principal
// ID and (ID, OrgID) is the record key.
type User struct {
	ID          uuid.UUID   `json:"id"`
	Email       string      `json:"email"`
	OrgID       uuid.UUID   `json:"orgId"`
	Role        string      `json:"role"`
	Permissions []string    `json:"permissions"`
	IsActive    bool        `json:"isActive"`
	Profile     UserProfile `json:"profile"`
	LastLoginAt *time.Time  `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type UserRepository interface {
	// Upsert inserts the user record or replaces an existing (id, org) record.
	Upsert(ctx context.Context, u *User) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*User, error)
	GetByOrgAndEmail(ctx context.Context, orgID uuid.UUID, email string) (*User, error)
	// GetAdmin returns any admin user of the organization, or ErrNotFound.
	GetAdmin(ctx context.Context, orgID uuid.UUID) (*User, error)
	UpdatePreferences(ctx context.Context, orgID uuid.UUID, email string, prefs UserPreferences) error
	ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*User, error)
}
