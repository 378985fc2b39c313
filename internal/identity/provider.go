// Package identity abstracts the identity provider that owns authenticated
// principals. Provisioning only needs one operation: create-or-reuse a
// principal for an email address.
package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrProviderUnavailable is returned when the provider cannot be reached.
var ErrProviderUnavailable = errors.New("identity: provider unavailable")

// PrincipalMetadata carries the attributes recorded on a newly created
// principal.
type PrincipalMetadata struct {
	FirstName string
	LastName  string
	OrgID     uuid.UUID
	Role      string
}

// Provider creates authenticated principals. "Email already exists" is a
// distinguishable, non-fatal outcome: the existing principal id is returned
// with created=false.
type Provider interface {
	CreatePrincipal(ctx context.Context, email string, meta PrincipalMetadata) (id uuid.UUID, created bool, err error)
}
