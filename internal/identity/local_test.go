package identity_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldstack/fieldstack/internal/domain"
	"github.com/fieldstack/fieldstack/internal/identity"
	"github.com/fieldstack/fieldstack/internal/store/memory"
)

func TestCreatePrincipal_New(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.New()
	provider := identity.NewLocalProvider(store.Principals())

	id, created, err := provider.CreatePrincipal(ctx, "dana@precisionauto.example", identity.PrincipalMetadata{
		FirstName: "Dana",
		LastName:  "Reyes",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, uuid.Nil, id)

	principal, err := store.Principals().GetByEmail(ctx, "dana@precisionauto.example")
	require.NoError(t, err)
	assert.Equal(t, id, principal.ID)
	assert.Equal(t, "Dana", principal.FirstName)
	assert.Equal(t, "Reyes", principal.LastName)
	assert.NotEmpty(t, principal.PasswordHash, "temp credential is always set")
	assert.False(t, principal.CreatedAt.IsZero())
}

func TestCreatePrincipal_ExistingEmailReused(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := identity.NewLocalProvider(memory.New().Principals())

	first, created, err := provider.CreatePrincipal(ctx, "dana@precisionauto.example", identity.PrincipalMetadata{})
	require.NoError(t, err)
	require.True(t, created)

	// Same email with different metadata reuses the existing principal.
	second, created, err := provider.CreatePrincipal(ctx, "dana@precisionauto.example", identity.PrincipalMetadata{
		FirstName: "Someone",
		LastName:  "Else",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first, second)
}

func TestCreatePrincipal_DistinctEmails(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := identity.NewLocalProvider(memory.New().Principals())

	a, _, err := provider.CreatePrincipal(ctx, "a@example.com", identity.PrincipalMetadata{})
	require.NoError(t, err)
	b, _, err := provider.CreatePrincipal(ctx, "b@example.com", identity.PrincipalMetadata{})
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestCreatePrincipal_LookupError(t *testing.T) {
	t.Parallel()

	provider := identity.NewLocalProvider(failingPrincipals{})

	_, _, err := provider.CreatePrincipal(context.Background(), "x@example.com", identity.PrincipalMetadata{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lookup")
}

type failingPrincipals struct{ domain.PrincipalRepository }

func (failingPrincipals) GetByEmail(context.Context, string) (*domain.Principal, error) {
	return nil, assert.AnError
}
