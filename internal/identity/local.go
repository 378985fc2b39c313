package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"

	"github.com/fieldstack/fieldstack/internal/domain"
)

// argon2id parameters following OWASP recommendations.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024 // 64 MiB
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16

	tempPasswordLen = 24
)

// LocalProvider is the built-in identity provider backed by the principals
// repository. New principals receive a random temporary password; the actual
// credential flow (reset link, first login) is handled by the auth surface,
// not by provisioning.
type LocalProvider struct {
	principals domain.PrincipalRepository
	now        func() time.Time
}

func NewLocalProvider(principals domain.PrincipalRepository) *LocalProvider {
	return &LocalProvider{
		principals: principals,
		now:        time.Now,
	}
}

// CreatePrincipal creates a principal for the email, or returns the existing
// one with created=false. A concurrent create losing the email uniqueness
// race is resolved by re-reading the winner.
func (p *LocalProvider) CreatePrincipal(ctx context.Context, email string, meta PrincipalMetadata) (uuid.UUID, bool, error) {
	existing, err := p.principals.GetByEmail(ctx, email)
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return uuid.Nil, false, fmt.Errorf("identity.LocalProvider.CreatePrincipal: lookup: %w", err)
	}

	hash, err := hashTempPassword()
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("identity.LocalProvider.CreatePrincipal: %w", err)
	}

	principal := &domain.Principal{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    meta.FirstName,
		LastName:     meta.LastName,
		CreatedAt:    p.now(),
	}

	err = p.principals.Create(ctx, principal)
	if errors.Is(err, domain.ErrConflict) {
		// Lost the race; reuse the winner.
		winner, getErr := p.principals.GetByEmail(ctx, email)
		if getErr != nil {
			return uuid.Nil, false, fmt.Errorf("identity.LocalProvider.CreatePrincipal: conflict re-read: %w", getErr)
		}
		return winner.ID, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("identity.LocalProvider.CreatePrincipal: %w", err)
	}

	return principal.ID, true, nil
}

func hashTempPassword() (string, error) {
	pw := make([]byte, tempPasswordLen)
	if _, err := rand.Read(pw); err != nil {
		return "", fmt.Errorf("generating temp password: %w", err)
	}

	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	hash := argon2.IDKey(pw, salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(hash), nil
}
