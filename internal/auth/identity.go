package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	apperrors "podium/internal/errors"
	"podium/internal/model"
)

// TokenValidator validates a bearer token and returns its subject.
type TokenValidator interface {
	Validate(token string) (string, error)
}

// UserLoader loads a user together with its role profile.
type UserLoader interface {
	FindByIDWithProfiles(ctx context.Context, id uint) (*model.User, error)
}

// IdentityResolver turns a bearer token into a live Principal.
type IdentityResolver struct {
	tokens TokenValidator
	users  UserLoader
}

// NewIdentityResolver creates a resolver.
func NewIdentityResolver(tokens TokenValidator, users UserLoader) *IdentityResolver {
	return &IdentityResolver{tokens: tokens, users: users}
}

// Subject validates token and parses its subject as a user id.
func (r *IdentityResolver) Subject(token string) (uint, error) {
	if strings.TrimSpace(token) == "" {
		return 0, apperrors.ErrUnauthorized
	}
	sub, err := r.tokens.Validate(token)
	if err != nil {
		return 0, apperrors.ErrUnauthorized
	}
	id, err := strconv.ParseUint(sub, 10, 0)
	if err != nil || id == 0 {
		return 0, apperrors.ErrUnauthorized
	}
	return uint(id), nil
}

// Load fetches the user behind a validated subject. A vanished user is
// ErrUnauthorized; a deactivated one is ErrInactiveAccount.
func (r *IdentityResolver) Load(ctx context.Context, userID uint) (*Principal, error) {
	user, err := r.users.FindByIDWithProfiles(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("load principal: %w", err)
	}
	if !user.IsActive {
		return nil, apperrors.ErrInactiveAccount
	}
	return NewPrincipal(user), nil
}

// Resolve runs Subject then Load.
func (r *IdentityResolver) Resolve(ctx context.Context, token string) (*Principal, error) {
	id, err := r.Subject(token)
	if err != nil {
		return nil, err
	}
	return r.Load(ctx, id)
}
