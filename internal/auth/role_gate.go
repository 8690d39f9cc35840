package auth

import (
	apperrors "podium/internal/errors"
	"podium/internal/model"
)

// RoleGate authorizes a resolved principal against an explicit allow-set.
// Roles are not ordered: admin is allowed only where it is listed.
type RoleGate struct {
	allowed map[model.Role]struct{}
}

// NewRoleGate creates a gate admitting exactly roles.
func NewRoleGate(roles ...model.Role) RoleGate {
	allowed := make(map[model.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return RoleGate{allowed: allowed}
}

// Allows reports whether role is in the allow-set.
func (g RoleGate) Allows(role model.Role) bool {
	_, ok := g.allowed[role]
	return ok
}

// Check returns ErrForbidden unless p's role is allowed. A nil principal is
// a wiring error and is treated as unauthenticated.
func (g RoleGate) Check(p *Principal) error {
	if p == nil {
		return apperrors.ErrUnauthorized
	}
	if !g.Allows(p.Role) {
		return apperrors.ErrForbidden
	}
	return nil
}
