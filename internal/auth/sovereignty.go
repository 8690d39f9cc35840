package auth

import (
	"log/slog"

	apperrors "podium/internal/errors"
	"podium/internal/model"
)

// TenantQuery is a company-scoped read that can be pinned to one company.
type TenantQuery interface {
	RestrictToCompany(companyID uint)
}

// CompanyOwned is a row that belongs to exactly one company.
type CompanyOwned interface {
	OwningCompanyID() uint
}

// SovereigntyEnforcer keeps tenant users inside their own company.
type SovereigntyEnforcer struct {
	logger *slog.Logger
}

// NewSovereigntyEnforcer creates an enforcer. A nil logger uses slog.Default().
func NewSovereigntyEnforcer(logger *slog.Logger) *SovereigntyEnforcer {
	if logger == nil {
		logger = slog.Default()
	}
	return &SovereigntyEnforcer{logger: logger}
}

// ResolveOwnedCompany returns the company an employee belongs to. Every other
// role is refused, including admin.
func (s *SovereigntyEnforcer) ResolveOwnedCompany(p *Principal) (uint, error) {
	if p == nil {
		return 0, apperrors.ErrUnauthorized
	}
	if p.Role != model.RoleEmployee {
		return 0, apperrors.ErrForbidden
	}
	profile, ok := p.Employee()
	if !ok {
		return 0, apperrors.ErrProfileMissing
	}
	return profile.CompanyID, nil
}

// AuthorizeWrite allows a write only when requestedCompanyID is the caller's
// own company. The request is rejected, never rewritten.
func (s *SovereigntyEnforcer) AuthorizeWrite(p *Principal, requestedCompanyID uint) error {
	owned, err := s.ResolveOwnedCompany(p)
	if err != nil {
		return err
	}
	if owned != requestedCompanyID {
		s.logger.Warn("tenant mismatch on write",
			"principal_id", p.ID,
			"owned_company_id", owned,
			"requested_company_id", requestedCompanyID,
		)
		return apperrors.ErrForbidden
	}
	return nil
}

// ScopeRead pins q to the caller's company, overriding any company filter
// already set on it.
func (s *SovereigntyEnforcer) ScopeRead(p *Principal, q TenantQuery) (uint, error) {
	owned, err := s.ResolveOwnedCompany(p)
	if err != nil {
		return 0, err
	}
	q.RestrictToCompany(owned)
	return owned, nil
}

// FilterOwned drops every row not owned by companyID.
func FilterOwned[T CompanyOwned](companyID uint, rows []T) []T {
	out := rows[:0:0]
	for _, row := range rows {
		if row.OwningCompanyID() == companyID {
			out = append(out, row)
		}
	}
	return out
}
