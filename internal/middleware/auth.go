package middleware

import (
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"podium/internal/auth"
	apperrors "podium/internal/errors"
	"podium/internal/model"
)

const (
	subjectKey   = "auth.subject"
	principalKey = "auth.principal"
	companyKey   = "auth.company_id"
)

// Authenticate extracts the bearer token, validates it and loads the live
// user behind it. Every token failure is reported as ErrUnauthorized; a
// deactivated account is ErrInactiveAccount.
func Authenticate(resolver *auth.IdentityResolver) echo.MiddlewareFunc {
	parse := echojwt.WithConfig(echojwt.Config{
		ContextKey: subjectKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return resolver.Subject(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return apperrors.Respond(c, apperrors.ErrUnauthorized)
		},
	})

	load := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := c.Get(subjectKey).(uint)
			if !ok {
				return apperrors.Respond(c, apperrors.ErrUnauthorized)
			}
			p, err := resolver.Load(c.Request().Context(), id)
			if err != nil {
				return apperrors.Respond(c, err)
			}
			SetPrincipal(c, p)
			return next(c)
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return parse(load(next))
	}
}

// RequireRoles admits only principals whose role is in roles. It must run
// after Authenticate.
func RequireRoles(roles ...model.Role) echo.MiddlewareFunc {
	gate := auth.NewRoleGate(roles...)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := gate.Check(Principal(c)); err != nil {
				return apperrors.Respond(c, err)
			}
			return next(c)
		}
	}
}

// RequireTenant resolves the caller's own company and stores it for the
// handler. Callers without one are refused before any store access.
func RequireTenant(enforcer *auth.SovereigntyEnforcer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			companyID, err := enforcer.ResolveOwnedCompany(Principal(c))
			if err != nil {
				return apperrors.Respond(c, err)
			}
			c.Set(companyKey, companyID)
			return next(c)
		}
	}
}

// Principal returns the authenticated caller, or nil outside Authenticate.
func Principal(c echo.Context) *auth.Principal {
	p, _ := c.Get(principalKey).(*auth.Principal)
	return p
}

// SetPrincipal stores the authenticated caller on c.
func SetPrincipal(c echo.Context, p *auth.Principal) {
	c.Set(principalKey, p)
}

// CompanyID returns the company resolved by RequireTenant.
func CompanyID(c echo.Context) (uint, bool) {
	id, ok := c.Get(companyKey).(uint)
	return id, ok
}
