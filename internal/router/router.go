package router

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"podium/internal/auth"
	"podium/internal/config"
	"podium/internal/handler"
	"podium/internal/middleware"
	"podium/internal/model"
)

// Handlers groups every HTTP handler mounted by Register.
type Handlers struct {
	Auth      *handler.AuthHandler
	Users     *handler.UserHandler
	Stats     *handler.StatsHandler
	Corporate *handler.CorporateHandler
	Companies *handler.CompanyHandler
	Leads     *handler.LeadHandler
	Pricing   *handler.PricingHandler
}

// Register wires middleware and routes.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger *slog.Logger,
	resolver *auth.IdentityResolver,
	enforcer *auth.SovereigntyEnforcer,
	h Handlers,
) {
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(logger))
	e.Use(echomw.Recover())
	if len(cfg.CORSOrigins) > 0 {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins: cfg.CORSOrigins,
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		}))
	}

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"service": "podium", "docs": "/swagger/index.html"})
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1")
	authn := middleware.Authenticate(resolver)
	adminOnly := middleware.RequireRoles(model.RoleAdmin)

	// Public routes
	api.POST("/signup/admin", h.Auth.SignupAdmin)
	api.POST("/signup/driver", h.Auth.SignupDriver)
	api.POST("/signup/employee", h.Auth.SignupEmployee)
	api.POST("/login", h.Auth.Login)
	api.POST("/leads", h.Leads.CreateLead)
	api.GET("/pricing", h.Pricing.ListPricing)
	api.POST("/pricing", h.Pricing.CreatePricing)
	api.GET("/pricing/quote", h.Pricing.Quote)

	// Users
	api.GET("/users", h.Users.ListUsers, authn, adminOnly)
	api.PATCH("/users/me/location", h.Users.UpdateLocation, authn)

	// Dashboards
	api.GET("/stats/dashboard", h.Stats.AdminDashboard, authn, adminOnly)
	api.GET("/stats/corporate/dashboard", h.Stats.CorporateDashboard, authn,
		middleware.RequireRoles(model.RoleAdmin, model.RoleEmployee))

	// Companies
	api.GET("/companies", h.Companies.ListCompanies, authn, adminOnly)
	api.POST("/companies", h.Companies.CreateCompany, authn, adminOnly)

	// Tenant routes
	corporate := api.Group("/corporate", authn,
		middleware.RequireRoles(model.RoleEmployee),
		middleware.RequireTenant(enforcer),
	)
	corporate.GET("/cost-centers", h.Corporate.ListCostCenters)
	corporate.POST("/cost-centers", h.Corporate.CreateCostCenter)
	corporate.GET("/employees", h.Corporate.ListEmployees)
	corporate.POST("/employees", h.Corporate.CreateEmployee)
	corporate.GET("/rides", h.Corporate.ListRides)
	corporate.POST("/rides", h.Corporate.RequestRide)
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			logger.Log(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
