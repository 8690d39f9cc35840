package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "podium/internal/errors"
	"podium/internal/middleware"
	"podium/internal/service"
)

// StatsHandler serves the dashboards.
type StatsHandler struct {
	svc service.DashboardService
}

// NewStatsHandler creates a stats handler.
func NewStatsHandler(svc service.DashboardService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

// AdminDashboard godoc
// @Summary Fleet KPIs for today (UTC)
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.AdminKPIs
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /stats/dashboard [get]
func (h *StatsHandler) AdminDashboard(c echo.Context) error {
	kpis, err := h.svc.Admin(c.Request().Context())
	if err != nil {
		return apperrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, kpis)
}

// CorporateDashboard godoc
// @Summary KPIs of the caller's company for the current month (UTC)
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.CorporateKPIs
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /stats/corporate/dashboard [get]
func (h *StatsHandler) CorporateDashboard(c echo.Context) error {
	kpis, err := h.svc.Corporate(c.Request().Context(), middleware.Principal(c))
	if err != nil {
		return apperrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, kpis)
}
