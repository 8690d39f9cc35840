package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "podium/internal/errors"
	"podium/internal/middleware"
	"podium/internal/model"
	"podium/internal/repository"
	"podium/internal/service"
)

// UserHandler serves user listing and driver telemetry.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a user handler.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// LocationRequest is a driver position report.
type LocationRequest struct {
	Lat *float64 `json:"lat" validate:"required"`
	Lng *float64 `json:"lng" validate:"required"`
}

// ListUsers godoc
// @Summary List users
// @Description Drivers include their last reported position.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param role query string false "admin, driver or employee"
// @Param skip query int false "Offset"
// @Param limit query int false "Page size (max 500)"
// @Success 200 {array} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return err
	}
	users, err := h.svc.ListUsers(c.Request().Context(), repository.UserFilter{
		Page: page,
		Role: model.Role(c.QueryParam("role")),
	})
	if err != nil {
		return apperrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// UpdateLocation godoc
// @Summary Report the caller's position
// @Description Drivers get status "updated"; every other role gets "ignored".
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body LocationRequest true "Coordinates"
// @Success 200 {object} service.LocationUpdate
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/me/location [patch]
func (h *UserHandler) UpdateLocation(c echo.Context) error {
	var req LocationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	res, err := h.svc.UpdateLocation(c.Request().Context(), middleware.Principal(c), *req.Lat, *req.Lng)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
