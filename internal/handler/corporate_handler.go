package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	apperrors "podium/internal/errors"
	"podium/internal/middleware"
	"podium/internal/service"
)

// CorporateHandler serves a company's own cost centers, employees and rides.
// Routes are mounted behind RequireTenant.
type CorporateHandler struct {
	svc service.CorporateService
}

// NewCorporateHandler creates a corporate handler.
func NewCorporateHandler(svc service.CorporateService) *CorporateHandler {
	return &CorporateHandler{svc: svc}
}

// CostCenterRequest represents a new cost center.
type CostCenterRequest struct {
	Name        string           `json:"name" validate:"required"`
	Code        string           `json:"code" validate:"required"`
	BudgetLimit *decimal.Decimal `json:"budget_limit" swaggertype:"number"`
	IsActive    *bool            `json:"is_active"`
}

// EmployeeRequest represents a colleague registered by an employee.
type EmployeeRequest struct {
	Email      string  `json:"email" validate:"required,email"`
	FullName   string  `json:"full_name" validate:"required"`
	Password   string  `json:"password" validate:"required,min=6"`
	Department *string `json:"department"`
	Phone      *string `json:"phone"`
}

// RideRequest represents a ride booked against a cost center.
type RideRequest struct {
	OriginLat     float64 `json:"origin_lat" validate:"latitude"`
	OriginLng     float64 `json:"origin_lng" validate:"longitude"`
	OriginAddress string  `json:"origin_address" validate:"required"`
	DestLat       float64 `json:"dest_lat" validate:"latitude"`
	DestLng       float64 `json:"dest_lng" validate:"longitude"`
	DestAddress   string  `json:"dest_address" validate:"required"`
	DistanceKm    float64 `json:"distance_km" validate:"gt=0"`
	CostCenterID  uint    `json:"cost_center_id" validate:"required"`
}

// ListCostCenters godoc
// @Summary List the caller's company cost centers
// @Tags corporate
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Offset"
// @Param limit query int false "Page size (max 500)"
// @Success 200 {array} model.CostCenter
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /corporate/cost-centers [get]
func (h *CorporateHandler) ListCostCenters(c echo.Context) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return err
	}
	centers, err := h.svc.ListCostCenters(c.Request().Context(), middleware.Principal(c), page)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, centers)
}

// CreateCostCenter godoc
// @Summary Create a cost center in the caller's company
// @Description company_id must be the caller's own company.
// @Tags corporate
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param company_id query int true "Target company"
// @Param request body CostCenterRequest true "Cost center"
// @Success 201 {object} model.CostCenter
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /corporate/cost-centers [post]
func (h *CorporateHandler) CreateCostCenter(c echo.Context) error {
	var companyID uint
	if err := echo.QueryParamsBinder(c).MustUint("company_id", &companyID).BindError(); err != nil {
		return invalidQuery(err)
	}
	var req CostCenterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	center, err := h.svc.CreateCostCenter(c.Request().Context(), middleware.Principal(c), companyID, service.CostCenterInput{
		Name:        req.Name,
		Code:        req.Code,
		BudgetLimit: req.BudgetLimit,
		IsActive:    active,
	})
	if err != nil {
		return apperrors.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, center)
}

// ListEmployees godoc
// @Summary List the caller's company employees
// @Tags corporate
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Offset"
// @Param limit query int false "Page size (max 500)"
// @Success 200 {array} model.EmployeeProfile
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /corporate/employees [get]
func (h *CorporateHandler) ListEmployees(c echo.Context) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return err
	}
	employees, err := h.svc.ListEmployees(c.Request().Context(), middleware.Principal(c), page)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, employees)
}

// CreateEmployee godoc
// @Summary Register an employee in the caller's company
// @Tags corporate
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param company_id query int true "Target company"
// @Param cost_center_id query int false "Cost center of the same company"
// @Param request body EmployeeRequest true "Employee"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /corporate/employees [post]
func (h *CorporateHandler) CreateEmployee(c echo.Context) error {
	var companyID uint
	var costCenter uint
	if err := echo.QueryParamsBinder(c).
		MustUint("company_id", &companyID).
		Uint("cost_center_id", &costCenter).
		BindError(); err != nil {
		return invalidQuery(err)
	}
	var costCenterID *uint
	if c.QueryParam("cost_center_id") != "" {
		costCenterID = &costCenter
	}

	var req EmployeeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.svc.CreateEmployee(c.Request().Context(), middleware.Principal(c), companyID, costCenterID, service.EmployeeSignupInput{
		SignupInput: service.SignupInput{Email: req.Email, FullName: req.FullName, Password: req.Password},
		CompanyID:   companyID,
		Department:  req.Department,
		Phone:       req.Phone,
	})
	if err != nil {
		return apperrors.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

// RequestRide godoc
// @Summary Book a ride on a cost center of the caller's company
// @Description The price is quoted from the default pricing rule and frozen on the ride.
// @Tags corporate
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RideRequest true "Ride"
// @Success 201 {object} model.Ride
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /corporate/rides [post]
func (h *CorporateHandler) RequestRide(c echo.Context) error {
	var req RideRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ride, err := h.svc.RequestRide(c.Request().Context(), middleware.Principal(c), service.RideInput{
		OriginLat:     req.OriginLat,
		OriginLng:     req.OriginLng,
		OriginAddress: req.OriginAddress,
		DestLat:       req.DestLat,
		DestLng:       req.DestLng,
		DestAddress:   req.DestAddress,
		DistanceKm:    req.DistanceKm,
		CostCenterID:  req.CostCenterID,
	})
	if err != nil {
		return apperrors.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, ride)
}

// ListRides godoc
// @Summary List the caller's company rides
// @Tags corporate
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Offset"
// @Param limit query int false "Page size (max 500)"
// @Success 200 {array} model.Ride
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /corporate/rides [get]
func (h *CorporateHandler) ListRides(c echo.Context) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return err
	}
	rides, err := h.svc.ListRides(c.Request().Context(), middleware.Principal(c), page)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, rides)
}
