package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "podium/internal/errors"
	"podium/internal/service"
)

// AuthHandler handles signup and login endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignupRequest represents the fields shared by every signup.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

func (r SignupRequest) input() service.SignupInput {
	return service.SignupInput{Email: r.Email, FullName: r.FullName, Password: r.Password}
}

// DriverSignupRequest represents a driver signup.
type DriverSignupRequest struct {
	SignupRequest
	VehicleModel  string `json:"vehicle_model" validate:"required"`
	VehiclePlate  string `json:"vehicle_plate" validate:"required"`
	LicenseNumber string `json:"license_number" validate:"required"`
}

// EmployeeSignupRequest represents an employee signup.
type EmployeeSignupRequest struct {
	SignupRequest
	CompanyID    uint    `json:"company_id" validate:"required"`
	CostCenterID *uint   `json:"cost_center_id"`
	Department   *string `json:"department"`
	Phone        *string `json:"phone"`
}

// LoginRequest accepts JSON {email, password} or an OAuth2 password form
// with username and password.
type LoginRequest struct {
	Email    string `json:"email" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// TokenResponse represents a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// SignupAdmin godoc
// @Summary Register an admin
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Signup data"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /signup/admin [post]
func (h *AuthHandler) SignupAdmin(c echo.Context) error {
	var req SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.authService.SignupAdmin(c.Request().Context(), req.input())
	if err != nil {
		return apperrors.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

// SignupDriver godoc
// @Summary Register a driver with their vehicle
// @Tags auth
// @Accept json
// @Produce json
// @Param request body DriverSignupRequest true "Signup data"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /signup/driver [post]
func (h *AuthHandler) SignupDriver(c echo.Context) error {
	var req DriverSignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.authService.SignupDriver(c.Request().Context(), service.DriverSignupInput{
		SignupInput:   req.input(),
		VehicleModel:  req.VehicleModel,
		VehiclePlate:  req.VehiclePlate,
		LicenseNumber: req.LicenseNumber,
	})
	if err != nil {
		return apperrors.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

// SignupEmployee godoc
// @Summary Register an employee of a client company
// @Tags auth
// @Accept json
// @Produce json
// @Param request body EmployeeSignupRequest true "Signup data"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /signup/employee [post]
func (h *AuthHandler) SignupEmployee(c echo.Context) error {
	var req EmployeeSignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.authService.SignupEmployee(c.Request().Context(), service.EmployeeSignupInput{
		SignupInput:  req.input(),
		CompanyID:    req.CompanyID,
		CostCenterID: req.CostCenterID,
		Department:   req.Department,
		Phone:        req.Phone,
	})
	if err != nil {
		return apperrors.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

// Login godoc
// @Summary Exchange credentials for a bearer token
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}
