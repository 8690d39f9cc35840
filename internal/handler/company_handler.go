package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "podium/internal/errors"
	"podium/internal/service"
)

// CompanyHandler serves client company administration.
type CompanyHandler struct {
	svc service.CompanyService
}

// NewCompanyHandler creates a company handler.
func NewCompanyHandler(svc service.CompanyService) *CompanyHandler {
	return &CompanyHandler{svc: svc}
}

// CompanyRequest represents a new client company.
type CompanyRequest struct {
	Name  string `json:"name" validate:"required"`
	TaxID string `json:"tax_id" validate:"required"`
}

// CreateCompany godoc
// @Summary Register a client company
// @Tags companies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CompanyRequest true "Company"
// @Success 201 {object} model.Company
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /companies [post]
func (h *CompanyHandler) CreateCompany(c echo.Context) error {
	var req CompanyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	company, err := h.svc.Create(c.Request().Context(), req.Name, req.TaxID)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, company)
}

// ListCompanies godoc
// @Summary List client companies
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Offset"
// @Param limit query int false "Page size (max 500)"
// @Success 200 {array} model.Company
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /companies [get]
func (h *CompanyHandler) ListCompanies(c echo.Context) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return err
	}
	companies, err := h.svc.List(c.Request().Context(), page)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, companies)
}
