package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "podium/internal/errors"
	"podium/internal/service"
)

// LeadHandler captures contacts from the public website.
type LeadHandler struct {
	svc service.LeadService
}

// NewLeadHandler creates a lead handler.
func NewLeadHandler(svc service.LeadService) *LeadHandler {
	return &LeadHandler{svc: svc}
}

// LeadRequest represents a website contact.
type LeadRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
}

// CreateLead godoc
// @Summary Capture a lead
// @Tags leads
// @Accept json
// @Produce json
// @Param request body LeadRequest true "Lead"
// @Success 201 {object} model.Lead
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /leads [post]
func (h *LeadHandler) CreateLead(c echo.Context) error {
	var req LeadRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	lead, err := h.svc.Create(c.Request().Context(), req.FullName, req.Email, req.Phone)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, lead)
}
