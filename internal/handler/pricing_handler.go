package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	apperrors "podium/internal/errors"
	"podium/internal/service"
)

// PricingHandler serves the public price tables.
type PricingHandler struct {
	svc service.PricingService
}

// NewPricingHandler creates a pricing handler.
func NewPricingHandler(svc service.PricingService) *PricingHandler {
	return &PricingHandler{svc: svc}
}

// PricingTierRequest is one distance band.
type PricingTierRequest struct {
	MinDistanceKm float64         `json:"min_distance_km" validate:"gte=0"`
	MaxDistanceKm float64         `json:"max_distance_km" validate:"gtfield=MinDistanceKm"`
	FixedPrice    decimal.Decimal `json:"fixed_price" swaggertype:"number"`
}

// PricingRuleRequest represents a new price table.
type PricingRuleRequest struct {
	Name                 string               `json:"name" validate:"required"`
	Category             string               `json:"category"`
	IsTiered             *bool                `json:"is_tiered"`
	PricePerKmAfterTiers decimal.Decimal      `json:"price_per_km_after_tiers" swaggertype:"number"`
	IsActive             *bool                `json:"is_active"`
	IsDefault            bool                 `json:"is_default"`
	Tiers                []PricingTierRequest `json:"tiers" validate:"dive"`
}

// QuoteResponse is the price of a trip.
type QuoteResponse struct {
	DistanceKm float64 `json:"distance_km"`
	Price      float64 `json:"price"`
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// ListPricing godoc
// @Summary List pricing rules with their tiers
// @Tags pricing
// @Produce json
// @Param skip query int false "Offset"
// @Param limit query int false "Page size (max 500)"
// @Success 200 {array} model.PricingRule
// @Router /pricing [get]
func (h *PricingHandler) ListPricing(c echo.Context) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return err
	}
	rules, err := h.svc.List(c.Request().Context(), page)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, rules)
}

// CreatePricing godoc
// @Summary Create a pricing rule
// @Description A default rule replaces the previous default.
// @Tags pricing
// @Accept json
// @Produce json
// @Param request body PricingRuleRequest true "Pricing rule"
// @Success 201 {object} model.PricingRule
// @Failure 400 {object} errors.ErrorResponse
// @Router /pricing [post]
func (h *PricingHandler) CreatePricing(c echo.Context) error {
	var req PricingRuleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in := service.PricingRuleInput{
		Name:                 req.Name,
		Category:             req.Category,
		IsTiered:             boolOr(req.IsTiered, true),
		PricePerKmAfterTiers: req.PricePerKmAfterTiers,
		IsActive:             boolOr(req.IsActive, true),
		IsDefault:            req.IsDefault,
	}
	for _, t := range req.Tiers {
		in.Tiers = append(in.Tiers, service.PricingTierInput{
			MinDistanceKm: t.MinDistanceKm,
			MaxDistanceKm: t.MaxDistanceKm,
			FixedPrice:    t.FixedPrice,
		})
	}

	rule, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, rule)
}

// Quote godoc
// @Summary Quote a trip with the default pricing rule
// @Tags pricing
// @Produce json
// @Param distance_km query number true "Trip distance"
// @Success 200 {object} QuoteResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /pricing/quote [get]
func (h *PricingHandler) Quote(c echo.Context) error {
	var distance float64
	if err := echo.QueryParamsBinder(c).MustFloat64("distance_km", &distance).BindError(); err != nil {
		return invalidQuery(err)
	}
	price, err := h.svc.Quote(c.Request().Context(), distance)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, QuoteResponse{DistanceKm: distance, Price: price.InexactFloat64()})
}
