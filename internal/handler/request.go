package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "podium/internal/errors"
	"podium/internal/repository"
)

// bindAndValidate decodes the request into req and runs the registered validator.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}
	return nil
}

func invalidQuery(err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
		Error: err.Error(),
		Code:  "INVALID_QUERY",
	})
}

// pageFromQuery reads skip and limit.
func pageFromQuery(c echo.Context) (repository.Page, error) {
	var page repository.Page
	err := echo.QueryParamsBinder(c).
		Int("skip", &page.Skip).
		Int("limit", &page.Limit).
		BindError()
	if err != nil {
		return page, invalidQuery(err)
	}
	return page, nil
}
