package errors

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

var (
	// ErrDuplicateEmail is returned when signing up with an email already on file.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials is returned on login with an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	// ErrUnauthorized covers every missing, malformed, expired or tampered token.
	ErrUnauthorized = errors.New("could not validate credentials")
	// ErrInactiveAccount is returned when a valid token belongs to a deactivated account.
	ErrInactiveAccount = errors.New("inactive account")
	// ErrForbidden is returned on a role or tenant mismatch.
	ErrForbidden = errors.New("permission denied")
	// ErrProfileMissing is returned when a role's profile row does not exist.
	ErrProfileMissing = errors.New("profile not found for role")
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrDuplicateTaxID is returned when a company tax id is already registered.
	ErrDuplicateTaxID = errors.New("tax id already registered")
	// ErrDuplicateLead is returned when a lead email was already captured.
	ErrDuplicateLead = errors.New("lead email already registered")
	// ErrNoPricingRule is returned when no active default pricing rule exists.
	ErrNoPricingRule = errors.New("no default pricing rule configured")
	// ErrInvalidInput is returned when a request fails domain validation.
	ErrInvalidInput = errors.New("invalid input")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

var mappings = []struct {
	target error
	status int
	code   string
}{
	{ErrDuplicateEmail, http.StatusConflict, "DUPLICATE_EMAIL"},
	{ErrDuplicateTaxID, http.StatusConflict, "DUPLICATE_TAX_ID"},
	{ErrDuplicateLead, http.StatusConflict, "DUPLICATE_LEAD"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
	{ErrInactiveAccount, http.StatusBadRequest, "INACTIVE_ACCOUNT"},
	{ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{ErrProfileMissing, http.StatusBadRequest, "PROFILE_MISSING"},
	{ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{ErrNoPricingRule, http.StatusUnprocessableEntity, "NO_PRICING_RULE"},
	{ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
}

// MapErrorToHTTP maps domain errors to HTTP errors. Wrapped sentinels keep
// their wrapping message; anything unrecognised is reported as an opaque 500.
func MapErrorToHTTP(err error) *HTTPError {
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			return NewHTTPError(m.status, err.Error(), m.code)
		}
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}

// Respond converts err into the echo error returned by handlers and middleware.
// Token failures carry a bearer challenge.
func Respond(c echo.Context, err error) error {
	httpErr := MapErrorToHTTP(err)
	if errors.Is(err, ErrUnauthorized) {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// Invalid wraps a validation failure so it maps to ErrInvalidInput.
func Invalid(reason string) error {
	return &invalidInputError{reason: reason}
}

type invalidInputError struct {
	reason string
}

func (e *invalidInputError) Error() string { return e.reason }

func (e *invalidInputError) Unwrap() error { return ErrInvalidInput }
