package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"cafeteria/internal/auth"
	apperrors "cafeteria/internal/errors"
)

// errorResponse converts a service error to an echo HTTP error. Server errors
// are logged with the cause and answered with a generic message.
func errorResponse(c echo.Context, err error) error {
	httpErr := mapError(c, err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// mapError maps err and logs it when it is a server error.
func mapError(c echo.Context, err error) *apperrors.HTTPError {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		logServerError(c, err)
	}
	return httpErr
}

func logServerError(c echo.Context, err error) {
	slog.ErrorContext(c.Request().Context(), "request failed",
		"method", c.Request().Method,
		"path", c.Path(),
		"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		"error", err,
	)
}

func badRequest(message string) error {
	return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
		Message: message,
		Code:    "VALIDATION_ERROR",
	})
}

// bindAndValidate decodes the body into req and runs struct validation.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(err.Error())
	}
	return nil
}

// actingEmail returns the email an operation runs for. Callers act for
// themselves; chefs may name another user.
func actingEmail(c echo.Context, requested string) (string, error) {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return "", apperrors.ErrForbidden
	}
	requested = strings.ToLower(strings.TrimSpace(requested))
	if requested == "" || requested == claims.Email {
		return claims.Email, nil
	}
	if !claims.IsChef() {
		return "", apperrors.ErrForbidden
	}
	return requested, nil
}

// bearerToken returns the raw bearer token of the request, if any.
func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
