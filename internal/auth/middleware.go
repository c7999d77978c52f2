package auth

import (
	"errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "cafeteria/internal/errors"
	"cafeteria/internal/model"
)

// ClaimsContextKey is where the middleware stores the caller's *Claims.
const ClaimsContextKey = "claims"

var errTokenRevoked = errors.New("token revoked")

// Middleware authenticates bearer access tokens. Revoked tokens are rejected.
func Middleware(jwtService *JWTService, store TokenStoreInterface) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  ClaimsContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := jwtService.ValidateAccessToken(token)
			if err != nil {
				return nil, err
			}
			revoked, _ := store.IsAccessTokenBlacklisted(c.Request().Context(), claims.ID)
			if revoked {
				return nil, errTokenRevoked
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Message: "missing or invalid access token",
				Code:    "UNAUTHORIZED",
			})
		},
	})
}

// ClaimsFrom returns the authenticated caller, if any.
func ClaimsFrom(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(ClaimsContextKey).(*Claims)
	return claims, ok && claims != nil
}

// RequireRole rejects callers whose token does not carry role.
func RequireRole(role model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
					Message: "missing or invalid access token",
					Code:    "UNAUTHORIZED",
				})
			}
			if claims.Role != role {
				return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
					Message: apperrors.ErrForbidden.Error(),
					Code:    "FORBIDDEN",
				})
			}
			return next(c)
		}
	}
}
