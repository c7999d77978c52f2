package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"cafeteria/internal/captcha"
	apperrors "cafeteria/internal/errors"
	"cafeteria/internal/model"
	"cafeteria/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	captcha     captcha.Verifier
}

// NewAuthHandler creates a new auth handler. A nil verifier disables CAPTCHA checks.
func NewAuthHandler(authService service.AuthService, verifier captcha.Verifier) *AuthHandler {
	if verifier == nil {
		verifier = captcha.Disabled{}
	}
	return &AuthHandler{authService: authService, captcha: verifier}
}

// SignupRequest represents a signup request.
type SignupRequest struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	CaptchaToken string `json:"captchaToken"`
}

// SignupResponse is returned by signup, on success and on failure.
type SignupResponse struct {
	Message     string `json:"message"`
	UserCreated bool   `json:"UserCreated"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the session of a logged in user.
type LoginResponse struct {
	Message      string     `json:"message"`
	UserLogged   bool       `json:"UserLogged"`
	Username     string     `json:"username,omitempty"`
	Role         model.Role `json:"role,omitempty"`
	AccessToken  string     `json:"accessToken,omitempty"`
	RefreshToken string     `json:"refreshToken,omitempty"`
}

// RefreshRequest represents a token refresh or logout request.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// TokenResponse carries a new access token.
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// Signup godoc
// @Summary Create a client account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Signup data"
// @Success 201 {object} SignupResponse
// @Failure 400 {object} SignupResponse
// @Failure 500 {object} SignupResponse
// @Router /signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, SignupResponse{Message: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, SignupResponse{Message: err.Error()})
	}

	ctx := c.Request().Context()
	switch err := h.captcha.Verify(ctx, req.CaptchaToken, c.RealIP()); {
	case err == nil:
	case errors.Is(err, captcha.ErrMissingToken):
		return c.JSON(http.StatusBadRequest, SignupResponse{Message: err.Error()})
	case errors.Is(err, captcha.ErrRejected):
		return c.JSON(http.StatusBadRequest, SignupResponse{Message: apperrors.ErrCaptchaFailed.Error()})
	default:
		logServerError(c, err)
		return c.JSON(http.StatusInternalServerError, SignupResponse{Message: "captcha verification unavailable"})
	}

	if _, err := h.authService.Signup(ctx, req.Name, req.Email, req.Password); err != nil {
		httpErr := mapError(c, err)
		return c.JSON(httpErr.StatusCode, SignupResponse{Message: httpErr.Message})
	}

	return c.JSON(http.StatusCreated, SignupResponse{Message: "account created", UserCreated: true})
}

// Login godoc
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} LoginResponse
// @Failure 401 {object} LoginResponse
// @Failure 500 {object} LoginResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, LoginResponse{Message: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, LoginResponse{Message: err.Error()})
	}

	accessToken, refreshToken, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		httpErr := mapError(c, err)
		return c.JSON(httpErr.StatusCode, LoginResponse{Message: httpErr.Message})
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Message:      "logged in",
		UserLogged:   true,
		Username:     user.Name,
		Role:         user.Role,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// Refresh godoc
// @Summary Refresh access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	accessToken, err := h.authService.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, TokenResponse{AccessToken: accessToken})
}

// Logout godoc
// @Summary Log out
// @Description Revokes the refresh token. A bearer access token sent along is revoked too.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var req RefreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), req.RefreshToken, bearerToken(c)); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}
