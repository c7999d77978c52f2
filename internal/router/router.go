package router

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"cafeteria/internal/auth"
	"cafeteria/internal/config"
	apperrors "cafeteria/internal/errors"
	"cafeteria/internal/handler"
	"cafeteria/internal/logging"
	"cafeteria/internal/model"
	"cafeteria/internal/telemetry"
)

// Dependencies are the components Register wires into routes.
type Dependencies struct {
	Config     *config.Config
	Logger     *slog.Logger
	Telemetry  *telemetry.Provider
	JWTService *auth.JWTService
	TokenStore auth.TokenStoreInterface

	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Meals    *handler.MealHandler
	Orders   *handler.OrderHandler
	Feedback *handler.FeedbackHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, deps Dependencies) {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(logging.EchoMiddleware(logger))
	e.Use(deps.Telemetry.EchoMiddleware())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.Validator = NewValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	limiter := authRateLimiter(cfg.AuthRateLimit)
	e.POST("/signup", deps.Auth.Signup, limiter)
	e.POST("/login", deps.Auth.Login, limiter)
	e.POST("/auth/refresh", deps.Auth.Refresh, limiter)
	e.POST("/auth/logout", deps.Auth.Logout, limiter)
	e.GET("/Meals", deps.Meals.ListMeals)
	e.GET("/meals", deps.Meals.ListMeals)

	// Secured routes (require a valid access token)
	secured := e.Group("", auth.Middleware(deps.JWTService, deps.TokenStore))
	secured.GET("/me", deps.Users.Me)
	secured.POST("/Order", deps.Orders.CreateOrder)
	secured.GET("/Order/:email", deps.Orders.ListClientOrders)
	secured.GET("/Orders/:email", deps.Orders.ListAllOrders)
	secured.POST("/leavefeedback", deps.Feedback.LeaveFeedback)

	// Chef routes
	chef := secured.Group("", auth.RequireRole(model.RoleChef))
	chef.GET("/users", deps.Users.ListUsers)
	chef.POST("/meals/import", deps.Meals.ImportMeals)
	chef.PATCH("/orders/:id/status", deps.Orders.UpdateStatus)
	chef.GET("/orders/:id/history", deps.Orders.History)
	chef.POST("/orders/scan", deps.Orders.Scan)
}

// authRateLimiter throttles the credential endpoints per client IP.
func authRateLimiter(perSecond float64) echo.MiddlewareFunc {
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:  rate.Limit(perSecond),
			Burst: burst,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, apperrors.ErrorResponse{
				Message: "too many requests",
				Code:    "RATE_LIMITED",
			})
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns the validator the router installs.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
