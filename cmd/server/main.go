package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "cafeteria/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"cafeteria/internal/app"
	"cafeteria/internal/auth"
	"cafeteria/internal/cache"
	"cafeteria/internal/captcha"
	"cafeteria/internal/config"
	"cafeteria/internal/handler"
	"cafeteria/internal/logging"
	"cafeteria/internal/notify"
	"cafeteria/internal/router"
	"cafeteria/internal/service"
	"cafeteria/internal/telemetry"
)

const serviceVersion = "1.0.0"

// @title Cafeteria API
// @version 1.0
// @description Meal catalog, ordering with QR pickup codes, kitchen workflow and feedback.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := app.OpenStore(ctx, cfg, os.Getenv("RESET_DB") == "true")
	if err != nil {
		return err
	}
	defer store.Close(context.Background())
	repos := store.Repositories
	logger.Info("store ready", "driver", cfg.StoreDriver)

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		logger.Warn("redis unavailable, running without cache", "addr", cfg.RedisAddr, "error", err)
	}

	tel, err := telemetry.New(ctx, telemetry.Config{
		ServiceName:    "cafeteria-api",
		ServiceVersion: serviceVersion,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Insecure:       cfg.OTLPInsecure,
	})
	if err != nil {
		return err
	}

	var publisher notify.Publisher = notify.NoopPublisher{}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := notify.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			logger.Warn("amqp unavailable, order events will not be published", "error", err)
		} else {
			publisher = amqpPublisher
		}
	}
	defer publisher.Close()

	var verifier captcha.Verifier = captcha.Disabled{}
	if cfg.CaptchaSecret != "" {
		verifier = captcha.NewReCaptcha(cfg.CaptchaSecret, cfg.CaptchaURL)
	} else {
		logger.Warn("CAPTCHA_SECRET_KEY not set, signup captcha disabled")
	}

	recorder := service.NewOrderEventRecorder(repos.OrderEvents)
	recorder.Start(ctx)
	defer recorder.Close()

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(repos.Users, jwtService, tokenStore)
	userService := service.NewUserService(repos.Users, cacheClient)
	catalogService := service.NewCatalogService(repos.Meals, repos.Feedback, cacheClient)
	orderService := service.NewOrderService(service.OrderServiceDeps{
		Repositories: repos,
		Catalog:      catalogService,
		Recorder:     recorder,
		Publisher:    publisher,
		Telemetry:    tel,
	})
	feedbackService := service.NewFeedbackService(repos)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	router.Register(e, router.Dependencies{
		Config:     cfg,
		Logger:     logger,
		Telemetry:  tel,
		JWTService: jwtService,
		TokenStore: tokenStore,
		Auth:       handler.NewAuthHandler(authService, verifier),
		Users:      handler.NewUserHandler(userService),
		Meals:      handler.NewMealHandler(catalogService),
		Orders:     handler.NewOrderHandler(orderService),
		Feedback:   handler.NewFeedbackHandler(feedbackService),
	})

	logger.Info("swagger documentation available", "url", swaggerURL(cfg))

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info("server listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	if err := tel.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown", "error", err)
	}
	return nil
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host + "/swagger/index.html"
}
