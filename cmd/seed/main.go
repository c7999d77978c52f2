package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"cafeteria/internal/app"
	"cafeteria/internal/auth"
	"cafeteria/internal/cache"
	"cafeteria/internal/config"
	apperrors "cafeteria/internal/errors"
	"cafeteria/internal/logging"
	"cafeteria/internal/model"
	"cafeteria/internal/service"
)

const fetchTimeout = 30 * time.Second

func main() {
	source := flag.String("meals", "seed/meals.yaml", "meal catalog to import: a YAML file path or an http(s) URL")
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(context.Background(), cfg, *source); err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, source string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err := app.OpenStore(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())
	slog.Info("connected to store", "driver", cfg.StoreDriver)

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	if err := seedChef(ctx, store, cacheClient, cfg.JWTSecret); err != nil {
		return err
	}

	slog.Info("loading meals", "source", source)
	meals, err := loadMeals(ctx, source)
	if err != nil {
		return err
	}

	catalog := service.NewCatalogService(store.Repositories.Meals, store.Repositories.Feedback, cacheClient)
	created, updated, err := catalog.ImportMeals(ctx, meals)
	if err != nil {
		return fmt.Errorf("import meals: %w", err)
	}
	slog.Info("seed completed", "created", created, "updated", updated, "total", created+updated)
	return nil
}

// seedChef creates the chef account named by CHEF_EMAIL and CHEF_PASSWORD.
// Chefs cannot sign up through the API.
func seedChef(ctx context.Context, store *app.Store, cacheClient *cache.Client, jwtSecret string) error {
	email := os.Getenv("CHEF_EMAIL")
	password := os.Getenv("CHEF_PASSWORD")
	if email == "" || password == "" {
		slog.Info("CHEF_EMAIL or CHEF_PASSWORD not set, skipping chef account")
		return nil
	}
	name := os.Getenv("CHEF_NAME")
	if name == "" {
		name = "Chef"
	}

	authService := service.NewAuthService(store.Repositories.Users, auth.NewJWTService(jwtSecret), auth.NewTokenStore(cacheClient))
	_, err := authService.CreateAccount(ctx, name, email, password, model.RoleChef)
	switch {
	case err == nil:
		slog.Info("chef account created", "email", email)
	case errors.Is(err, apperrors.ErrUserAlreadyExists):
		slog.Info("chef account already exists", "email", email)
	default:
		return fmt.Errorf("create chef account: %w", err)
	}
	return nil
}

// loadMeals reads the catalog from a file or URL. JSON is valid YAML, so
// either format works.
func loadMeals(ctx context.Context, source string) ([]service.MealInput, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = fetch(ctx, source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, err
	}

	var meals []service.MealInput
	if err := yaml.Unmarshal(data, &meals); err != nil {
		return nil, fmt.Errorf("parse meals: %w", err)
	}
	return meals, nil
}

func fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch meals: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch meals: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
