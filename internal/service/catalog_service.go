package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"cafeteria/internal/cache"
	apperrors "cafeteria/internal/errors"
	"cafeteria/internal/model"
	"cafeteria/internal/repository"
)

const (
	mealCacheTTL = 5 * time.Minute
	// feedbackFetchLimit bounds concurrent feedback queries in ListMeals.
	feedbackFetchLimit = 8
)

// MealWithFeedback is a catalog entry with the feedback left on it.
type MealWithFeedback struct {
	model.Meal
	Feedbacks []model.Feedback `json:"feedbacks"`
}

// MealInput is one meal of an import. An empty ID creates a new meal.
type MealInput struct {
	ID        string             `json:"_id" yaml:"id"`
	Name      string             `json:"name" yaml:"name" validate:"required"`
	Image     string             `json:"image" yaml:"image" validate:"required"`
	Category  model.MealCategory `json:"category" yaml:"category" validate:"required"`
	Price     decimal.Decimal    `json:"price" yaml:"price"`
	Available *bool              `json:"available" yaml:"available"`
}

func (in MealInput) toModel() model.Meal {
	available := true
	if in.Available != nil {
		available = *in.Available
	}
	return model.Meal{
		ID:        strings.TrimSpace(in.ID),
		Name:      strings.TrimSpace(in.Name),
		Image:     strings.TrimSpace(in.Image),
		Category:  normalizeCategory(in.Category),
		Price:     in.Price,
		Available: available,
	}
}

// normalizeCategory composes accents so "Déjeuner" typed with a combining
// acute still matches.
func normalizeCategory(c model.MealCategory) model.MealCategory {
	return model.MealCategory(norm.NFC.String(strings.TrimSpace(string(c))))
}

func validateMeal(i int, m model.Meal) error {
	switch {
	case m.Name == "":
		return fmt.Errorf("%w: meal %d: name is required", apperrors.ErrInvalidMeal, i)
	case m.Image == "":
		return fmt.Errorf("%w: meal %d: image is required", apperrors.ErrInvalidMeal, i)
	case !m.Category.Valid():
		return fmt.Errorf("%w: meal %d: unknown category %q", apperrors.ErrInvalidMeal, i, m.Category)
	case m.Price.IsNegative():
		return fmt.Errorf("%w: meal %d: price must not be negative", apperrors.ErrInvalidMeal, i)
	}
	return nil
}

// CatalogService reads and maintains the meal catalog.
type CatalogService interface {
	ListMeals(ctx context.Context) ([]MealWithFeedback, error)
	GetMeal(ctx context.Context, id string) (*model.Meal, error)
	ImportMeals(ctx context.Context, meals []MealInput) (created, updated int, err error)
}

type catalogService struct {
	meals    repository.MealRepository
	feedback repository.FeedbackRepository
	cache    *cache.Client
	logger   *slog.Logger
}

// NewCatalogService builds a CatalogService.
func NewCatalogService(meals repository.MealRepository, feedback repository.FeedbackRepository, cache *cache.Client) CatalogService {
	return &catalogService{
		meals:    meals,
		feedback: feedback,
		cache:    cache,
		logger:   slog.Default().With("component", "catalog"),
	}
}

func (s *catalogService) cacheKey(id string) string {
	return "meal:" + id
}

// ListMeals returns every meal with its feedback. A meal whose feedback
// cannot be read is returned with an empty list.
func (s *catalogService) ListMeals(ctx context.Context) ([]MealWithFeedback, error) {
	meals, err := s.meals.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}

	out := make([]MealWithFeedback, len(meals))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(feedbackFetchLimit)
	for i := range meals {
		i := i
		out[i] = MealWithFeedback{Meal: meals[i], Feedbacks: []model.Feedback{}}
		g.Go(func() error {
			feedbacks, err := s.feedback.ListByMeal(gctx, meals[i].ID)
			if err != nil {
				s.logger.ErrorContext(ctx, "fetch feedbacks", "meal_id", meals[i].ID, "error", err)
				return nil
			}
			if feedbacks != nil {
				out[i].Feedbacks = feedbacks
			}
			return nil
		})
	}
	_ = g.Wait()
	return out, nil
}

func (s *catalogService) GetMeal(ctx context.Context, id string) (*model.Meal, error) {
	var cached model.Meal
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	meal, err := s.meals.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrMealNotFound
		}
		return nil, fmt.Errorf("find meal: %w", err)
	}

	_ = s.cache.SetJSON(ctx, s.cacheKey(id), meal, mealCacheTTL)
	return meal, nil
}

// ImportMeals validates every meal first, then creates or updates them by id.
func (s *catalogService) ImportMeals(ctx context.Context, inputs []MealInput) (created, updated int, err error) {
	meals := make([]model.Meal, 0, len(inputs))
	for i, in := range inputs {
		meal := in.toModel()
		if err := validateMeal(i, meal); err != nil {
			return 0, 0, err
		}
		meals = append(meals, meal)
	}

	for i := range meals {
		meal := &meals[i]
		if meal.ID != "" {
			existing, err := s.meals.FindByID(ctx, meal.ID)
			switch {
			case err == nil:
				existing.Name = meal.Name
				existing.Image = meal.Image
				existing.Category = meal.Category
				existing.Price = meal.Price
				existing.Available = meal.Available
				if err := s.meals.Update(ctx, existing); err != nil {
					return created, updated, fmt.Errorf("update meal %s: %w", meal.ID, err)
				}
				_ = s.cache.Delete(ctx, s.cacheKey(meal.ID))
				updated++
				continue
			case !errors.Is(err, repository.ErrNotFound):
				return created, updated, fmt.Errorf("check meal %s: %w", meal.ID, err)
			}
		}

		if err := s.meals.Create(ctx, meal); err != nil {
			return created, updated, fmt.Errorf("create meal %s: %w", meal.Name, err)
		}
		_ = s.cache.Delete(ctx, s.cacheKey(meal.ID))
		created++
	}
	return created, updated, nil
}
