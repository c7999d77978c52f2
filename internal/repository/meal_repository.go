package repository

import (
	"context"

	"gorm.io/gorm"

	"cafeteria/internal/model"
)

// MealRepository defines catalog persistence operations.
type MealRepository interface {
	Create(ctx context.Context, meal *model.Meal) error
	Update(ctx context.Context, meal *model.Meal) error
	FindByID(ctx context.Context, id string) (*model.Meal, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Meal, error)
	List(ctx context.Context) ([]model.Meal, error)
}

type mealRepository struct {
	db *gorm.DB
}

// NewMealRepository creates a new meal repository.
func NewMealRepository(db *gorm.DB) MealRepository {
	return &mealRepository{db: db}
}

// Create creates a new meal.
func (r *mealRepository) Create(ctx context.Context, meal *model.Meal) error {
	return gormError(r.db.WithContext(ctx).Create(meal).Error)
}

// Update overwrites every column of an existing meal.
func (r *mealRepository) Update(ctx context.Context, meal *model.Meal) error {
	return gormError(r.db.WithContext(ctx).Save(meal).Error)
}

// FindByID finds a meal by ID.
func (r *mealRepository) FindByID(ctx context.Context, id string) (*model.Meal, error) {
	var meal model.Meal
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&meal).Error; err != nil {
		return nil, gormError(err)
	}
	return &meal, nil
}

// FindByIDs returns the meals among ids that exist. Missing ids are skipped.
func (r *mealRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Meal, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var meals []model.Meal
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&meals).Error; err != nil {
		return nil, err
	}
	return meals, nil
}

// List returns the whole catalog.
func (r *mealRepository) List(ctx context.Context) ([]model.Meal, error) {
	var meals []model.Meal
	if err := r.db.WithContext(ctx).Order("category ASC, name ASC").Find(&meals).Error; err != nil {
		return nil, err
	}
	return meals, nil
}
