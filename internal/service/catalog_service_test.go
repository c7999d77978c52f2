package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "cafeteria/internal/errors"
	"cafeteria/internal/model"
	"cafeteria/internal/repository"
)

func TestCatalogService_ListMeals(t *testing.T) {
	meals := new(MockMealRepository)
	feedback := new(MockFeedbackRepository)
	meals.On("List", mock.Anything).Return([]model.Meal{
		{ID: "m1", Name: "Soup"},
		{ID: "m2", Name: "Salad"},
		{ID: "m3", Name: "Cake"},
	}, nil)
	feedback.On("ListByMeal", mock.Anything, "m1").Return([]model.Feedback{
		{ID: "f1", MealID: "m1", Stars: 4, Author: &model.Author{Name: "Alice", Email: "a@x.com"}},
	}, nil)
	feedback.On("ListByMeal", mock.Anything, "m2").Return(nil, errors.New("timeout"))
	feedback.On("ListByMeal", mock.Anything, "m3").Return([]model.Feedback{}, nil)

	service := NewCatalogService(meals, feedback, nil)
	got, err := service.ListMeals(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "Soup", got[0].Name)
	require.Len(t, got[0].Feedbacks, 1)
	assert.Equal(t, "Alice", got[0].Feedbacks[0].Author.Name)
	assert.NotNil(t, got[1].Feedbacks)
	assert.Empty(t, got[1].Feedbacks)
	assert.Empty(t, got[2].Feedbacks)
}

func TestCatalogService_ListMealsStoreError(t *testing.T) {
	meals := new(MockMealRepository)
	meals.On("List", mock.Anything).Return(nil, errors.New("down"))

	_, err := NewCatalogService(meals, new(MockFeedbackRepository), nil).ListMeals(context.Background())
	assert.Error(t, err)
}

func TestCatalogService_GetMeal(t *testing.T) {
	meals := new(MockMealRepository)
	meals.On("FindByID", mock.Anything, "m1").Return(&model.Meal{ID: "m1", Name: "Soup"}, nil)
	meals.On("FindByID", mock.Anything, "nope").Return(nil, repository.ErrNotFound)

	service := NewCatalogService(meals, new(MockFeedbackRepository), nil)
	meal, err := service.GetMeal(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "Soup", meal.Name)

	_, err = service.GetMeal(context.Background(), "nope")
	assert.ErrorIs(t, err, apperrors.ErrMealNotFound)
}

func TestCatalogService_ImportMeals(t *testing.T) {
	unavailable := false
	inputs := []MealInput{
		{ID: "m1", Name: "Soup v2", Image: "soup.png", Category: model.CategoryLunch, Price: decimal.RequireFromString("5")},
		{Name: "Croissant", Image: "croissant.png", Category: model.CategoryBreakfast, Price: decimal.RequireFromString("1.2"), Available: &unavailable},
		{ID: "m9", Name: "Tart", Image: "tart.png", Category: model.CategoryLunch, Price: decimal.RequireFromString("3")},
	}

	meals := new(MockMealRepository)
	existing := &model.Meal{ID: "m1", Name: "Soup", Available: false}
	meals.On("FindByID", mock.Anything, "m1").Return(existing, nil)
	meals.On("FindByID", mock.Anything, "m9").Return(nil, repository.ErrNotFound)
	meals.On("Update", mock.Anything, existing).Return(nil)
	meals.On("Create", mock.Anything, mock.MatchedBy(func(m *model.Meal) bool {
		return m.Name == "Croissant" && !m.Available && m.ID == ""
	})).Return(nil)
	meals.On("Create", mock.Anything, mock.MatchedBy(func(m *model.Meal) bool {
		return m.Name == "Tart" && m.Available && m.ID == "m9"
	})).Return(nil)

	created, updated, err := NewCatalogService(meals, new(MockFeedbackRepository), nil).ImportMeals(context.Background(), inputs)
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Equal(t, 1, updated)
	assert.Equal(t, "Soup v2", existing.Name)
	assert.True(t, existing.Available)
	meals.AssertExpectations(t)
}

func TestCatalogService_ImportMealsValidatesFirst(t *testing.T) {
	tests := []struct {
		name  string
		input MealInput
	}{
		{"missing name", MealInput{Image: "x.png", Category: model.CategoryLunch}},
		{"missing image", MealInput{Name: "X", Category: model.CategoryLunch}},
		{"unknown category", MealInput{Name: "X", Image: "x.png", Category: "Dinner"}},
		{"negative price", MealInput{Name: "X", Image: "x.png", Category: model.CategoryLunch, Price: decimal.NewFromInt(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meals := new(MockMealRepository)
			valid := MealInput{Name: "Ok", Image: "ok.png", Category: model.CategoryLunch}

			_, _, err := NewCatalogService(meals, new(MockFeedbackRepository), nil).
				ImportMeals(context.Background(), []MealInput{valid, tt.input})
			assert.ErrorIs(t, err, apperrors.ErrInvalidMeal)
			meals.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestNormalizeCategory(t *testing.T) {
	decomposed := model.MealCategory("De\u0301jeuner")
	assert.False(t, decomposed.Valid())
	assert.Equal(t, model.CategoryLunch, normalizeCategory(decomposed))
	assert.Equal(t, model.CategoryBreakfast, normalizeCategory(" Petit-déjeuner "))
}
