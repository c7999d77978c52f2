package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "cafeteria/internal/errors"
	"cafeteria/internal/model"
	"cafeteria/internal/repository"
)

func newFeedbackFixture() (*mockRepos, *feedbackService) {
	m, repos := newMockRepos()
	svc := NewFeedbackService(repos).(*feedbackService)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	return m, svc
}

func validFeedbackInput() SubmitFeedbackInput {
	return SubmitFeedbackInput{OrderID: "o1", ClientEmail: "a@x.com", MealID: "meal-1", Rating: 4, Text: " tasty "}
}

func expectResolvable(m *mockRepos) {
	m.users.On("FindByEmail", mock.Anything, "a@x.com").Return(testClient, nil)
	m.orders.On("FindByID", mock.Anything, "o1").Return(&model.Order{ID: "o1", ClientID: "client-1"}, nil)
	m.meals.On("FindByID", mock.Anything, "meal-1").Return(testMeal, nil)
}

func TestFeedbackService_CreatesFirstFeedback(t *testing.T) {
	m, svc := newFeedbackFixture()
	expectResolvable(m)
	m.feedback.On("FindByUserAndMeal", mock.Anything, "client-1", "meal-1").Return(nil, repository.ErrNotFound)
	m.feedback.On("Create", mock.Anything, mock.AnythingOfType("*model.Feedback")).Return(nil)

	fb, created, err := svc.SubmitFeedback(context.Background(), validFeedbackInput())
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "client-1", fb.UserID)
	assert.Equal(t, 4, fb.Stars)
	assert.Equal(t, "tasty", fb.Text)
	assert.Equal(t, 2024, fb.Date.Year())
}

func TestFeedbackService_SecondSubmissionOverwrites(t *testing.T) {
	m, svc := newFeedbackFixture()
	expectResolvable(m)
	existing := &model.Feedback{ID: "f1", UserID: "client-1", MealID: "meal-1", Stars: 1, Text: "cold"}
	m.feedback.On("FindByUserAndMeal", mock.Anything, "client-1", "meal-1").Return(existing, nil)
	m.feedback.On("Update", mock.Anything, existing).Return(nil)

	in := validFeedbackInput()
	in.Rating = 5
	in.Text = "much better"
	fb, created, err := svc.SubmitFeedback(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "f1", fb.ID)
	assert.Equal(t, 5, fb.Stars)
	assert.Equal(t, "much better", fb.Text)
	m.feedback.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFeedbackService_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SubmitFeedbackInput)
		setup   func(*mockRepos)
		wantErr error
	}{
		{
			name:    "rating too high",
			mutate:  func(in *SubmitFeedbackInput) { in.Rating = 6 },
			setup:   func(*mockRepos) {},
			wantErr: apperrors.ErrInvalidRating,
		},
		{
			name:    "rating zero",
			mutate:  func(in *SubmitFeedbackInput) { in.Rating = 0 },
			setup:   func(*mockRepos) {},
			wantErr: apperrors.ErrInvalidRating,
		},
		{
			name: "unknown user",
			setup: func(m *mockRepos) {
				m.users.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, repository.ErrNotFound)
			},
			wantErr: apperrors.ErrUserNotFound,
		},
		{
			name: "order of someone else",
			setup: func(m *mockRepos) {
				m.users.On("FindByEmail", mock.Anything, "a@x.com").Return(testClient, nil)
				m.orders.On("FindByID", mock.Anything, "o1").Return(&model.Order{ID: "o1", ClientID: "other"}, nil)
			},
			wantErr: apperrors.ErrOrderNotFound,
		},
		{
			name: "unknown meal",
			setup: func(m *mockRepos) {
				m.users.On("FindByEmail", mock.Anything, "a@x.com").Return(testClient, nil)
				m.orders.On("FindByID", mock.Anything, "o1").Return(&model.Order{ID: "o1", ClientID: "client-1"}, nil)
				m.meals.On("FindByID", mock.Anything, "meal-1").Return(nil, repository.ErrNotFound)
			},
			wantErr: apperrors.ErrMealNotFound,
		},
		{
			name: "concurrent first submission",
			setup: func(m *mockRepos) {
				expectResolvable(m)
				m.feedback.On("FindByUserAndMeal", mock.Anything, "client-1", "meal-1").Return(nil, repository.ErrNotFound)
				m.feedback.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)
			},
			wantErr: apperrors.ErrFeedbackConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, svc := newFeedbackFixture()
			tt.setup(m)
			in := validFeedbackInput()
			if tt.mutate != nil {
				tt.mutate(&in)
			}

			fb, _, err := svc.SubmitFeedback(context.Background(), in)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, fb)
		})
	}
}

func TestFeedbackService_StoreErrorIsWrapped(t *testing.T) {
	m, svc := newFeedbackFixture()
	m.users.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, errors.New("socket closed"))

	_, _, err := svc.SubmitFeedback(context.Background(), validFeedbackInput())
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrUserNotFound)
	assert.Contains(t, err.Error(), "find user")
}
