package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "cafeteria/internal/errors"
	"cafeteria/internal/model"
	"cafeteria/internal/repository"
)

// SubmitFeedbackInput is a rating left from one of the client's orders.
type SubmitFeedbackInput struct {
	OrderID     string
	ClientEmail string
	MealID      string
	Rating      int
	Text        string
}

// FeedbackService records meal feedback. A user keeps one feedback per meal;
// submitting again overwrites it.
type FeedbackService interface {
	SubmitFeedback(ctx context.Context, in SubmitFeedbackInput) (feedback *model.Feedback, created bool, err error)
}

type feedbackService struct {
	users    repository.UserRepository
	orders   repository.OrderRepository
	meals    repository.MealRepository
	feedback repository.FeedbackRepository
	now      func() time.Time
}

// NewFeedbackService builds a FeedbackService.
func NewFeedbackService(repos *repository.Repositories) FeedbackService {
	return &feedbackService{
		users:    repos.Users,
		orders:   repos.Orders,
		meals:    repos.Meals,
		feedback: repos.Feedback,
		now:      time.Now,
	}
}

func (s *feedbackService) SubmitFeedback(ctx context.Context, in SubmitFeedbackInput) (*model.Feedback, bool, error) {
	if in.Rating < model.MinStars || in.Rating > model.MaxStars {
		return nil, false, apperrors.ErrInvalidRating
	}

	user, err := s.users.FindByEmail(ctx, normalizeEmail(in.ClientEmail))
	if err != nil {
		return nil, false, notFoundAs(err, apperrors.ErrUserNotFound, "find user")
	}

	order, err := s.orders.FindByID(ctx, in.OrderID)
	if err != nil {
		return nil, false, notFoundAs(err, apperrors.ErrOrderNotFound, "find order")
	}
	if order.ClientID != user.ID {
		return nil, false, apperrors.ErrOrderNotFound
	}

	if _, err := s.meals.FindByID(ctx, in.MealID); err != nil {
		return nil, false, notFoundAs(err, apperrors.ErrMealNotFound, "find meal")
	}

	text := strings.TrimSpace(in.Text)
	existing, err := s.feedback.FindByUserAndMeal(ctx, user.ID, in.MealID)
	switch {
	case err == nil:
		existing.Stars = in.Rating
		existing.Text = text
		existing.Date = s.now()
		if err := s.feedback.Update(ctx, existing); err != nil {
			return nil, false, fmt.Errorf("update feedback: %w", err)
		}
		return existing, false, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, false, fmt.Errorf("find feedback: %w", err)
	}

	fb := &model.Feedback{
		UserID: user.ID,
		MealID: in.MealID,
		Stars:  in.Rating,
		Text:   text,
		Date:   s.now(),
	}
	if err := s.feedback.Create(ctx, fb); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, false, apperrors.ErrFeedbackConflict
		}
		return nil, false, fmt.Errorf("create feedback: %w", err)
	}
	return fb, true, nil
}

// notFoundAs maps a repository miss to the domain error and wraps the rest.
func notFoundAs(err, notFound error, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
