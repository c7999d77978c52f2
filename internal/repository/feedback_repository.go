package repository

import (
	"context"

	"gorm.io/gorm"

	"cafeteria/internal/model"
)

// FeedbackRepository defines feedback persistence operations.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *model.Feedback) error
	Update(ctx context.Context, feedback *model.Feedback) error
	FindByUserAndMeal(ctx context.Context, userID, mealID string) (*model.Feedback, error)
	// ListByMeal returns a meal's feedback with Author loaded.
	ListByMeal(ctx context.Context, mealID string) ([]model.Feedback, error)
}

type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository creates a new feedback repository.
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

// Create creates a new feedback record.
func (r *feedbackRepository) Create(ctx context.Context, feedback *model.Feedback) error {
	return gormError(r.db.WithContext(ctx).Omit("Author").Create(feedback).Error)
}

// Update overwrites rating, text and date of an existing record.
func (r *feedbackRepository) Update(ctx context.Context, feedback *model.Feedback) error {
	res := r.db.WithContext(ctx).Model(&model.Feedback{}).
		Where("id = ?", feedback.ID).
		Updates(map[string]interface{}{
			"stars": feedback.Stars,
			"text":  feedback.Text,
			"date":  feedback.Date,
		})
	if res.Error != nil {
		return gormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByUserAndMeal finds the feedback a user left on a meal.
func (r *feedbackRepository) FindByUserAndMeal(ctx context.Context, userID, mealID string) (*model.Feedback, error) {
	var feedback model.Feedback
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND meal_id = ?", userID, mealID).
		First(&feedback).Error; err != nil {
		return nil, gormError(err)
	}
	return &feedback, nil
}

// ListByMeal lists a meal's feedback joined with the author's name and email.
func (r *feedbackRepository) ListByMeal(ctx context.Context, mealID string) ([]model.Feedback, error) {
	var feedbacks []model.Feedback
	if err := r.db.WithContext(ctx).
		Preload("Author", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "name", "email")
		}).
		Where("meal_id = ?", mealID).
		Order("date DESC").
		Find(&feedbacks).Error; err != nil {
		return nil, err
	}
	return feedbacks, nil
}
