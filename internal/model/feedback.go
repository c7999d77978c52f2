package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating bounds for Feedback.Stars.
const (
	MinStars = 1
	MaxStars = 5
)

// Feedback is a rating a user leaves on a meal. There is at most one per
// (user, meal) pair.
type Feedback struct {
	ID     string    `json:"_id" bson:"_id" gorm:"type:char(36);primaryKey"`
	UserID string    `json:"userId" bson:"user" gorm:"type:char(36);not null;uniqueIndex:idx_feedback_user_meal"`
	MealID string    `json:"meal" bson:"meal" gorm:"type:char(36);not null;uniqueIndex:idx_feedback_user_meal;index"`
	Stars  int       `json:"stars" bson:"stars" gorm:"not null"`
	Text   string    `json:"feedback" bson:"feedback" gorm:"type:text;not null"`
	Date   time.Time `json:"date" bson:"date"`

	// Author is only loaded by catalog queries.
	Author *Author `json:"user,omitempty" bson:"-" gorm:"foreignKey:UserID;-:migration"`
}

// TableName keeps the collection and table names aligned.
func (Feedback) TableName() string {
	return "feedbacks"
}

// BeforeCreate sets the id before inserting the record.
func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
