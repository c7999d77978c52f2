package repository

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned by every backend when no record matches.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("duplicate record")
)

// Repositories groups the stores the services depend on.
type Repositories struct {
	Users       UserRepository
	Meals       MealRepository
	Orders      OrderRepository
	Feedback    FeedbackRepository
	OrderEvents OrderEventRepository
}

// NewGormRepositories builds the relational backend.
func NewGormRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(db),
		Meals:       NewMealRepository(db),
		Orders:      NewOrderRepository(db),
		Feedback:    NewFeedbackRepository(db),
		OrderEvents: NewOrderEventRepository(db),
	}
}

// NewMongoRepositories builds the document backend.
func NewMongoRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		Users:       NewMongoUserRepository(db),
		Meals:       NewMongoMealRepository(db),
		Orders:      NewMongoOrderRepository(db),
		Feedback:    NewMongoFeedbackRepository(db),
		OrderEvents: NewMongoOrderEventRepository(db),
	}
}

// gormError normalises GORM errors to the package sentinels.
func gormError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(err.Error(), "UNIQUE constraint failed"),
		strings.Contains(err.Error(), "Duplicate entry"):
		return ErrDuplicate
	}
	return err
}

// mongoError normalises driver errors to the package sentinels.
func mongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	}
	return err
}
