package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role decides which parts of the API a user may reach.
type Role string

const (
	RoleClient Role = "client"
	RoleChef   Role = "chef"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleClient || r == RoleChef
}

// User is a cafeteria account. Clients order meals, chefs handle the orders.
type User struct {
	ID           string    `json:"_id" bson:"_id" gorm:"type:char(36);primaryKey"`
	Name         string    `json:"name" bson:"name" gorm:"size:255;not null"`
	Email        string    `json:"email" bson:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" bson:"password" gorm:"size:255;not null"` // Never expose in JSON
	Role         Role      `json:"role" bson:"role" gorm:"type:varchar(20);not null;default:'client'"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// BeforeCreate sets the id before inserting the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// IsChef reports whether the user may manage orders.
func (u *User) IsChef() bool {
	return u.Role == RoleChef
}

// Author is the public part of a user shown next to their feedback.
type Author struct {
	ID    string `json:"_id" gorm:"type:char(36);primaryKey"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TableName maps Author onto the users table.
func (Author) TableName() string {
	return "users"
}
