package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderEvent records one status an order went through.
// Creation and every status update are logged.
type OrderEvent struct {
	ID            string      `json:"_id" bson:"_id" gorm:"type:char(36);primaryKey"`
	OrderID       string      `json:"orderId" bson:"orderId" gorm:"type:char(36);not null;index"`
	Status        OrderStatus `json:"status" bson:"status" gorm:"type:varchar(20);not null"`
	RefusedReason *string     `json:"refusedReason,omitempty" bson:"refusedReason,omitempty" gorm:"type:text"`
	ChangedBy     string      `json:"changedBy" bson:"changedBy" gorm:"size:255"`
	CreatedAt     time.Time   `json:"createdAt" bson:"createdAt" gorm:"index"`
}

// BeforeCreate sets the id before inserting the record.
func (e *OrderEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
