package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusRefused   OrderStatus = "refused"
)

// Valid reports whether s is one of the enumerated statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusCompleted, OrderStatusRefused:
		return true
	}
	return false
}

// Pickup slots a client may pick when ordering.
const (
	PickupMorning   = "morning"
	PickupAfternoon = "afternoon"
	PickupEvening   = "evening"
)

// Order is a client's request for meals. QRCode holds a PNG data URL
// encoding the order id.
type Order struct {
	ID            string      `json:"_id" bson:"_id" gorm:"type:char(36);primaryKey"`
	ClientID      string      `json:"client" bson:"client" gorm:"type:char(36);not null;index"`
	Meals         []OrderLine `json:"meals" bson:"meals" gorm:"foreignKey:OrderID"`
	PickupTime    string      `json:"time,omitempty" bson:"time,omitempty" gorm:"size:20"`
	Status        OrderStatus `json:"status" bson:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	RefusedReason *string     `json:"refusedReason" bson:"refusedReason" gorm:"type:text"`
	QRCode        string      `json:"qrCode" bson:"qrCode" gorm:"type:text"`
	CreatedAt     time.Time   `json:"createdAt" bson:"createdAt" gorm:"index"`
	UpdatedAt     time.Time   `json:"updatedAt" bson:"updatedAt"`
}

// BeforeCreate sets the id before inserting the record.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// MealIDs returns the distinct meal ids referenced by the order lines.
func (o *Order) MealIDs() []string {
	seen := make(map[string]struct{}, len(o.Meals))
	ids := make([]string, 0, len(o.Meals))
	for _, line := range o.Meals {
		if _, ok := seen[line.MealID]; ok {
			continue
		}
		seen[line.MealID] = struct{}{}
		ids = append(ids, line.MealID)
	}
	return ids
}

// OrderLine is one meal of an order. MealDetails is filled when listing.
type OrderLine struct {
	ID          uint   `json:"-" bson:"-" gorm:"primaryKey"`
	OrderID     string `json:"-" bson:"-" gorm:"type:char(36);not null;index"`
	MealID      string `json:"meal" bson:"meal" gorm:"type:char(36);not null"`
	Quantity    int    `json:"quantity" bson:"quantity" gorm:"not null"`
	MealDetails *Meal  `json:"mealDetails,omitempty" bson:"-" gorm:"-"`
}
