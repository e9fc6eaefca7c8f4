package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anandkrishnan/mealdash-backend/pkg/enums"
)

// Order is the fulfillment aggregate root. PickupCode is set once the order
// leaves pending_confirmation and stays stable for the life of the order.
type Order struct {
	ID                 uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID             uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	HotelID            uuid.UUID         `gorm:"column:hotel_id;type:uuid;not null;index"`
	TotalPeople        int               `gorm:"column:total_people;not null;default:1"`
	TotalAmount        decimal.Decimal   `gorm:"column:total_amount;type:numeric(10,2);not null"`
	PaymentMode        enums.PaymentMode `gorm:"column:payment_mode;type:varchar(16);not null"`
	Status             enums.OrderStatus `gorm:"column:status;type:varchar(32);not null;default:'pending_confirmation';index"`
	ScheduledTime      *time.Time        `gorm:"column:scheduled_time"`
	PickupCode         *string           `gorm:"column:pickup_code;uniqueIndex"`
	PickupCodeImageURL *string           `gorm:"column:pickup_code_image_url"`
	FeedbackGiven      bool              `gorm:"column:feedback_given;not null;default:false"`
	IsLate             *bool             `gorm:"column:is_late"`
	OrderTime          time.Time         `gorm:"column:order_time;not null"`
	CreatedAt          time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time         `gorm:"column:updated_at;autoUpdateTime"`

	Items []OrderLineItem `gorm:"foreignKey:OrderID"`
}
