package models

import (
	"time"

	"github.com/google/uuid"
)

// Feedback holds one review per completed order.
type Feedback struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	HotelID   uuid.UUID `gorm:"column:hotel_id;type:uuid;not null;index"`
	Rating    int       `gorm:"column:rating;not null;check:rating >= 1 AND rating <= 5"`
	Comment   *string   `gorm:"column:comment"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
