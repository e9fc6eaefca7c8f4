package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MenuItem is the inventory ledger row: one dish with its live stock count.
//
// NameKey is the lower/trimmed form of Name; (hotel_id, name_key) is unique so
// completion can resolve line items by normalized name.
type MenuItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	HotelID      uuid.UUID       `gorm:"column:hotel_id;type:uuid;not null;uniqueIndex:idx_menu_items_hotel_name_key"`
	Name         string          `gorm:"column:name;not null"`
	NameKey      string          `gorm:"column:name_key;not null;uniqueIndex:idx_menu_items_hotel_name_key"`
	Category     string          `gorm:"column:category;not null;default:''"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	AvailableQty int             `gorm:"column:available_qty;not null;default:0;check:available_qty >= 0"`
	IsAvailable  bool            `gorm:"column:is_available;not null;default:true"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
