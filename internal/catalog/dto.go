package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anandkrishnan/mealdash-backend/pkg/db/models"
)

// CreateItemInput carries a new menu item for a hotel.
type CreateItemInput struct {
	HotelID      uuid.UUID
	Name         string
	Category     string
	Price        decimal.Decimal
	AvailableQty int
}

// UpdateItemInput carries a partial menu item update. Nil fields are left
// untouched.
type UpdateItemInput struct {
	HotelID      uuid.UUID
	ItemID       uuid.UUID
	Name         *string
	Category     *string
	Price        *decimal.Decimal
	AvailableQty *int
	IsAvailable  *bool
}

// ItemView is the externally visible shape of a menu item.
type ItemView struct {
	ID           uuid.UUID       `json:"id"`
	HotelID      uuid.UUID       `json:"hotel_id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	AvailableQty int             `json:"available_qty"`
	IsAvailable  bool            `json:"is_available"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func toItemView(item models.MenuItem) ItemView {
	return ItemView{
		ID:           item.ID,
		HotelID:      item.HotelID,
		Name:         item.Name,
		Category:     item.Category,
		Price:        item.Price,
		AvailableQty: item.AvailableQty,
		IsAvailable:  item.IsAvailable,
		UpdatedAt:    item.UpdatedAt,
	}
}
