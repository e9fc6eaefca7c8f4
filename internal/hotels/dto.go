package hotels

import (
	"time"

	"github.com/google/uuid"

	"github.com/anandkrishnan/mealdash-backend/pkg/db/models"
	"github.com/anandkrishnan/mealdash-backend/pkg/enums"
)

type RegisterInput struct {
	Name     string  `json:"name" validate:"required,min=1,max=120"`
	Location string  `json:"location" validate:"required,min=1,max=200"`
	Phone    *string `json:"phone" validate:"omitempty,min=7,max=20"`
}

type HotelView struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	Location  string            `json:"location"`
	Phone     *string           `json:"phone,omitempty"`
	Status    enums.HotelStatus `json:"status"`
	IsOpen    bool              `json:"is_open"`
	CreatedAt time.Time         `json:"created_at"`
}

func toHotelView(hotel *models.Hotel) *HotelView {
	return &HotelView{
		ID:        hotel.ID,
		Name:      hotel.Name,
		Location:  hotel.Location,
		Phone:     hotel.Phone,
		Status:    hotel.Status,
		IsOpen:    hotel.IsOpen,
		CreatedAt: hotel.CreatedAt,
	}
}
