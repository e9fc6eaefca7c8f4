package hotels

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anandkrishnan/mealdash-backend/pkg/db/models"
	"github.com/anandkrishnan/mealdash-backend/pkg/enums"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, hotel *models.Hotel) (*models.Hotel, error)
	FindByID(ctx context.Context, hotelID uuid.UUID) (*models.Hotel, error)
	FindByOwner(ctx context.Context, ownerUserID uuid.UUID) (*models.Hotel, error)
	ListByStatus(ctx context.Context, status enums.HotelStatus) ([]models.Hotel, error)
	UpdateStatus(ctx context.Context, hotelID uuid.UUID, status enums.HotelStatus) error

	// SetOpen flips the open flag, scoped to the owning user. Reports whether
	// a row matched.
	SetOpen(ctx context.Context, hotelID, ownerUserID uuid.UUID, open bool) (bool, error)
}

// Service covers the hotel lifecycle: registration, admin review, and the
// owner's open/closed toggle. It also answers the two questions the order
// pipeline asks about a hotel.
type Service interface {
	Register(ctx context.Context, ownerUserID uuid.UUID, input RegisterInput) (*HotelView, error)
	Review(ctx context.Context, hotelID uuid.UUID, approve bool) (*HotelView, error)
	SetOpen(ctx context.Context, hotelID, ownerUserID uuid.UUID, open bool) (*HotelView, error)
	GetHotel(ctx context.Context, hotelID uuid.UUID) (*HotelView, error)
	GetOwnHotel(ctx context.Context, ownerUserID uuid.UUID) (*HotelView, error)
	ListOpenHotels(ctx context.Context) ([]HotelView, error)
	ListPendingHotels(ctx context.Context) ([]HotelView, error)

	// IsOpenForOrders reports whether the hotel can take new orders right now.
	IsOpenForOrders(ctx context.Context, hotelID uuid.UUID) (bool, error)

	// IsOwner reports whether the user operates the hotel.
	IsOwner(ctx context.Context, hotelID, userID uuid.UUID) (bool, error)
}
