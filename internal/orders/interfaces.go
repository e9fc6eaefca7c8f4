package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anandkrishnan/mealdash-backend/pkg/db/models"
	"github.com/anandkrishnan/mealdash-backend/pkg/enums"
	"github.com/anandkrishnan/mealdash-backend/pkg/pagination"
)

// Repository defines persistence operations for the order aggregate.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateLineItems(ctx context.Context, items []models.OrderLineItem) error
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindOrderByPickupCode(ctx context.Context, hotelID uuid.UUID, code string) (*models.Order, error)
	ListActiveForHotel(ctx context.Context, hotelID uuid.UUID, phoneQuery string) ([]HotelQueueEntry, error)
	ListForUser(ctx context.Context, userID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Order, error)
	UpdateOrderStatusIf(ctx context.Context, orderID uuid.UUID, from []enums.OrderStatus, to enums.OrderStatus) (bool, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	SetPickupCredential(ctx context.Context, orderID uuid.UUID, code, imageURL string) error
	MarkCompleted(ctx context.Context, orderID uuid.UUID, late *bool) error
	MarkFeedbackGiven(ctx context.Context, orderID uuid.UUID) (bool, error)
	FindPendingBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error)
}
