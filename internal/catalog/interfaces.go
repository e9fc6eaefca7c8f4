package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anandkrishnan/mealdash-backend/pkg/db/models"
)

// Repository defines persistence operations for the per-hotel menu ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateMenuItem(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, hotelID, itemID uuid.UUID, updates map[string]any) error
	DeleteMenuItem(ctx context.Context, hotelID, itemID uuid.UUID) error
	FindMenuItem(ctx context.Context, hotelID, itemID uuid.UUID) (*models.MenuItem, error)
	FindMenuItemByName(ctx context.Context, hotelID uuid.UUID, name string) (*models.MenuItem, error)
	ListMenu(ctx context.Context, hotelID uuid.UUID, availableOnly bool) ([]models.MenuItem, error)
	AdjustQuantity(ctx context.Context, hotelID uuid.UUID, nameKey string, delta int) (bool, error)
}
