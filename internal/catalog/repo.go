package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anandkrishnan/mealdash-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// NormalizeName collapses an item name to its lookup key. Two names that
// normalize equal refer to the same ledger row.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (r *repository) CreateMenuItem(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error) {
	item.NameKey = NormalizeName(item.Name)
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) UpdateMenuItem(ctx context.Context, hotelID, itemID uuid.UUID, updates map[string]any) error {
	if name, ok := updates["name"].(string); ok {
		updates["name_key"] = NormalizeName(name)
	}
	res := r.db.WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("id = ? AND hotel_id = ?", itemID, hotelID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) DeleteMenuItem(ctx context.Context, hotelID, itemID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND hotel_id = ?", itemID, hotelID).
		Delete(&models.MenuItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) FindMenuItem(ctx context.Context, hotelID, itemID uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND hotel_id = ?", itemID, hotelID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindMenuItemByName(ctx context.Context, hotelID uuid.UUID, name string) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND name_key = ?", hotelID, NormalizeName(name)).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) ListMenu(ctx context.Context, hotelID uuid.UUID, availableOnly bool) ([]models.MenuItem, error) {
	query := r.db.WithContext(ctx).Where("hotel_id = ?", hotelID)
	if availableOnly {
		query = query.Where("is_available = ?", true)
	}
	var items []models.MenuItem
	if err := query.Order("name_key ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AdjustQuantity applies delta to the named ledger row only when the result
// stays non-negative. Returns false when the guard rejects the change or the
// row is missing.
func (r *repository) AdjustQuantity(ctx context.Context, hotelID uuid.UUID, nameKey string, delta int) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE menu_items
		SET available_qty = available_qty + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE hotel_id = ? AND name_key = ? AND available_qty + ? >= 0
	`, delta, hotelID, nameKey, delta)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
