package hotels

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anandkrishnan/mealdash-backend/pkg/db/models"
	"github.com/anandkrishnan/mealdash-backend/pkg/enums"
)

type repository struct {
	conn *gorm.DB
}

func NewRepository(conn *gorm.DB) Repository {
	return &repository{conn: conn}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{conn: tx}
}

func (r *repository) Create(ctx context.Context, hotel *models.Hotel) (*models.Hotel, error) {
	if err := r.conn.WithContext(ctx).Create(hotel).Error; err != nil {
		return nil, err
	}
	return hotel, nil
}

func (r *repository) FindByID(ctx context.Context, hotelID uuid.UUID) (*models.Hotel, error) {
	var hotel models.Hotel
	err := r.conn.WithContext(ctx).
		Where("id = ? AND is_active = ?", hotelID, true).
		First(&hotel).Error
	if err != nil {
		return nil, err
	}
	return &hotel, nil
}

func (r *repository) FindByOwner(ctx context.Context, ownerUserID uuid.UUID) (*models.Hotel, error) {
	var hotel models.Hotel
	err := r.conn.WithContext(ctx).
		Where("owner_user_id = ? AND is_active = ?", ownerUserID, true).
		First(&hotel).Error
	if err != nil {
		return nil, err
	}
	return &hotel, nil
}

func (r *repository) ListByStatus(ctx context.Context, status enums.HotelStatus) ([]models.Hotel, error) {
	var rows []models.Hotel
	err := r.conn.WithContext(ctx).
		Where("status = ? AND is_active = ?", status, true).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) UpdateStatus(ctx context.Context, hotelID uuid.UUID, status enums.HotelStatus) error {
	result := r.conn.WithContext(ctx).
		Model(&models.Hotel{}).
		Where("id = ?", hotelID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) SetOpen(ctx context.Context, hotelID, ownerUserID uuid.UUID, open bool) (bool, error) {
	result := r.conn.WithContext(ctx).
		Model(&models.Hotel{}).
		Where("id = ? AND owner_user_id = ?", hotelID, ownerUserID).
		Update("is_open", open)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
