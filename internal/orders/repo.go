package orders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anandkrishnan/mealdash-backend/pkg/db/models"
	"github.com/anandkrishnan/mealdash-backend/pkg/enums"
	"github.com/anandkrishnan/mealdash-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Omit("Items").Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) CreateLineItems(ctx context.Context, items []models.OrderLineItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindOrderByPickupCode(ctx context.Context, hotelID uuid.UUID, code string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("hotel_id = ? AND pickup_code = ?", hotelID, strings.TrimSpace(code)).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListActiveForHotel(ctx context.Context, hotelID uuid.UUID, phoneQuery string) ([]HotelQueueEntry, error) {
	query := r.db.WithContext(ctx).
		Table("orders").
		Select(`orders.id AS order_id,
			orders.status,
			orders.payment_mode,
			orders.total_amount,
			orders.total_people,
			orders.scheduled_time,
			orders.order_time,
			users.full_name AS customer_name,
			users.phone AS customer_phone,
			users.id AS customer_id`).
		Joins("JOIN users ON users.id = orders.user_id").
		Where("orders.hotel_id = ?", hotelID).
		Where("orders.status NOT IN ?", []enums.OrderStatus{enums.OrderStatusCompleted, enums.OrderStatusExpired})
	if q := strings.TrimSpace(phoneQuery); q != "" {
		query = query.Where("users.phone LIKE ?", "%"+q+"%")
	}

	var entries []HotelQueueEntry
	if err := query.Order("orders.order_time ASC").Scan(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListForUser returns the customer's attention view: active orders plus
// completed orders still awaiting feedback, newest first.
func (r *repository) ListForUser(ctx context.Context, userID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Order, error) {
	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Where("status NOT IN ? OR (status = ? AND feedback_given = ?)",
			[]enums.OrderStatus{enums.OrderStatusCompleted, enums.OrderStatusExpired},
			enums.OrderStatusCompleted, false)
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Order
	err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateOrderStatusIf transitions the order to the target status only when its
// current status is one of from. Returns false when the gate rejects.
func (r *repository) UpdateOrderStatusIf(ctx context.Context, orderID uuid.UUID, from []enums.OrderStatus, to enums.OrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status IN ?", orderID, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates).Error
}

func (r *repository) SetPickupCredential(ctx context.Context, orderID uuid.UUID, code, imageURL string) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"pickup_code":           code,
			"pickup_code_image_url": imageURL,
		}).Error
}

func (r *repository) MarkCompleted(ctx context.Context, orderID uuid.UUID, late *bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"status":  enums.OrderStatusCompleted,
			"is_late": late,
		}).Error
}

// MarkFeedbackGiven flips feedback_given only when it is still unset, so the
// double-submit race loses cleanly.
func (r *repository) MarkFeedbackGiven(ctx context.Context, orderID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND feedback_given = ?", orderID, false).
		Update("feedback_given", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) FindPendingBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", enums.OrderStatusPendingConfirmation, cutoff).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
