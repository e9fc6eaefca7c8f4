package users

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anandkrishnan/mealdash-backend/pkg/db/models"
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

// NormalizeEmail lowercases and trims an address so lookups and the unique
// index agree on a single form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *repository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.Email = NormalizeEmail(user.Email)
	if err := r.conn.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *repository) FindByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.conn.WithContext(ctx).
		Where("id = ?", userID).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.conn.WithContext(ctx).
		Where("LOWER(email) = ?", NormalizeEmail(email)).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) UpdateProfile(ctx context.Context, userID uuid.UUID, updates map[string]any) error {
	result := r.conn.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) TouchLastLogin(ctx context.Context, userID uuid.UUID) error {
	return r.conn.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_login_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

func (r *repository) IncrementReportCount(ctx context.Context, userID uuid.UUID) (int, error) {
	result := r.conn.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("report_count", gorm.Expr("report_count + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	var count int
	err := r.conn.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Pluck("report_count", &count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) ResetReportsIfThreshold(ctx context.Context, userID uuid.UUID, threshold int) (bool, error) {
	result := r.conn.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND report_count >= ?", userID, threshold).
		Updates(map[string]any{
			"report_count": 0,
			"is_premium":   false,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
