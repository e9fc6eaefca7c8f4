package models

import (
	"time"

	"github.com/anandkrishnan/mealdash-backend/pkg/enums"
	"github.com/google/uuid"
)

// User represents the canonical identity entity for every role.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	FullName     string         `gorm:"column:full_name;not null"`
	Phone        *string        `gorm:"column:phone"`
	Address      *string        `gorm:"column:address"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null;default:'customer'"`
	IsPremium    bool           `gorm:"column:is_premium;not null;default:false"`
	ReportCount  int            `gorm:"column:report_count;not null;default:0"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
