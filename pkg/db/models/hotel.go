package models

import (
	"time"

	"github.com/anandkrishnan/mealdash-backend/pkg/enums"
	"github.com/google/uuid"
)

// Hotel is a restaurant tenant operated by a single owner account.
type Hotel struct {
	ID          uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerUserID uuid.UUID         `gorm:"column:owner_user_id;type:uuid;not null;uniqueIndex"`
	Name        string            `gorm:"column:name;not null"`
	Location    string            `gorm:"column:location;not null"`
	Phone       *string           `gorm:"column:phone"`
	Status      enums.HotelStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	IsOpen      bool              `gorm:"column:is_open;not null;default:false"`
	IsActive    bool              `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
