package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anandkrishnan/mealdash-backend/pkg/db/models"
)

// Repository is the persistence surface for user identities and the
// per-user abuse counters.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, updates map[string]any) error
	TouchLastLogin(ctx context.Context, userID uuid.UUID) error

	// IncrementReportCount bumps the abuse counter and returns the new value.
	// Returns gorm.ErrRecordNotFound when the user does not exist.
	IncrementReportCount(ctx context.Context, userID uuid.UUID) (int, error)

	// ResetReportsIfThreshold zeroes the counter and revokes the premium flag
	// in a single guarded update. Reports whether the guard fired.
	ResetReportsIfThreshold(ctx context.Context, userID uuid.UUID, threshold int) (bool, error)
}

// Service exposes profile reads and writes for the authenticated user.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileView, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*ProfileView, error)
}
