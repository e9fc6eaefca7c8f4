package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/anandkrishnan/mealdash-backend/pkg/db/models"
	"github.com/anandkrishnan/mealdash-backend/pkg/enums"
)

// UpdateProfileInput carries the mutable profile fields. Nil pointers are
// left untouched.
type UpdateProfileInput struct {
	FullName *string `json:"full_name" validate:"omitempty,min=1,max=120"`
	Phone    *string `json:"phone" validate:"omitempty,min=7,max=20"`
	Address  *string `json:"address" validate:"omitempty,max=500"`
}

// ProfileView is the API shape of a user record. The password hash and the
// abuse counter never leave the service layer.
type ProfileView struct {
	ID        uuid.UUID      `json:"id"`
	Email     string         `json:"email"`
	FullName  string         `json:"full_name"`
	Phone     *string        `json:"phone,omitempty"`
	Address   *string        `json:"address,omitempty"`
	Role      enums.UserRole `json:"role"`
	IsPremium bool           `json:"is_premium"`
	CreatedAt time.Time      `json:"created_at"`
}

func toProfileView(user *models.User) *ProfileView {
	return &ProfileView{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Phone:     user.Phone,
		Address:   user.Address,
		Role:      user.Role,
		IsPremium: user.IsPremium,
		CreatedAt: user.CreatedAt,
	}
}
