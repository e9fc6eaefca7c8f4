package auth

import (
	"github.com/google/uuid"

	"github.com/anandkrishnan/mealdash-backend/pkg/enums"
)

type RegisterInput struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=128"`
	FullName string  `json:"full_name" validate:"required,min=1,max=120"`
	Phone    *string `json:"phone" validate:"omitempty,min=7,max=20"`
	Address  *string `json:"address" validate:"omitempty,max=500"`
	Role     string  `json:"role" validate:"required,oneof=customer hotel"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshInput struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenPair is returned on login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RegisterResult struct {
	UserID uuid.UUID      `json:"user_id"`
	Email  string         `json:"email"`
	Role   enums.UserRole `json:"role"`
}

type LoginResult struct {
	TokenPair
	UserID    uuid.UUID      `json:"user_id"`
	Role      enums.UserRole `json:"role"`
	HotelID   *uuid.UUID     `json:"hotel_id,omitempty"`
	IsPremium bool           `json:"is_premium"`
}
