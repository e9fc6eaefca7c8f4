package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/anandkrishnan/mealdash-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID    uuid.UUID
	Role      enums.UserRole
	HotelID   *uuid.UUID
	IsPremium bool
	JTI       string
}

// AccessTokenClaims represents the typed JWT issued to clients. HotelID is
// only present for hotel-owner tokens.
type AccessTokenClaims struct {
	UserID    uuid.UUID      `json:"user_id"`
	Role      enums.UserRole `json:"role"`
	HotelID   *uuid.UUID     `json:"hotel_id,omitempty"`
	IsPremium bool           `json:"is_premium,omitempty"`
	jwt.RegisteredClaims
}
