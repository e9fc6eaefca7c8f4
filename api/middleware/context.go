package middleware

import "context"

type contextKey string

const (
	ctxUserID  contextKey = "user_id"
	ctxRole    contextKey = "actor_role"
	ctxHotelID contextKey = "hotel_id"
	ctxAuthJTI contextKey = "auth_jti"
)

func stringFromContext(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(key).(string)
	return value
}

func UserIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxUserID)
}

func RoleFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxRole)
}

func HotelIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxHotelID)
}

// SessionIDFromContext returns the jti of the presented access token.
func SessionIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxAuthJTI)
}

// WithUserID seeds the acting user id, used by tests and internal callers
// that bypass the auth middleware.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithHotelID seeds the acting hotel id.
func WithHotelID(ctx context.Context, hotelID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxHotelID, hotelID)
}
