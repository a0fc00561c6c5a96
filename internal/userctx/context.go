package userctx

import "context"

type contextKey string

const userIDContextKey contextKey = "user_id"

// DefaultUserID is used when requests arrive without a token (AUTH_MODE=none).
const DefaultUserID = "default"

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	return userID, ok
}

// OwnerID returns the authenticated user id, or DefaultUserID when the
// request carries no identity.
func OwnerID(ctx context.Context) string {
	if userID, ok := GetUserID(ctx); ok && userID != "" {
		return userID
	}
	return DefaultUserID
}
