package middleware

import "context"

// userIDKey is the key used to store the authenticated user's ID.
const userIDKey = contextKey("userID")

// anonymousUser is the distinct id used for analytics when auth is disabled.
const anonymousUser = "anonymous"

// GetUserIDFromCtx reads the user ID stored by AuthMiddleware in a standard context.
func GetUserIDFromCtx(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// DistinctID returns the user ID for analytics, or "anonymous".
func DistinctID(ctx context.Context) string {
	if userID, ok := GetUserIDFromCtx(ctx); ok {
		return userID
	}
	return anonymousUser
}
