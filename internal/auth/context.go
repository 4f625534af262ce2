package auth

import "context"

type userIDKey struct{}

func ContextWithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

func UserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(userIDKey{}).(int)
	return userID, ok
}

// IsSessionUser reports whether userID is the user authenticated for this request.
func IsSessionUser(ctx context.Context, userID int) bool {
	sessionUserID, ok := UserIDFromContext(ctx)
	return ok && sessionUserID == userID
}
