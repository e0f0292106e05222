package auth

import (
	"context"
	"errors"
)

// ErrNotAuthenticated is returned when an operation requires a signed-in
// user and the context carries none. Callers are expected to redirect to
// re-authentication; session handling itself lives outside this service.
var ErrNotAuthenticated = errors.New("not authenticated")

type userIDContextKey struct{}

// WithUserID stores the authenticated user id in the context for the
// middleware chain.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey{}, userID)
}

// UserIDFromContext retrieves the authenticated user id from the context.
func UserIDFromContext(ctx context.Context) (string, error) {
	userID, _ := ctx.Value(userIDContextKey{}).(string)
	if userID == "" {
		return "", ErrNotAuthenticated
	}
	return userID, nil
}

// ContextResolver resolves identity from the request context. It
// satisfies the feed.IdentityResolver contract.
type ContextResolver struct{}

func (ContextResolver) CurrentUserID(ctx context.Context) (string, error) {
	return UserIDFromContext(ctx)
}
