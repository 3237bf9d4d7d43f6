package context_manager

import (
	"context"

	"github.com/MyelinBots/vitals-go/internal/db/repositories/user"
)

type userKey struct{}

type requestIDKey struct{}

// SetUserContext stores the authenticated user into context
func SetUserContext(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// GetUserFromContext retrieves the authenticated user, or nil
func GetUserFromContext(ctx context.Context) *user.User {
	u, ok := ctx.Value(userKey{}).(*user.User)
	if !ok {
		return nil
	}
	return u
}

func SetRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// GetRequestID returns "unknown" outside a request
func GetRequestID(ctx context.Context) string {
	id, ok := ctx.Value(requestIDKey{}).(string)
	if !ok {
		return "unknown"
	}
	return id
}
