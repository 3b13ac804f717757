package api

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const userIDKey contextKey = "userID"

// UserIDFromContext extracts the authenticated user id from the context.
// ok is false if no user is attached.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	if v := ctx.Value(userIDKey); v != nil {
		if userID, ok := v.(uuid.UUID); ok {
			return userID, true
		}
	}

	return uuid.Nil, false
}

// withUserID returns a new context with the user id set.
func withUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}
