package utils

import (
	"context"
	"net/http"

	"github.com/FBNTech/ndosiphar/internal/models"
)

type contextKey string

const userContextKey contextKey = "user"

// WithUser stores the authenticated user claims on the request context
func WithUser(ctx context.Context, user *models.JWT) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUser returns the authenticated user claims, or nil when unauthenticated
func GetUser(r *http.Request) *models.JWT {
	user, _ := r.Context().Value(userContextKey).(*models.JWT)
	return user
}

// GetUserID returns the authenticated user's id, 0 when unauthenticated
func GetUserID(r *http.Request) int64 {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return 0
}
