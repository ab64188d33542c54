package middleware

import (
	"context"

	"github.com/angelmondragon/vitrina-backend/internal/stores"
)

type contextKey string

const (
	ctxUserID      contextKey = "user_id"
	ctxRole        contextKey = "actor_role"
	ctxStore       contextKey = "store"
	ctxCartSession contextKey = "cart_session"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

// StoreFromContext returns the store resolved from the {slug} route parameter.
func StoreFromContext(ctx context.Context) *stores.StoreDTO {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxStore).(*stores.StoreDTO); ok {
		return v
	}
	return nil
}

func CartSessionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxCartSession).(string); ok {
		return v
	}
	return ""
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithActor records the authenticated back-office user and the role it was admitted with.
func WithActor(ctx context.Context, userID, role string) context.Context {
	return context.WithValue(WithUserID(ctx, userID), ctxRole, role)
}

// WithStore injects the resolved store for downstream handlers.
func WithStore(ctx context.Context, store *stores.StoreDTO) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxStore, store)
}

func WithCartSession(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCartSession, sessionID)
}
