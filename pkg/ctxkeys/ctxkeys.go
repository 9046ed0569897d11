// Package ctxkeys defines typed context keys to avoid SA1029 lint warnings
// and prevent key collisions across packages.
package ctxkeys

import (
	"context"
)

// Key is a typed context key to prevent collisions.
type Key string

// Auth context keys
const (
	KeyUserID   Key = "user_id"
	KeyUserName Key = "user_name"
	KeyEmail    Key = "email"
	KeyRole     Key = "role"
	KeyJWTToken Key = "jwt_token"
	KeyAuthType Key = "auth_type"
)

// Request context keys
const (
	KeyRequestID Key = "request_id"
	KeyClientIP  Key = "client_ip"
)

// GetUserID extracts user_id from context.
func GetUserID(ctx context.Context) string {
	if v, ok := ctx.Value(KeyUserID).(string); ok {
		return v
	}
	return ""
}

// GetUserName extracts user_name from context.
func GetUserName(ctx context.Context) string {
	if v, ok := ctx.Value(KeyUserName).(string); ok {
		return v
	}
	return ""
}

// GetEmail extracts email from context.
func GetEmail(ctx context.Context) string {
	if v, ok := ctx.Value(KeyEmail).(string); ok {
		return v
	}
	return ""
}

// GetRole extracts role from context.
func GetRole(ctx context.Context) string {
	if v, ok := ctx.Value(KeyRole).(string); ok {
		return v
	}
	return ""
}

// WithUser returns a context carrying the actor identity fields.
func WithUser(ctx context.Context, userID, userName, role string) context.Context {
	ctx = context.WithValue(ctx, KeyUserID, userID)
	ctx = context.WithValue(ctx, KeyUserName, userName)
	ctx = context.WithValue(ctx, KeyRole, role)
	return ctx
}
