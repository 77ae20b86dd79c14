package types

import (
	"context"
)

// ContextKey is a type for the keys of values stored in the context
type ContextKey string

const (
	CtxRequestID  ContextKey = "ctx_request_id"
	CtxTenantID   ContextKey = "ctx_tenant_id"
	CtxUserID     ContextKey = "ctx_user_id"
	CtxPropertyID ContextKey = "ctx_property_id"

	// Default values
	DefaultTenantID = "00000000-0000-0000-0000-000000000000"
	DefaultUserID   = "00000000-0000-0000-0000-000000000000"
)

// HTTP headers mapped into the request context
const (
	HeaderRequestID  = "X-Request-ID"
	HeaderTenantID   = "X-Tenant-ID"
	HeaderUserID     = "X-User-ID"
	HeaderPropertyID = "X-Property-ID"
)

func GetUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(CtxUserID).(string); ok {
		return userID
	}
	return ""
}

func GetTenantID(ctx context.Context) string {
	if tenantID, ok := ctx.Value(CtxTenantID).(string); ok {
		return tenantID
	}
	return ""
}

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(CtxRequestID).(string); ok {
		return requestID
	}
	return ""
}

// GetPropertyID returns the property (structure) the request is scoped to.
// Tax rules, bookings and reports are always resolved per property.
func GetPropertyID(ctx context.Context) string {
	if propertyID, ok := ctx.Value(CtxPropertyID).(string); ok {
		return propertyID
	}
	return ""
}
