package middleware

import (
	"context"

	"github.com/Bedotech/smartbook/internal/config"
	"github.com/Bedotech/smartbook/internal/types"
	"github.com/gin-gonic/gin"
)

func RequestIDMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	requestID := c.GetHeader(types.HeaderRequestID)
	if requestID == "" {
		requestID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REQUEST)
	}

	ctx = context.WithValue(ctx, types.CtxRequestID, requestID)
	c.Request = c.Request.WithContext(ctx)

	c.Header(types.HeaderRequestID, requestID)

	c.Next()
}

// ScopeMiddleware resolves the tenant, user and property a request acts
// for. Headers win so multi-property operators can switch structure per
// request; absent headers fall back to the deployment defaults.
func ScopeMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		tenantID := c.GetHeader(types.HeaderTenantID)
		if tenantID == "" {
			tenantID = types.DefaultTenantID
		}

		userID := c.GetHeader(types.HeaderUserID)
		if userID == "" {
			userID = types.DefaultUserID
		}

		propertyID := c.GetHeader(types.HeaderPropertyID)
		if propertyID == "" {
			propertyID = cfg.Property.ID
		}

		ctx = context.WithValue(ctx, types.CtxTenantID, tenantID)
		ctx = context.WithValue(ctx, types.CtxUserID, userID)
		ctx = context.WithValue(ctx, types.CtxPropertyID, propertyID)

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
