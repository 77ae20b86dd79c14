package testutil

import (
	"context"

	"github.com/Bedotech/smartbook/internal/types"
)

// DefaultPropertyID is the property every test request is scoped to
const DefaultPropertyID = "property_test"

func SetupContext() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, types.CtxTenantID, types.DefaultTenantID)
	ctx = context.WithValue(ctx, types.CtxUserID, types.DefaultUserID)
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	ctx = context.WithValue(ctx, types.CtxPropertyID, DefaultPropertyID)
	return ctx
}
