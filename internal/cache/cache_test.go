package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(true)

	key := ActiveRuleKey("tenant_1", "property_1", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	c.Set(ctx, key, "value", time.Minute)

	got, found := c.Get(ctx, key)
	assert.True(t, found)
	assert.Equal(t, "value", got)

	c.Delete(ctx, key)
	_, found = c.Get(ctx, key)
	assert.False(t, found)
}

// A disabled cache is a transparent no-op, never an error
func TestInMemoryCacheDisabled(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(false)

	c.Set(ctx, "key", "value", time.Minute)
	_, found := c.Get(ctx, "key")
	assert.False(t, found)
}

func TestActiveRuleKeyIsDayScoped(t *testing.T) {
	day1 := ActiveRuleKey("t", "p", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	day2 := ActiveRuleKey("t", "p", time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC))
	assert.NotEqual(t, day1, day2)

	// Clock time never changes the key
	late := ActiveRuleKey("t", "p", time.Date(2025, 7, 1, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, day1, late)
}

func TestInvalidatePropertyRules(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(true)

	day := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	mine := ActiveRuleKey("tenant_1", "property_1", day)
	other := ActiveRuleKey("tenant_1", "property_2", day)
	c.Set(ctx, mine, "a", time.Minute)
	c.Set(ctx, other, "b", time.Minute)

	InvalidatePropertyRules(ctx, c, "tenant_1", "property_1")

	_, found := c.Get(ctx, mine)
	assert.False(t, found)
	_, found = c.Get(ctx, other)
	assert.True(t, found, "other properties keep their entries")
}
