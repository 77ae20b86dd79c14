package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cache defines the interface for caching operations
type Cache interface {
	// Get retrieves a value from the cache
	// Returns the value and a boolean indicating whether the key was found
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set adds a value to the cache with the specified expiration
	// If expiration is 0, the item never expires (but may be evicted)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration)

	// Delete removes a key from the cache
	Delete(ctx context.Context, key string)

	// DeleteByPrefix removes all keys with the given prefix
	DeleteByPrefix(ctx context.Context, prefix string)

	// Flush removes all items from the cache
	Flush(ctx context.Context)
}

// Predefined cache key prefixes for different entity types
const (
	PrefixTaxRule       = "taxrule:v1:"
	PrefixActiveTaxRule = "taxrule:active:v1:"
	PrefixBooking       = "booking:v1:"
)

// ActiveRuleKey builds the cache key for an active-rule lookup. Keyed by
// tenant, property and calendar day so a rule transition never bleeds
// across dates.
func ActiveRuleKey(tenantID, propertyID string, day time.Time) string {
	return fmt.Sprintf("%s%s:%s:%s", PrefixActiveTaxRule, tenantID, propertyID, day.Format("2006-01-02"))
}

// RuleKey builds the cache key for a tax rule by ID
func RuleKey(tenantID, id string) string {
	return fmt.Sprintf("%s%s:%s", PrefixTaxRule, tenantID, id)
}

// InvalidatePropertyRules drops every cached rule lookup for a property
func InvalidatePropertyRules(ctx context.Context, c Cache, tenantID, propertyID string) {
	c.DeleteByPrefix(ctx, fmt.Sprintf("%s%s:%s:", PrefixActiveTaxRule, tenantID, propertyID))
	c.DeleteByPrefix(ctx, PrefixTaxRule+tenantID+":")
}

func normalizePrefix(prefix string) string {
	if strings.HasSuffix(prefix, ":") {
		return prefix
	}
	return prefix + ":"
}
