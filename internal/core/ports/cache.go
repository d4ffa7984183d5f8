package ports

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

// CourierBoardCacheKey holds the shared list of ready and out-for-delivery orders.
const CourierBoardCacheKey = "orders:courier-board"

// Cache is a non-authoritative JSON store with expiring entries.
type Cache interface {
	// GetJSON decodes the value at key into dst. found is false on a miss.
	GetJSON(ctx context.Context, key string, dst any) (found bool, err error)
	// SetJSON stores value encoded as JSON for ttl.
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	// Delete drops keys; missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}

// CartCacheKey is the key of a requester's rendered cart view.
func CartCacheKey(requesterID kernel.UUID) string {
	return "cart:" + requesterID.String()
}

// StockCacheKey is the key of the best stock entry for a product.
func StockCacheKey(productKey string) string {
	return "stock:" + productKey
}
