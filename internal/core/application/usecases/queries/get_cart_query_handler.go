package queries

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GetCartQueryHandler reads a requester's cart through the cart:{id} cache entry.
// A requester without a stored cart gets an empty one.
//
// A cache fill never outlives a concurrent cart write: after storing the view
// the handler reads the row's updated_at again and drops the entry when the
// cart changed in the meantime. Writers delete the key after committing, so
// either their delete or this check removes a view that went stale in flight.
type GetCartQueryHandler struct {
	db     *gorm.DB
	cache  ports.Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewGetCartQueryHandler creates the cached cart reader.
//
// Parameters:
//   - db: Connection used for the carts table
//   - cache: Stores rendered views under ports.CartCacheKey
//   - ttl: Lifetime of a cached view
//   - logger: Receives cache failures at warn level
//
// Example:
//
//	handler := queries.NewGetCartQueryHandler(db, cache, time.Minute, logger)
//	view, err := handler.Handle(ctx, query)
func NewGetCartQueryHandler(db *gorm.DB, cache ports.Cache, ttl time.Duration, logger *slog.Logger) GetCartQueryHandler {
	return GetCartQueryHandler{
		db:     db,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With("component", "cart_query"),
	}
}

// Handle serves the cart from cache, or loads and caches it. A requester with
// no cart row gets an empty view. Cache errors are logged and never returned.
func (h GetCartQueryHandler) Handle(ctx context.Context, query GetCartQuery) (CartView, error) {
	if err := query.Validate(); err != nil {
		return CartView{}, err
	}

	key := ports.CartCacheKey(query.RequesterID())

	var cached CartView
	found, err := h.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		h.logger.Warn("Cart cache read failed", "key", key, "error", err)
	}
	if found && err == nil {
		return cached, nil
	}

	var row struct {
		Items     datatypes.JSONSlice[itemRow]
		UpdatedAt time.Time
	}
	err = h.db.WithContext(ctx).
		Raw(`SELECT items, updated_at FROM carts WHERE requester_id = ?`, query.RequesterID().Raw()).
		Scan(&row).Error
	if err != nil {
		return CartView{}, err
	}

	items, total := itemViews(row.Items)
	view := CartView{
		RequesterID: query.RequesterID().String(),
		Items:       items,
		Total:       total.StringFixed(2),
	}

	if err = h.cache.SetJSON(ctx, key, view, h.ttl); err != nil {
		h.logger.Warn("Cart cache write failed", "key", key, "error", err)
		return view, nil
	}

	h.dropIfChanged(ctx, key, query.RequesterID(), row.UpdatedAt)
	return view, nil
}

// dropIfChanged deletes key unless the stored cart still carries loaded as its
// updated_at.
func (h GetCartQueryHandler) dropIfChanged(ctx context.Context, key string, requesterID kernel.UUID, loaded time.Time) {
	var current struct {
		UpdatedAt time.Time
	}
	err := h.db.WithContext(ctx).
		Raw(`SELECT updated_at FROM carts WHERE requester_id = ?`, requesterID.Raw()).
		Scan(&current).Error
	if err == nil && current.UpdatedAt.Equal(loaded) {
		return
	}

	if delErr := h.cache.Delete(ctx, key); delErr != nil {
		h.logger.Warn("Dropping in-flight cart view failed", "key", key, "error", delErr)
	}
}
