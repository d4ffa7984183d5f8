package commands

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/cart"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

// AddToCartCommandHandler prices a product from the best-stocked provider and
// appends it to the requester's cart.
//
// The stock lookup reads through the stock:{productKey} cache entry; cache
// failures only cost a database round trip.
type AddToCartCommandHandler struct {
	uowFactory   CartUoWFactory
	cache        ports.Cache
	stockTTL     time.Duration
	orchestrator Orchestrator
	logger       *slog.Logger
}

// NewAddToCartCommandHandler creates the cart addition handler.
//
// Parameters:
//   - uowFactory: Opens the transaction spanning stock and cart repositories
//   - cache: Read-through store for stock entries
//   - stockTTL: Lifetime of a cached stock entry
//   - orchestrator: Invalidates the cart view after commit
//   - logger: Receives cache failures at warn level
//
// Example:
//
//	handler := commands.NewAddToCartCommandHandler(uowFactory, cache, time.Minute, coordinator, logger)
//	c, err := handler.Handle(ctx, cmd)
func NewAddToCartCommandHandler(
	uowFactory CartUoWFactory,
	cache ports.Cache,
	stockTTL time.Duration,
	orchestrator Orchestrator,
	logger *slog.Logger,
) AddToCartCommandHandler {
	return AddToCartCommandHandler{
		uowFactory:   uowFactory,
		cache:        cache,
		stockTTL:     stockTTL,
		orchestrator: orchestrator,
		logger:       logger.With("component", "add_to_cart"),
	}
}

// Handle adds the line under the cart row lock and drops the cached cart view
// after commit.
//
// Returns:
//   - *cart.Cart: The cart as committed
//   - error: errs.ObjectNotFoundError when nobody stocks the product, or a
//     validation or storage error
func (h AddToCartCommandHandler) Handle(ctx context.Context, cmd AddToCartCommand) (*cart.Cart, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	entry, err := h.stockEntry(ctx, uow.StockRepository(), order.ProductKey(cmd.ProductName()))
	if err != nil {
		return nil, err
	}

	item, err := order.NewItem(entry.ProductName, cmd.Quantity(), entry.UnitPrice, entry.ProviderID)
	if err != nil {
		return nil, err
	}

	cartRepo := uow.CartRepository()
	c, err := cartRepo.GetForUpdate(ctx, cmd.RequesterID())
	if err != nil {
		return nil, err
	}

	if err = c.AddItem(item); err != nil {
		return nil, err
	}

	if err = cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.orchestrator.Invalidate(ctx, ports.CartCacheKey(cmd.RequesterID()))
	return c, nil
}

// stockEntry reads through the stock cache. Cache errors are logged and never returned.
func (h AddToCartCommandHandler) stockEntry(
	ctx context.Context,
	repo ports.StockRepository,
	productKey string,
) (ports.StockEntry, error) {
	key := ports.StockCacheKey(productKey)

	var cached ports.StockEntry
	found, err := h.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		h.logger.Warn("Stock cache read failed", "key", key, "error", err)
	}
	if found && err == nil {
		return cached, nil
	}

	entry, err := repo.FindAvailable(ctx, productKey)
	if err != nil {
		return ports.StockEntry{}, err
	}

	if err = h.cache.SetJSON(ctx, key, entry, h.stockTTL); err != nil {
		h.logger.Warn("Stock cache write failed", "key", key, "error", err)
	}
	return entry, nil
}
