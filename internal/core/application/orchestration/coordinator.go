package orchestration

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/metrics"
	"marketplace/internal/pkg/resilience"
)

// Defaults applied when Options leaves a timeout unset.
const (
	DefaultStoreTimeout      = 3 * time.Second
	DefaultSideEffectTimeout = 2 * time.Second
)

const (
	effectInventory = "inventory"
	effectCache     = "cache"
	effectEvents    = "events"
	effectNotifier  = "notifier"
)

// ErrWriteReturnedNoOrder is returned when a successful write reports no order.
var ErrWriteReturnedNoOrder = errors.New("write returned no order")

// WriteFunc performs the authoritative store write and reports what changed.
type WriteFunc func(ctx context.Context) (Change, error)

// Options bounds the store write and each side-effect call.
type Options struct {
	StoreTimeout      time.Duration
	SideEffectTimeout time.Duration
}

// Coordinator runs the fixed side-effect sequence after each order write.
type Coordinator struct {
	stock    ports.StockAdjuster
	cache    ports.Cache
	events   ports.EventPublisher
	notifier ports.Notifier

	storeTimeout time.Duration
	inventory    *resilience.Guard
	cacheGuard   *resilience.Guard
	eventsGuard  *resilience.Guard
	notifyGuard  *resilience.Guard

	now    func() time.Time
	logger *slog.Logger
}

// NewCoordinator wires the side-effect ports, each behind its own circuit breaker.
//
// Parameters:
//   - stock: Applies inventory decrements after placement
//   - cache: Invalidated after every change
//   - events: Receives one event per change
//   - notifier: Receives the dashboard signals
//   - opts: Timeouts; zero values fall back to the defaults
//   - logger: Receives swallowed side-effect failures
//
// Example:
//
//	coordinator := orchestration.NewCoordinator(stockRepo, cache, publisher, hub,
//	    orchestration.Options{}, logger)
//	o, err := coordinator.Execute(ctx, func(ctx context.Context) (orchestration.Change, error) {
//	    // Commit the write, then describe it
//	    return orchestration.Change{Order: o, Action: order.ActionConfirmed}, nil
//	})
func NewCoordinator(
	stock ports.StockAdjuster,
	cache ports.Cache,
	events ports.EventPublisher,
	notifier ports.Notifier,
	opts Options,
	logger *slog.Logger,
) *Coordinator {
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = DefaultStoreTimeout
	}
	if opts.SideEffectTimeout <= 0 {
		opts.SideEffectTimeout = DefaultSideEffectTimeout
	}

	return &Coordinator{
		stock:        stock,
		cache:        cache,
		events:       events,
		notifier:     notifier,
		storeTimeout: opts.StoreTimeout,
		inventory:    resilience.NewGuard(effectInventory, opts.SideEffectTimeout, logger),
		cacheGuard:   resilience.NewGuard(effectCache, opts.SideEffectTimeout, logger),
		eventsGuard:  resilience.NewGuard(effectEvents, opts.SideEffectTimeout, logger),
		notifyGuard:  resilience.NewGuard(effectNotifier, opts.SideEffectTimeout, logger),
		now:          time.Now,
		logger:       logger.With("component", "orchestration"),
	}
}

// Execute runs write and, once it has committed, the side effects of the change.
//
// The write gets a context that survives caller cancellation, bounded by the
// store timeout: a client that hangs up must not abort a commit half way. Its
// error is the only error Execute returns.
func (c *Coordinator) Execute(ctx context.Context, write WriteFunc) (*order.Order, error) {
	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.storeTimeout)
	change, err := write(storeCtx)
	cancel()
	if err != nil {
		return nil, err
	}
	if change.Order == nil {
		return nil, ErrWriteReturnedNoOrder
	}

	if change.Noop {
		c.logger.Debug("Write was a no-op, skipping side effects",
			"order_id", change.Order.ID().String(), "action", string(change.Action))
		return change.Order, nil
	}

	metrics.OrderTransitionsTotal.WithLabelValues(string(change.Action)).Inc()

	effectsCtx := context.WithoutCancel(ctx)
	plan := PlanFor(change)
	log := c.logger.With("order_id", change.Order.ID().String(), "action", string(change.Action))

	c.adjustInventory(effectsCtx, log, plan.Adjustments)
	c.invalidate(effectsCtx, log, plan.CacheKeys)
	c.publish(effectsCtx, log, plan.Topic, NewOrderEvent(change.Order, change.Action, c.now()))
	c.notify(effectsCtx, log, change.Order, plan.Audience)

	return change.Order, nil
}

// Invalidate drops cache keys outside an order write, with the same
// best-effort semantics as the invalidation step of Execute.
func (c *Coordinator) Invalidate(ctx context.Context, keys ...string) {
	c.invalidate(context.WithoutCancel(ctx), c.logger, keys)
}

// StockChanged runs the cache and notifier steps for an inventory write that
// is not tied to an order, such as a restock. The write must have committed.
func (c *Coordinator) StockChanged(ctx context.Context, productKeys ...string) {
	ctx = context.WithoutCancel(ctx)
	log := c.logger.With("product_keys", productKeys)

	keys := make([]string, 0, len(productKeys))
	for _, key := range productKeys {
		keys = append(keys, ports.StockCacheKey(key))
	}
	c.invalidate(ctx, log, keys)

	if err := c.notifyGuard.Do(ctx, c.notifier.StockChanged); err != nil {
		c.swallow(log, effectNotifier, err, "channel", "stock")
	}
}

// adjustInventory applies each adjustment on its own so one failure does not skip the rest.
func (c *Coordinator) adjustInventory(ctx context.Context, log *slog.Logger, adjustments []Adjustment) {
	for _, adj := range adjustments {
		err := c.inventory.Do(ctx, func(ctx context.Context) error {
			return c.stock.Decrement(ctx, adj.ProviderID, adj.ProductKey, adj.Quantity)
		})
		if err != nil {
			c.swallow(log, effectInventory, err,
				"provider_id", adj.ProviderID.String(), "product_key", adj.ProductKey, "quantity", adj.Quantity)
		}
	}
}

// invalidate deletes keys in a single call.
func (c *Coordinator) invalidate(ctx context.Context, log *slog.Logger, keys []string) {
	if len(keys) == 0 {
		return
	}
	err := c.cacheGuard.Do(ctx, func(ctx context.Context) error {
		return c.cache.Delete(ctx, keys...)
	})
	if err != nil {
		c.swallow(log, effectCache, err, "keys", keys)
	}
}

// publish skips changes without a topic.
func (c *Coordinator) publish(ctx context.Context, log *slog.Logger, topic string, event OrderEvent) {
	if topic == "" {
		return
	}
	err := c.eventsGuard.Do(ctx, func(ctx context.Context) error {
		return c.events.Publish(ctx, topic, event)
	})
	if err != nil {
		c.swallow(log, effectEvents, err, "topic", topic)
	}
}

// signal is one notifier call with the channel name used in logs.
type signal struct {
	channel string
	send    func(context.Context) error
}

// notify sends the signals of audience in a fixed order: provider, courier, requester, stock.
func (c *Coordinator) notify(ctx context.Context, log *slog.Logger, o *order.Order, audience Audience) {
	var signals []signal
	if audience.Provider {
		signals = append(signals, signal{"provider", c.notifier.ProviderOrdersChanged})
	}
	if audience.Courier {
		signals = append(signals, signal{"courier", c.notifier.CourierReadyOrdersChanged})
	}
	if audience.Requester {
		requesterID := o.RequesterID()
		signals = append(signals, signal{"requester", func(ctx context.Context) error {
			return c.notifier.RequesterOrdersChanged(ctx, requesterID)
		}})
	}
	if audience.Stock {
		signals = append(signals, signal{"stock", c.notifier.StockChanged})
	}

	for _, s := range signals {
		if err := c.notifyGuard.Do(ctx, s.send); err != nil {
			c.swallow(log, effectNotifier, err, "channel", s.channel)
		}
	}
}

// swallow logs and counts a side-effect failure. Nothing is returned to the caller.
func (c *Coordinator) swallow(log *slog.Logger, effect string, cause error, attrs ...any) {
	err := errs.NewDependencyUnavailableError(effect, cause)
	metrics.SideEffectFailuresTotal.WithLabelValues(effect).Inc()
	log.Warn("Side effect failed after commit", append([]any{"effect", effect, "error", err}, attrs...)...)
}
