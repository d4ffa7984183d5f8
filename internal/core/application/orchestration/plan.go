// Package orchestration applies an order state change to every store that
// mirrors it. The authoritative write runs first and alone decides the outcome
// of the call; inventory, cache, event bus and notifier follow in that order and
// only ever degrade to a logged warning.
package orchestration

import (
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

const (
	TopicOrderCreated         = "order.created"
	TopicOrderStatusUpdated   = "order.status.updated"
	TopicOrderCourierAccepted = "order.courier.accepted"
	TopicOrderCourierPickedUp = "order.courier.picked-up"
	TopicOrderDelivered       = "order.delivered"
)

// Audience selects the notifier channels signalled for a change. Stock is set
// when the change moved inventory.
type Audience struct {
	Provider  bool
	Courier   bool
	Requester bool
	Stock     bool
}

// Adjustment is one atomic inventory decrement.
type Adjustment struct {
	ProviderID kernel.UUID
	ProductKey string
	Quantity   int
}

// Change describes a committed write. Noop marks an accepted call that changed
// nothing, such as delivering an order twice; no side effect runs for it.
type Change struct {
	Order  *order.Order
	Action order.Action
	Noop   bool
}

// Plan is the list of side effects derived from a Change.
type Plan struct {
	Topic       string
	Adjustments []Adjustment
	CacheKeys   []string
	Audience    Audience
}

// PlanFor derives the side effects of a committed change.
func PlanFor(c Change) Plan {
	o := c.Order
	p := Plan{
		Topic:    TopicFor(c.Action),
		Audience: AudienceFor(c.Action),
	}

	if c.Action == order.ActionPlaced {
		p.CacheKeys = append(p.CacheKeys, ports.CartCacheKey(o.RequesterID()))
		for _, item := range o.Items() {
			p.Adjustments = append(p.Adjustments, Adjustment{
				ProviderID: item.ProviderID(),
				ProductKey: item.ProductKey(),
				Quantity:   item.Quantity(),
			})
			p.CacheKeys = append(p.CacheKeys, ports.StockCacheKey(item.ProductKey()))
		}
	}

	if p.Audience.Courier {
		p.CacheKeys = append(p.CacheKeys, ports.CourierBoardCacheKey)
	}

	return p
}

// TopicFor maps an action to its event routing key, or "" for none.
func TopicFor(action order.Action) string {
	switch action {
	case order.ActionPlaced:
		return TopicOrderCreated
	case order.ActionConfirmed, order.ActionRejected:
		return TopicOrderStatusUpdated
	case order.ActionAccepted:
		return TopicOrderCourierAccepted
	case order.ActionPickedUp:
		return TopicOrderCourierPickedUp
	case order.ActionDelivered:
		return TopicOrderDelivered
	default:
		return ""
	}
}

// AudienceFor returns who watches the order after action. Couriers only see
// orders once they are ready, so placement and rejection skip them.
func AudienceFor(action order.Action) Audience {
	switch action {
	case order.ActionPlaced:
		return Audience{Provider: true, Requester: true, Stock: true}
	case order.ActionRejected:
		return Audience{Provider: true, Requester: true}
	case order.ActionConfirmed, order.ActionAccepted, order.ActionPickedUp, order.ActionDelivered:
		return Audience{Provider: true, Courier: true, Requester: true}
	default:
		return Audience{}
	}
}
