package notify

import (
	"context"
	"sync"

	"marketplace/internal/core/domain/model/kernel"
)

const subscriberBuffer = 8

type subscriber struct {
	ch     chan Signal
	filter Filter
}

// Hub is an in-process Notifier. Each subscriber owns a small buffered
// channel; when it is full the signal is dropped, since a pending signal
// already makes the client re-fetch.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*subscriber]struct{}
	closed bool
}

// NewHub creates a hub without subscribers.
//
// Example:
//
//	hub := notify.NewHub()
//	signals, cancel := hub.Subscribe(notify.FilterFor(party.RoleCourier, courierID))
//	defer cancel()
//	for s := range signals {
//	    // Forward s to the client
//	}
func NewHub() *Hub {
	return &Hub{subs: make(map[*subscriber]struct{})}
}

// Subscribe registers a subscriber. The returned cancel func unregisters it
// and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(filter Filter) (<-chan Signal, func()) {
	sub := &subscriber{ch: make(chan Signal, subscriberBuffer), filter: filter}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(sub.ch)
		return sub.ch, func() {}
	}
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subs[sub]; ok {
				delete(h.subs, sub)
				close(sub.ch)
			}
		})
	}
}

// Subscribers reports the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// ProviderOrdersChanged fans a provider-orders signal out to matching subscribers.
func (h *Hub) ProviderOrdersChanged(_ context.Context) error {
	h.broadcast(Signal{Channel: ChannelProviderOrders})
	return nil
}

// CourierReadyOrdersChanged fans a courier-ready-orders signal out to matching subscribers.
func (h *Hub) CourierReadyOrdersChanged(_ context.Context) error {
	h.broadcast(Signal{Channel: ChannelCourierReadyOrders})
	return nil
}

// RequesterOrdersChanged reaches only the subscribers of requesterID.
func (h *Hub) RequesterOrdersChanged(_ context.Context, requesterID kernel.UUID) error {
	h.broadcast(Signal{Channel: ChannelRequesterOrders, RequesterID: requesterID.String()})
	return nil
}

// StockChanged fans a stock-changed signal out to providers and requesters.
func (h *Hub) StockChanged(_ context.Context) error {
	h.broadcast(Signal{Channel: ChannelStockChanged})
	return nil
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.subs {
		close(sub.ch)
		delete(h.subs, sub)
	}
}

// broadcast never blocks: a subscriber with a full buffer misses the signal.
func (h *Hub) broadcast(s Signal) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		if sub.filter != nil && !sub.filter(s) {
			continue
		}
		select {
		case sub.ch <- s:
		default:
		}
	}
}
