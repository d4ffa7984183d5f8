package orchestration

import (
	"time"

	"marketplace/internal/core/domain/model/order"
)

// OrderEvent is the payload published on the event bus.
type OrderEvent struct {
	OrderID     string         `json:"orderId"`
	Action      string         `json:"action"`
	Status      string         `json:"status"`
	RequesterID string         `json:"requesterId"`
	ProviderID  string         `json:"providerId"`
	CourierID   *string        `json:"courierId,omitempty"`
	Items       []EventItem    `json:"items"`
	PickedUp    bool           `json:"pickedUp"`
	Earnings    *EventEarnings `json:"earnings,omitempty"`
	OrderedAt   time.Time      `json:"orderedAt"`
	DeliveredAt *time.Time     `json:"deliveredAt,omitempty"`
	OccurredAt  time.Time      `json:"occurredAt"`
	Version     int            `json:"version"`
}

// EventItem is one order line in an event payload.
type EventItem struct {
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	ProviderID  string `json:"providerId"`
}

// EventEarnings is set only on order.delivered events.
type EventEarnings struct {
	DistanceKm        float64 `json:"distanceKm"`
	Base              string  `json:"base"`
	DistanceComponent string  `json:"distanceComponent"`
	Total             string  `json:"total"`
}

// NewOrderEvent snapshots o after action.
func NewOrderEvent(o *order.Order, action order.Action, occurredAt time.Time) OrderEvent {
	items := o.Items()
	event := OrderEvent{
		OrderID:     o.ID().String(),
		Action:      string(action),
		Status:      o.Status().String(),
		RequesterID: o.RequesterID().String(),
		ProviderID:  o.ProviderID().String(),
		Items:       make([]EventItem, 0, len(items)),
		PickedUp:    o.PickedUp(),
		OrderedAt:   o.OrderedAt(),
		DeliveredAt: o.DeliveredAt(),
		OccurredAt:  occurredAt,
		Version:     o.Version(),
	}

	if courierID := o.CourierID(); courierID != nil {
		id := courierID.String()
		event.CourierID = &id
	}

	for _, item := range items {
		event.Items = append(event.Items, EventItem{
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			UnitPrice:   item.UnitPrice().StringFixed(2),
			ProviderID:  item.ProviderID().String(),
		})
	}

	if e := o.Earnings(); !e.IsZero() {
		event.Earnings = &EventEarnings{
			DistanceKm:        e.DistanceKm,
			Base:              e.Base.StringFixed(2),
			DistanceComponent: e.DistanceComponent.StringFixed(2),
			Total:             e.Total.StringFixed(2),
		}
	}

	return event
}
