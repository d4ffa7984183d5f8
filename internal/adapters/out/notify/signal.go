// Package notify delivers "re-fetch" signals to live dashboards.
//
// Signals never carry order data. Clients react by calling the matching
// listing endpoint again.
package notify

import (
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/party"
)

// Channel names the dashboard a signal is meant for.
type Channel string

const (
	ChannelProviderOrders     Channel = "provider-orders-changed"
	ChannelCourierReadyOrders Channel = "courier-ready-orders-changed"
	ChannelRequesterOrders    Channel = "requester-orders-changed"
	ChannelStockChanged       Channel = "stock-changed"
)

// Signal is one change notification. RequesterID is only set on
// ChannelRequesterOrders.
type Signal struct {
	Channel     Channel `json:"event"`
	RequesterID string  `json:"requesterId,omitempty"`
}

// Filter selects the signals a subscriber receives.
type Filter func(Signal) bool

// FilterFor returns the filter of a dashboard opened by a party. Providers
// see their order board, couriers the ready board and requesters only their
// own orders. Stock changes reach providers and requesters, who both browse
// inventory.
func FilterFor(role party.Role, id kernel.UUID) Filter {
	switch role {
	case party.RoleProvider:
		return func(s Signal) bool {
			return s.Channel == ChannelProviderOrders || s.Channel == ChannelStockChanged
		}
	case party.RoleCourier:
		return func(s Signal) bool { return s.Channel == ChannelCourierReadyOrders }
	case party.RoleRequester:
		own := id.String()
		return func(s Signal) bool {
			return s.Channel == ChannelStockChanged ||
				(s.Channel == ChannelRequesterOrders && s.RequesterID == own)
		}
	default:
		return func(Signal) bool { return false }
	}
}
