package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
)

// Notifier fans out "something changed, re-fetch" signals to live dashboards.
// Signals carry no order data.
type Notifier interface {
	// ProviderOrdersChanged tells provider dashboards to re-fetch their orders.
	ProviderOrdersChanged(ctx context.Context) error
	// CourierReadyOrdersChanged tells couriers the board changed.
	CourierReadyOrdersChanged(ctx context.Context) error
	// RequesterOrdersChanged reaches only the views of requesterID.
	RequesterOrdersChanged(ctx context.Context, requesterID kernel.UUID) error

	// StockChanged tells catalogue and inventory views that quantities moved.
	StockChanged(ctx context.Context) error
}
