package ports

import (
	"context"

	"marketplace/internal/core/domain/model/cart"
	"marketplace/internal/core/domain/model/kernel"
)

// CartRepository persists one cart per requester.
type CartRepository interface {
	// Get returns an empty cart when the requester has none stored.
	Get(ctx context.Context, requesterID kernel.UUID) (*cart.Cart, error)

	// GetForUpdate is Get that also locks the cart until the transaction ends.
	// Read-modify-write of a cart goes through it so that concurrent
	// placements and additions serialize instead of overwriting each other.
	GetForUpdate(ctx context.Context, requesterID kernel.UUID) (*cart.Cart, error)

	// Save replaces the stored lines with the cart's current lines.
	Save(ctx context.Context, c *cart.Cart) error
}
