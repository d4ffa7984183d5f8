// Package cart holds the requester's pending line items until they are
// consumed by order placement.
package cart

import (
	"errors"
	"slices"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// ErrCartIsNotConstructed is returned for carts created without NewCart or RestoreCart.
var ErrCartIsNotConstructed = errors.New("Cart must be created via NewCart or RestoreCart")

// Cart is keyed by requester. Lines for the same product from the same
// provider are merged; otherwise insertion order is kept, which makes the
// first line the dispatch fallback.
type Cart struct {
	requesterID   kernel.UUID
	items         []order.Item
	isConstructed bool
}

// NewCart creates an empty cart for a requester.
//
// Parameters:
//   - requesterID: Owner of the cart (must be valid UUID)
//
// Returns:
//   - *Cart: An empty cart
//   - error: Validation error if requesterID is invalid
//
// Example:
//
//	c, _ := cart.NewCart(requesterID)
//	item, _ := order.NewItem("Paracetamol", 1, price, providerID)
//	if err := c.AddItem(item); err != nil {
//	    return err
//	}
func NewCart(requesterID kernel.UUID) (*Cart, error) {
	return RestoreCart(requesterID, nil)
}

// RestoreCart rebuilds a cart loaded from storage. items are copied and each must be valid.
func RestoreCart(requesterID kernel.UUID, items []order.Item) (*Cart, error) {
	if err := requesterID.Validate(); err != nil {
		return nil, err
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
	}

	return &Cart{
		requesterID:   requesterID,
		items:         slices.Clone(items),
		isConstructed: true,
	}, nil
}

// Validate reports ErrCartIsNotConstructed for a nil or zero-value cart.
func (c *Cart) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCartIsNotConstructed
	}
	return nil
}

// RequesterID returns the owner of the cart.
func (c *Cart) RequesterID() kernel.UUID {
	return c.requesterID
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []order.Item {
	return slices.Clone(c.items)
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// AddItem appends item or increases the quantity of the matching line.
func (c *Cart) AddItem(item order.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}

	for i, existing := range c.items {
		if existing.ProductKey() != item.ProductKey() || !existing.ProviderID().IsEqual(item.ProviderID()) {
			continue
		}
		merged, err := order.NewItem(
			existing.ProductName(),
			existing.Quantity()+item.Quantity(),
			item.UnitPrice(),
			existing.ProviderID(),
		)
		if err != nil {
			return err
		}
		c.items[i] = merged
		return nil
	}

	c.items = append(c.items, item)
	return nil
}

// Consume empties the cart and returns what it held.
func (c *Cart) Consume() []order.Item {
	items := c.items
	c.items = nil
	return items
}
