package order

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// ErrItemIsNotConstructed is returned for a zero-value Item.
var ErrItemIsNotConstructed = errs.NewValueIsRequiredError("item must be created via NewItem")

// Item is one cart or order line. ProviderID is the provider whose stock the line
// was picked from; it is a dispatch candidate, not necessarily the fulfilling provider.
type Item struct {
	productName string
	quantity    int
	unitPrice   decimal.Decimal
	providerID  kernel.UUID
	guard       guard.ConstructorGuard
}

// NewItem creates a validated order line.
//
// Parameters:
//   - productName: Display name of the product (trimmed, must not be empty)
//   - quantity: Number of units (must be positive)
//   - unitPrice: Price of one unit (must not be negative)
//   - providerID: Provider whose stock the line was picked from
//
// Returns:
//   - Item: The line if all validations pass
//   - error: Joined validation error otherwise
//
// Example:
//
//	item, err := order.NewItem("Paracetamol", 2, decimal.RequireFromString("3.50"), providerID)
//	if err != nil {
//	    // Handle validation error
//	}
//	subtotal := item.Subtotal() // 7.00
func NewItem(productName string, quantity int, unitPrice decimal.Decimal, providerID kernel.UUID) (Item, error) {
	item := Item{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		item.setProductName(productName),
		item.setQuantity(quantity),
		item.setUnitPrice(unitPrice),
		item.setProviderID(providerID),
	); err != nil {
		return Item{}, err
	}

	return item, nil
}

// ProductKey normalizes a product name for stock lookups and cache keys.
func ProductKey(productName string) string {
	return strings.ToLower(strings.TrimSpace(productName))
}

// Validate reports ErrItemIsNotConstructed for a zero-value Item.
func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

// ProductName returns the trimmed display name.
func (i Item) ProductName() string {
	return i.productName
}

// ProductKey returns the normalized product name.
func (i Item) ProductKey() string {
	return ProductKey(i.productName)
}

// Quantity returns the number of units.
func (i Item) Quantity() int {
	return i.quantity
}

// UnitPrice returns the price of a single unit.
func (i Item) UnitPrice() decimal.Decimal {
	return i.unitPrice
}

// ProviderID returns the provider the line was picked from.
func (i Item) ProviderID() kernel.UUID {
	return i.providerID
}

// Subtotal is UnitPrice times Quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.unitPrice.Mul(decimal.NewFromInt(int64(i.quantity)))
}

func (i *Item) setProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("productName")
	}
	i.productName = name
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "+inf")
	}
	i.quantity = quantity
	return nil
}

func (i *Item) setUnitPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return errs.NewValueIsOutOfRangeError("unitPrice", price, 0, "+inf")
	}
	i.unitPrice = price
	return nil
}

func (i *Item) setProviderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.providerID = id
	return nil
}
