package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// ErrAddStockCommandIsNotConstructed is returned for a zero-value AddStockCommand.
var ErrAddStockCommandIsNotConstructed = errors.New(
	"AddStockCommand must be created via NewAddStockCommand constructor",
)

// AddStockCommand restocks quantity units of a product for a provider.
type AddStockCommand struct { //nolint:recvcheck //using for validation
	providerID  kernel.UUID
	productName string
	quantity    int
	unitPrice   decimal.Decimal
	batchNo     string

	guard guard.ConstructorGuard
}

// NewAddStockCommand validates a restock.
//
// Parameters:
//   - providerID: The provider receiving the stock
//   - productName: Product name (trimmed, must not be empty)
//   - quantity: Units added (must be positive)
//   - unitPrice: Price of one unit (must not be negative)
//   - batchNo: Optional batch reference
//
// Returns:
//   - AddStockCommand: The command if all validations pass
//   - error: Joined validation error otherwise
func NewAddStockCommand(
	providerID kernel.UUID,
	productName string,
	quantity int,
	unitPrice decimal.Decimal,
	batchNo string,
) (AddStockCommand, error) {
	cmd := AddStockCommand{
		batchNo: strings.TrimSpace(batchNo),
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setProviderID(providerID),
		cmd.setProductName(productName),
		cmd.setQuantity(quantity),
		cmd.setUnitPrice(unitPrice),
	); err != nil {
		return AddStockCommand{}, err
	}

	return cmd, nil
}

// Validate reports ErrAddStockCommandIsNotConstructed for a zero-value command.
func (c AddStockCommand) Validate() error {
	return c.guard.Validate(ErrAddStockCommandIsNotConstructed)
}

// Entry returns the stock entry to merge into the provider's holdings.
func (c AddStockCommand) Entry() ports.StockEntry {
	return ports.StockEntry{
		ProviderID:  c.providerID,
		ProductName: c.productName,
		ProductKey:  order.ProductKey(c.productName),
		Quantity:    c.quantity,
		UnitPrice:   c.unitPrice,
		BatchNo:     c.batchNo,
	}
}

func (c *AddStockCommand) setProviderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.providerID = id
	return nil
}

func (c *AddStockCommand) setProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("productName")
	}
	c.productName = name
	return nil
}

func (c *AddStockCommand) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "+inf")
	}
	c.quantity = quantity
	return nil
}

func (c *AddStockCommand) setUnitPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return errs.NewValueIsOutOfRangeError("unitPrice", price, 0, "+inf")
	}
	c.unitPrice = price
	return nil
}
