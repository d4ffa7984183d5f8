package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// ErrAddToCartCommandIsNotConstructed is returned for a zero-value AddToCartCommand.
var ErrAddToCartCommandIsNotConstructed = errors.New(
	"AddToCartCommand must be created via NewAddToCartCommand constructor",
)

// AddToCartCommand asks for quantity units of a product by name. The stocking
// provider and unit price are resolved by the handler.
type AddToCartCommand struct { //nolint:recvcheck //using for validation
	requesterID kernel.UUID
	productName string
	quantity    int

	guard guard.ConstructorGuard
}

// NewAddToCartCommand validates a cart addition.
//
// Parameters:
//   - requesterID: Owner of the cart
//   - productName: Product to look up (trimmed, must not be empty)
//   - quantity: Units to add (must be positive)
//
// Returns:
//   - AddToCartCommand: The command if all validations pass
//   - error: Joined validation error otherwise
//
// Example:
//
//	cmd, err := commands.NewAddToCartCommand(requesterID, "Paracetamol", 2)
//	if err != nil {
//	    return err
//	}
//	c, err := handler.Handle(ctx, cmd)
func NewAddToCartCommand(requesterID kernel.UUID, productName string, quantity int) (AddToCartCommand, error) {
	cmd := AddToCartCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setRequesterID(requesterID),
		cmd.setProductName(productName),
		cmd.setQuantity(quantity),
	); err != nil {
		return AddToCartCommand{}, err
	}

	return cmd, nil
}

// Validate reports ErrAddToCartCommandIsNotConstructed for a zero-value command.
func (c AddToCartCommand) Validate() error {
	return c.guard.Validate(ErrAddToCartCommandIsNotConstructed)
}

// RequesterID returns the owner of the cart.
func (c AddToCartCommand) RequesterID() kernel.UUID {
	return c.requesterID
}

// ProductName returns the trimmed product name.
func (c AddToCartCommand) ProductName() string {
	return c.productName
}

// Quantity returns the number of units to add.
func (c AddToCartCommand) Quantity() int {
	return c.quantity
}

func (c *AddToCartCommand) setRequesterID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.requesterID = id
	return nil
}

func (c *AddToCartCommand) setProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("productName")
	}
	c.productName = name
	return nil
}

func (c *AddToCartCommand) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "+inf")
	}
	c.quantity = quantity
	return nil
}
