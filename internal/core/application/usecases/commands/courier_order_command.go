package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// ErrCourierOrderCommandIsNotConstructed is returned for a zero-value CourierOrderCommand.
var ErrCourierOrderCommandIsNotConstructed = errors.New(
	"CourierOrderCommand must be created via NewCourierOrderCommand constructor",
)

// CourierOrderCommand identifies a courier acting on one order. It is shared
// by the accept, pick up and deliver use cases.
type CourierOrderCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCourierOrderCommand validates both identifiers.
//
// Parameters:
//   - orderID: The order being acted on
//   - courierID: The authenticated courier
//
// Returns:
//   - CourierOrderCommand: The command if both identifiers are valid
//   - error: Joined ValueIsRequired errors otherwise
//
// Example:
//
//	cmd, err := commands.NewCourierOrderCommand(orderID, courierID)
//	if err != nil {
//	    return err
//	}
//	o, err := acceptHandler.Handle(ctx, cmd)
func NewCourierOrderCommand(orderID, courierID kernel.UUID) (CourierOrderCommand, error) {
	cmd := CourierOrderCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCourierID(courierID),
	); err != nil {
		return CourierOrderCommand{}, err
	}

	return cmd, nil
}

// Validate reports ErrCourierOrderCommandIsNotConstructed for a zero-value command.
func (c CourierOrderCommand) Validate() error {
	return c.guard.Validate(ErrCourierOrderCommandIsNotConstructed)
}

// OrderID returns the order being acted on.
func (c CourierOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CourierID returns the acting courier.
func (c CourierOrderCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c *CourierOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	c.orderID = id
	return nil
}

func (c *CourierOrderCommand) setCourierID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("courierId", err)
	}
	c.courierID = id
	return nil
}
