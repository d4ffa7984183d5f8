package commands

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// ErrUpdateOrderStatusCommandIsNotConstructed is returned for a zero-value UpdateOrderStatusCommand.
var ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
	"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
)

// UpdateOrderStatusCommand is a provider decision on a pending order.
// Only ready and rejected are decisions; anything else is a validation error.
type UpdateOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	providerID kernel.UUID
	status     order.Status

	guard guard.ConstructorGuard
}

// NewUpdateOrderStatusCommand parses and validates a provider decision.
//
// Parameters:
//   - orderID: The order being decided
//   - providerID: The authenticated provider
//   - status: Wire name of the decision, "ready" or "rejected"
//
// Returns:
//   - UpdateOrderStatusCommand: The command if all validations pass
//   - error: Joined validation error otherwise
//
// Example:
//
//	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, providerID, "ready")
//	if err != nil {
//	    return err
//	}
//	o, err := handler.Handle(ctx, cmd)
func NewUpdateOrderStatusCommand(orderID, providerID kernel.UUID, status string) (UpdateOrderStatusCommand, error) {
	cmd := UpdateOrderStatusCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setProviderID(providerID),
		cmd.setStatus(status),
	); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	return cmd, nil
}

// Validate reports ErrUpdateOrderStatusCommandIsNotConstructed for a zero-value command.
func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

// OrderID returns the order being decided.
func (c UpdateOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ProviderID returns the deciding provider.
func (c UpdateOrderStatusCommand) ProviderID() kernel.UUID {
	return c.providerID
}

// Status is either order.Ready or order.Rejected.
func (c UpdateOrderStatusCommand) Status() order.Status {
	return c.status
}

func (c *UpdateOrderStatusCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	c.orderID = id
	return nil
}

func (c *UpdateOrderStatusCommand) setProviderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("providerId", err)
	}
	c.providerID = id
	return nil
}

func (c *UpdateOrderStatusCommand) setStatus(s string) error {
	status, err := order.ParseStatus(s)
	if err != nil {
		return err
	}
	if status != order.Ready && status != order.Rejected {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a provider decision, expected ready or rejected", status))
	}
	c.status = status
	return nil
}
