package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

// ErrPlaceOrderCommandIsNotConstructed is returned for a zero-value PlaceOrderCommand.
var ErrPlaceOrderCommandIsNotConstructed = errors.New(
	"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
)

// PlaceOrderCommand turns the requester's cart into a pending order.
// Location is optional; when nil the registered profile location is used.
//
// Example:
//
//	loc, _ := kernel.NewLocation(12.9, 77.6)
//	cmd, err := NewPlaceOrderCommand(requesterID, &loc)
//	o, err := handler.Handle(ctx, cmd)
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	requesterID kernel.UUID
	location    *kernel.Location

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand validates the requester and snapshots the optional location.
//
// Parameters:
//   - requesterID: The requester whose cart is ordered
//   - location: Delivery point for this order, or nil for the profile location
//
// Returns:
//   - PlaceOrderCommand: The command if all validations pass
//   - error: Joined validation error otherwise
func NewPlaceOrderCommand(requesterID kernel.UUID, location *kernel.Location) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setRequesterID(requesterID),
		cmd.setLocation(location),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	return cmd, nil
}

// Validate reports ErrPlaceOrderCommandIsNotConstructed for a zero-value command.
func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

// RequesterID returns the requester placing the order.
func (c PlaceOrderCommand) RequesterID() kernel.UUID {
	return c.requesterID
}

// Location returns the delivery point sent with the request, or nil.
func (c PlaceOrderCommand) Location() *kernel.Location {
	return c.location
}

func (c *PlaceOrderCommand) setRequesterID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.requesterID = id
	return nil
}

func (c *PlaceOrderCommand) setLocation(loc *kernel.Location) error {
	if loc == nil {
		return nil
	}
	if err := loc.Validate(); err != nil {
		return err
	}
	snapshot := *loc
	c.location = &snapshot
	return nil
}
