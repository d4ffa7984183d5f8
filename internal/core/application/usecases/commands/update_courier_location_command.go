package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

// ErrUpdateCourierLocationCommandIsNotConstructed is returned for a zero-value UpdateCourierLocationCommand.
var ErrUpdateCourierLocationCommandIsNotConstructed = errors.New(
	"UpdateCourierLocationCommand must be created via NewUpdateCourierLocationCommand constructor",
)

// UpdateCourierLocationCommand reports a courier's current position. It feeds
// the ETA shown to requesters.
type UpdateCourierLocationCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	location  kernel.Location

	guard guard.ConstructorGuard
}

// NewUpdateCourierLocationCommand validates the courier and builds the location.
//
// Returns:
//   - UpdateCourierLocationCommand: The command if all validations pass
//   - error: The first validation error
func NewUpdateCourierLocationCommand(courierID kernel.UUID, lat, lon float64) (UpdateCourierLocationCommand, error) {
	cmd := UpdateCourierLocationCommand{guard: guard.NewConstructorGuard()}

	if err := courierID.Validate(); err != nil {
		return UpdateCourierLocationCommand{}, err
	}
	location, err := kernel.NewLocation(lat, lon)
	if err != nil {
		return UpdateCourierLocationCommand{}, err
	}

	cmd.courierID = courierID
	cmd.location = location
	return cmd, nil
}

// Validate reports ErrUpdateCourierLocationCommandIsNotConstructed for a zero-value command.
func (c UpdateCourierLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateCourierLocationCommandIsNotConstructed)
}

// CourierID returns the reporting courier.
func (c UpdateCourierLocationCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Location returns the reported position.
func (c UpdateCourierLocationCommand) Location() kernel.Location {
	return c.location
}
