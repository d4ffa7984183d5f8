package commands

import (
	"context"

	"marketplace/internal/core/ports"
)

// UpdateCourierLocationCommandHandler stores the courier's latest position in
// the party directory. No event or signal is emitted.
type UpdateCourierLocationCommandHandler struct {
	directory ports.PartyDirectory
}

// NewUpdateCourierLocationCommandHandler creates the location update handler.
func NewUpdateCourierLocationCommandHandler(directory ports.PartyDirectory) UpdateCourierLocationCommandHandler {
	return UpdateCourierLocationCommandHandler{directory: directory}
}

// Handle returns errs.ObjectNotFoundError for a courier without a profile.
func (h UpdateCourierLocationCommandHandler) Handle(ctx context.Context, cmd UpdateCourierLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return h.directory.UpdateLocation(ctx, cmd.CourierID(), cmd.Location())
}
