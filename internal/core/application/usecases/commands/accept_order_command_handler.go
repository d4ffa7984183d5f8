package commands

import (
	"context"
	"time"

	"marketplace/internal/core/application/orchestration"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

// AcceptOrderResult carries the accepted order and where to collect it.
type AcceptOrderResult struct {
	Order            *order.Order
	ProviderLocation *kernel.Location
}

// AcceptOrderCommandHandler assigns a courier to a ready order. The first
// courier whose write commits wins; a concurrent loser gets a version conflict
// or, after reloading, an invalid transition.
type AcceptOrderCommandHandler struct {
	uowFactory   OrderUoWFactory
	directory    ports.PartyDirectory
	orchestrator Orchestrator
	now          func() time.Time
}

// NewAcceptOrderCommandHandler creates the accept handler.
//
// Parameters:
//   - uowFactory: Opens the transaction around the versioned order write
//   - directory: Resolves the provider's pickup location
//   - orchestrator: Runs the post-commit side effects
//
// Example:
//
//	handler := commands.NewAcceptOrderCommandHandler(uowFactory, directory, coordinator)
//	cmd, _ := commands.NewCourierOrderCommand(orderID, courierID)
//	result, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrVersionIsInvalid) {
//	    // Another courier won the order
//	}
func NewAcceptOrderCommandHandler(
	uowFactory OrderUoWFactory,
	directory ports.PartyDirectory,
	orchestrator Orchestrator,
) AcceptOrderCommandHandler {
	return AcceptOrderCommandHandler{
		uowFactory:   uowFactory,
		directory:    directory,
		orchestrator: orchestrator,
		now:          time.Now,
	}
}

// Handle moves a ready order out for delivery and assigns the courier.
//
// Returns:
//   - AcceptOrderResult: The order and the provider location, nil when unknown
//   - error: errs.InvalidTransitionError unless the order is ready,
//     errs.ErrVersionIsInvalid when a concurrent write won, or errs.ObjectNotFoundError
func (h AcceptOrderCommandHandler) Handle(ctx context.Context, cmd CourierOrderCommand) (AcceptOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return AcceptOrderResult{}, err
	}

	var pickupAt *kernel.Location
	o, err := transitionOrder(ctx, h.uowFactory, h.orchestrator, cmd.OrderID(),
		func(ctx context.Context, o *order.Order) (orchestration.Change, error) {
			if err := o.Accept(cmd.CourierID(), h.now()); err != nil {
				return orchestration.Change{}, err
			}

			loc, err := providerLocation(ctx, h.directory, o.ProviderID())
			if err != nil {
				return orchestration.Change{}, err
			}
			pickupAt = loc

			return orchestration.Change{Order: o, Action: order.ActionAccepted}, nil
		})
	if err != nil {
		return AcceptOrderResult{}, err
	}

	return AcceptOrderResult{Order: o, ProviderLocation: pickupAt}, nil
}
