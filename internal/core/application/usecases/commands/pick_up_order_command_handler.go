package commands

import (
	"context"
	"time"

	"marketplace/internal/core/application/orchestration"
	"marketplace/internal/core/domain/model/order"
)

// PickUpOrderCommandHandler records that the assigned courier collected the
// parcel. The returned order carries the requester location and address.
type PickUpOrderCommandHandler struct {
	uowFactory   OrderUoWFactory
	orchestrator Orchestrator
	now          func() time.Time
}

// NewPickUpOrderCommandHandler creates the pickup handler.
// Requires an OrderUoWFactory for transactional persistence.
func NewPickUpOrderCommandHandler(uowFactory OrderUoWFactory, orchestrator Orchestrator) PickUpOrderCommandHandler {
	return PickUpOrderCommandHandler{
		uowFactory:   uowFactory,
		orchestrator: orchestrator,
		now:          time.Now,
	}
}

// Handle marks the order picked up without changing its status.
//
// Returns:
//   - *order.Order: The updated order
//   - error: errs.ForbiddenError for a courier other than the assignee, or
//     errs.InvalidTransitionError when the order is not out for delivery or already picked up
func (h PickUpOrderCommandHandler) Handle(ctx context.Context, cmd CourierOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return transitionOrder(ctx, h.uowFactory, h.orchestrator, cmd.OrderID(),
		func(_ context.Context, o *order.Order) (orchestration.Change, error) {
			if err := o.PickUp(cmd.CourierID(), h.now()); err != nil {
				return orchestration.Change{}, err
			}
			return orchestration.Change{Order: o, Action: order.ActionPickedUp}, nil
		})
}
