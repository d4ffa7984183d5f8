package commands

import (
	"context"
	"time"

	"marketplace/internal/core/application/orchestration"
	"marketplace/internal/core/domain/model/order"
)

// UpdateOrderStatusCommandHandler applies a provider's ready or rejected
// decision. Only the owning provider may decide, and only on a pending order.
type UpdateOrderStatusCommandHandler struct {
	uowFactory   OrderUoWFactory
	orchestrator Orchestrator
	now          func() time.Time
}

// NewUpdateOrderStatusCommandHandler creates the provider decision handler.
// Requires an OrderUoWFactory for transactional persistence.
func NewUpdateOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	orchestrator Orchestrator,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory:   uowFactory,
		orchestrator: orchestrator,
		now:          time.Now,
	}
}

// Handle confirms or rejects the order.
//
// Returns:
//   - *order.Order: The order after the decision
//   - error: errs.ForbiddenError for another provider's order,
//     errs.InvalidTransitionError unless the order is pending, or errs.ObjectNotFoundError
func (h UpdateOrderStatusCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateOrderStatusCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return transitionOrder(ctx, h.uowFactory, h.orchestrator, cmd.OrderID(),
		func(_ context.Context, o *order.Order) (orchestration.Change, error) {
			if cmd.Status() == order.Rejected {
				if err := o.Reject(cmd.ProviderID(), h.now()); err != nil {
					return orchestration.Change{}, err
				}
				return orchestration.Change{Order: o, Action: order.ActionRejected}, nil
			}

			if err := o.Confirm(cmd.ProviderID(), h.now()); err != nil {
				return orchestration.Change{}, err
			}
			return orchestration.Change{Order: o, Action: order.ActionConfirmed}, nil
		})
}
