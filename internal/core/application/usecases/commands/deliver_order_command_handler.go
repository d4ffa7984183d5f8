package commands

import (
	"context"
	"time"

	"marketplace/internal/core/application/orchestration"
	"marketplace/internal/core/domain/geo"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

// DeliverOrderCommandHandler completes an order and fixes the courier
// earnings from the provider to requester distance.
//
// Delivering twice succeeds and returns the stored order unchanged; no event or
// signal is emitted the second time.
type DeliverOrderCommandHandler struct {
	uowFactory   OrderUoWFactory
	directory    ports.PartyDirectory
	tariff       geo.Tariff
	orchestrator Orchestrator
	now          func() time.Time
}

// NewDeliverOrderCommandHandler creates the delivery handler. tariff fixes the
// earnings of every order this handler completes.
//
// Example:
//
//	tariff, _ := geo.NewTariff(decimal.NewFromInt(30), decimal.NewFromInt(10))
//	handler := commands.NewDeliverOrderCommandHandler(uowFactory, directory, tariff, coordinator)
//	o, err := handler.Handle(ctx, cmd)
//	fmt.Println(o.Earnings().Total)
func NewDeliverOrderCommandHandler(
	uowFactory OrderUoWFactory,
	directory ports.PartyDirectory,
	tariff geo.Tariff,
	orchestrator Orchestrator,
) DeliverOrderCommandHandler {
	return DeliverOrderCommandHandler{
		uowFactory:   uowFactory,
		directory:    directory,
		tariff:       tariff,
		orchestrator: orchestrator,
		now:          time.Now,
	}
}

// Handle completes the order and computes earnings once.
//
// Returns:
//   - *order.Order: The delivered order; unchanged on a repeated delivery
//   - error: errs.ForbiddenError for a courier other than the assignee, or
//     errs.InvalidTransitionError when the order was never accepted
func (h DeliverOrderCommandHandler) Handle(ctx context.Context, cmd CourierOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return transitionOrder(ctx, h.uowFactory, h.orchestrator, cmd.OrderID(),
		func(ctx context.Context, o *order.Order) (orchestration.Change, error) {
			if o.Status() == order.Delivered {
				return orchestration.Change{Order: o, Action: order.ActionDelivered, Noop: true}, nil
			}

			from, err := providerLocation(ctx, h.directory, o.ProviderID())
			if err != nil {
				return orchestration.Change{}, err
			}

			applied, err := o.Deliver(cmd.CourierID(), from, h.tariff, h.now())
			if err != nil {
				return orchestration.Change{}, err
			}

			return orchestration.Change{Order: o, Action: order.ActionDelivered, Noop: !applied}, nil
		})
}
