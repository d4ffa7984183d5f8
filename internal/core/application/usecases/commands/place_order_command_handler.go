package commands

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/application/orchestration"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// PlaceOrderCommandHandler dispatches the cart to the nearest stocking provider
// and creates a pending order.
//
// The cart is consumed in the same transaction that inserts the order. Stock
// decrement, cache invalidation, the order.created event and the provider and
// requester signals follow through the orchestrator.
type PlaceOrderCommandHandler struct {
	uowFactory   PlacementUoWFactory
	directory    ports.PartyDirectory
	selector     services.DispatchSelector
	orchestrator Orchestrator
	now          func() time.Time
}

// NewPlaceOrderCommandHandler creates the placement handler.
//
// Parameters:
//   - uowFactory: Opens the transaction spanning cart and order repositories
//   - directory: Resolves the requester profile and provider locations
//   - orchestrator: Runs the post-commit side effects
//
// Example:
//
//	handler := commands.NewPlaceOrderCommandHandler(uowFactory, directory, coordinator)
//	o, err := handler.Handle(ctx, cmd)
func NewPlaceOrderCommandHandler(
	uowFactory PlacementUoWFactory,
	directory ports.PartyDirectory,
	orchestrator Orchestrator,
) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory:   uowFactory,
		directory:    directory,
		selector:     services.NewDispatchSelector(),
		orchestrator: orchestrator,
		now:          time.Now,
	}
}

// Handle places the order inside one unit of work. The cart row stays locked
// from the read until commit, so concurrent placements and additions for the
// same requester are serialized.
//
// Parameters:
//   - ctx: Request context; cancellation aborts the transaction
//   - cmd: The validated placement command
//
// Returns:
//   - *order.Order: The pending order, after side effects were attempted
//   - error: errs.ErrCartIsEmpty when there is nothing to order, or a
//     validation or storage error
//
// Example:
//
//	cmd, _ := commands.NewPlaceOrderCommand(requesterID, nil)
//	o, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrCartIsEmpty) {
//	    // Nothing to order
//	}
func (h PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.orchestrator.Execute(ctx, func(ctx context.Context) (orchestration.Change, error) {
		uow := h.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return orchestration.Change{}, err
		}

		defer func() {
			_ = uow.Rollback(ctx)
		}()

		cartRepo := uow.CartRepository()
		c, err := cartRepo.GetForUpdate(ctx, cmd.RequesterID())
		if err != nil {
			return orchestration.Change{}, err
		}
		if c.IsEmpty() {
			return orchestration.Change{}, errs.ErrCartIsEmpty
		}

		location, address, err := h.requesterDestination(ctx, cmd)
		if err != nil {
			return orchestration.Change{}, err
		}

		items := c.Items()
		locations, err := h.directory.ProviderLocations(ctx, services.CandidateProviders(items))
		if err != nil {
			return orchestration.Change{}, err
		}

		providerID, err := h.selector.Select(items, location, locations)
		if err != nil {
			return orchestration.Change{}, err
		}

		o, err := order.NewOrder(kernel.NewUUID(), cmd.RequesterID(), providerID, c.Consume(), location, address, h.now())
		if err != nil {
			return orchestration.Change{}, err
		}

		if err = uow.OrderRepository().Add(ctx, o); err != nil {
			return orchestration.Change{}, err
		}

		if err = cartRepo.Save(ctx, c); err != nil {
			return orchestration.Change{}, err
		}

		if err = uow.Commit(ctx); err != nil {
			return orchestration.Change{}, err
		}

		return orchestration.Change{Order: o, Action: order.ActionPlaced}, nil
	})
}

// requesterDestination prefers the location sent with the request and falls
// back to the registered profile. A requester without a profile still orders,
// with an unknown location.
func (h PlaceOrderCommandHandler) requesterDestination(
	ctx context.Context,
	cmd PlaceOrderCommand,
) (*kernel.Location, string, error) {
	profile, err := h.directory.Party(ctx, cmd.RequesterID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return cmd.Location(), "", nil
	}
	if err != nil {
		return nil, "", err
	}

	if loc := cmd.Location(); loc != nil {
		return loc, profile.Address(), nil
	}
	return profile.Location(), profile.Address(), nil
}
