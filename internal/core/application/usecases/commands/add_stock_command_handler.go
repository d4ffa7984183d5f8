package commands

import (
	"context"
)

// AddStockCommandHandler merges a restock into the provider's holdings with an
// atomic increment. Once committed the cached stock entry for the product is
// dropped and inventory watchers are signalled.
type AddStockCommandHandler struct {
	uowFactory   StockUoWFactory
	orchestrator Orchestrator
}

// NewAddStockCommandHandler creates the restock handler.
//
// Example:
//
//	handler := commands.NewAddStockCommandHandler(uowFactory, coordinator)
//	cmd, _ := commands.NewAddStockCommand(providerID, "Paracetamol", 50, price, "B-42")
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return err
//	}
func NewAddStockCommandHandler(uowFactory StockUoWFactory, orchestrator Orchestrator) AddStockCommandHandler {
	return AddStockCommandHandler{
		uowFactory:   uowFactory,
		orchestrator: orchestrator,
	}
}

// Handle returns a validation error for an unconstructed command; every other
// error comes from the store.
func (h AddStockCommandHandler) Handle(ctx context.Context, cmd AddStockCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	entry := cmd.Entry()
	if err := uow.StockRepository().Restock(ctx, entry); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	h.orchestrator.StockChanged(ctx, entry.ProductKey)
	return nil
}
