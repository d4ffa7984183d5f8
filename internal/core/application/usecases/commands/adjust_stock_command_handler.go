package commands

import (
	"context"

	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// AdjustStockCommandHandler applies a provider's manual correction to one of
// its stock entries.
//
// The quantity changes through a single arithmetic UPDATE, so concurrent
// adjustments and order decrements never overwrite each other. After commit
// the product's stock cache is dropped and inventory watchers are signalled.
//
// Example:
//
//	cmd, err := commands.NewAdjustStockCommand(providerID, stockID, -3)
//	if err != nil {
//	    return err
//	}
//	entry, err := handler.Handle(ctx, cmd)
type AdjustStockCommandHandler struct {
	uowFactory   StockUoWFactory
	orchestrator Orchestrator
}

// NewAdjustStockCommandHandler creates the stock adjustment handler.
// Requires a StockUoWFactory for transactional persistence.
func NewAdjustStockCommandHandler(uowFactory StockUoWFactory, orchestrator Orchestrator) AdjustStockCommandHandler {
	return AdjustStockCommandHandler{
		uowFactory:   uowFactory,
		orchestrator: orchestrator,
	}
}

// Handle returns the entry as stored after the adjustment.
//
// Errors:
//   - errs.ObjectNotFoundError: the entry does not exist
//   - errs.ForbiddenError: the entry belongs to another provider
//   - errs.ValueIsOutOfRangeError: the quantity would drop below zero
func (h AdjustStockCommandHandler) Handle(ctx context.Context, cmd AdjustStockCommand) (ports.StockEntry, error) {
	if err := cmd.Validate(); err != nil {
		return ports.StockEntry{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ports.StockEntry{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.StockRepository()
	current, err := repo.Get(ctx, cmd.StockID())
	if err != nil {
		return ports.StockEntry{}, err
	}
	if !current.ProviderID.IsEqual(cmd.ProviderID()) {
		return ports.StockEntry{}, errs.NewForbiddenError(cmd.ProviderID().String(), "does not own the stock entry")
	}

	updated, err := repo.Adjust(ctx, cmd.StockID(), cmd.Delta())
	if err != nil {
		return ports.StockEntry{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ports.StockEntry{}, err
	}

	h.orchestrator.StockChanged(ctx, updated.ProductKey)
	return updated, nil
}
