package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// ErrAdjustStockCommandIsNotConstructed is returned for a zero-value AdjustStockCommand.
var ErrAdjustStockCommandIsNotConstructed = errors.New(
	"AdjustStockCommand must be created via NewAdjustStockCommand constructor",
)

// AdjustStockCommand corrects the quantity of one stock entry by a signed
// amount: positive for units found, negative for units lost or expired.
type AdjustStockCommand struct { //nolint:recvcheck //using for validation
	providerID kernel.UUID
	stockID    kernel.UUID
	delta      int

	guard guard.ConstructorGuard
}

// NewAdjustStockCommand creates a validated adjustment.
//
// Parameters:
//   - providerID: the provider issuing the adjustment; must own the entry
//   - stockID: the entry to adjust
//   - delta: units to add, negative to remove; zero is rejected
//
// Returns:
//   - AdjustStockCommand: ready for AdjustStockCommandHandler
//   - error: joined validation errors of every invalid parameter
func NewAdjustStockCommand(providerID, stockID kernel.UUID, delta int) (AdjustStockCommand, error) {
	cmd := AdjustStockCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setProviderID(providerID),
		cmd.setStockID(stockID),
		cmd.setDelta(delta),
	); err != nil {
		return AdjustStockCommand{}, err
	}

	return cmd, nil
}

// Validate reports ErrAdjustStockCommandIsNotConstructed for a zero-value command.
func (c AdjustStockCommand) Validate() error {
	return c.guard.Validate(ErrAdjustStockCommandIsNotConstructed)
}

// ProviderID returns the provider issuing the adjustment.
func (c AdjustStockCommand) ProviderID() kernel.UUID {
	return c.providerID
}

// StockID returns the entry to adjust.
func (c AdjustStockCommand) StockID() kernel.UUID {
	return c.stockID
}

// Delta is the signed quantity change.
func (c AdjustStockCommand) Delta() int {
	return c.delta
}

func (c *AdjustStockCommand) setProviderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.providerID = id
	return nil
}

func (c *AdjustStockCommand) setStockID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("stockId", err)
	}
	c.stockID = id
	return nil
}

func (c *AdjustStockCommand) setDelta(delta int) error {
	if delta == 0 {
		return errs.NewValueIsInvalidError("qty")
	}
	c.delta = delta
	return nil
}
