package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// StockEntry is one provider's holding of one product. ID is zero for entries
// that have not been stored yet.
type StockEntry struct {
	ID          kernel.UUID
	ProviderID  kernel.UUID
	ProductName string
	ProductKey  string
	Quantity    int
	UnitPrice   decimal.Decimal
	BatchNo     string
}

// StockRepository reads and writes provider inventory inside a unit of work.
type StockRepository interface {
	// Restock adds quantity to the provider's entry, creating it if needed.
	Restock(ctx context.Context, entry StockEntry) error

	// FindAvailable returns the entry with the highest quantity for productKey,
	// or errs.ObjectNotFoundError when nobody stocks it.
	FindAvailable(ctx context.Context, productKey string) (StockEntry, error)

	// Get returns errs.ObjectNotFoundError for an unknown id.
	Get(ctx context.Context, id kernel.UUID) (StockEntry, error)

	// Adjust adds delta to the quantity of entry id in a single statement and
	// returns the updated entry. A delta that would take the quantity below
	// zero fails with errs.ValueIsOutOfRangeError and changes nothing.
	Adjust(ctx context.Context, id kernel.UUID, delta int) (StockEntry, error)
}

// StockAdjuster applies inventory changes with the store's atomic primitives.
type StockAdjuster interface {
	// Decrement subtracts quantity from the provider's entry for productKey.
	// It returns errs.ObjectNotFoundError when the provider has no such entry.
	Decrement(ctx context.Context, providerID kernel.UUID, productKey string, quantity int) error
}
