package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per use case invocation.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork groups repository writes into one database transaction.
// Repositories obtained after Begin share the transaction.
type UnitOfWork interface {
	// Begin opens the transaction.
	Begin(ctx context.Context) error
	// Commit makes every write since Begin visible.
	Commit(ctx context.Context) error
	// Rollback discards every write since Begin. It is safe to defer after Commit.
	Rollback(ctx context.Context) error

	// OrderRepository returns the order repository bound to the transaction.
	OrderRepository() OrderRepository
	// CartRepository returns the cart repository bound to the transaction.
	CartRepository() CartRepository
	// StockRepository returns the stock repository bound to the transaction.
	StockRepository() StockRepository
}
