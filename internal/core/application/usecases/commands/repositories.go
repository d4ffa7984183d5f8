// Package commands contains the use cases that change marketplace state.
// Every handler validates its command, performs the authoritative write inside
// a unit of work and hands the result to the orchestration coordinator, which
// fans the change out to inventory, cache, event bus and notifier.
package commands

import (
	"context"

	"marketplace/internal/core/application/orchestration"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

// Unit of Work interfaces give each handler only the repositories it writes to.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory exposes the order repository bound to the transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// CartRepoFactory exposes the cart repository bound to the transaction.
	CartRepoFactory interface {
		CartRepository() ports.CartRepository
	}

	// StockRepoFactory exposes the stock repository bound to the transaction.
	StockRepoFactory interface {
		StockRepository() ports.StockRepository
	}

	// OrderUoW is used by the status transitions, which touch one order.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory opens a fresh OrderUoW per command.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// PlacementUoW inserts the order and clears the cart in one transaction.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   c, err := uow.CartRepository().GetForUpdate(ctx, requesterID)
	//   err = uow.OrderRepository().Add(ctx, o)
	//   err = uow.CartRepository().Save(ctx, c)
	//
	//   err = uow.Commit(ctx)
	PlacementUoW interface {
		TxManager
		OrderRepoFactory
		CartRepoFactory
	}

	// PlacementUoWFactory opens a fresh PlacementUoW per command.
	PlacementUoWFactory interface {
		Create() PlacementUoW
	}

	// CartUoW is used when a requester adds a line priced from provider stock.
	CartUoW interface {
		TxManager
		CartRepoFactory
		StockRepoFactory
	}

	// CartUoWFactory opens a fresh CartUoW per command.
	CartUoWFactory interface {
		Create() CartUoW
	}

	// StockUoW is used by restocks and adjustments.
	StockUoW interface {
		TxManager
		StockRepoFactory
	}

	// StockUoWFactory opens a fresh StockUoW per command.
	StockUoWFactory interface {
		Create() StockUoW
	}
)

// Orchestrator runs a write followed by its best-effort side effects.
// *orchestration.Coordinator is the production implementation.
type Orchestrator interface {
	// Execute runs write and, when it reports a change, fans the change out.
	// The order is returned even if every side effect failed.
	Execute(ctx context.Context, write orchestration.WriteFunc) (*order.Order, error)

	// Invalidate drops cache keys after a write that concerns no order.
	Invalidate(ctx context.Context, keys ...string)

	// StockChanged drops the stock cache of each product key and signals
	// inventory watchers after a committed inventory write.
	StockChanged(ctx context.Context, productKeys ...string)
}
