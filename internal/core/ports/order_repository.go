package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// OrderRepository persists Order aggregates together with their transition log.
type OrderRepository interface {
	// Add inserts a new order.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the order only if the stored version still equals
	// aggregate.Version(). A lost race returns errs.VersionIsInvalidError.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get returns errs.ObjectNotFoundError for unknown ids.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}
