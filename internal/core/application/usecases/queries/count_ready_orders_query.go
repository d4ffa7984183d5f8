package queries

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"

	"gorm.io/gorm"
)

// ErrCountReadyOrdersQueryIsNotConstructed is returned for a zero-value CountReadyOrdersQuery.
var ErrCountReadyOrdersQueryIsNotConstructed = errors.New(
	"CountReadyOrdersQuery must be created via NewCountReadyOrdersQuery constructor",
)

// CountReadyOrdersQuery counts orders waiting for a courier.
type CountReadyOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewCountReadyOrdersQuery returns the parameterless count query.
func NewCountReadyOrdersQuery() CountReadyOrdersQuery {
	return CountReadyOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate reports ErrCountReadyOrdersQueryIsNotConstructed for a zero-value query.
func (q CountReadyOrdersQuery) Validate() error {
	return q.guard.Validate(ErrCountReadyOrdersQueryIsNotConstructed)
}

// CountReadyOrdersQueryHandler feeds the periodic ready-orders broadcast.
type CountReadyOrdersQueryHandler struct {
	db *gorm.DB
}

// NewCountReadyOrdersQueryHandler reads from db outside any unit of work.
func NewCountReadyOrdersQueryHandler(db *gorm.DB) CountReadyOrdersQueryHandler {
	return CountReadyOrdersQueryHandler{db: db}
}

// Handle returns the number of orders in the ready status.
func (h CountReadyOrdersQueryHandler) Handle(ctx context.Context, query CountReadyOrdersQuery) (int64, error) {
	if err := query.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := h.db.WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM orders WHERE status = ?`, order.Ready.String()).
		Row().
		Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
