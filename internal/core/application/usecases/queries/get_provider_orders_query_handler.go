package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetProviderOrdersQueryHandler reads a provider's orders, newest first.
type GetProviderOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetProviderOrdersQueryHandler reads from db outside any unit of work.
func NewGetProviderOrdersQueryHandler(db *gorm.DB) GetProviderOrdersQueryHandler {
	return GetProviderOrdersQueryHandler{db: db}
}

// Handle returns the provider's orders, newest first. An unknown provider gets
// an empty list.
func (h GetProviderOrdersQueryHandler) Handle(ctx context.Context, query GetProviderOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var rows []orderRow
	err := h.db.WithContext(ctx).Raw(`
		SELECT `+orderColumns+`
		FROM orders o
		WHERE o.provider_id = ?
		ORDER BY o.ordered_at DESC
	`, query.ProviderID().Raw()).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	orders := make([]OrderView, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.view())
	}
	return orders, nil
}
