package queries

import (
	"context"
	"fmt"

	"marketplace/internal/core/domain/geo"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/party"

	"gorm.io/gorm"
)

// GetOrderHistoryQueryHandler reads order history per role:
//   - requester: newest first, with an ETA for orders out for delivery,
//     computed from the courier's last known location;
//   - provider: newest first;
//   - courier: own orders, most recently delivered first, undelivered last.
type GetOrderHistoryQueryHandler struct {
	db           *gorm.DB
	avgSpeedKmph float64
}

// NewGetOrderHistoryQueryHandler creates the history reader. avgSpeedKmph
// drives the requester ETA; a non-positive value disables it.
func NewGetOrderHistoryQueryHandler(db *gorm.DB, avgSpeedKmph float64) GetOrderHistoryQueryHandler {
	return GetOrderHistoryQueryHandler{db: db, avgSpeedKmph: avgSpeedKmph}
}

// Handle lists the actor's orders in the order of its role.
//
// Example:
//
//	query, _ := queries.NewGetOrderHistoryQuery(actorID, party.RoleRequester, "requester")
//	orders, err := handler.Handle(ctx, query)
func (h GetOrderHistoryQueryHandler) Handle(ctx context.Context, query GetOrderHistoryQuery) ([]HistoryOrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var sql string
	switch query.Role() {
	case party.RoleRequester:
		sql = `
		SELECT ` + orderColumns + `,
			c.lat AS courier_lat,
			c.lon AS courier_lon
		FROM orders o
		LEFT JOIN parties c ON c.id = o.courier_id
		WHERE o.requester_id = ?
		ORDER BY o.ordered_at DESC`
	case party.RoleProvider:
		sql = `
		SELECT ` + orderColumns + `
		FROM orders o
		WHERE o.provider_id = ?
		ORDER BY o.ordered_at DESC`
	case party.RoleCourier:
		sql = `
		SELECT ` + orderColumns + `
		FROM orders o
		WHERE o.courier_id = ?
		ORDER BY o.delivered_at DESC NULLS LAST, o.ordered_at DESC`
	default:
		return nil, fmt.Errorf("no history for role %q", query.Role())
	}

	var rows []orderRow
	if err := h.db.WithContext(ctx).Raw(sql, query.ActorID().Raw()).Scan(&rows).Error; err != nil {
		return nil, err
	}

	history := make([]HistoryOrderView, 0, len(rows))
	for _, row := range rows {
		entry := HistoryOrderView{OrderView: row.view()}
		if query.Role() == party.RoleRequester && row.Status == order.OutForDelivery.String() {
			entry.EtaMinutes = h.eta(row)
		}
		history = append(history, entry)
	}
	return history, nil
}

// eta is set only while the order is out for delivery and both ends are known.
func (h GetOrderHistoryQueryHandler) eta(row orderRow) *int {
	distance := geo.DistanceKm(
		optionalLocation(row.CourierLat, row.CourierLon),
		optionalLocation(row.RequesterLat, row.RequesterLon),
	)
	minutes, ok := geo.ETAMinutes(distance, h.avgSpeedKmph)
	if !ok {
		return nil
	}
	return &minutes
}
