package queries

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/geo"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GetCourierBoardQueryHandler builds the courier board with a distance and
// payout preview per order. The result is cached under
// ports.CourierBoardCacheKey; writes that touch the board invalidate it.
type GetCourierBoardQueryHandler struct {
	db     *gorm.DB
	cache  ports.Cache
	ttl    time.Duration
	tariff geo.Tariff
	logger *slog.Logger
}

// NewGetCourierBoardQueryHandler creates the cached board reader.
//
// Parameters:
//   - db: Connection used for the board query
//   - cache: Stores the board under ports.CourierBoardCacheKey
//   - ttl: Lifetime of the cached board
//   - tariff: Rates for the payout preview
//   - logger: Receives cache failures at warn level
//
// Example:
//
//	handler := queries.NewGetCourierBoardQueryHandler(db, cache, 30*time.Second, tariff, logger)
//	board, err := handler.Handle(ctx, queries.NewGetCourierBoardQuery())
func NewGetCourierBoardQueryHandler(
	db *gorm.DB,
	cache ports.Cache,
	ttl time.Duration,
	tariff geo.Tariff,
	logger *slog.Logger,
) GetCourierBoardQueryHandler {
	return GetCourierBoardQueryHandler{
		db:     db,
		cache:  cache,
		ttl:    ttl,
		tariff: tariff,
		logger: logger.With("component", "courier_board"),
	}
}

// Handle serves the board from cache, or loads and caches it. Cache errors are
// logged and never returned.
func (h GetCourierBoardQueryHandler) Handle(ctx context.Context, query GetCourierBoardQuery) ([]BoardOrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var cached []BoardOrderView
	found, err := h.cache.GetJSON(ctx, ports.CourierBoardCacheKey, &cached)
	if err != nil {
		h.logger.Warn("Courier board cache read failed", "error", err)
	}
	if found && err == nil {
		return cached, nil
	}

	board, err := h.load(ctx)
	if err != nil {
		return nil, err
	}

	if err = h.cache.SetJSON(ctx, ports.CourierBoardCacheKey, board, h.ttl); err != nil {
		h.logger.Warn("Courier board cache write failed", "error", err)
	}
	return board, nil
}

// load queries ready and out-for-delivery orders with both trip ends.
func (h GetCourierBoardQueryHandler) load(ctx context.Context) ([]BoardOrderView, error) {
	statuses := pq.Array([]string{order.Ready.String(), order.OutForDelivery.String()})

	var rows []orderRow
	err := h.db.WithContext(ctx).Raw(`
		SELECT `+orderColumns+`,
			p.lat AS provider_lat,
			p.lon AS provider_lon
		FROM orders o
		LEFT JOIN parties p ON p.id = o.provider_id
		WHERE o.status = ANY(?)
		ORDER BY o.ordered_at DESC
	`, statuses).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	board := make([]BoardOrderView, 0, len(rows))
	for _, row := range rows {
		providerLocation := optionalLocation(row.ProviderLat, row.ProviderLon)
		distance := geo.DistanceKm(providerLocation, optionalLocation(row.RequesterLat, row.RequesterLon))

		entry := BoardOrderView{
			OrderView:        row.view(),
			ProviderLocation: NewLocationView(providerLocation),
			ExpectedEarning:  h.tariff.Earnings(distance).Total.StringFixed(2),
		}
		if geo.IsKnown(distance) {
			entry.DistanceKm = &distance
		}
		board = append(board, entry)
	}
	return board, nil
}
