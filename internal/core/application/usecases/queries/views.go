package queries

import (
	"time"

	"marketplace/internal/core/domain/geo"
	"marketplace/internal/core/domain/model/cart"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// LocationView is a coordinate pair as shown to API clients.
type LocationView struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NewLocationView returns nil for a nil location.
func NewLocationView(loc *kernel.Location) *LocationView {
	if loc == nil {
		return nil
	}
	return &LocationView{Lat: loc.Lat(), Lon: loc.Lon()}
}

// ItemView is one order or cart line.
type ItemView struct {
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	ProviderID  string `json:"providerId"`
}

// EarningsView is the courier payout of a delivered order or a board preview.
type EarningsView struct {
	DistanceKm        float64 `json:"distanceKm"`
	Base              string  `json:"base"`
	DistanceComponent string  `json:"distanceComponent"`
	Total             string  `json:"total"`
}

// OrderView is the read model of one order shared by every listing.
type OrderView struct {
	ID                string        `json:"id"`
	RequesterID       string        `json:"requesterId"`
	ProviderID        string        `json:"providerId"`
	CourierID         *string       `json:"courierId,omitempty"`
	Items             []ItemView    `json:"items"`
	Status            string        `json:"status"`
	PickedUp          bool          `json:"pickedUp"`
	PickedUpAt        *time.Time    `json:"pickedUpAt,omitempty"`
	RequesterLocation *LocationView `json:"requesterLocation,omitempty"`
	RequesterAddress  string        `json:"requesterAddress"`
	Earnings          *EarningsView `json:"earnings,omitempty"`
	OrderedAt         time.Time     `json:"orderedAt"`
	DeliveredAt       *time.Time    `json:"deliveredAt,omitempty"`
	Version           int           `json:"version"`
}

// NewOrderView renders an aggregate the same way the listings render rows, so
// command responses and queries agree.
func NewOrderView(o *order.Order) OrderView {
	s := o.State()
	view := OrderView{
		ID:                s.ID.String(),
		RequesterID:       s.RequesterID.String(),
		ProviderID:        s.ProviderID.String(),
		Items:             make([]ItemView, 0, len(s.Items)),
		Status:            s.Status.String(),
		PickedUp:          s.PickedUp,
		PickedUpAt:        s.PickedUpAt,
		RequesterLocation: NewLocationView(s.RequesterLocation),
		RequesterAddress:  s.RequesterAddress,
		Earnings:          newEarningsView(s.Earnings),
		OrderedAt:         s.OrderedAt,
		DeliveredAt:       s.DeliveredAt,
		Version:           s.Version,
	}

	if s.CourierID != nil {
		id := s.CourierID.String()
		view.CourierID = &id
	}

	for _, item := range s.Items {
		view.Items = append(view.Items, ItemView{
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			UnitPrice:   item.UnitPrice().StringFixed(2),
			ProviderID:  item.ProviderID().String(),
		})
	}

	return view
}

// BoardOrderView is an order on the courier board with its payout preview.
// DistanceKm is nil when either end of the trip has no coordinates.
type BoardOrderView struct {
	OrderView

	ProviderLocation *LocationView `json:"providerLocation,omitempty"`
	DistanceKm       *float64      `json:"distanceKm"`
	ExpectedEarning  string        `json:"expectedEarning"`
}

// HistoryOrderView is an order in a history listing. EtaMinutes is only set
// for requester history while the order is out for delivery.
type HistoryOrderView struct {
	OrderView

	EtaMinutes *int `json:"etaMinutes,omitempty"`
}

// CartView is the requester's cart with its running total.
type CartView struct {
	RequesterID string     `json:"requesterId"`
	Items       []ItemView `json:"items"`
	Total       string     `json:"total"`
}

// NewCartView renders a cart aggregate the way GetCartQueryHandler caches it.
func NewCartView(c *cart.Cart) CartView {
	rows := make([]itemRow, 0, len(c.Items()))
	for _, item := range c.Items() {
		rows = append(rows, itemRow{
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			UnitPrice:   item.UnitPrice(),
			ProviderID:  item.ProviderID().Raw(),
		})
	}

	items, total := itemViews(rows)
	return CartView{
		RequesterID: c.RequesterID().String(),
		Items:       items,
		Total:       total.StringFixed(2),
	}
}

// newEarningsView returns nil for zero earnings.
func newEarningsView(e geo.Earnings) *EarningsView {
	if e.IsZero() {
		return nil
	}
	return &EarningsView{
		DistanceKm:        e.DistanceKm,
		Base:              e.Base.StringFixed(2),
		DistanceComponent: e.DistanceComponent.StringFixed(2),
		Total:             e.Total.StringFixed(2),
	}
}

// itemRow matches the jsonb line format written by the order and cart repositories.
type itemRow struct {
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	ProviderID  uuid.UUID       `json:"providerId"`
}

// itemViews renders rows and sums their subtotals.
func itemViews(rows []itemRow) ([]ItemView, decimal.Decimal) {
	views := make([]ItemView, 0, len(rows))
	total := decimal.Zero
	for _, r := range rows {
		views = append(views, ItemView{
			ProductName: r.ProductName,
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice.StringFixed(2),
			ProviderID:  r.ProviderID.String(),
		})
		total = total.Add(r.UnitPrice.Mul(decimal.NewFromInt(int64(r.Quantity))))
	}
	return views, total
}

// orderColumns is the projection every order listing selects from alias o.
const orderColumns = `
	o.id,
	o.requester_id,
	o.provider_id,
	o.courier_id,
	o.items,
	o.status,
	o.picked_up,
	o.picked_up_at,
	o.requester_lat,
	o.requester_lon,
	o.requester_address,
	o.earning_distance_km,
	o.earning_base,
	o.earning_distance_component,
	o.earning_total,
	o.ordered_at,
	o.delivered_at,
	o.version`

// orderRow is one scanned order, optionally joined with the coordinates of
// its provider and courier.
type orderRow struct {
	ID                       uuid.UUID
	RequesterID              uuid.UUID
	ProviderID               uuid.UUID
	CourierID                *uuid.UUID
	Items                    datatypes.JSONSlice[itemRow]
	Status                   string
	PickedUp                 bool
	PickedUpAt               *time.Time
	RequesterLat             *float64
	RequesterLon             *float64
	RequesterAddress         string
	EarningDistanceKm        float64
	EarningBase              decimal.Decimal
	EarningDistanceComponent decimal.Decimal
	EarningTotal             decimal.Decimal
	OrderedAt                time.Time
	DeliveredAt              *time.Time
	Version                  int

	ProviderLat *float64
	ProviderLon *float64
	CourierLat  *float64
	CourierLon  *float64
}

// view renders the row without provider or courier coordinates.
func (r orderRow) view() OrderView {
	items, _ := itemViews(r.Items)
	view := OrderView{
		ID:                r.ID.String(),
		RequesterID:       r.RequesterID.String(),
		ProviderID:        r.ProviderID.String(),
		Items:             items,
		Status:            r.Status,
		PickedUp:          r.PickedUp,
		PickedUpAt:        r.PickedUpAt,
		RequesterLocation: NewLocationView(optionalLocation(r.RequesterLat, r.RequesterLon)),
		RequesterAddress:  r.RequesterAddress,
		Earnings: newEarningsView(geo.Earnings{
			DistanceKm:        r.EarningDistanceKm,
			Base:              r.EarningBase,
			DistanceComponent: r.EarningDistanceComponent,
			Total:             r.EarningTotal,
		}),
		OrderedAt:   r.OrderedAt,
		DeliveredAt: r.DeliveredAt,
		Version:     r.Version,
	}

	if r.CourierID != nil {
		id := r.CourierID.String()
		view.CourierID = &id
	}

	return view
}

// optionalLocation treats unusable stored coordinates as missing.
func optionalLocation(lat, lon *float64) *kernel.Location {
	loc, err := kernel.NewOptionalLocation(lat, lon)
	if err != nil {
		return nil
	}
	return loc
}
