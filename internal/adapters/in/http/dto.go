package http

import (
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// LocationRequest is an optional coordinate pair in a request body.
type LocationRequest struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// location returns nil for an omitted location. A half-filled pair is rejected.
func (r *LocationRequest) location() (*kernel.Location, error) {
	if r == nil || (r.Lat == nil && r.Lon == nil) {
		return nil, nil
	}
	if r.Lat == nil {
		return nil, errs.NewValueIsRequiredError("lat")
	}
	if r.Lon == nil {
		return nil, errs.NewValueIsRequiredError("lon")
	}
	return kernel.NewOptionalLocation(r.Lat, r.Lon)
}

// PlaceOrderRequest overrides the requester's registered location when Location is set.
type PlaceOrderRequest struct {
	Location *LocationRequest `json:"location"`
}

// UpdateOrderStatusRequest carries a provider decision, "ready" or "rejected".
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// AddToCartRequest names a product and how many units to add.
type AddToCartRequest struct {
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
}

// AddStockRequest is a provider restock.
type AddStockRequest struct {
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	BatchNo     string          `json:"batchNo"`
}

// AdjustStockRequest carries a signed quantity change. Qty is a pointer so
// that a missing field is told apart from zero.
type AdjustStockRequest struct {
	Qty *int `json:"qty"`
}

// StockResponse is a stock entry after an adjustment.
type StockResponse struct {
	ID          string `json:"id"`
	ProductName string `json:"productName"`
	ProductKey  string `json:"productKey"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	BatchNo     string `json:"batchNo"`
}

// newStockResponse renders the unit price with two decimals.
func newStockResponse(e ports.StockEntry) StockResponse {
	return StockResponse{
		ID:          e.ID.String(),
		ProductName: e.ProductName,
		ProductKey:  e.ProductKey,
		Quantity:    e.Quantity,
		UnitPrice:   e.UnitPrice.StringFixed(2),
		BatchNo:     e.BatchNo,
	}
}

// AcceptOrderResponse tells the courier where to collect the order.
type AcceptOrderResponse struct {
	Order            queries.OrderView     `json:"order"`
	ProviderLocation *queries.LocationView `json:"providerLocation"`
}

// PickUpOrderResponse tells the courier where to deliver.
type PickUpOrderResponse struct {
	Order             queries.OrderView     `json:"order"`
	RequesterLocation *queries.LocationView `json:"requesterLocation"`
	RequesterAddress  string                `json:"requesterAddress"`
}

// DeliverOrderResponse repeats the earnings next to the order.
type DeliverOrderResponse struct {
	Order    queries.OrderView     `json:"order"`
	Earnings *queries.EarningsView `json:"earnings"`
}
