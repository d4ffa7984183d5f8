package http

import (
	"context"

	"marketplace/internal/adapters/out/notify"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/cart"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

// Use case ports of the HTTP adapter. The command and query handlers satisfy
// them directly; tests substitute fakes.
type (
	PlaceOrderHandler interface {
		Handle(ctx context.Context, cmd commands.PlaceOrderCommand) (*order.Order, error)
	}

	UpdateOrderStatusHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) (*order.Order, error)
	}

	AcceptOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CourierOrderCommand) (commands.AcceptOrderResult, error)
	}

	// CourierOrderHandler covers pick up and deliver.
	CourierOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CourierOrderCommand) (*order.Order, error)
	}

	AddToCartHandler interface {
		Handle(ctx context.Context, cmd commands.AddToCartCommand) (*cart.Cart, error)
	}

	AddStockHandler interface {
		Handle(ctx context.Context, cmd commands.AddStockCommand) error
	}

	AdjustStockHandler interface {
		Handle(ctx context.Context, cmd commands.AdjustStockCommand) (ports.StockEntry, error)
	}

	UpdateCourierLocationHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateCourierLocationCommand) error
	}

	ProviderOrdersHandler interface {
		Handle(ctx context.Context, query queries.GetProviderOrdersQuery) ([]queries.OrderView, error)
	}

	CourierBoardHandler interface {
		Handle(ctx context.Context, query queries.GetCourierBoardQuery) ([]queries.BoardOrderView, error)
	}

	OrderHistoryHandler interface {
		Handle(ctx context.Context, query queries.GetOrderHistoryQuery) ([]queries.HistoryOrderView, error)
	}

	CartHandler interface {
		Handle(ctx context.Context, query queries.GetCartQuery) (queries.CartView, error)
	}

	// Subscriber is the real-time source behind /realtime; *notify.Hub implements it.
	Subscriber interface {
		Subscribe(filter notify.Filter) (<-chan notify.Signal, func())
	}
)

// Handlers groups every use case the server dispatches to.
type Handlers struct {
	PlaceOrder            PlaceOrderHandler
	UpdateOrderStatus     UpdateOrderStatusHandler
	AcceptOrder           AcceptOrderHandler
	PickUpOrder           CourierOrderHandler
	DeliverOrder          CourierOrderHandler
	AddToCart             AddToCartHandler
	AddStock              AddStockHandler
	AdjustStock           AdjustStockHandler
	UpdateCourierLocation UpdateCourierLocationHandler

	ProviderOrders ProviderOrdersHandler
	CourierBoard   CourierBoardHandler
	OrderHistory   OrderHistoryHandler
	Cart           CartHandler
}
