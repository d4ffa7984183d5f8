package http

import (
	"log/slog"
	"net/http"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

// Server handles the marketplace routes. It translates requests into commands
// and queries and renders their results; authorization by role happens in the
// router, ownership checks in the use cases.
type Server struct {
	handlers Handlers
	realtime Subscriber
	logger   *slog.Logger
}

// NewServer creates the route handlers.
//
// Parameters:
//   - handlers: Every use case the routes dispatch to
//   - realtime: Source of dashboard signals for the websocket route
//   - logger: Receives internal errors; clients only see the status text
//
// Example:
//
//	server := http.NewServer(root.CreateHTTPHandlers(), hub, logger)
//	e := http.NewRouter(server, http.RouterConfig{JWTSecret: secret, Document: doc, Logger: logger})
//	_ = e.Start(":8080")
func NewServer(handlers Handlers, realtime Subscriber, logger *slog.Logger) *Server {
	return &Server{
		handlers: handlers,
		realtime: realtime,
		logger:   logger.With("component", "http"),
	}
}

// PlaceOrder handles POST /order/place.
func (s *Server) PlaceOrder(ctx echo.Context) error {
	p, _ := principal(ctx)

	var req PlaceOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	loc, err := req.Location.location()
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewPlaceOrderCommand(p.ID, loc)
	if err != nil {
		return s.fail(ctx, err)
	}

	o, err := s.handlers.PlaceOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, queries.NewOrderView(o))
}

// GetProviderOrders handles GET /order/provider.
func (s *Server) GetProviderOrders(ctx echo.Context) error {
	p, _ := principal(ctx)

	query, err := queries.NewGetProviderOrdersQuery(p.ID)
	if err != nil {
		return s.fail(ctx, err)
	}

	orders, err := s.handlers.ProviderOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus handles PUT /order/status/{id}.
func (s *Server) UpdateOrderStatus(ctx echo.Context) error {
	p, _ := principal(ctx)

	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return s.fail(ctx, err)
	}

	var req UpdateOrderStatusRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, p.ID, req.Status)
	if err != nil {
		return s.fail(ctx, err)
	}

	o, err := s.handlers.UpdateOrderStatus.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, queries.NewOrderView(o))
}

// GetCourierBoard handles GET /order/courier/ready.
func (s *Server) GetCourierBoard(ctx echo.Context) error {
	board, err := s.handlers.CourierBoard.Handle(ctx.Request().Context(), queries.NewGetCourierBoardQuery())
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, board)
}

// AcceptOrder handles PUT /order/courier/accept/{id}.
func (s *Server) AcceptOrder(ctx echo.Context) error {
	cmd, err := s.courierCommand(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	res, err := s.handlers.AcceptOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, AcceptOrderResponse{
		Order:            queries.NewOrderView(res.Order),
		ProviderLocation: queries.NewLocationView(res.ProviderLocation),
	})
}

// PickUpOrder handles PUT /order/courier/pickup/{id}.
func (s *Server) PickUpOrder(ctx echo.Context) error {
	cmd, err := s.courierCommand(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	o, err := s.handlers.PickUpOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	view := queries.NewOrderView(o)
	return ctx.JSON(http.StatusOK, PickUpOrderResponse{
		Order:             view,
		RequesterLocation: view.RequesterLocation,
		RequesterAddress:  view.RequesterAddress,
	})
}

// DeliverOrder handles PUT /order/courier/deliver/{id}. Delivering twice
// returns the stored earnings again.
func (s *Server) DeliverOrder(ctx echo.Context) error {
	cmd, err := s.courierCommand(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	o, err := s.handlers.DeliverOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	view := queries.NewOrderView(o)
	return ctx.JSON(http.StatusOK, DeliverOrderResponse{Order: view, Earnings: view.Earnings})
}

// GetOrderHistory handles GET /order/history/{role}.
func (s *Server) GetOrderHistory(ctx echo.Context) error {
	p, _ := principal(ctx)

	role, err := pathString(ctx, "role")
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetOrderHistoryQuery(p.ID, p.Role, role)
	if err != nil {
		return s.fail(ctx, err)
	}

	history, err := s.handlers.OrderHistory.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, history)
}

// AddToCart handles POST /cart/add.
func (s *Server) AddToCart(ctx echo.Context) error {
	p, _ := principal(ctx)

	var req AddToCartRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewAddToCartCommand(p.ID, req.ProductName, req.Quantity)
	if err != nil {
		return s.fail(ctx, err)
	}

	c, err := s.handlers.AddToCart.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, queries.NewCartView(c))
}

// GetCart handles GET /cart.
func (s *Server) GetCart(ctx echo.Context) error {
	p, _ := principal(ctx)

	query, err := queries.NewGetCartQuery(p.ID)
	if err != nil {
		return s.fail(ctx, err)
	}

	view, err := s.handlers.Cart.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, view)
}

// AddStock handles POST /stock/add.
func (s *Server) AddStock(ctx echo.Context) error {
	p, _ := principal(ctx)

	var req AddStockRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewAddStockCommand(p.ID, req.ProductName, req.Quantity, req.UnitPrice, req.BatchNo)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.handlers.AddStock.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.NoContent(http.StatusCreated)
}

// AdjustStock handles PUT /stock/update/{id}.
func (s *Server) AdjustStock(ctx echo.Context) error {
	p, _ := principal(ctx)

	stockID, err := pathUUID(ctx, "id")
	if err != nil {
		return s.fail(ctx, err)
	}

	var req AdjustStockRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if req.Qty == nil {
		return badRequest(ctx, "qty is required")
	}

	cmd, err := commands.NewAdjustStockCommand(p.ID, stockID, *req.Qty)
	if err != nil {
		return s.fail(ctx, err)
	}

	entry, err := s.handlers.AdjustStock.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, newStockResponse(entry))
}

// UpdateCourierLocation handles POST /courier/location.
func (s *Server) UpdateCourierLocation(ctx echo.Context) error {
	p, _ := principal(ctx)

	var req LocationRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	loc, err := req.location()
	if err != nil {
		return s.fail(ctx, err)
	}
	if loc == nil {
		return badRequest(ctx, "lat and lon are required")
	}

	cmd, err := commands.NewUpdateCourierLocationCommand(p.ID, loc.Lat(), loc.Lon())
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.handlers.UpdateCourierLocation.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// courierCommand builds the command shared by the accept, pickup and deliver routes.
func (s *Server) courierCommand(ctx echo.Context) (commands.CourierOrderCommand, error) {
	p, _ := principal(ctx)

	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return commands.CourierOrderCommand{}, err
	}

	return commands.NewCourierOrderCommand(orderID, p.ID)
}
