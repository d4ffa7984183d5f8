package http

import (
	"log/slog"
	"net/http"

	"marketplace/internal/core/domain/model/party"
	"marketplace/internal/pkg/metrics"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RouterConfig holds what NewRouter needs besides the server.
type RouterConfig struct {
	JWTSecret string
	// Document is served on /openapi.json and rendered by /swagger/*. Optional.
	Document *openapi3.T
	Logger   *slog.Logger
}

// NewRouter builds the echo instance with the ops surface and every
// authenticated marketplace route.
func NewRouter(s *Server, cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler(cfg.Logger)

	e.Use(
		middleware.Recover(),
		RequestLogger(cfg.Logger),
		metrics.EchoMiddleware(),
	)

	e.GET("/health", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	if cfg.Document != nil {
		e.GET("/openapi.json", func(ctx echo.Context) error {
			return ctx.JSON(http.StatusOK, cfg.Document)
		})
		e.GET("/swagger/*", echoSwagger.EchoWrapHandler(echoSwagger.URL("/openapi.json")))
	}

	authed := Authenticate(cfg.JWTSecret)
	requester := RequireRole(party.RoleRequester)
	provider := RequireRole(party.RoleProvider)
	courier := RequireRole(party.RoleCourier)

	e.POST("/order/place", s.PlaceOrder, authed, requester)
	e.GET("/order/provider", s.GetProviderOrders, authed, provider)
	e.PUT("/order/status/:id", s.UpdateOrderStatus, authed, provider)
	e.GET("/order/courier/ready", s.GetCourierBoard, authed, courier)
	e.PUT("/order/courier/accept/:id", s.AcceptOrder, authed, courier)
	e.PUT("/order/courier/pickup/:id", s.PickUpOrder, authed, courier)
	e.PUT("/order/courier/deliver/:id", s.DeliverOrder, authed, courier)
	e.GET("/order/history/:role", s.GetOrderHistory, authed)

	e.POST("/cart/add", s.AddToCart, authed, requester)
	e.GET("/cart", s.GetCart, authed, requester)
	e.POST("/stock/add", s.AddStock, authed, provider)
	e.PUT("/stock/update/:id", s.AdjustStock, authed, provider)
	e.POST("/courier/location", s.UpdateCourierLocation, authed, courier)

	e.GET("/realtime", s.Realtime, authed)

	return e
}
