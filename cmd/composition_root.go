package cmd

import (
	"log/slog"

	httpin "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/partyrepo"
	"marketplace/internal/adapters/out/postgres/stockrepo"
	"marketplace/internal/core/application/orchestration"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/geo"
	"marketplace/internal/core/ports"
	"marketplace/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config       Config
	gormDB       *gorm.DB
	uowFactory   postgres.GormUnitOfWorkFactory
	directory    ports.PartyDirectory
	cache        ports.Cache
	notifier     ports.Notifier
	orchestrator *orchestration.Coordinator
	tariff       geo.Tariff
	logger       *slog.Logger
}

// NewCompositionRoot wires the use cases over already opened connections.
// cache, events and notifier are the best-effort side-effect adapters.
func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	cache ports.Cache,
	events ports.EventPublisher,
	notifier ports.Notifier,
	logger *slog.Logger,
) (CompositionRoot, error) {
	tariff, err := geo.NewTariff(config.BaseEarning, config.PerKmEarning)
	if err != nil {
		return CompositionRoot{}, err
	}

	coordinator := orchestration.NewCoordinator(
		stockrepo.NewGormStockRepository(gormDB),
		cache,
		events,
		notifier,
		orchestration.Options{
			StoreTimeout:      config.StoreTimeout,
			SideEffectTimeout: config.SideEffectTimeout,
		},
		logger,
	)

	return CompositionRoot{
		config:       config,
		gormDB:       gormDB,
		uowFactory:   *postgres.NewGormUnitOfWorkFactory(gormDB),
		directory:    partyrepo.NewGormPartyDirectory(gormDB),
		cache:        cache,
		notifier:     notifier,
		orchestrator: coordinator,
		tariff:       tariff,
		logger:       logger,
	}, nil
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	var f commands.PlacementUoWFactory = FuncPlacementUoWFactory(func() commands.PlacementUoW {
		return c.uowFactory.Create()
	})
	return commands.NewPlaceOrderCommandHandler(f, c.directory, c.orchestrator)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return commands.NewUpdateOrderStatusCommandHandler(c.orderUoWFactory(), c.orchestrator)
}

func (c *CompositionRoot) CreateAcceptOrderCommandHandler() commands.AcceptOrderCommandHandler {
	return commands.NewAcceptOrderCommandHandler(c.orderUoWFactory(), c.directory, c.orchestrator)
}

func (c *CompositionRoot) CreatePickUpOrderCommandHandler() commands.PickUpOrderCommandHandler {
	return commands.NewPickUpOrderCommandHandler(c.orderUoWFactory(), c.orchestrator)
}

func (c *CompositionRoot) CreateDeliverOrderCommandHandler() commands.DeliverOrderCommandHandler {
	return commands.NewDeliverOrderCommandHandler(c.orderUoWFactory(), c.directory, c.tariff, c.orchestrator)
}

func (c *CompositionRoot) CreateAddToCartCommandHandler() commands.AddToCartCommandHandler {
	var f commands.CartUoWFactory = FuncCartUoWFactory(func() commands.CartUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAddToCartCommandHandler(f, c.cache, c.config.StockCacheTTL, c.orchestrator, c.logger)
}

func (c *CompositionRoot) CreateAddStockCommandHandler() commands.AddStockCommandHandler {
	var f commands.StockUoWFactory = FuncStockUoWFactory(func() commands.StockUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAddStockCommandHandler(f, c.orchestrator)
}

func (c *CompositionRoot) CreateAdjustStockCommandHandler() commands.AdjustStockCommandHandler {
	var f commands.StockUoWFactory = FuncStockUoWFactory(func() commands.StockUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAdjustStockCommandHandler(f, c.orchestrator)
}

func (c *CompositionRoot) CreateUpdateCourierLocationCommandHandler() commands.UpdateCourierLocationCommandHandler {
	return commands.NewUpdateCourierLocationCommandHandler(c.directory)
}

func (c *CompositionRoot) CreateGetProviderOrdersQueryHandler() queries.GetProviderOrdersQueryHandler {
	return queries.NewGetProviderOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCourierBoardQueryHandler() queries.GetCourierBoardQueryHandler {
	return queries.NewGetCourierBoardQueryHandler(c.gormDB, c.cache, c.config.CourierBoardCacheTTL, c.tariff, c.logger)
}

func (c *CompositionRoot) CreateGetOrderHistoryQueryHandler() queries.GetOrderHistoryQueryHandler {
	return queries.NewGetOrderHistoryQueryHandler(c.gormDB, c.config.AverageSpeedKmph)
}

func (c *CompositionRoot) CreateGetCartQueryHandler() queries.GetCartQueryHandler {
	return queries.NewGetCartQueryHandler(c.gormDB, c.cache, c.config.CartCacheTTL, c.logger)
}

// CreateHTTPHandlers returns every use case the HTTP server dispatches to.
func (c *CompositionRoot) CreateHTTPHandlers() httpin.Handlers {
	return httpin.Handlers{
		PlaceOrder:            c.CreatePlaceOrderCommandHandler(),
		UpdateOrderStatus:     c.CreateUpdateOrderStatusCommandHandler(),
		AcceptOrder:           c.CreateAcceptOrderCommandHandler(),
		PickUpOrder:           c.CreatePickUpOrderCommandHandler(),
		DeliverOrder:          c.CreateDeliverOrderCommandHandler(),
		AddToCart:             c.CreateAddToCartCommandHandler(),
		AddStock:              c.CreateAddStockCommandHandler(),
		AdjustStock:           c.CreateAdjustStockCommandHandler(),
		UpdateCourierLocation: c.CreateUpdateCourierLocationCommandHandler(),
		ProviderOrders:        c.CreateGetProviderOrdersQueryHandler(),
		CourierBoard:          c.CreateGetCourierBoardQueryHandler(),
		OrderHistory:          c.CreateGetOrderHistoryQueryHandler(),
		Cart:                  c.CreateGetCartQueryHandler(),
	}
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	broadcast := jobs.NewReadyOrdersBroadcastJob(
		queries.NewCountReadyOrdersQueryHandler(c.gormDB),
		c.notifier,
		c.config.ReadyBroadcastSchedule,
		c.logger,
	)
	return jobs.NewJobManager(broadcast)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

// FuncOrderUoWFactory adapts a closure to commands.OrderUoWFactory.
type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

// FuncPlacementUoWFactory adapts a closure to commands.PlacementUoWFactory.
type FuncPlacementUoWFactory func() commands.PlacementUoW

func (f FuncPlacementUoWFactory) Create() commands.PlacementUoW {
	return f()
}

// FuncCartUoWFactory adapts a closure to commands.CartUoWFactory.
type FuncCartUoWFactory func() commands.CartUoW

func (f FuncCartUoWFactory) Create() commands.CartUoW {
	return f()
}

// FuncStockUoWFactory adapts a closure to commands.StockUoWFactory.
type FuncStockUoWFactory func() commands.StockUoW

func (f FuncStockUoWFactory) Create() commands.StockUoW {
	return f()
}
