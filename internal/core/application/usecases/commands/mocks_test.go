package commands_test

import (
	"context"
	"math"
	"testing"
	"time"

	"marketplace/internal/core/application/orchestration"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/cart"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/party"
	"marketplace/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockCartRepository struct{ mock.Mock }

func (m *MockCartRepository) Get(ctx context.Context, requesterID kernel.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, requesterID)
	c, _ := args.Get(0).(*cart.Cart)
	return c, args.Error(1)
}

func (m *MockCartRepository) GetForUpdate(ctx context.Context, requesterID kernel.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, requesterID)
	c, _ := args.Get(0).(*cart.Cart)
	return c, args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	return m.Called(ctx, c).Error(0)
}

type MockStockRepository struct{ mock.Mock }

func (m *MockStockRepository) Restock(ctx context.Context, entry ports.StockEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockStockRepository) FindAvailable(ctx context.Context, productKey string) (ports.StockEntry, error) {
	args := m.Called(ctx, productKey)
	return args.Get(0).(ports.StockEntry), args.Error(1)
}

func (m *MockStockRepository) Get(ctx context.Context, id kernel.UUID) (ports.StockEntry, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.StockEntry), args.Error(1)
}

func (m *MockStockRepository) Adjust(ctx context.Context, id kernel.UUID, delta int) (ports.StockEntry, error) {
	args := m.Called(ctx, id, delta)
	return args.Get(0).(ports.StockEntry), args.Error(1)
}

// MockUoW satisfies every unit of work flavour used by the handlers.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	return m.Called().Get(0).(ports.OrderRepository)
}

func (m *MockUoW) CartRepository() ports.CartRepository {
	return m.Called().Get(0).(ports.CartRepository)
}

func (m *MockUoW) StockRepository() ports.StockRepository {
	return m.Called().Get(0).(ports.StockRepository)
}

type uowFactory struct{ uow *MockUoW }

func (f uowFactory) Create() commands.OrderUoW { return f.uow }

type placementFactory struct{ uow *MockUoW }

func (f placementFactory) Create() commands.PlacementUoW { return f.uow }

type cartFactory struct{ uow *MockUoW }

func (f cartFactory) Create() commands.CartUoW { return f.uow }

type stockFactory struct{ uow *MockUoW }

func (f stockFactory) Create() commands.StockUoW { return f.uow }

type MockPartyDirectory struct{ mock.Mock }

func (m *MockPartyDirectory) Party(ctx context.Context, id kernel.UUID) (*party.Party, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*party.Party)
	return p, args.Error(1)
}

func (m *MockPartyDirectory) ProviderLocations(
	ctx context.Context,
	ids []kernel.UUID,
) (map[kernel.UUID]kernel.Location, error) {
	args := m.Called(ctx, ids)
	locs, _ := args.Get(0).(map[kernel.UUID]kernel.Location)
	return locs, args.Error(1)
}

func (m *MockPartyDirectory) UpdateLocation(ctx context.Context, id kernel.UUID, loc kernel.Location) error {
	return m.Called(ctx, id, loc).Error(0)
}

type MockCache struct{ mock.Mock }

func (m *MockCache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	args := m.Called(ctx, key, dst)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

// recordingOrchestrator runs the write inline and records what it would fan out.
type recordingOrchestrator struct {
	changes      []orchestration.Change
	invalidated  []string
	stockChanged []string
}

func (r *recordingOrchestrator) Execute(
	ctx context.Context,
	write orchestration.WriteFunc,
) (*order.Order, error) {
	change, err := write(ctx)
	if err != nil {
		return nil, err
	}
	r.changes = append(r.changes, change)
	return change.Order, nil
}

func (r *recordingOrchestrator) Invalidate(_ context.Context, keys ...string) {
	r.invalidated = append(r.invalidated, keys...)
}

func (r *recordingOrchestrator) StockChanged(_ context.Context, productKeys ...string) {
	r.stockChanged = append(r.stockChanged, productKeys...)
}

const kmPerDegree = 6371 * math.Pi / 180

var home = mustLocation(12.9, 77.6)

func mustLocation(lat, lon float64) kernel.Location {
	loc, err := kernel.NewLocation(lat, lon)
	if err != nil {
		panic(err)
	}
	return loc
}

// northOfHome returns a point km kilometres due north of home.
func northOfHome(km float64) kernel.Location {
	return mustLocation(home.Lat()+km/kmPerDegree, home.Lon())
}

func item(t *testing.T, name string, qty int, providerID kernel.UUID) order.Item {
	t.Helper()
	it, err := order.NewItem(name, qty, decimal.NewFromInt(20), providerID)
	require.NoError(t, err)
	return it
}

// orderIn builds a persisted order in the given status.
func orderIn(t *testing.T, status order.Status, providerID, courierID kernel.UUID) *order.Order {
	t.Helper()
	now := time.Now()
	loc := home
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), providerID,
		[]order.Item{item(t, "Paracetamol", 1, providerID)}, &loc, "12 MG Road", now)
	require.NoError(t, err)

	if status == order.Rejected {
		require.NoError(t, o.Reject(providerID, now))
	}
	if status >= order.Ready && status != order.Rejected {
		require.NoError(t, o.Confirm(providerID, now))
	}
	if status >= order.OutForDelivery && status != order.Rejected {
		require.NoError(t, o.Accept(courierID, now))
	}
	if status == order.Delivered {
		_, err = o.Deliver(courierID, nil, tariff(t), now)
		require.NoError(t, err)
	}

	o.MarkPersisted(1)
	require.Equal(t, status, o.Status())
	return o
}
