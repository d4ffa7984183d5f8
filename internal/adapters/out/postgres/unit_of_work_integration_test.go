package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	postgres_adapter "marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/partyrepo"
	"marketplace/internal/adapters/out/postgres/stockrepo"
	"marketplace/internal/core/domain/model/cart"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/party"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite exercises the unit of work and the cart,
// stock and party repositories against a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(db))
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, order_transitions, carts, stock, parties").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")
	suite.NotNil(uow1.OrderRepository())
	suite.NotNil(uow1.CartRepository())
	suite.NotNil(uow2.StockRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "Multiple begin calls should be safe")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))

	suite.Require().Error(uow.Commit(ctx), "Should error when committing without active transaction")
	suite.Require().Error(uow.Rollback(ctx), "Should error when rolling back without active transaction")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_PlacementCommitsOrderAndCartTogether() {
	ctx := context.Background()
	requesterID, provider := kernel.NewUUID(), kernel.NewUUID()
	suite.seedCart(requesterID, provider)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	c, err := uow.CartRepository().Get(ctx, requesterID)
	suite.Require().NoError(err)
	suite.Require().False(c.IsEmpty())

	o, err := order.NewOrder(kernel.NewUUID(), requesterID, provider, c.Consume(), nil, "", time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.CartRepository().Save(ctx, c))
	suite.Require().NoError(uow.Commit(ctx))

	fresh := suite.factory.Create()
	_, err = fresh.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	stored, err := fresh.CartRepository().Get(ctx, requesterID)
	suite.Require().NoError(err)
	suite.True(stored.IsEmpty())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscardsOrderAndCart() {
	ctx := context.Background()
	requesterID, provider := kernel.NewUUID(), kernel.NewUUID()
	suite.seedCart(requesterID, provider)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	c, err := uow.CartRepository().Get(ctx, requesterID)
	suite.Require().NoError(err)
	o, err := order.NewOrder(kernel.NewUUID(), requesterID, provider, c.Consume(), nil, "", time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.CartRepository().Save(ctx, c))
	suite.Require().NoError(uow.Rollback(ctx))

	fresh := suite.factory.Create()
	_, err = fresh.OrderRepository().Get(ctx, o.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	stored, err := fresh.CartRepository().Get(ctx, requesterID)
	suite.Require().NoError(err)
	suite.Len(stored.Items(), 1)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_ConcurrentPlacementsConsumeCartOnce() {
	ctx := context.Background()
	requesterID, provider := kernel.NewUUID(), kernel.NewUUID()
	suite.seedCart(requesterID, provider)

	const attempts = 4
	results := make([]error, attempts)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			results[i] = suite.place(ctx, requesterID, provider)
		}()
	}
	close(start)
	wg.Wait()

	placed := 0
	for _, err := range results {
		if err == nil {
			placed++
			continue
		}
		suite.ErrorIs(err, errs.ErrCartIsEmpty)
	}
	suite.Equal(1, placed)

	var count int64
	suite.Require().NoError(suite.db.Table("orders").Where("requester_id = ?", requesterID.Raw()).Count(&count).Error)
	suite.EqualValues(1, count, "one cart yields exactly one order")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_ConcurrentAdditionsKeepEveryLine() {
	ctx := context.Background()
	requesterID := kernel.NewUUID()
	products := []string{"Paracetamol", "ORS", "Cetirizine", "Ibuprofen"}

	start := make(chan struct{})
	var wg sync.WaitGroup
	for _, name := range products {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			suite.NoError(suite.addLine(ctx, requesterID, name))
		}()
	}
	close(start)
	wg.Wait()

	stored, err := suite.factory.Create().CartRepository().Get(ctx, requesterID)
	suite.Require().NoError(err)
	suite.Len(stored.Items(), len(products))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_AdditionDuringPlacementIsNotLost() {
	ctx := context.Background()
	requesterID, provider := kernel.NewUUID(), kernel.NewUUID()
	suite.seedCart(requesterID, provider)

	placement := suite.factory.Create()
	suite.Require().NoError(placement.Begin(ctx))
	c, err := placement.CartRepository().GetForUpdate(ctx, requesterID)
	suite.Require().NoError(err)

	added := make(chan error, 1)
	go func() {
		added <- suite.addLine(ctx, requesterID, "ORS")
	}()

	select {
	case err = <-added:
		suite.FailNow("addition must wait for the placement to finish", "err: %v", err)
	case <-time.After(200 * time.Millisecond):
	}

	o, err := order.NewOrder(kernel.NewUUID(), requesterID, provider, c.Consume(), nil, "", time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(placement.OrderRepository().Add(ctx, o))
	suite.Require().NoError(placement.CartRepository().Save(ctx, c))
	suite.Require().NoError(placement.Commit(ctx))

	suite.Require().NoError(<-added)

	stored, err := suite.factory.Create().CartRepository().Get(ctx, requesterID)
	suite.Require().NoError(err)
	suite.Require().Len(stored.Items(), 1)
	suite.Equal("ORS", stored.Items()[0].ProductName())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RepositoryIsolation() {
	ctx := context.Background()
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()
	order1 := createTestOrder(suite)
	order2 := createTestOrder(suite)

	suite.Require().NoError(uow1.Begin(ctx))
	suite.Require().NoError(uow2.Begin(ctx))
	suite.Require().NoError(uow1.OrderRepository().Add(ctx, order1))
	suite.Require().NoError(uow2.OrderRepository().Add(ctx, order2))

	_, err := uow1.OrderRepository().Get(ctx, order2.ID())
	suite.Require().Error(err, "UOW1 should not see order2")
	_, err = uow2.OrderRepository().Get(ctx, order1.ID())
	suite.Require().Error(err, "UOW2 should not see order1")

	suite.Require().NoError(uow1.Commit(ctx))
	suite.Require().NoError(uow2.Rollback(ctx))

	fresh := suite.factory.Create()
	_, err = fresh.OrderRepository().Get(ctx, order1.ID())
	suite.Require().NoError(err)
	_, err = fresh.OrderRepository().Get(ctx, order2.ID())
	suite.Require().Error(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestStockRepository_RestockFindDecrement() {
	ctx := context.Background()
	repo := stockrepo.NewGormStockRepository(suite.db)
	small, big := kernel.NewUUID(), kernel.NewUUID()

	suite.Require().NoError(repo.Restock(ctx, stockEntry(small, 5, "10.00")))
	suite.Require().NoError(repo.Restock(ctx, stockEntry(big, 8, "12.00")))
	suite.Require().NoError(repo.Restock(ctx, stockEntry(big, 4, "11.50")))

	best, err := repo.FindAvailable(ctx, "paracetamol")
	suite.Require().NoError(err)
	suite.True(best.ProviderID.IsEqual(big))
	suite.Equal(12, best.Quantity)
	suite.True(decimal.RequireFromString("11.50").Equal(best.UnitPrice))

	suite.Require().NoError(repo.Decrement(ctx, big, "paracetamol", 10))
	best, err = repo.FindAvailable(ctx, "paracetamol")
	suite.Require().NoError(err)
	suite.True(best.ProviderID.IsEqual(small), "provider with most remaining units wins")

	err = repo.Decrement(ctx, kernel.NewUUID(), "paracetamol", 1)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	_, err = repo.FindAvailable(ctx, "unobtainium")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestStockRepository_Adjust() {
	ctx := context.Background()
	repo := stockrepo.NewGormStockRepository(suite.db)
	provider := kernel.NewUUID()
	suite.Require().NoError(repo.Restock(ctx, stockEntry(provider, 5, "10.00")))

	entry, err := repo.FindAvailable(ctx, "paracetamol")
	suite.Require().NoError(err)
	stored, err := repo.Get(ctx, entry.ID)
	suite.Require().NoError(err)
	suite.True(stored.ID.IsEqual(entry.ID))
	suite.Equal(5, stored.Quantity)

	updated, err := repo.Adjust(ctx, entry.ID, 4)
	suite.Require().NoError(err)
	suite.Equal(9, updated.Quantity)
	suite.True(updated.ID.IsEqual(entry.ID))
	suite.Equal("paracetamol", updated.ProductKey)

	_, err = repo.Adjust(ctx, entry.ID, -10)
	suite.Require().ErrorIs(err, errs.ErrValueIsOutOfRange)
	stored, err = repo.Get(ctx, entry.ID)
	suite.Require().NoError(err)
	suite.Equal(9, stored.Quantity, "a refused adjustment changes nothing")

	_, err = repo.Adjust(ctx, kernel.NewUUID(), 1)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestStockRepository_ConcurrentRemovalsNeverGoNegative() {
	ctx := context.Background()
	repo := stockrepo.NewGormStockRepository(suite.db)
	suite.Require().NoError(repo.Restock(ctx, stockEntry(kernel.NewUUID(), 5, "10.00")))
	entry, err := repo.FindAvailable(ctx, "paracetamol")
	suite.Require().NoError(err)

	const removals = 10
	results := make([]error, removals)
	var wg sync.WaitGroup
	for i := range removals {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = repo.Adjust(ctx, entry.ID, -1)
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		}
	}
	suite.Equal(5, succeeded)

	stored, err := repo.Get(ctx, entry.ID)
	suite.Require().NoError(err)
	suite.Equal(0, stored.Quantity)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestPartyDirectory() {
	ctx := context.Background()
	directory := partyrepo.NewGormPartyDirectory(suite.db)
	located, unlocated, misplaced, courier := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
	lat, lon := 12.93, 77.61
	badLat := 95.0

	suite.Require().NoError(suite.db.Create(&[]partyrepo.PartyDTO{
		{ID: located.Raw(), Role: "provider", Name: "City Pharmacy", Lat: &lat, Lon: &lon},
		{ID: unlocated.Raw(), Role: "provider", Name: "Night Pharmacy"},
		{ID: misplaced.Raw(), Role: "provider", Name: "Typo Pharmacy", Lat: &badLat, Lon: &lon},
		{ID: courier.Raw(), Role: "courier", Name: "Ravi", Lat: &lat, Lon: &lon},
	}).Error)

	locations, err := directory.ProviderLocations(ctx, []kernel.UUID{located, unlocated, misplaced, courier})
	suite.Require().NoError(err)
	suite.Len(locations, 1, "providers without a valid location are skipped")
	suite.InDelta(12.93, locations[located].Lat(), 1e-9)

	p, err := directory.Party(ctx, misplaced)
	suite.Require().NoError(err)
	suite.Nil(p.Location(), "an out-of-range stored location reads as unknown")

	p, err = directory.Party(ctx, courier)
	suite.Require().NoError(err)
	suite.Equal(party.RoleCourier, p.Role())

	moved, err := kernel.NewLocation(12.95, 77.62)
	suite.Require().NoError(err)
	suite.Require().NoError(directory.UpdateLocation(ctx, courier, moved))
	p, err = directory.Party(ctx, courier)
	suite.Require().NoError(err)
	suite.InDelta(12.95, p.Location().Lat(), 1e-9)

	_, err = directory.Party(ctx, kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	suite.Require().ErrorIs(directory.UpdateLocation(ctx, kernel.NewUUID(), moved), errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) seedCart(requesterID, provider kernel.UUID) {
	item, err := order.NewItem("Paracetamol", 2, decimal.NewFromInt(12), provider)
	suite.Require().NoError(err)
	c, err := cart.RestoreCart(requesterID, []order.Item{item})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.factory.Create().CartRepository().Save(context.Background(), c))
}

// place runs the placement transaction: lock the cart, turn it into an order
// and store it emptied.
func (suite *UnitOfWorkIntegrationTestSuite) place(ctx context.Context, requesterID, provider kernel.UUID) error {
	uow := suite.factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	c, err := uow.CartRepository().GetForUpdate(ctx, requesterID)
	if err != nil {
		return err
	}
	if c.IsEmpty() {
		return errs.ErrCartIsEmpty
	}

	o, err := order.NewOrder(kernel.NewUUID(), requesterID, provider, c.Consume(), nil, "", time.Now())
	if err != nil {
		return err
	}
	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}
	if err = uow.CartRepository().Save(ctx, c); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func (suite *UnitOfWorkIntegrationTestSuite) addLine(ctx context.Context, requesterID kernel.UUID, product string) error {
	uow := suite.factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	c, err := uow.CartRepository().GetForUpdate(ctx, requesterID)
	if err != nil {
		return err
	}
	item, err := order.NewItem(product, 1, decimal.NewFromInt(10), kernel.NewUUID())
	if err != nil {
		return err
	}
	if err = c.AddItem(item); err != nil {
		return err
	}
	if err = uow.CartRepository().Save(ctx, c); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func stockEntry(provider kernel.UUID, qty int, price string) ports.StockEntry {
	return ports.StockEntry{
		ProviderID:  provider,
		ProductName: "Paracetamol",
		ProductKey:  "paracetamol",
		Quantity:    qty,
		UnitPrice:   decimal.RequireFromString(price),
		BatchNo:     "B-1",
	}
}

func createTestOrder(suite *UnitOfWorkIntegrationTestSuite) *order.Order {
	provider := kernel.NewUUID()
	item, err := order.NewItem("ORS", 1, decimal.NewFromInt(15), provider)
	suite.Require().NoError(err)
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), provider, []order.Item{item}, nil, "", time.Now())
	suite.Require().NoError(err)
	return o
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
