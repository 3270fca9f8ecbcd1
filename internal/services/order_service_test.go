package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"restaurant_pos/internal/database"
	"restaurant_pos/internal/database/dbtest"
	"restaurant_pos/internal/logger"
	"restaurant_pos/internal/models"
	"restaurant_pos/internal/repository"
	"restaurant_pos/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

type orderFixture struct {
	db      *gorm.DB
	catalog *fakeCatalog
	cache   *memoryCache
	svc     services.OrderService
}

func newOrderFixture(t *testing.T, orderRepo func(repository.OrderRepository) repository.OrderRepository) *orderFixture {
	t.Helper()
	db := dbtest.New(t)
	repo := repository.NewOrderRepository(db)
	if orderRepo != nil {
		repo = orderRepo(repo)
	}
	f := &orderFixture{
		db: db,
		catalog: newFakeCatalog(
			entry(1, "Nasi Goreng", "10.0", true),
			entry(2, "Rendang", "25.0", true),
			entry(3, "Sold Out Soup", "8.0", false),
		),
		cache: newMemoryCache(),
	}
	f.svc = services.NewOrderService(
		database.NewCoordinator(db, zap.NewNop()),
		repo,
		repository.NewOrderItemRepository(db),
		f.catalog,
		f.cache,
		time.Minute,
		zap.NewNop(),
	)
	return f
}

func (f *orderFixture) assertNoOrderRows(t *testing.T) {
	t.Helper()
	assert.Zero(t, countRows(t, f.db, &models.Order{}))
	assert.Zero(t, countRows(t, f.db, &models.OrderItem{}))
	assert.Zero(t, countRows(t, f.db, &models.OrderStatusLog{}))
}

func TestCreateOrder_TotalsLinesAndStartsPending(t *testing.T) {
	f := newOrderFixture(t, nil)
	ctx := context.Background()

	result, err := f.svc.CreateOrder(ctx, 5, []services.OrderItemRequest{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	})
	require.NoError(t, err)
	assert.True(t, result.TotalAmount.Equal(dec("45.0")), "got %s", result.TotalAmount)

	order, err := f.svc.GetOrder(ctx, result.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, 5, order.TableNumber)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Nasi Goreng", order.Items[0].ProductName)

	var fresh models.Order
	require.NoError(t, f.db.Preload("Items").First(&fresh, result.OrderID).Error)
	sum := decimal.Zero
	for _, item := range fresh.Items {
		assert.True(t, item.TotalPrice.Equal(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))))
		sum = sum.Add(item.TotalPrice)
	}
	assert.True(t, fresh.TotalAmount.Equal(sum))
	assert.True(t, fresh.TotalAmount.Equal(result.TotalAmount))

	history, err := f.svc.GetStatusHistory(ctx, result.OrderID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.OrderStatus(""), history[0].FromStatus)
	assert.Equal(t, models.OrderPending, history[0].ToStatus)
}

func TestCreateOrder_MissingProductLeavesNoRows(t *testing.T) {
	f := newOrderFixture(t, nil)

	_, err := f.svc.CreateOrder(context.Background(), 5, []services.OrderItemRequest{
		{ProductID: 1, Quantity: 2},
		{ProductID: 99, Quantity: 1},
	})
	require.Error(t, err)
	assert.True(t, services.IsKind(err, services.KindNotFound))
	f.assertNoOrderRows(t)
}

func TestCreateOrder_UnavailableProductLeavesNoRows(t *testing.T) {
	f := newOrderFixture(t, nil)

	_, err := f.svc.CreateOrder(context.Background(), 2, []services.OrderItemRequest{
		{ProductID: 2, Quantity: 1},
		{ProductID: 3, Quantity: 1},
	})
	assert.True(t, services.IsKind(err, services.KindNotFound))
	f.assertNoOrderRows(t)
}

func TestCreateOrder_ValidationHappensBeforeAnyWrite(t *testing.T) {
	tests := []struct {
		name  string
		table int
		items []services.OrderItemRequest
	}{
		{"zero table", 0, []services.OrderItemRequest{{ProductID: 1, Quantity: 1}}},
		{"negative table", -3, []services.OrderItemRequest{{ProductID: 1, Quantity: 1}}},
		{"no items", 4, nil},
		{"zero product", 4, []services.OrderItemRequest{{ProductID: 0, Quantity: 1}}},
		{"zero quantity", 4, []services.OrderItemRequest{{ProductID: 1, Quantity: 0}}},
		{"negative quantity", 4, []services.OrderItemRequest{{ProductID: 1, Quantity: 1}, {ProductID: 2, Quantity: -1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture(t, nil)
			_, err := f.svc.CreateOrder(context.Background(), tt.table, tt.items)
			assert.True(t, services.IsKind(err, services.KindValidation), "got %v", err)
			assert.Zero(t, f.catalog.calls)
			f.assertNoOrderRows(t)
		})
	}
}

func TestCreateOrder_CatalogFailureIsPersistenceError(t *testing.T) {
	f := newOrderFixture(t, nil)
	f.catalog.err = errors.New("catalog unreachable")

	_, err := f.svc.CreateOrder(context.Background(), 1, []services.OrderItemRequest{{ProductID: 1, Quantity: 1}})
	assert.True(t, services.IsKind(err, services.KindPersistence))

	var serviceErr *services.ServiceError
	require.True(t, errors.As(err, &serviceErr))
	assert.Equal(t, 500, serviceErr.StatusCode)
	assert.NotContains(t, serviceErr.Message, "unreachable")
	f.assertNoOrderRows(t)
}

func TestCreateOrder_RejectsCatalogPriceBeyondCents(t *testing.T) {
	for _, price := range []string{"0.333", "-1.00"} {
		t.Run(price, func(t *testing.T) {
			f := newOrderFixture(t, nil)
			f.catalog.entries[4] = entry(4, "Es Teh", price, true)

			_, err := f.svc.CreateOrder(context.Background(), 2, []services.OrderItemRequest{
				{ProductID: 1, Quantity: 1},
				{ProductID: 4, Quantity: 3},
			})
			assert.True(t, services.IsKind(err, services.KindPersistence), "got %v", err)
			f.assertNoOrderRows(t)
		})
	}
}

func TestCreateOrder_FailureLogCarriesRequestID(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	db := dbtest.New(t)
	lookup := newFakeCatalog()
	lookup.err = errors.New("catalog unreachable")
	svc := services.NewOrderService(
		database.NewCoordinator(db, zap.NewNop()),
		repository.NewOrderRepository(db),
		repository.NewOrderItemRepository(db),
		lookup,
		nil,
		0,
		zap.New(core),
	)

	ctx := logger.ContextWithRequestID(context.Background(), "req-99")
	_, err := svc.CreateOrder(ctx, 1, []services.OrderItemRequest{{ProductID: 1, Quantity: 1}})
	require.Error(t, err)

	entries := logs.FilterMessage("Failed to create order").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.ErrorLevel, entries[0].Level)
	assert.Equal(t, "req-99", entries[0].ContextMap()["request_id"])
	assert.Equal(t, "create order", entries[0].ContextMap()["op"])
}

type failingTotalRepo struct {
	repository.OrderRepository
}

func (failingTotalRepo) UpdateTotal(ctx context.Context, id uint, total decimal.Decimal) error {
	return errors.New("disk full")
}

func TestCreateOrder_LateWriteFailureRollsBackEverything(t *testing.T) {
	f := newOrderFixture(t, func(r repository.OrderRepository) repository.OrderRepository {
		return failingTotalRepo{r}
	})

	_, err := f.svc.CreateOrder(context.Background(), 1, []services.OrderItemRequest{
		{ProductID: 1, Quantity: 1},
		{ProductID: 2, Quantity: 3},
	})
	assert.True(t, services.IsKind(err, services.KindPersistence))
	f.assertNoOrderRows(t)
}

func TestCreateOrder_UnitPriceIsFrozen(t *testing.T) {
	db := dbtest.New(t)
	products := repository.NewProductRepository(db)
	soup := dbtest.SeedProduct(t, db, "Soto", "12.50")

	svc := services.NewOrderService(
		database.NewCoordinator(db, zap.NewNop()),
		repository.NewOrderRepository(db),
		repository.NewOrderItemRepository(db),
		products,
		nil,
		0,
		zap.NewNop(),
	)
	ctx := context.Background()

	result, err := svc.CreateOrder(ctx, 8, []services.OrderItemRequest{{ProductID: soup.ID, Quantity: 2}})
	require.NoError(t, err)
	assert.True(t, result.TotalAmount.Equal(dec("25.00")))

	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", soup.ID).Update("price", dec("99.00")).Error)

	order, err := svc.GetOrder(ctx, result.OrderID)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.True(t, order.Items[0].UnitPrice.Equal(dec("12.50")))
	assert.True(t, order.TotalAmount.Equal(dec("25.00")))
}

func TestOrderReads(t *testing.T) {
	f := newOrderFixture(t, nil)
	ctx := context.Background()

	a, err := f.svc.CreateOrder(ctx, 3, []services.OrderItemRequest{{ProductID: 1, Quantity: 1}})
	require.NoError(t, err)
	b, err := f.svc.CreateOrder(ctx, 3, []services.OrderItemRequest{{ProductID: 2, Quantity: 2}, {ProductID: 1, Quantity: 1}})
	require.NoError(t, err)
	_, err = f.svc.CreateOrder(ctx, 9, []services.OrderItemRequest{{ProductID: 2, Quantity: 1}})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, a.OrderID, models.OrderCancelled, 1)
	require.NoError(t, err)

	all, err := f.svc.ListOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	active, err := f.svc.ActiveOrdersByTable(ctx, 3)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, b.OrderID, active[0].ID)

	_, err = f.svc.ActiveOrdersByTable(ctx, 0)
	assert.True(t, services.IsKind(err, services.KindValidation))

	report, err := f.svc.DailyReport(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, time.Now().Format("2006-01-02"), report.Date)
	assert.Equal(t, int64(3), report.Summary.TotalOrders)
	assert.True(t, report.Summary.TotalAmount.Equal(dec("95.0")), "got %s", report.Summary.TotalAmount)

	yesterday, err := f.svc.DailyReport(ctx, time.Now().AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Zero(t, yesterday.Summary.TotalOrders)
	assert.True(t, yesterday.Summary.TotalAmount.IsZero())

	_, err = f.svc.GetOrder(ctx, 12345)
	assert.True(t, services.IsKind(err, services.KindNotFound))

	_, err = f.svc.GetStatusHistory(ctx, 12345)
	assert.True(t, services.IsKind(err, services.KindNotFound))
}

func TestGetOrder_ReadThroughCache(t *testing.T) {
	f := newOrderFixture(t, nil)
	ctx := context.Background()

	result, err := f.svc.CreateOrder(ctx, 1, []services.OrderItemRequest{{ProductID: 1, Quantity: 1}})
	require.NoError(t, err)

	_, err = f.svc.GetOrder(ctx, result.OrderID)
	require.NoError(t, err)
	assert.True(t, f.cache.has("order:1"))

	cached, err := f.svc.GetOrder(ctx, result.OrderID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.hits)
	assert.True(t, cached.TotalAmount.Equal(dec("10.0")))

	_, err = f.svc.UpdateStatus(ctx, result.OrderID, models.OrderPreparing, 2)
	require.NoError(t, err)
	assert.False(t, f.cache.has("order:1"))

	fresh, err := f.svc.GetOrder(ctx, result.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPreparing, fresh.Status)
}
