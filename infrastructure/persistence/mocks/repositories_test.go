package mocks

import (
	"context"
	"testing"
	"time"

	"aquadash/domain/client"
	"aquadash/domain/order"
	"aquadash/domain/product"
	"aquadash/domain/sale"
	"aquadash/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newOrder(t *testing.T, clientID string, at time.Time) *order.Order {
	t.Helper()
	o, err := order.NewOrder(order.CreateParams{
		ClientID:     clientID,
		Items:        []order.ItemRequest{{ProductID: "prod-ice-5kg", ProductName: "Sac de glace 5kg", Quantity: 1, UnitPrice: shared.MoneyFromInt(1000)}},
		DeliveryType: order.DeliveryPickup,
	}, order.DefaultPolicy(), at)
	require.NoError(t, err)
	return o
}

func TestMockOrderRepository_VersionCheck(t *testing.T) {
	ctx := context.Background()
	repo := NewMockOrderRepository()

	o := newOrder(t, "client-1", testNow)
	require.NoError(t, repo.Save(ctx, o))
	assert.Equal(t, 1, o.Version())
	assert.False(t, o.IsNew())

	first, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)

	_, err = first.RecordPayment(order.DefaultPolicy(), order.PaymentInput{Amount: shared.MoneyFromInt(600), Method: order.MethodCash}, testNow)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	_, err = second.RecordPayment(order.DefaultPolicy(), order.PaymentInput{Amount: shared.MoneyFromInt(600), Method: order.MethodCash}, testNow)
	require.NoError(t, err)
	err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, order.ErrConcurrentModification)

	stored, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, "600.00", stored.AmountPaid().String())
	assert.Equal(t, 2, stored.Version())
}

func TestMockOrderRepository_LoadsAreIndependent(t *testing.T) {
	ctx := context.Background()
	repo := NewMockOrderRepository()
	o := newOrder(t, "client-1", testNow)
	require.NoError(t, repo.Save(ctx, o))

	loaded, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	_, err = loaded.AddItem(order.ItemRequest{ProductID: "prod-ice-cubes", ProductName: "Glaçons 2kg", Quantity: 2, UnitPrice: shared.MoneyFromInt(500)}, testNow)
	require.NoError(t, err)

	again, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	assert.Len(t, again.Items(), 1, "unsaved changes must not leak into the store")
}

func TestMockOrderRepository_QueriesAndRemove(t *testing.T) {
	ctx := context.Background()
	repo := NewMockOrderRepository()

	older := newOrder(t, "client-1", testNow)
	newer := newOrder(t, "client-1", testNow.Add(time.Hour))
	other := newOrder(t, "client-2", testNow)
	for _, o := range []*order.Order{older, newer, other} {
		require.NoError(t, repo.Save(ctx, o))
	}

	list, err := repo.FindByClientID(ctx, "client-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID(), list[0].ID())

	require.NoError(t, newer.MarkDeleted(testNow))
	require.NoError(t, repo.Remove(ctx, newer))

	_, err = repo.FindByID(ctx, newer.ID())
	assert.ErrorIs(t, err, order.ErrOrderNotFound)

	pending, err := repo.FindBySpecification(ctx, order.NewByStatusSpecification(order.StatusPending))
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestMockSaleRepository_OnePerOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMockSaleRepository()

	s, err := sale.NewDirectSale(sale.DirectSaleParams{
		ClientID:     "client-2",
		Items:        []order.ItemRequest{{ProductID: "prod-ice-5kg", ProductName: "Sac de glace 5kg", Quantity: 1, UnitPrice: shared.MoneyFromInt(1000)}},
		DeliveryType: order.DeliveryPickup,
		Payments:     []order.PaymentInput{{Amount: shared.MoneyFromInt(1000), Method: order.MethodCash}},
	}, order.DefaultPolicy(), testNow)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, s))

	found, err := repo.FindByID(ctx, s.ID())
	require.NoError(t, err)
	assert.Equal(t, sale.OriginDirect, found.Origin())

	list, err := repo.FindByClientID(ctx, "client-2")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = repo.FindByOrderID(ctx, "missing")
	assert.ErrorIs(t, err, sale.ErrSaleNotFound)
}

func TestSeedCatalog(t *testing.T) {
	ctx := context.Background()

	clients := NewMockClientRepository()
	c, err := clients.FindByID(ctx, "client-3")
	require.NoError(t, err)
	assert.False(t, c.IsActive())
	_, err = clients.FindByID(ctx, "nobody")
	assert.ErrorIs(t, err, client.ErrClientNotFound)

	products := NewMockProductRepository()
	p, err := products.FindByID(ctx, "prod-ice-5kg")
	require.NoError(t, err)
	assert.Equal(t, "1000.00", p.UnitPrice().String())
	_, err = products.FindByID(ctx, "nothing")
	assert.ErrorIs(t, err, product.ErrProductNotFound)
}

func TestMockUnitOfWork_PublishesAfterSuccess(t *testing.T) {
	bus := shared.NewEventBus()
	rec := NewRecordingHandler("recorder")
	require.NoError(t, bus.Subscribe(shared.WildcardEvent, rec))

	uow := NewMockUnitOfWorkFactory(bus).New()
	o := newOrder(t, "client-1", testNow)
	require.NoError(t, uow.Execute(context.Background(), func(ctx context.Context) error {
		uow.RegisterNew(o)
		return nil
	}))
	assert.Equal(t, []string{order.EventOrderCreated}, rec.Names())

	failing := NewMockUnitOfWorkFactory(bus).New()
	o2 := newOrder(t, "client-1", testNow)
	err := failing.Execute(context.Background(), func(ctx context.Context) error {
		failing.RegisterNew(o2)
		return order.ErrOrderNotFound
	})
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
	assert.Len(t, rec.Events(), 1)
}
