package po

import (
	"testing"
	"time"

	"aquadash/domain/order"
	"aquadash/domain/sale"
	"aquadash/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var poNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func deliveredPaidOrder(t *testing.T) *order.Order {
	t.Helper()
	policy := order.DefaultPolicy()
	o, err := order.NewOrder(order.CreateParams{
		ClientID: "client-1",
		Items: []order.ItemRequest{
			{ProductID: "prod-water-19l", ProductName: "Bonbonne eau 19L", Quantity: 2, UnitPrice: shared.MoneyFromInt(1500)},
			{ProductID: "prod-ice-5kg", ProductName: "Sac de glace 5kg", Quantity: 1, UnitPrice: shared.MoneyFromInt(1000)},
		},
		DeliveryType: order.DeliveryHome,
		Notes:        "gate B",
	}, policy, poNow)
	require.NoError(t, err)

	_, err = o.RecordPayment(policy, order.PaymentInput{Amount: shared.MoneyFromInt(3000), Method: order.MethodCash}, poNow)
	require.NoError(t, err)
	_, err = o.RecordPayment(policy, order.PaymentInput{Amount: shared.MoneyFromInt(1600), Method: order.MethodMobileMoney, Reference: "MM-42"}, poNow)
	require.NoError(t, err)
	return o
}

func TestOrderPO_RoundTrip(t *testing.T) {
	o := deliveredPaidOrder(t)

	orderPO := FromOrderDomain(o)
	items := FromOrderItems(o)
	payments := FromPayments(o.ID(), o.Payments(), 0)

	assert.Equal(t, 1, orderPO.Version, "row version is the value after save")
	assert.Equal(t, "600.00", orderPO.DeliveryFee.StringFixed(2))
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[1].Position)
	require.Len(t, payments, 2)
	assert.Equal(t, "MM-42", payments[1].Reference)

	rebuilt := orderPO.ToDomain(items, payments)
	assert.Equal(t, o.ID(), rebuilt.ID())
	assert.Equal(t, o.BaseTotal().String(), rebuilt.BaseTotal().String())
	assert.Equal(t, "4600.00", rebuilt.AmountPaid().String())
	assert.Equal(t, order.MethodMobileMoney, rebuilt.Payments()[1].Method())
	assert.False(t, rebuilt.IsDeleted())
	assert.False(t, rebuilt.IsNew())
}

func TestOrderPO_SoftDelete(t *testing.T) {
	o, err := order.NewOrder(order.CreateParams{
		ClientID:     "client-1",
		Items:        []order.ItemRequest{{ProductID: "p", ProductName: "p", Quantity: 1, UnitPrice: shared.MoneyFromInt(10)}},
		DeliveryType: order.DeliveryPickup,
	}, order.DefaultPolicy(), poNow)
	require.NoError(t, err)
	require.NoError(t, o.MarkDeleted(poNow))

	orderPO := FromOrderDomain(o)
	assert.True(t, orderPO.DeletedAt.Valid)
	assert.True(t, orderPO.ToDomain(nil, nil).IsDeleted())
}

func TestSalePO_RoundTrip(t *testing.T) {
	s, err := sale.NewDirectSale(sale.DirectSaleParams{
		ClientID:     "client-2",
		Items:        []order.ItemRequest{{ProductID: "prod-ice-5kg", ProductName: "Sac de glace 5kg", Quantity: 3, UnitPrice: shared.MoneyFromInt(1000)}},
		DeliveryType: order.DeliveryPickup,
		Payments:     []order.PaymentInput{{Amount: shared.MoneyFromInt(3000), Method: order.MethodCard}},
	}, order.DefaultPolicy(), poNow)
	require.NoError(t, err)

	salePO, err := FromSaleDomain(s)
	require.NoError(t, err)
	assert.Nil(t, salePO.OrderID, "direct sales have no order")

	rebuilt, err := salePO.ToDomain()
	require.NoError(t, err)
	assert.Equal(t, s.ID(), rebuilt.ID())
	assert.Equal(t, "3000.00", rebuilt.TotalAmount().String())
	assert.Equal(t, "3000.00", rebuilt.AmountPaid().String())
	require.Len(t, rebuilt.Items(), 1)
	assert.Equal(t, 3, rebuilt.Items()[0].Quantity())
}

func TestFromDomainEvent_IncludesPayload(t *testing.T) {
	o := deliveredPaidOrder(t)
	events := o.PullEvents()
	require.NotEmpty(t, events)

	outboxPO, err := FromDomainEvent(events[len(events)-1])
	require.NoError(t, err)
	assert.Equal(t, order.EventPaymentRecorded, outboxPO.EventType)
	assert.Equal(t, o.ID(), outboxPO.AggregateID)
	assert.Equal(t, string(EventStatusPending), outboxPO.Status)

	data, err := outboxPO.ToEventData()
	require.NoError(t, err)
	payload, ok := data["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "1600.00", payload["amount"])
	assert.Equal(t, "4600.00", payload["amount_paid"])
	assert.Equal(t, true, payload["fully_paid"])
}
