package common

import (
	"context"
	"testing"

	"aquadash/domain/order"
	"aquadash/domain/product"
	"aquadash/domain/shared"
	"aquadash/infrastructure/persistence/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestItemResolver_PrefillsFromCatalog(t *testing.T) {
	r := NewItemResolver(mocks.NewMockProductRepository())
	ctx := context.Background()

	item, err := r.Resolve(ctx, "order", ItemRequest{ProductID: "prod-ice-5kg", Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, "Sac de glace 5kg", item.ProductName)
	assert.Equal(t, "1000.00", item.UnitPrice.String())

	item, err = r.Resolve(ctx, "order", ItemRequest{ProductID: "prod-ice-5kg", ProductName: "Promo ice", Quantity: 1, UnitPrice: strPtr("900")})
	require.NoError(t, err)
	assert.Equal(t, "Promo ice", item.ProductName)
	assert.Equal(t, "900.00", item.UnitPrice.String())

	_, err = r.Resolve(ctx, "order", ItemRequest{ProductID: "unknown", Quantity: 1})
	assert.ErrorIs(t, err, product.ErrProductNotFound)

	_, err = r.Resolve(ctx, "order", ItemRequest{ProductID: "prod-ice-5kg", Quantity: 1, UnitPrice: strPtr("abc")})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestParsers(t *testing.T) {
	d, err := ParseOptionalDate("order", "due_date", strPtr("2026-03-15"))
	require.NoError(t, err)
	assert.Equal(t, 15, d.Day())

	d, err = ParseOptionalDate("order", "due_date", strPtr(" "))
	require.NoError(t, err)
	assert.Nil(t, d)

	_, err = ParseOptionalDate("order", "due_date", strPtr("15/03/2026"))
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	dt, err := ParseDeliveryType("order", "home_delivery")
	require.NoError(t, err)
	assert.Equal(t, order.DeliveryHome, dt)
	_, err = ParseDeliveryType("order", "drone")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	in, err := ParsePaymentInput("payment", PaymentRequest{Amount: "600", Method: "mobile_money", Reference: " MM-1 "})
	require.NoError(t, err)
	assert.Equal(t, "600.00", in.Amount.String())
	assert.Equal(t, "MM-1", in.Reference)
	_, err = ParsePaymentInput("payment", PaymentRequest{Amount: "600", Method: "barter"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	amount, err := ParseAmount("payment", "amount", "599.90")
	require.NoError(t, err)
	assert.Equal(t, "599.90", amount.String())
	amount, err = ParseAmount("payment", "amount", " 600.000 ")
	require.NoError(t, err)
	assert.Equal(t, "600.00", amount.String())
	_, err = ParseAmount("payment", "amount", "599.995")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	_, err = ParseOptionalAmount("sale", "delivery_fee", strPtr("0.001"))
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	m := NewMoneyResponse(shared.MoneyFromInt(1150), "XOF")
	assert.Equal(t, MoneyResponse{Amount: "1150.00", Currency: "XOF"}, m)
}
