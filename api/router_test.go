package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aquadash/api/client"
	"aquadash/api/health"
	"aquadash/api/order"
	"aquadash/api/sale"
	clientapp "aquadash/application/client"
	orderapp "aquadash/application/order"
	saleapp "aquadash/application/sale"
	"aquadash/config"
	domainorder "aquadash/domain/order"
	"aquadash/domain/shared"
	"aquadash/infrastructure/lock"
	"aquadash/infrastructure/persistence/mocks"
	"aquadash/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success   bool                   `json:"success"`
	Data      json.RawMessage        `json:"data"`
	Error     string                 `json:"error"`
	Details   map[string]interface{} `json:"details"`
	Code      int                    `json:"code"`
	RequestID string                 `json:"request_id"`
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{
		App: config.AppConfig{Name: "aquadash", Version: "test", Env: "test", Currency: "XOF"},
		CORS: config.CORSConfig{
			AllowOrigins: []string{"http://localhost:3000"},
			AllowMethods: []string{"GET", "POST"},
			MaxAge:       600,
		},
	}

	bus := shared.NewEventBus()
	reg := prometheus.NewRegistry()
	domainMetrics := metrics.NewDomainMetrics(reg)
	require.NoError(t, bus.Subscribe(shared.WildcardEvent, domainMetrics))

	orders := mocks.NewMockOrderRepository()
	sales := mocks.NewMockSaleRepository()
	clients := mocks.NewMockClientRepository()
	products := mocks.NewMockProductRepository()
	uowFactory := mocks.NewMockUnitOfWorkFactory(bus)
	clock := func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }

	orderService := orderapp.NewApplicationService(orderapp.Dependencies{
		Orders:     orders,
		Sales:      sales,
		Clients:    clients,
		Products:   products,
		UoWFactory: uowFactory,
		Locker:     lock.NewLocalLocker(time.Second),
		Policy:     domainorder.DefaultPolicy(),
		Clock:      clock,
		Currency:   "XOF",
		Rejections: domainMetrics,
	})
	saleService := saleapp.NewApplicationService(saleapp.Dependencies{
		Sales:      sales,
		Clients:    clients,
		Products:   products,
		UoWFactory: uowFactory,
		Policy:     domainorder.DefaultPolicy(),
		Clock:      clock,
		Currency:   "XOF",
	})

	router := NewRouter(cfg, Controllers{
		Health: health.NewController(cfg, nil),
		Order:  order.NewController(orderService),
		Sale:   sale.NewController(saleService),
		Client: client.NewController(clientapp.NewApplicationService(clients)),
	}, metrics.NewServerMetrics(reg, "api"), reg)
	router.SetupRoutes()
	return router.GetEngine()
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func createOrderBody() map[string]interface{} {
	return map[string]interface{}{
		"client_id": "client-1",
		"items": []map[string]interface{}{
			{"product_id": "prod-water-19l", "quantity": 2},
			{"product_id": "prod-ice-5kg", "quantity": 1},
		},
		"delivery_type": "pickup",
	}
}

func TestOrderPaymentFlow(t *testing.T) {
	h := newTestServer(t)

	rec, env := do(t, h, http.MethodPost, "/api/v1/orders", createOrderBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.RequestID)
	assert.Equal(t, env.RequestID, rec.Header().Get("X-Request-ID"))

	var created orderapp.OrderResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "4000.00", created.Due.BaseTotal.Amount)

	rec, env = do(t, h, http.MethodPost, "/api/v1/orders/"+created.ID+"/payments", map[string]string{"amount": "100", "method": "cash"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "PAYMENT_REJECTED", env.Error)
	assert.Equal(t, "below_minimum_first_payment", env.Details["reason"])
	assert.Equal(t, "2400.00", env.Details["threshold"])

	rec, env = do(t, h, http.MethodPost, "/api/v1/orders/"+created.ID+"/payments", map[string]string{"amount": "4000", "method": "mobile_money"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var paid orderapp.PaymentResult
	require.NoError(t, json.Unmarshal(env.Data, &paid))
	assert.True(t, paid.Order.Due.FullyPaid)
	assert.Nil(t, paid.ConvertedToSale)

	rec, env = do(t, h, http.MethodPut, "/api/v1/orders/"+created.ID+"/status", map[string]string{"status": "delivered"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ILLEGAL_TRANSITION", env.Error)
	assert.Equal(t, "pending", env.Details["from"])

	for _, st := range []string{"validated", "preparing", "out_for_delivery", "delivered"} {
		rec, env = do(t, h, http.MethodPut, "/api/v1/orders/"+created.ID+"/status", map[string]string{"status": st})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	var delivered orderapp.StatusResult
	require.NoError(t, json.Unmarshal(env.Data, &delivered))
	require.NotNil(t, delivered.ConvertedToSale)
	assert.Equal(t, "4000.00", delivered.ConvertedToSale.TotalAmount.Amount)

	rec, env = do(t, h, http.MethodGet, "/api/v1/sales/order/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var s saleapp.SaleResponse
	require.NoError(t, json.Unmarshal(env.Data, &s))
	assert.Equal(t, delivered.ConvertedToSale.ID, s.ID)

	rec, _ = do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "aquadash_payment_rejections_total")
	assert.Contains(t, body, `aquadash_sales_created_total{origin="order_conversion"} 1`)
	assert.Contains(t, body, "aquadash_api_http_requests_total")
}

func TestErrorMapping(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
		code   string
	}{
		{"unknown order", http.MethodGet, "/api/v1/orders/missing", nil, http.StatusNotFound, "ORDER_NOT_FOUND"},
		{"unknown sale", http.MethodGet, "/api/v1/sales/missing", nil, http.StatusNotFound, "SALE_NOT_FOUND"},
		{"unknown client", http.MethodGet, "/api/v1/clients/missing", nil, http.StatusNotFound, "CLIENT_NOT_FOUND"},
		{"binding failure", http.MethodPost, "/api/v1/orders", map[string]string{}, http.StatusBadRequest, "BAD_REQUEST"},
		{"bad status filter", http.MethodGet, "/api/v1/orders?status=lost", nil, http.StatusBadRequest, "VALIDATION_ERROR"},
		{
			"unknown product", http.MethodPost, "/api/v1/orders",
			map[string]interface{}{
				"client_id":     "client-1",
				"items":         []map[string]interface{}{{"product_id": "prod-nope", "quantity": 1}},
				"delivery_type": "pickup",
			},
			http.StatusNotFound, "PRODUCT_NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.False(t, env.Success)
			assert.Equal(t, tt.code, env.Error)
		})
	}
}

func TestDirectSaleAndLists(t *testing.T) {
	h := newTestServer(t)

	rec, _ := do(t, h, http.MethodPost, "/api/v1/sales", map[string]interface{}{
		"client_id":     "client-2",
		"items":         []map[string]interface{}{{"product_id": "prod-ice-cubes", "quantity": 3}},
		"delivery_type": "pickup",
		"payments":      []map[string]string{{"amount": "1500", "method": "cash"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, env := do(t, h, http.MethodGet, "/api/v1/sales/client/client-2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 1, list.Total)

	do(t, h, http.MethodPost, "/api/v1/orders", createOrderBody())
	rec, env = do(t, h, http.MethodGet, "/api/v1/orders?status=pending&client_id=client-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 1, list.Total)
}

func TestHealthAndCORS(t *testing.T) {
	h := newTestServer(t)

	rec, _ := do(t, h, http.MethodGet, "/api/v1/health/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/orders", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
}
