package cmd

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aquadash/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyFromConfig(t *testing.T) {
	policy, err := PolicyFromConfig(&config.PolicyConfig{PenaltyRatio: "0.02"})
	require.NoError(t, err)
	assert.True(t, policy.PenaltyRatio.Equal(decimal.RequireFromString("0.02")))
	assert.True(t, policy.MinFirstPaymentRatio.Equal(decimal.RequireFromString("0.60")))
	assert.True(t, policy.DefaultDeliveryFeeRatio.Equal(decimal.RequireFromString("0.15")))

	_, err = PolicyFromConfig(&config.PolicyConfig{MinFirstPaymentRatio: "sixty"})
	assert.Error(t, err)

	_, err = PolicyFromConfig(&config.PolicyConfig{PenaltyRatio: "1.5"})
	assert.Error(t, err)
}

func TestBuild_InMemory(t *testing.T) {
	cfg := &config.Config{
		App:      config.AppConfig{Name: "aquadash", Env: "test", Currency: "XOF", Timezone: "UTC"},
		Server:   config.ServerConfig{Port: "0", ShutdownTimeout: time.Second},
		Database: config.DatabaseConfig{Type: "mock"},
		Lock:     config.LockConfig{Type: "local", WaitTimeout: time.Second},
	}

	app, err := NewBuilder(cfg).WithRegistry(prometheus.NewRegistry()).Build()
	require.NoError(t, err)
	defer app.Close()

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/clients/client-1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "aquadash_api_http_requests_total")
}
