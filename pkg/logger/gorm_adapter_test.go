/*
Package logger - GORM logger adapter tests
*/
package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"aquadash/infrastructure/persistence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm/logger"
)

func messages(logs *observer.ObservedLogs) []string {
	out := make([]string, 0, logs.Len())
	for _, e := range logs.All() {
		out = append(out, e.Message)
	}
	return out
}

func TestGormLoggerAdapter(t *testing.T) {
	testCases := []struct {
		name      string
		logLevel  logger.LogLevel
		wantInfo  bool
		wantTrace bool
	}{
		{"Warn Level", logger.Warn, false, false},
		{"Info Level", logger.Info, true, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			restore := Replace(zap.New(core))
			defer restore()

			adapter := NewGormLoggerAdapter(tc.logLevel)
			require.NotNil(t, adapter.LogMode(logger.Info))

			ctx := context.Background()
			adapter.Info(ctx, "test info message")
			adapter.Warn(ctx, "test warn message")
			adapter.Error(ctx, "test error message")
			adapter.Trace(ctx, time.Now(), func() (string, int64) {
				return "SELECT * FROM orders", 1
			}, nil)

			got := messages(logs)
			assert.Equal(t, tc.wantInfo, contains(got, "test info message"))
			assert.Equal(t, tc.wantTrace, contains(got, "SQL query executed"))
			assert.Contains(t, got, "test warn message")
			assert.Contains(t, got, "test error message")

			for _, e := range logs.FilterMessage("SQL query executed").All() {
				assert.Equal(t, "SELECT * FROM orders", e.ContextMap()["sql"])
				assert.Equal(t, "gorm", e.ContextMap()["component"])
			}
		})
	}
}

func TestGormLoggerAdapterWithConfig(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := Replace(zap.New(core))
	defer restore()

	adapter := NewGormLoggerAdapterWithConfig(logger.Info, &GormLoggerConfig{
		SlowThreshold:             10 * time.Millisecond,
		IgnoreRecordNotFoundError: true,
		AddCaller:                 true,
	})

	ctx := persistence.ContextWithRequestID(context.Background(), "test-request-123")

	adapter.Trace(ctx, time.Now().Add(-20*time.Millisecond), func() (string, int64) {
		return "SELECT * FROM order_payments", 1
	}, nil)

	adapter.Trace(ctx, time.Now(), func() (string, int64) {
		return "SELECT * FROM orders WHERE id = 'missing'", 0
	}, logger.ErrRecordNotFound)

	adapter.Trace(ctx, time.Now(), func() (string, int64) {
		return "UPDATE orders SET version = 3", 0
	}, errors.New("deadlock"))

	slow := logs.FilterMessage("Slow SQL query").All()
	require.Len(t, slow, 1)
	assert.Equal(t, "test-request-123", slow[0].ContextMap()["request_id"])

	assert.Equal(t, 1, logs.FilterMessage("Database operation failed").Len(), "record-not-found is ignored, other errors are not")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
