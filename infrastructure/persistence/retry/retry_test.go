package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"aquadash/domain/order"
	"aquadash/domain/shared"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func fastConfig() Config {
	cfg := DefaultConfig
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	cfg.JitterEnabled = false
	return cfg
}

func TestIsRetryableError(t *testing.T) {
	cfg := DefaultConfig

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"optimistic lock", order.NewConcurrentModificationError("o-1"), true},
		{"wrapped optimistic lock", fmt.Errorf("save: %w", order.ErrConcurrentModification), true},
		{"deadlock", &mysqlDriver.MySQLError{Number: 1213, Message: "Deadlock found"}, true},
		{"lock wait", &mysqlDriver.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}, true},
		{"duplicate key", &mysqlDriver.MySQLError{Number: 1062, Message: "Duplicate entry"}, false},
		{"payment rejected", order.NewPaymentRejectedError(order.ReasonPenaltyRequired, shared.MoneyFromInt(1009), shared.MoneyFromInt(609)), false},
		{"plain", errors.New("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsRetryableError(tc.err, cfg))
		})
	}

	noDeadlock := cfg
	noDeadlock.RetryOnDeadlock = false
	assert.False(t, IsRetryableError(&mysqlDriver.MySQLError{Number: 1213}, noDeadlock))
}

func TestExponentialBackoff(t *testing.T) {
	cfg := Config{InitialDelay: 100 * time.Millisecond, MaxDelay: 300 * time.Millisecond, BackoffFactor: 2}

	assert.Equal(t, time.Duration(0), ExponentialBackoffWithJitter(0, cfg))
	assert.Equal(t, 100*time.Millisecond, ExponentialBackoffWithJitter(1, cfg))
	assert.Equal(t, 200*time.Millisecond, ExponentialBackoffWithJitter(2, cfg))
	assert.Equal(t, 300*time.Millisecond, ExponentialBackoffWithJitter(3, cfg), "capped at MaxDelay")
}

func TestExecuteWithRetry(t *testing.T) {
	t.Run("retries conflicts until success", func(t *testing.T) {
		calls := 0
		err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return order.NewConcurrentModificationError("o-1")
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
			calls++
			return order.NewConcurrentModificationError("o-1")
		})
		assert.ErrorIs(t, err, order.ErrConcurrentModification)
		assert.Equal(t, DefaultConfig.MaxAttempts, calls)
	})

	t.Run("business errors are returned at once", func(t *testing.T) {
		calls := 0
		err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
			calls++
			return order.NewPaymentRejectedError(order.ReasonExceedsTotalDue, shared.MoneyFromInt(400), shared.MoneyFromInt(400))
		})
		assert.ErrorIs(t, err, order.ErrPaymentRejected)
		assert.Equal(t, 1, calls)
	})

	t.Run("disabled runs once", func(t *testing.T) {
		cfg := fastConfig()
		cfg.Enabled = false
		calls := 0
		_ = ExecuteWithRetry(context.Background(), cfg, func(ctx context.Context) error {
			calls++
			return order.ErrConcurrentModification
		})
		assert.Equal(t, 1, calls)
	})
}
