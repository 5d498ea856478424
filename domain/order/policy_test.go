package order

import (
	"errors"
	"testing"
	"time"

	"aquadash/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var policyNow = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

func amount(v int64) shared.Money { return shared.MoneyFromInt(v) }

func parseAmount(t *testing.T, s string) shared.Money {
	t.Helper()
	m, err := shared.ParseMoney(s)
	require.NoError(t, err)
	return m
}

func daysFrom(t time.Time, days int) *time.Time {
	d := t.AddDate(0, 0, days)
	return &d
}

func requireRejected(t *testing.T, err error, reason RejectionReason, threshold string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPaymentRejected))

	var rejected *PaymentRejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, reason, rejected.Reason)
	assert.Equal(t, threshold, rejected.Threshold.String())
}

func TestDeliveryFee(t *testing.T) {
	p := DefaultPolicy()
	explicit := amount(50)

	assert.True(t, p.DeliveryFee(DeliveryPickup, amount(2000), nil).IsZero())
	assert.True(t, p.DeliveryFee(DeliveryPickup, amount(2000), &explicit).IsZero(), "pickup never pays a fee")
	assert.Equal(t, "300.00", p.DeliveryFee(DeliveryHome, amount(2000), nil).String())
	assert.Equal(t, "50.00", p.DeliveryFee(DeliveryHome, amount(2000), &explicit).String())
	assert.Equal(t, "5.00", p.DeliveryFee(DeliveryHome, parseAmount(t, "33.33"), nil).String())
}

func TestEvaluate_NoDueDate(t *testing.T) {
	due := DefaultPolicy().Evaluate(Snapshot{
		ProductsTotal:   amount(2000),
		DeliveryFee:     amount(300),
		AmountPaid:      shared.ZeroMoney(),
		AssessedPenalty: shared.ZeroMoney(),
	}, policyNow)

	assert.Equal(t, "2300.00", due.BaseTotal.String())
	assert.Equal(t, "2300.00", due.TotalDue.String())
	assert.Equal(t, "2300.00", due.Remaining.String())
	assert.Equal(t, "1380.00", due.MinimumFirstPayment.String())
	assert.True(t, due.Penalty.IsZero())
	assert.False(t, due.IsOverdue)
	assert.False(t, due.FullyPaid)
	assert.True(t, due.FirstPayment)
}

func TestEvaluate_Overdue(t *testing.T) {
	p := DefaultPolicy()
	snapshot := Snapshot{
		ProductsTotal:   amount(1000),
		DeliveryFee:     shared.ZeroMoney(),
		DueDate:         daysFrom(policyNow, -1),
		AmountPaid:      amount(400),
		AssessedPenalty: shared.ZeroMoney(),
		PaymentCount:    1,
	}

	due := p.Evaluate(snapshot, policyNow)
	assert.True(t, due.IsOverdue)
	assert.Equal(t, "9.00", due.Penalty.String())
	assert.Equal(t, "1009.00", due.TotalDue.String())
	assert.Equal(t, "609.00", due.Remaining.String())

	t.Run("due today is not overdue", func(t *testing.T) {
		s := snapshot
		s.DueDate = daysFrom(policyNow, 0)
		assert.False(t, p.Evaluate(s, policyNow).IsOverdue)
	})

	t.Run("paid in full is never overdue", func(t *testing.T) {
		s := snapshot
		s.AmountPaid = amount(1000)
		due := p.Evaluate(s, policyNow)
		assert.False(t, due.IsOverdue)
		assert.True(t, due.Penalty.IsZero())
		assert.True(t, due.FullyPaid)
	})

	t.Run("crystallised penalty stays in total due", func(t *testing.T) {
		s := snapshot
		s.AmountPaid = amount(1009)
		s.AssessedPenalty = amount(9)
		due := p.Evaluate(s, policyNow)
		assert.False(t, due.IsOverdue)
		assert.Equal(t, "1009.00", due.TotalDue.String())
		assert.True(t, due.Remaining.IsZero())
		assert.True(t, due.FullyPaid)
	})
}

func TestEvaluate_DueDateUsesCalendarDayOfNow(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	dueDate := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	snapshot := Snapshot{
		ProductsTotal:   amount(100),
		DeliveryFee:     shared.ZeroMoney(),
		DueDate:         &dueDate,
		AmountPaid:      shared.ZeroMoney(),
		AssessedPenalty: shared.ZeroMoney(),
	}

	// 2026-03-11 02:00 UTC is still 2026-03-10 in UTC-5
	lateEvening := time.Date(2026, 3, 11, 2, 0, 0, 0, time.UTC).In(loc)
	assert.False(t, DefaultPolicy().Evaluate(snapshot, lateEvening).IsOverdue)

	nextDay := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC).In(loc)
	assert.True(t, DefaultPolicy().Evaluate(snapshot, nextDay).IsOverdue)
}

func TestCheckPayment_FirstPaymentFloor(t *testing.T) {
	p := DefaultPolicy()
	due := p.Evaluate(Snapshot{
		ProductsTotal:   amount(1000),
		DeliveryFee:     shared.ZeroMoney(),
		AmountPaid:      shared.ZeroMoney(),
		AssessedPenalty: shared.ZeroMoney(),
	}, policyNow)

	requireRejected(t, p.CheckPayment(due, amount(599)), ReasonBelowMinimumFirstPayment, "600.00")
	assert.NoError(t, p.CheckPayment(due, amount(600)))
	assert.NoError(t, p.CheckPayment(due, amount(1000)))
}

func TestCheckPayment_LaterPaymentsHaveNoFloor(t *testing.T) {
	p := DefaultPolicy()
	due := p.Evaluate(Snapshot{
		ProductsTotal:   amount(1000),
		DeliveryFee:     shared.ZeroMoney(),
		AmountPaid:      amount(600),
		AssessedPenalty: shared.ZeroMoney(),
		PaymentCount:    1,
	}, policyNow)

	assert.NoError(t, p.CheckPayment(due, amount(1)))
}

func TestCheckPayment_Overpayment(t *testing.T) {
	p := DefaultPolicy()
	due := p.Evaluate(Snapshot{
		ProductsTotal:   amount(1000),
		DeliveryFee:     shared.ZeroMoney(),
		AmountPaid:      amount(600),
		AssessedPenalty: shared.ZeroMoney(),
		PaymentCount:    1,
	}, policyNow)

	requireRejected(t, p.CheckPayment(due, parseAmount(t, "400.01")), ReasonExceedsTotalDue, "400.00")
	assert.NoError(t, p.CheckPayment(due, amount(400)))
}

func TestCheckPayment_OverdueRequiresPenaltyClearance(t *testing.T) {
	p := DefaultPolicy()
	due := p.Evaluate(Snapshot{
		ProductsTotal:   amount(1000),
		DeliveryFee:     shared.ZeroMoney(),
		DueDate:         daysFrom(policyNow, -3),
		AmountPaid:      amount(400),
		AssessedPenalty: shared.ZeroMoney(),
		PaymentCount:    1,
	}, policyNow)

	requireRejected(t, p.CheckPayment(due, amount(500)), ReasonPenaltyRequired, "1009.00")
	requireRejected(t, p.CheckPayment(due, amount(610)), ReasonExceedsTotalDue, "609.00")
	assert.NoError(t, p.CheckPayment(due, amount(609)))
}

func TestCheckPayment_OverdueFirstPayment(t *testing.T) {
	p := DefaultPolicy()
	due := p.Evaluate(Snapshot{
		ProductsTotal:   amount(1000),
		DeliveryFee:     shared.ZeroMoney(),
		DueDate:         daysFrom(policyNow, -1),
		AmountPaid:      shared.ZeroMoney(),
		AssessedPenalty: shared.ZeroMoney(),
	}, policyNow)

	// overdue clearance is checked before the first-payment floor
	requireRejected(t, p.CheckPayment(due, amount(600)), ReasonPenaltyRequired, "1015.00")
	assert.NoError(t, p.CheckPayment(due, amount(1015)))
}

func TestCheckPayment_NonPositiveAmount(t *testing.T) {
	p := DefaultPolicy()
	due := p.Evaluate(Snapshot{ProductsTotal: amount(100)}, policyNow)

	err := p.CheckPayment(due, shared.ZeroMoney())
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	assert.False(t, errors.Is(err, ErrPaymentRejected))
}
