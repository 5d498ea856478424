package order

import (
	"time"

	"aquadash/domain/shared"

	"github.com/shopspring/decimal"
)

// Policy holds the payment rules shared by every mutation path
// (order creation, item edits, payments, direct sales).
// It is a value: all methods are pure functions of their inputs.
type Policy struct {
	// MinFirstPaymentRatio share of baseTotal the first payment must cover.
	MinFirstPaymentRatio decimal.Decimal
	// DefaultDeliveryFeeRatio share of productsTotal charged for home delivery
	// when no explicit fee is given.
	DefaultDeliveryFeeRatio decimal.Decimal
	// PenaltyRatio share of the outstanding balance added once overdue.
	PenaltyRatio decimal.Decimal
}

// DefaultPolicy 60% first payment, 15% delivery fee, 1.5% overdue penalty.
func DefaultPolicy() Policy {
	return Policy{
		MinFirstPaymentRatio:    decimal.RequireFromString("0.60"),
		DefaultDeliveryFeeRatio: decimal.RequireFromString("0.15"),
		PenaltyRatio:            decimal.RequireFromString("0.015"),
	}
}

// Snapshot is the read-only view of an order the policy evaluates.
type Snapshot struct {
	ProductsTotal   shared.Money
	DeliveryFee     shared.Money
	DueDate         *time.Time
	AmountPaid      shared.Money
	AssessedPenalty shared.Money
	PaymentCount    int
}

// Due is the balance projection of an order at a given instant.
type Due struct {
	ProductsTotal       shared.Money
	DeliveryFee         shared.Money
	BaseTotal           shared.Money
	Penalty             shared.Money
	AccruedPenalty      shared.Money
	TotalDue            shared.Money
	AmountPaid          shared.Money
	Remaining           shared.Money
	MinimumFirstPayment shared.Money
	IsOverdue           bool
	FullyPaid           bool
	FirstPayment        bool
}

// ProductsTotal Σ quantity × unit_price.
func ProductsTotal(items []Item) shared.Money {
	total := shared.ZeroMoney()
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// DeliveryFee pickup is free; home delivery uses the explicit fee when given,
// otherwise the default ratio of productsTotal.
func (p Policy) DeliveryFee(deliveryType DeliveryType, productsTotal shared.Money, explicit *shared.Money) shared.Money {
	if deliveryType != DeliveryHome {
		return shared.ZeroMoney()
	}
	if explicit != nil {
		return *explicit
	}
	return productsTotal.MultiplyRatio(p.DefaultDeliveryFeeRatio)
}

// MinimumFirstPayment is computed on baseTotal, penalty excluded.
func (p Policy) MinimumFirstPayment(baseTotal shared.Money) shared.Money {
	return baseTotal.MultiplyRatio(p.MinFirstPaymentRatio)
}

// Evaluate computes the balance of s as of now.
// now must carry the business time zone: the due date is compared
// against the calendar day of now in its own location.
func (p Policy) Evaluate(s Snapshot, now time.Time) Due {
	baseTotal := s.ProductsTotal.Add(s.DeliveryFee)
	owedBeforeAccrual := baseTotal.Add(s.AssessedPenalty)

	overdue := s.DueDate != nil &&
		civilDate(now).After(civilDate(*s.DueDate)) &&
		s.AmountPaid.IsLessThan(owedBeforeAccrual)

	accrued := shared.ZeroMoney()
	if overdue {
		accrued = owedBeforeAccrual.Subtract(s.AmountPaid).MultiplyRatio(p.PenaltyRatio)
	}

	penalty := s.AssessedPenalty.Add(accrued)
	totalDue := baseTotal.Add(penalty)
	remaining := totalDue.Subtract(s.AmountPaid).Max(shared.ZeroMoney())

	return Due{
		ProductsTotal:       s.ProductsTotal,
		DeliveryFee:         s.DeliveryFee,
		BaseTotal:           baseTotal,
		Penalty:             penalty,
		AccruedPenalty:      accrued,
		TotalDue:            totalDue,
		AmountPaid:          s.AmountPaid,
		Remaining:           remaining,
		MinimumFirstPayment: p.MinimumFirstPayment(baseTotal),
		IsOverdue:           overdue,
		FullyPaid:           s.AmountPaid.CoversWithin(totalDue, shared.Epsilon),
		FirstPayment:        s.PaymentCount == 0 && s.AmountPaid.IsZero(),
	}
}

// CheckPayment decides whether amount can be accepted against due.
// Checks run in a fixed order: overpayment, overdue clearance, first-payment floor.
func (p Policy) CheckPayment(due Due, amount shared.Money) error {
	if !amount.IsPositive() {
		return shared.NewValidationError("payment", "amount", "payment amount must be positive")
	}

	if amount.ExceedsBy(due.Remaining, shared.Epsilon) {
		return NewPaymentRejectedError(ReasonExceedsTotalDue, due.Remaining, due.Remaining)
	}

	if due.IsOverdue && !due.AmountPaid.Add(amount).CoversWithin(due.TotalDue, shared.Epsilon) {
		return NewPaymentRejectedError(ReasonPenaltyRequired, due.TotalDue, due.Remaining)
	}

	if due.FirstPayment && !amount.CoversWithin(due.MinimumFirstPayment, shared.Epsilon) {
		return NewPaymentRejectedError(ReasonBelowMinimumFirstPayment, due.MinimumFirstPayment, due.Remaining)
	}

	return nil
}

// civilDate truncates t to midnight of its calendar day, keeping its location's
// year/month/day but normalised to UTC so dates from different zones compare.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NormalizeDueDate keeps only the calendar day of t.
func NormalizeDueDate(t time.Time) time.Time {
	return civilDate(t)
}
