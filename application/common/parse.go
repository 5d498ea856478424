package common

import (
	"strings"
	"time"

	"aquadash/domain/order"
	"aquadash/domain/shared"

	"github.com/shopspring/decimal"
)

// DateLayout calendar dates on the wire, e.g. "2026-03-15"
const DateLayout = "2006-01-02"

// ParseAmount parses a decimal amount string; sub-cent digits are rejected, never rounded
func ParseAmount(entity, field, raw string) (shared.Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return shared.Money{}, shared.NewValidationError(entity, field, "invalid amount: "+raw)
	}
	if !d.Equal(d.Truncate(2)) {
		return shared.Money{}, shared.NewValidationError(entity, field, "amount has more than 2 decimal places: "+raw)
	}
	return shared.NewMoney(d), nil
}

// ParseOptionalAmount nil stays nil
func ParseOptionalAmount(entity, field string, raw *string) (*shared.Money, error) {
	if raw == nil {
		return nil, nil
	}
	m, err := ParseAmount(entity, field, *raw)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ParseOptionalDate nil or blank stays nil
func ParseOptionalDate(entity, field string, raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	d, err := time.Parse(DateLayout, strings.TrimSpace(*raw))
	if err != nil {
		return nil, shared.NewValidationError(entity, field, "expected a date like 2026-03-15, got "+*raw)
	}
	return &d, nil
}

func ParseDeliveryType(entity, raw string) (order.DeliveryType, error) {
	dt, ok := order.ParseDeliveryType(strings.TrimSpace(raw))
	if !ok {
		return "", shared.NewValidationError(entity, "delivery_type", "unknown delivery type: "+raw)
	}
	return dt, nil
}

func ParsePaymentInput(entity string, req PaymentRequest) (order.PaymentInput, error) {
	amount, err := ParseAmount(entity, "amount", req.Amount)
	if err != nil {
		return order.PaymentInput{}, err
	}
	method, ok := order.ParsePaymentMethod(strings.TrimSpace(req.Method))
	if !ok {
		return order.PaymentInput{}, shared.NewValidationError(entity, "method", "unknown payment method: "+req.Method)
	}
	return order.PaymentInput{
		Amount:    amount,
		Method:    method,
		Reference: strings.TrimSpace(req.Reference),
		Note:      strings.TrimSpace(req.Note),
	}, nil
}
