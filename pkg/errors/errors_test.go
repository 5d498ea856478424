package errors

import (
	"fmt"
	"testing"

	"aquadash/domain/order"
	"aquadash/domain/sale"
	"aquadash/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDomainError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
	}{
		{"order not found", order.NewOrderNotFoundError("o1"), CodeOrderNotFound},
		{"wrapped order not found", fmt.Errorf("load: %w", order.NewOrderNotFoundError("o1")), CodeOrderNotFound},
		{"invalid state", order.NewInvalidStateError(order.StatusValidated, "add items"), CodeInvalidOrderState},
		{"illegal transition", order.NewIllegalTransitionError(order.StatusPending, order.StatusDelivered), CodeIllegalTransition},
		{"validation", shared.NewValidationError("order", "items", "empty"), CodeValidation},
		{"concurrent", order.NewConcurrentModificationError("o1"), CodeConcurrentModify},
		{"sale not found", sale.NewSaleNotFoundError("s1"), CodeSaleNotFound},
		{"sale exists", sale.NewSaleAlreadyExistsError("o1"), CodeSaleExists},
		{"lock timeout", fmt.Errorf("order o1: %w", ErrLockTimeout), CodeLockTimeout},
		{"unknown", fmt.Errorf("boom"), CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, FromDomainError(tt.err).Code)
		})
	}

	assert.Nil(t, FromDomainError(nil))
}

func TestFromDomainError_PaymentRejectedDetails(t *testing.T) {
	err := order.NewPaymentRejectedError(order.ReasonPenaltyRequired, shared.MoneyFromInt(1009), shared.MoneyFromInt(609))

	appErr := FromDomainError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, CodePaymentRejected, appErr.Code)
	assert.Equal(t, "penalty_required", appErr.Details["reason"])
	assert.Equal(t, "1009.00", appErr.Details["threshold"])
	assert.Equal(t, "609.00", appErr.Details["remaining"])
}

func TestFromDomainError_ValidationField(t *testing.T) {
	appErr := FromDomainError(shared.NewValidationError("order_item", "quantity", "quantity must be positive"))
	assert.Equal(t, "quantity", appErr.Details["field"])
	assert.Equal(t, "quantity must be positive", appErr.Message)
}

func TestFromDomainError_KeepsAppError(t *testing.T) {
	original := Validation("bad status")
	assert.Same(t, original, FromDomainError(fmt.Errorf("wrap: %w", original)))
	assert.True(t, Is(original, CodeValidation))
}
