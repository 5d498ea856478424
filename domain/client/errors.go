/*
Package client 客户领域：订单上下文消费的外部协作方投影。
*/
package client

import (
	"errors"

	"aquadash/domain/shared"
)

var (
	ErrClientNotFound  = errors.New("client not found")
	ErrClientNotActive = errors.New("client is not active")
)

func NewClientNotFoundError(clientID string) error {
	return &clientDomainError{
		sentinel: ErrClientNotFound,
		message:  "client not found: " + clientID,
		stack:    shared.CaptureStack(3),
	}
}

// NewInvalidFieldError 客户字段校验失败，归类为 shared.ErrInvalidInput
func NewInvalidFieldError(field, reason string) error {
	return &clientDomainError{
		sentinel: shared.ErrInvalidInput,
		field:    field,
		message:  reason,
		stack:    shared.CaptureStack(3),
	}
}

type clientDomainError struct {
	sentinel error
	field    string
	message  string
	stack    []uintptr
}

func (e *clientDomainError) Error() string   { return e.message }
func (e *clientDomainError) Unwrap() error   { return e.sentinel }
func (e *clientDomainError) Stack() []string { return shared.FormatStack(e.stack) }
