package errors

import (
	"errors"
	"fmt"

	"aquadash/domain/client"
	"aquadash/domain/order"
	"aquadash/domain/product"
	"aquadash/domain/sale"
	"aquadash/domain/shared"
)

// ErrorCode 错误码
type ErrorCode string

const (
	// 通用错误码
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest     ErrorCode = "BAD_REQUEST"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeConflict       ErrorCode = "CONFLICT"
	CodeTooManyRequest ErrorCode = "TOO_MANY_REQUESTS"
	CodeValidation     ErrorCode = "VALIDATION_ERROR"
	CodeLockTimeout    ErrorCode = "LOCK_TIMEOUT"

	// 业务错误码
	CodeOrderNotFound     ErrorCode = "ORDER_NOT_FOUND"
	CodeOrderItemNotFound ErrorCode = "ORDER_ITEM_NOT_FOUND"
	CodeInvalidOrderState ErrorCode = "INVALID_ORDER_STATE"
	CodeIllegalTransition ErrorCode = "ILLEGAL_TRANSITION"
	CodePaymentRejected   ErrorCode = "PAYMENT_REJECTED"
	CodeConcurrentModify  ErrorCode = "CONCURRENT_MODIFICATION"
	CodeSaleNotFound      ErrorCode = "SALE_NOT_FOUND"
	CodeSaleExists        ErrorCode = "SALE_ALREADY_EXISTS"
	CodeClientNotFound    ErrorCode = "CLIENT_NOT_FOUND"
	CodeProductNotFound   ErrorCode = "PRODUCT_NOT_FOUND"
)

// ErrLockTimeout 等待订单锁超时（基础设施层返回，应用层透传）
var ErrLockTimeout = errors.New("timed out waiting for order lock")

// AppError 应用错误
type AppError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithDetails 附加结构化上下文（如拒绝原因与金额阈值）
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// 常用错误构造函数

func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message)
}

func TooManyRequests(message string) *AppError {
	return New(CodeTooManyRequest, message)
}

func Validation(message string) *AppError {
	return New(CodeValidation, message)
}

// Is 检查是否为特定错误码
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// FromDomainError 将领域错误映射为应用错误
// 通过 errors.Is/As 沿错误链判断，越具体的哨兵越先匹配
func FromDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var rejected *order.PaymentRejectedError
	if errors.As(err, &rejected) {
		return Wrap(err, CodePaymentRejected, rejected.Error()).WithDetails(map[string]interface{}{
			"reason":    string(rejected.Reason),
			"threshold": rejected.Threshold.String(),
			"remaining": rejected.Remaining.String(),
		})
	}

	var illegal *order.IllegalTransitionError
	if errors.As(err, &illegal) {
		return Wrap(err, CodeIllegalTransition, illegal.Error()).WithDetails(map[string]interface{}{
			"from": string(illegal.From),
			"to":   string(illegal.To),
		})
	}

	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		return Wrap(err, CodeOrderNotFound, err.Error())
	case errors.Is(err, order.ErrItemNotFound):
		return Wrap(err, CodeOrderItemNotFound, err.Error())
	case errors.Is(err, sale.ErrSaleNotFound):
		return Wrap(err, CodeSaleNotFound, err.Error())
	case errors.Is(err, client.ErrClientNotFound):
		return Wrap(err, CodeClientNotFound, err.Error())
	case errors.Is(err, product.ErrProductNotFound):
		return Wrap(err, CodeProductNotFound, err.Error())
	case errors.Is(err, order.ErrConcurrentModification):
		return Wrap(err, CodeConcurrentModify, err.Error())
	case errors.Is(err, sale.ErrSaleAlreadyExists):
		return Wrap(err, CodeSaleExists, err.Error())
	case errors.Is(err, ErrLockTimeout):
		return Wrap(err, CodeLockTimeout, err.Error())
	case errors.Is(err, shared.ErrInvalidState):
		return Wrap(err, CodeInvalidOrderState, err.Error())
	case errors.Is(err, shared.ErrInvalidInput):
		return validationError(err)
	case errors.Is(err, shared.ErrNotFound):
		return Wrap(err, CodeNotFound, err.Error())
	case errors.Is(err, shared.ErrConflict):
		return Wrap(err, CodeConflict, err.Error())
	default:
		return Wrap(err, CodeInternal, err.Error())
	}
}

func validationError(err error) *AppError {
	appErr := Wrap(err, CodeValidation, err.Error())
	var de *shared.DomainError
	if errors.As(err, &de) && de.Field != "" {
		appErr.Details = map[string]interface{}{"field": de.Field}
	}
	return appErr
}
