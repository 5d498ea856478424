/*
Package order - 订单领域错误定义

设计原则:
1. 使用哨兵错误(sentinel errors)支持 errors.Is() 类型安全判断
2. 错误构造函数在创建时捕获堆栈，便于定位错误发生点
3. 所有错误都支持错误链，可追溯根因
4. 不包含 HTTP 状态码等非领域概念

错误分类:
- ValidationError   -> shared.ErrInvalidInput（输入不合法，调用方修正即可）
- InvalidStateError -> ErrInvalidState（当前状态不允许该修改）
- IllegalTransition -> ErrIllegalTransition（状态机中不存在的迁移）
- PaymentRejected   -> ErrPaymentRejected（携带原因码与金额阈值）
*/
package order

import (
	"errors"
	"fmt"

	"aquadash/domain/shared"
)

// ============================================================================
// 订单领域哨兵错误 (Sentinel Errors)
// ============================================================================

var (
	// ErrOrderNotFound 订单未找到
	ErrOrderNotFound = errors.New("order not found")

	// ErrConcurrentModification 并发修改冲突（乐观锁）
	// 当订单被其他事务修改时返回此错误，调用方应重试
	ErrConcurrentModification = errors.New("order was modified by another transaction, please retry")

	// ErrInvalidState 当前状态不允许该修改
	ErrInvalidState = shared.ErrInvalidState

	// ErrIllegalTransition 状态机中不存在的迁移
	ErrIllegalTransition = errors.New("illegal order status transition")

	// ErrPaymentRejected 收款被支付策略拒绝
	ErrPaymentRejected = errors.New("payment rejected")

	// ErrItemNotFound 订单项不存在
	ErrItemNotFound = errors.New("order item not found")
)

// RejectionReason 收款拒绝原因码
type RejectionReason string

const (
	ReasonBelowMinimumFirstPayment RejectionReason = "below_minimum_first_payment"
	ReasonExceedsTotalDue          RejectionReason = "exceeds_total_due"
	ReasonPenaltyRequired          RejectionReason = "penalty_required"
	ReasonFullPaymentRequired      RejectionReason = "full_payment_required"
)

// ============================================================================
// 订单领域错误构造函数
// ============================================================================

// NewOrderNotFoundError 创建订单未找到错误（带堆栈）
// 返回的错误支持:
//   - errors.Is(err, ErrOrderNotFound)
//   - err.(shared.Stacker).Stack() 获取堆栈
func NewOrderNotFoundError(orderID string) error {
	return &orderDomainError{
		sentinel: ErrOrderNotFound,
		entity:   "order",
		message:  "order not found: " + orderID,
		stack:    shared.CaptureStack(3),
	}
}

// NewConcurrentModificationError 创建并发修改错误
func NewConcurrentModificationError(orderID string) error {
	return &orderDomainError{
		sentinel: ErrConcurrentModification,
		entity:   "order",
		message:  "order " + orderID + " was modified by another transaction, please retry",
		stack:    shared.CaptureStack(3),
	}
}

// NewInvalidStateError 创建状态不允许修改错误
func NewInvalidStateError(status Status, action string) error {
	return &orderDomainError{
		sentinel: ErrInvalidState,
		entity:   "order",
		message:  "cannot " + action + " while order is " + string(status),
		stack:    shared.CaptureStack(3),
	}
}

// NewIllegalTransitionError 创建非法状态迁移错误
func NewIllegalTransitionError(from, to Status) error {
	return &IllegalTransitionError{
		From:  from,
		To:    to,
		stack: shared.CaptureStack(3),
	}
}

// NewItemNotFoundError 创建订单项不存在错误
func NewItemNotFoundError(itemID string) error {
	return &orderDomainError{
		sentinel: ErrItemNotFound,
		entity:   "order_item",
		field:    "item_id",
		message:  "order item not found: " + itemID,
		stack:    shared.CaptureStack(3),
	}
}

// NewPaymentRejectedError 创建收款拒绝错误
// threshold: 调用方必须满足的金额（最低首付、含罚金应付总额或剩余应付）
func NewPaymentRejectedError(reason RejectionReason, threshold, remaining shared.Money) error {
	return &PaymentRejectedError{
		Reason:    reason,
		Threshold: threshold,
		Remaining: remaining,
		stack:     shared.CaptureStack(3),
	}
}

// ============================================================================
// 订单领域错误结构体
// ============================================================================

// orderDomainError 订单领域错误（带堆栈）
type orderDomainError struct {
	sentinel error     // 哨兵错误，用于 errors.Is()
	entity   string    // 实体名
	field    string    // 字段名（可选）
	message  string    // 错误消息
	stack    []uintptr // 调用栈
}

func (e *orderDomainError) Error() string {
	return e.message
}

func (e *orderDomainError) Unwrap() error {
	return e.sentinel
}

// Stack 实现 shared.Stacker 接口
func (e *orderDomainError) Stack() []string {
	if len(e.stack) == 0 {
		return nil
	}

	return shared.FormatStack(e.stack)
}

// IllegalTransitionError 非法状态迁移，携带起止状态
type IllegalTransitionError struct {
	From  Status
	To    Status
	stack []uintptr
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}

func (e *IllegalTransitionError) Unwrap() error { return ErrIllegalTransition }

func (e *IllegalTransitionError) Stack() []string { return shared.FormatStack(e.stack) }

// PaymentRejectedError 收款拒绝，始终携带原因码与数值上下文
type PaymentRejectedError struct {
	Reason    RejectionReason
	Threshold shared.Money
	Remaining shared.Money
	stack     []uintptr
}

func (e *PaymentRejectedError) Error() string {
	switch e.Reason {
	case ReasonBelowMinimumFirstPayment:
		return "first payment must be at least " + e.Threshold.String()
	case ReasonPenaltyRequired:
		return "order is overdue: payment must clear the total due of " + e.Threshold.String() + " including penalty"
	case ReasonExceedsTotalDue:
		return "payment exceeds the remaining balance of " + e.Threshold.String()
	case ReasonFullPaymentRequired:
		return "direct sale requires full payment of " + e.Threshold.String()
	default:
		return "payment rejected: " + string(e.Reason)
	}
}

func (e *PaymentRejectedError) Unwrap() error { return ErrPaymentRejected }

func (e *PaymentRejectedError) Stack() []string { return shared.FormatStack(e.stack) }
