package order

import "aquadash/domain/order"

// RejectionObserver 接收收款被策略拒绝的原因码（如 Prometheus 计数器）。
type RejectionObserver interface {
	ObservePaymentRejected(reason order.RejectionReason)
}

type noopRejectionObserver struct{}

func (noopRejectionObserver) ObservePaymentRejected(order.RejectionReason) {}
