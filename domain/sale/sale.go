/*
Package sale 销售领域

Sale 是已完成交易的不可变快照，来源有两种：
- order_conversion: 订单已送达且已付清时由转换规则生成，每个订单至多一条
- direct: 柜台直售，创建时必须一次付清，不经过订单
*/
package sale

import (
	"fmt"
	"strings"
	"time"

	"aquadash/domain/order"
	"aquadash/domain/shared"

	"github.com/google/uuid"
)

// Origin 销售来源
type Origin string

const (
	OriginOrderConversion Origin = "order_conversion"
	OriginDirect          Origin = "direct"
)

// Sale 销售聚合根（创建后不可变）
type Sale struct {
	id           string
	orderID      string
	origin       Origin
	clientID     string
	items        []order.Item
	deliveryType order.DeliveryType
	deliveryFee  shared.Money
	penalty      shared.Money
	totalAmount  shared.Money
	payments     []order.Payment
	notes        string
	convertedAt  time.Time
	version      int

	events []shared.DomainEvent
}

// DirectSaleParams 直售参数
type DirectSaleParams struct {
	ClientID     string
	Items        []order.ItemRequest
	DeliveryType order.DeliveryType
	DeliveryFee  *shared.Money
	Payments     []order.PaymentInput
	Notes        string
}

// ============================================================================
// 工厂方法
// ============================================================================

// NewDirectSale 直售：总额走与订单相同的策略函数，必须一次付清
func NewDirectSale(params DirectSaleParams, policy order.Policy, now time.Time) (*Sale, error) {
	clientID := strings.TrimSpace(params.ClientID)
	if clientID == "" {
		return nil, shared.NewValidationError("sale", "client_id", "client is required")
	}
	if len(params.Items) == 0 {
		return nil, shared.NewValidationError("sale", "items", "sale must contain at least one item")
	}
	if len(params.Payments) == 0 {
		return nil, shared.NewValidationError("sale", "payments", "direct sale requires a payment")
	}

	deliveryType, ok := order.ParseDeliveryType(string(params.DeliveryType))
	if !ok {
		return nil, shared.NewValidationError("sale", "delivery_type", "unknown delivery type: "+string(params.DeliveryType))
	}
	if params.DeliveryFee != nil && params.DeliveryFee.IsNegative() {
		return nil, shared.NewValidationError("sale", "delivery_fee", "delivery fee cannot be negative")
	}

	items := make([]order.Item, 0, len(params.Items))
	for _, req := range params.Items {
		item, err := order.NewItem(req)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	productsTotal := order.ProductsTotal(items)
	fee := policy.DeliveryFee(deliveryType, productsTotal, params.DeliveryFee)
	total := productsTotal.Add(fee)

	payments := make([]order.Payment, 0, len(params.Payments))
	for _, input := range params.Payments {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate payment ID: %w", err)
		}
		p, err := order.NewPayment(id.String(), input, now)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}

	paid := order.SumPayments(payments)
	if paid.ExceedsBy(total, shared.Epsilon) {
		return nil, order.NewPaymentRejectedError(order.ReasonExceedsTotalDue, total, total)
	}
	if !paid.CoversWithin(total, shared.Epsilon) {
		return nil, order.NewPaymentRejectedError(order.ReasonFullPaymentRequired, total, total.Subtract(paid))
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate sale ID: %w", err)
	}

	s := &Sale{
		id:           id.String(),
		origin:       OriginDirect,
		clientID:     clientID,
		items:        items,
		deliveryType: deliveryType,
		deliveryFee:  fee,
		penalty:      shared.ZeroMoney(),
		totalAmount:  total,
		payments:     payments,
		notes:        strings.TrimSpace(params.Notes),
		convertedAt:  now,
	}
	s.events = append(s.events, NewSaleCreatedEvent(s, now))

	return s, nil
}

// ============================================================================
// 转换规则
// ============================================================================

// ConvertIfReady 订单已送达、已付清且尚未转换时生成 Sale 并回写订单的 saleID。
// 不满足条件时返回 (nil, nil)，重复调用不会产生第二条销售。
func ConvertIfReady(o *order.Order, policy order.Policy, now time.Time) (*Sale, error) {
	if !o.ReadyForConversion(policy, now) {
		return nil, nil
	}

	due := o.Due(policy, now)

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate sale ID: %w", err)
	}

	s := &Sale{
		id:           id.String(),
		orderID:      o.ID(),
		origin:       OriginOrderConversion,
		clientID:     o.ClientID(),
		items:        o.Items(),
		deliveryType: o.DeliveryType(),
		deliveryFee:  o.DeliveryFee(),
		penalty:      due.Penalty,
		totalAmount:  due.TotalDue,
		payments:     o.Payments(),
		notes:        o.Notes(),
		convertedAt:  now,
	}

	if err := o.MarkConverted(s.id, now); err != nil {
		return nil, err
	}
	s.events = append(s.events, NewSaleCreatedEvent(s, now))

	return s, nil
}

// ============================================================================
// 重建（仅限仓储层）
// ============================================================================

// ReconstructionDTO 销售重建数据传输对象
type ReconstructionDTO struct {
	ID           string
	OrderID      string
	Origin       Origin
	ClientID     string
	Items        []order.Item
	DeliveryType order.DeliveryType
	DeliveryFee  shared.Money
	Penalty      shared.Money
	TotalAmount  shared.Money
	Payments     []order.Payment
	Notes        string
	ConvertedAt  time.Time
	Version      int
}

// RebuildFromDTO 从DTO重建Sale
func RebuildFromDTO(dto ReconstructionDTO) *Sale {
	return &Sale{
		id:           dto.ID,
		orderID:      dto.OrderID,
		origin:       dto.Origin,
		clientID:     dto.ClientID,
		items:        dto.Items,
		deliveryType: dto.DeliveryType,
		deliveryFee:  dto.DeliveryFee,
		penalty:      dto.Penalty,
		totalAmount:  dto.TotalAmount,
		payments:     dto.Payments,
		notes:        dto.Notes,
		convertedAt:  dto.ConvertedAt,
		version:      dto.Version,
	}
}

// ============================================================================
// Getters
// ============================================================================

func (s *Sale) ID() string                       { return s.id }
func (s *Sale) OrderID() string                  { return s.orderID }
func (s *Sale) Origin() Origin                   { return s.origin }
func (s *Sale) ClientID() string                 { return s.clientID }
func (s *Sale) DeliveryType() order.DeliveryType { return s.deliveryType }
func (s *Sale) DeliveryFee() shared.Money        { return s.deliveryFee }
func (s *Sale) Penalty() shared.Money            { return s.penalty }
func (s *Sale) TotalAmount() shared.Money        { return s.totalAmount }
func (s *Sale) Notes() string                    { return s.notes }
func (s *Sale) ConvertedAt() time.Time           { return s.convertedAt }
func (s *Sale) Version() int                     { return s.version }

// AmountPaid 销售始终已付清：等于收款合计
func (s *Sale) AmountPaid() shared.Money { return order.SumPayments(s.payments) }

// ProductsTotal Σ quantity × unit_price
func (s *Sale) ProductsTotal() shared.Money { return order.ProductsTotal(s.items) }

func (s *Sale) Items() []order.Item {
	items := make([]order.Item, len(s.items))
	copy(items, s.items)
	return items
}

func (s *Sale) Payments() []order.Payment {
	payments := make([]order.Payment, len(s.payments))
	copy(payments, s.payments)
	return payments
}

// PullEvents 获取并清空聚合根的事件列表
func (s *Sale) PullEvents() []shared.DomainEvent {
	events := make([]shared.DomainEvent, len(s.events))
	copy(events, s.events)
	s.events = make([]shared.DomainEvent, 0)
	return events
}

var _ shared.AggregateRoot = (*Sale)(nil)
