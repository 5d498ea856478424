package order

import (
	"time"

	"aquadash/application/common"
	salesapp "aquadash/application/sale"
)

// CreateOrderRequest 表示创建订单的入参。
type CreateOrderRequest struct {
	ClientID     string               `json:"client_id" binding:"required"`
	Items        []common.ItemRequest `json:"items" binding:"required,min=1,dive"`
	DeliveryType string               `json:"delivery_type" binding:"required"`
	DeliveryFee  *string              `json:"delivery_fee"`
	DueDate      *string              `json:"due_date"`
	Notes        string               `json:"notes"`
}

// ChangeStatusRequest 表示订单状态迁移入参。
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// SetQuantityRequest 表示修改订单项数量入参。
type SetQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// ChangeDeliveryRequest 表示修改配送方式入参，DeliveryFee 仅对送货上门生效。
type ChangeDeliveryRequest struct {
	DeliveryType string  `json:"delivery_type" binding:"required"`
	DeliveryFee  *string `json:"delivery_fee"`
}

// UpdateDetailsRequest 表示修改备注与到期日入参；DueDate 为空字符串时清除到期日。
type UpdateDetailsRequest struct {
	Notes   *string `json:"notes"`
	DueDate *string `json:"due_date"`
}

// ListOrdersQuery 订单列表过滤条件，全部可选。
type ListOrdersQuery struct {
	Status      string `form:"status"`
	ClientID    string `form:"client_id"`
	From        string `form:"from"`
	To          string `form:"to"`
	Unconverted bool   `form:"unconverted"`
}

// OrderResponse 表示订单返回模型。
type OrderResponse struct {
	ID                  string                   `json:"id"`
	ClientID            string                   `json:"client_id"`
	Items               []common.ItemResponse    `json:"items"`
	DeliveryType        string                   `json:"delivery_type"`
	DeliveryFee         common.MoneyResponse     `json:"delivery_fee"`
	DeliveryFeeExplicit bool                     `json:"delivery_fee_explicit"`
	DueDate             string                   `json:"due_date,omitempty"`
	Notes               string                   `json:"notes,omitempty"`
	Status              string                   `json:"status"`
	NextStatuses        []string                 `json:"next_statuses"`
	Payments            []common.PaymentResponse `json:"payments"`
	SaleID              string                   `json:"sale_id,omitempty"`
	Due                 *DueResponse             `json:"due"`
	Version             int                      `json:"version"`
	CreatedAt           time.Time                `json:"created_at"`
	UpdatedAt           time.Time                `json:"updated_at"`
	ValidatedAt         *time.Time               `json:"validated_at,omitempty"`
	DeliveredAt         *time.Time               `json:"delivered_at,omitempty"`
	CancelledAt         *time.Time               `json:"cancelled_at,omitempty"`
}

// DueResponse 表示某一时刻的应付余额。
type DueResponse struct {
	ProductsTotal       common.MoneyResponse `json:"products_total"`
	DeliveryFee         common.MoneyResponse `json:"delivery_fee"`
	BaseTotal           common.MoneyResponse `json:"base_total"`
	Penalty             common.MoneyResponse `json:"penalty"`
	TotalDue            common.MoneyResponse `json:"total_due"`
	AmountPaid          common.MoneyResponse `json:"amount_paid"`
	Remaining           common.MoneyResponse `json:"remaining"`
	MinimumFirstPayment common.MoneyResponse `json:"minimum_first_payment"`
	IsOverdue           bool                 `json:"is_overdue"`
	FullyPaid           bool                 `json:"fully_paid"`
	AsOf                time.Time            `json:"as_of"`
}

// PaymentResult 表示收款结果；订单因此转为销售时带上销售。
type PaymentResult struct {
	Order           *OrderResponse         `json:"order"`
	Payment         common.PaymentResponse `json:"payment"`
	ConvertedToSale *salesapp.SaleResponse `json:"converted_to_sale,omitempty"`
}

// StatusResult 表示状态迁移结果；迁移到已送达且已付清时带上销售。
type StatusResult struct {
	Order           *OrderResponse         `json:"order"`
	ConvertedToSale *salesapp.SaleResponse `json:"converted_to_sale,omitempty"`
}
