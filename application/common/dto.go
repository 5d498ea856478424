/*
Package common holds the request/response models and input parsing shared by
the order and sale application services.

Amounts cross the API boundary as decimal strings with two places ("600.00")
next to the configured currency code; they are never floats.
*/
package common

import (
	"time"

	"aquadash/domain/order"
	"aquadash/domain/shared"
)

// MoneyResponse 金额返回模型
type MoneyResponse struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

func NewMoneyResponse(m shared.Money, currency string) MoneyResponse {
	return MoneyResponse{Amount: m.String(), Currency: currency}
}

// ItemRequest 订单项入参
// ProductName 与 UnitPrice 缺省时从商品目录预填
type ItemRequest struct {
	ProductID   string  `json:"product_id" binding:"required"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity" binding:"required,min=1"`
	UnitPrice   *string `json:"unit_price"`
}

// PaymentRequest 收款入参
type PaymentRequest struct {
	Amount    string `json:"amount" binding:"required"`
	Method    string `json:"method" binding:"required"`
	Reference string `json:"reference"`
	Note      string `json:"note"`
}

// ItemResponse 订单项返回模型
type ItemResponse struct {
	ID          string        `json:"id"`
	ProductID   string        `json:"product_id"`
	ProductName string        `json:"product_name"`
	Quantity    int           `json:"quantity"`
	UnitPrice   MoneyResponse `json:"unit_price"`
	Subtotal    MoneyResponse `json:"subtotal"`
}

// PaymentResponse 收款返回模型
type PaymentResponse struct {
	ID        string        `json:"id"`
	Amount    MoneyResponse `json:"amount"`
	Method    string        `json:"method"`
	Reference string        `json:"reference,omitempty"`
	Note      string        `json:"note,omitempty"`
	PaidAt    time.Time     `json:"paid_at"`
}

func ToItemResponses(items []order.Item, currency string) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i, item := range items {
		out[i] = ItemResponse{
			ID:          item.ID(),
			ProductID:   item.ProductID(),
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			UnitPrice:   NewMoneyResponse(item.UnitPrice(), currency),
			Subtotal:    NewMoneyResponse(item.Subtotal(), currency),
		}
	}
	return out
}

func ToPaymentResponse(p order.Payment, currency string) PaymentResponse {
	return PaymentResponse{
		ID:        p.ID(),
		Amount:    NewMoneyResponse(p.Amount(), currency),
		Method:    string(p.Method()),
		Reference: p.Reference(),
		Note:      p.Note(),
		PaidAt:    p.PaidAt(),
	}
}

func ToPaymentResponses(payments []order.Payment, currency string) []PaymentResponse {
	out := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		out[i] = ToPaymentResponse(p, currency)
	}
	return out
}
