package sale

import (
	"time"

	"aquadash/application/common"
	"aquadash/domain/sale"
)

// DirectSaleRequest 直售入参：商品、配送与一次付清的收款
type DirectSaleRequest struct {
	ClientID     string                  `json:"client_id" binding:"required"`
	Items        []common.ItemRequest    `json:"items" binding:"required,min=1,dive"`
	DeliveryType string                  `json:"delivery_type" binding:"required"`
	DeliveryFee  *string                 `json:"delivery_fee"`
	Payments     []common.PaymentRequest `json:"payments" binding:"required,min=1,dive"`
	Notes        string                  `json:"notes"`
}

// SaleResponse 销售返回模型
type SaleResponse struct {
	ID            string                   `json:"id"`
	OrderID       string                   `json:"order_id,omitempty"`
	Origin        string                   `json:"origin"`
	ClientID      string                   `json:"client_id"`
	Items         []common.ItemResponse    `json:"items"`
	DeliveryType  string                   `json:"delivery_type"`
	ProductsTotal common.MoneyResponse     `json:"products_total"`
	DeliveryFee   common.MoneyResponse     `json:"delivery_fee"`
	Penalty       common.MoneyResponse     `json:"penalty"`
	TotalAmount   common.MoneyResponse     `json:"total_amount"`
	AmountPaid    common.MoneyResponse     `json:"amount_paid"`
	Payments      []common.PaymentResponse `json:"payments"`
	Notes         string                   `json:"notes,omitempty"`
	ConvertedAt   time.Time                `json:"converted_at"`
}

// ToSaleResponse 销售实体转返回模型
func ToSaleResponse(s *sale.Sale, currency string) *SaleResponse {
	if s == nil {
		return nil
	}
	return &SaleResponse{
		ID:            s.ID(),
		OrderID:       s.OrderID(),
		Origin:        string(s.Origin()),
		ClientID:      s.ClientID(),
		Items:         common.ToItemResponses(s.Items(), currency),
		DeliveryType:  string(s.DeliveryType()),
		ProductsTotal: common.NewMoneyResponse(s.ProductsTotal(), currency),
		DeliveryFee:   common.NewMoneyResponse(s.DeliveryFee(), currency),
		Penalty:       common.NewMoneyResponse(s.Penalty(), currency),
		TotalAmount:   common.NewMoneyResponse(s.TotalAmount(), currency),
		AmountPaid:    common.NewMoneyResponse(s.AmountPaid(), currency),
		Payments:      common.ToPaymentResponses(s.Payments(), currency),
		Notes:         s.Notes(),
		ConvertedAt:   s.ConvertedAt(),
	}
}

func toSaleResponses(sales []*sale.Sale, currency string) []*SaleResponse {
	out := make([]*SaleResponse, len(sales))
	for i, s := range sales {
		out[i] = ToSaleResponse(s, currency)
	}
	return out
}
