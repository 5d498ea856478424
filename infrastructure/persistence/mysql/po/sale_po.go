package po

import (
	"encoding/json"
	"time"

	"aquadash/domain/order"
	"aquadash/domain/sale"
	"aquadash/domain/shared"

	"github.com/shopspring/decimal"
)

// SalePO Sale persistence object
// OrderID is NULL for direct sales; the unique index allows one sale per order
// Lines and payments are an immutable snapshot stored as JSON
type SalePO struct {
	ID           string          `gorm:"primaryKey;size:64"`
	OrderID      *string         `gorm:"size:64;uniqueIndex"`
	Origin       string          `gorm:"size:20;not null"`
	ClientID     string          `gorm:"size:64;index;not null"`
	DeliveryType string          `gorm:"size:20;not null"`
	DeliveryFee  decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Penalty      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Items        string          `gorm:"type:json;not null"`
	Payments     string          `gorm:"type:json;not null"`
	Notes        string          `gorm:"type:text"`
	ConvertedAt  time.Time       `gorm:"index;not null"`
	Version      int             `gorm:"not null;default:1"`
}

func (SalePO) TableName() string {
	return "sales"
}

type saleLine struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type salePayment struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference,omitempty"`
	Note      string          `json:"note,omitempty"`
	PaidAt    time.Time       `json:"paid_at"`
}

// FromSaleDomain Convert domain model to persistence object
func FromSaleDomain(s *sale.Sale) (*SalePO, error) {
	lines := make([]saleLine, 0, len(s.Items()))
	for _, item := range s.Items() {
		lines = append(lines, saleLine{
			ID:          item.ID(),
			ProductID:   item.ProductID(),
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			UnitPrice:   item.UnitPrice().Decimal(),
		})
	}
	payments := make([]salePayment, 0, len(s.Payments()))
	for _, p := range s.Payments() {
		payments = append(payments, salePayment{
			ID:        p.ID(),
			Amount:    p.Amount().Decimal(),
			Method:    string(p.Method()),
			Reference: p.Reference(),
			Note:      p.Note(),
			PaidAt:    p.PaidAt(),
		})
	}

	itemsJSON, err := json.Marshal(lines)
	if err != nil {
		return nil, err
	}
	paymentsJSON, err := json.Marshal(payments)
	if err != nil {
		return nil, err
	}

	salePO := &SalePO{
		ID:           s.ID(),
		Origin:       string(s.Origin()),
		ClientID:     s.ClientID(),
		DeliveryType: string(s.DeliveryType()),
		DeliveryFee:  s.DeliveryFee().Decimal(),
		Penalty:      s.Penalty().Decimal(),
		TotalAmount:  s.TotalAmount().Decimal(),
		Items:        string(itemsJSON),
		Payments:     string(paymentsJSON),
		Notes:        s.Notes(),
		ConvertedAt:  s.ConvertedAt(),
		Version:      s.Version() + 1,
	}
	if orderID := s.OrderID(); orderID != "" {
		salePO.OrderID = &orderID
	}
	return salePO, nil
}

// ToDomain Convert persistence object to domain model
func (po *SalePO) ToDomain() (*sale.Sale, error) {
	var lines []saleLine
	if err := json.Unmarshal([]byte(po.Items), &lines); err != nil {
		return nil, err
	}
	var paymentRows []salePayment
	if err := json.Unmarshal([]byte(po.Payments), &paymentRows); err != nil {
		return nil, err
	}

	items := make([]order.Item, len(lines))
	for i, l := range lines {
		items[i] = order.RebuildItemFromDTO(order.ItemReconstructionDTO{
			ID:          l.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   shared.NewMoney(l.UnitPrice),
		})
	}
	payments := make([]order.Payment, len(paymentRows))
	for i, p := range paymentRows {
		payments[i] = order.RebuildPaymentFromDTO(order.PaymentReconstructionDTO{
			ID:        p.ID,
			Amount:    shared.NewMoney(p.Amount),
			Method:    order.PaymentMethod(p.Method),
			Reference: p.Reference,
			Note:      p.Note,
			PaidAt:    p.PaidAt,
		})
	}

	orderID := ""
	if po.OrderID != nil {
		orderID = *po.OrderID
	}

	return sale.RebuildFromDTO(sale.ReconstructionDTO{
		ID:           po.ID,
		OrderID:      orderID,
		Origin:       sale.Origin(po.Origin),
		ClientID:     po.ClientID,
		Items:        items,
		DeliveryType: order.DeliveryType(po.DeliveryType),
		DeliveryFee:  shared.NewMoney(po.DeliveryFee),
		Penalty:      shared.NewMoney(po.Penalty),
		TotalAmount:  shared.NewMoney(po.TotalAmount),
		Payments:     payments,
		Notes:        po.Notes,
		ConvertedAt:  po.ConvertedAt,
		Version:      po.Version,
	}), nil
}
