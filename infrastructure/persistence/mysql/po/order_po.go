package po

import (
	"time"

	"aquadash/domain/order"
	"aquadash/domain/shared"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderPO Order persistence object
// Note: Only used for database mapping, does not contain any business logic
// Defining GORM associations is prohibited here
type OrderPO struct {
	ID                  string          `gorm:"primaryKey;size:64"`
	ClientID            string          `gorm:"size:64;index;not null"` // Only store ID, no association with Client
	Status              string          `gorm:"size:20;index;not null"`
	DeliveryType        string          `gorm:"size:20;not null"`
	DeliveryFee         decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	DeliveryFeeExplicit bool            `gorm:"not null"`
	DueDate             *time.Time      `gorm:"type:date"`
	Notes               string          `gorm:"type:text"`
	AssessedPenalty     decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	SaleID              string          `gorm:"size:64;not null;default:''"`
	Version             int             `gorm:"not null;default:0"`
	CreatedAt           time.Time       `gorm:"index;not null"`
	UpdatedAt           time.Time       `gorm:"not null"`
	ValidatedAt         *time.Time
	DeliveredAt         *time.Time
	CancelledAt         *time.Time
	DeletedAt           gorm.DeletedAt `gorm:"index"`
}

func (OrderPO) TableName() string {
	return "orders"
}

// OrderItemPO Order item persistence object
type OrderItemPO struct {
	ID          string          `gorm:"primaryKey;size:64"`
	OrderID     string          `gorm:"size:64;index;not null"` // Only store ID, no GORM association
	Position    int             `gorm:"not null"`
	ProductID   string          `gorm:"size:64;not null"`
	ProductName string          `gorm:"size:255;not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(14,2);not null"`
}

func (OrderItemPO) TableName() string {
	return "order_items"
}

// OrderPaymentPO ledger row; rows are only ever inserted
type OrderPaymentPO struct {
	ID        string          `gorm:"primaryKey;size:64"`
	OrderID   string          `gorm:"size:64;index;not null"`
	Position  int             `gorm:"not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Method    string          `gorm:"size:20;not null"`
	Reference string          `gorm:"size:128"`
	Note      string          `gorm:"size:512"`
	PaidAt    time.Time       `gorm:"not null"`
}

func (OrderPaymentPO) TableName() string {
	return "order_payments"
}

// FromOrderDomain Convert domain model to persistence object
// Version is the value the row will hold after this save
func FromOrderDomain(o *order.Order) *OrderPO {
	orderPO := &OrderPO{
		ID:                  o.ID(),
		ClientID:            o.ClientID(),
		Status:              string(o.Status()),
		DeliveryType:        string(o.DeliveryType()),
		DeliveryFee:         o.DeliveryFee().Decimal(),
		DeliveryFeeExplicit: o.DeliveryFeeExplicit(),
		DueDate:             o.DueDate(),
		Notes:               o.Notes(),
		AssessedPenalty:     o.AssessedPenalty().Decimal(),
		SaleID:              o.SaleID(),
		Version:             o.Version() + 1,
		CreatedAt:           o.CreatedAt(),
		UpdatedAt:           o.UpdatedAt(),
		ValidatedAt:         o.ValidatedAt(),
		DeliveredAt:         o.DeliveredAt(),
		CancelledAt:         o.CancelledAt(),
	}
	if o.IsDeleted() {
		orderPO.DeletedAt = gorm.DeletedAt{Time: o.UpdatedAt(), Valid: true}
	}
	return orderPO
}

// FromOrderItems item rows in aggregate order
func FromOrderItems(o *order.Order) []OrderItemPO {
	items := o.Items()
	itemPOs := make([]OrderItemPO, len(items))
	for i, item := range items {
		itemPOs[i] = OrderItemPO{
			ID:          item.ID(),
			OrderID:     o.ID(),
			Position:    i,
			ProductID:   item.ProductID(),
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			UnitPrice:   item.UnitPrice().Decimal(),
		}
	}
	return itemPOs
}

// FromPayments rows for payments starting at ledger position offset
func FromPayments(orderID string, payments []order.Payment, offset int) []OrderPaymentPO {
	rows := make([]OrderPaymentPO, len(payments))
	for i, p := range payments {
		rows[i] = OrderPaymentPO{
			ID:        p.ID(),
			OrderID:   orderID,
			Position:  offset + i,
			Amount:    p.Amount().Decimal(),
			Method:    string(p.Method()),
			Reference: p.Reference(),
			Note:      p.Note(),
			PaidAt:    p.PaidAt(),
		}
	}
	return rows
}

// ToItems rows must be sorted by position
func ToItems(itemPOs []OrderItemPO) []order.Item {
	items := make([]order.Item, len(itemPOs))
	for i, itemPO := range itemPOs {
		items[i] = order.RebuildItemFromDTO(order.ItemReconstructionDTO{
			ID:          itemPO.ID,
			ProductID:   itemPO.ProductID,
			ProductName: itemPO.ProductName,
			Quantity:    itemPO.Quantity,
			UnitPrice:   shared.NewMoney(itemPO.UnitPrice),
		})
	}
	return items
}

// ToPayments rows must be sorted by position
func ToPayments(paymentPOs []OrderPaymentPO) []order.Payment {
	payments := make([]order.Payment, len(paymentPOs))
	for i, p := range paymentPOs {
		payments[i] = order.RebuildPaymentFromDTO(order.PaymentReconstructionDTO{
			ID:        p.ID,
			Amount:    shared.NewMoney(p.Amount),
			Method:    order.PaymentMethod(p.Method),
			Reference: p.Reference,
			Note:      p.Note,
			PaidAt:    p.PaidAt,
		})
	}
	return payments
}

// ToDomain Convert persistence object to domain model
func (po *OrderPO) ToDomain(itemPOs []OrderItemPO, paymentPOs []OrderPaymentPO) *order.Order {
	return order.RebuildFromDTO(order.ReconstructionDTO{
		ID:                  po.ID,
		ClientID:            po.ClientID,
		Items:               ToItems(itemPOs),
		DeliveryType:        order.DeliveryType(po.DeliveryType),
		DeliveryFee:         shared.NewMoney(po.DeliveryFee),
		DeliveryFeeExplicit: po.DeliveryFeeExplicit,
		DueDate:             po.DueDate,
		Notes:               po.Notes,
		Status:              order.Status(po.Status),
		Payments:            ToPayments(paymentPOs),
		AssessedPenalty:     shared.NewMoney(po.AssessedPenalty),
		SaleID:              po.SaleID,
		Version:             po.Version,
		CreatedAt:           po.CreatedAt,
		UpdatedAt:           po.UpdatedAt,
		ValidatedAt:         po.ValidatedAt,
		DeliveredAt:         po.DeliveredAt,
		CancelledAt:         po.CancelledAt,
		Deleted:             po.DeletedAt.Valid,
	})
}
