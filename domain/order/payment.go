package order

import (
	"strings"
	"time"

	"aquadash/domain/shared"
)

// DeliveryType how the order reaches the client
type DeliveryType string

const (
	DeliveryPickup DeliveryType = "pickup"
	DeliveryHome   DeliveryType = "home_delivery"
)

// ParseDeliveryType parses a delivery type name.
func ParseDeliveryType(s string) (DeliveryType, bool) {
	switch dt := DeliveryType(strings.ToLower(strings.TrimSpace(s))); dt {
	case DeliveryPickup, DeliveryHome:
		return dt, true
	}
	return "", false
}

// PaymentMethod means of payment accepted at the counter or on delivery
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodCard         PaymentMethod = "card"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCheque       PaymentMethod = "cheque"
	MethodMobileMoney  PaymentMethod = "mobile_money"
)

// ParsePaymentMethod parses a payment method name.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch m := PaymentMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case MethodCash, MethodCard, MethodBankTransfer, MethodCheque, MethodMobileMoney:
		return m, true
	}
	return "", false
}

// Item Order line - entity within the aggregate (non-aggregate root)
// Items have no global identity and are only reachable through Order
type Item struct {
	id          string
	productID   string
	productName string
	quantity    int
	unitPrice   shared.Money
}

// ItemRequest line item input
type ItemRequest struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   shared.Money
}

func (item Item) ID() string              { return item.id }
func (item Item) ProductID() string       { return item.productID }
func (item Item) ProductName() string     { return item.productName }
func (item Item) Quantity() int           { return item.quantity }
func (item Item) UnitPrice() shared.Money { return item.unitPrice }

// Subtotal quantity × unit price
func (item Item) Subtotal() shared.Money { return item.unitPrice.MultiplyInt(item.quantity) }

// ItemReconstructionDTO Order item reconstruction data transfer object
type ItemReconstructionDTO struct {
	ID          string
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   shared.Money
}

// RebuildItemFromDTO Rebuild Item from DTO
func RebuildItemFromDTO(dto ItemReconstructionDTO) Item {
	return Item{
		id:          dto.ID,
		productID:   dto.ProductID,
		productName: dto.ProductName,
		quantity:    dto.Quantity,
		unitPrice:   dto.UnitPrice,
	}
}

// Payment a single entry of the append-only payment ledger
type Payment struct {
	id        string
	amount    shared.Money
	method    PaymentMethod
	reference string
	note      string
	paidAt    time.Time
}

// PaymentInput payment intent submitted by a caller
type PaymentInput struct {
	Amount    shared.Money
	Method    PaymentMethod
	Reference string
	Note      string
}

func (p Payment) ID() string            { return p.id }
func (p Payment) Amount() shared.Money  { return p.amount }
func (p Payment) Method() PaymentMethod { return p.method }
func (p Payment) Reference() string     { return p.reference }
func (p Payment) Note() string          { return p.note }
func (p Payment) PaidAt() time.Time     { return p.paidAt }

// PaymentReconstructionDTO payment reconstruction data transfer object
type PaymentReconstructionDTO struct {
	ID        string
	Amount    shared.Money
	Method    PaymentMethod
	Reference string
	Note      string
	PaidAt    time.Time
}

// RebuildPaymentFromDTO Rebuild Payment from DTO
func RebuildPaymentFromDTO(dto PaymentReconstructionDTO) Payment {
	return Payment{
		id:        dto.ID,
		amount:    dto.Amount,
		method:    dto.Method,
		reference: dto.Reference,
		note:      dto.Note,
		paidAt:    dto.PaidAt,
	}
}

// NewPayment validates a payment input and stamps it. The policy check is
// done by the caller (order aggregate or direct sale).
func NewPayment(id string, input PaymentInput, at time.Time) (Payment, error) {
	if !input.Amount.IsPositive() {
		return Payment{}, shared.NewValidationError("payment", "amount", "payment amount must be positive")
	}
	if _, ok := ParsePaymentMethod(string(input.Method)); !ok {
		return Payment{}, shared.NewValidationError("payment", "method", "unknown payment method: "+string(input.Method))
	}
	return Payment{
		id:        id,
		amount:    input.Amount,
		method:    input.Method,
		reference: strings.TrimSpace(input.Reference),
		note:      strings.TrimSpace(input.Note),
		paidAt:    at,
	}, nil
}

// SumPayments Σ amount
func SumPayments(payments []Payment) shared.Money {
	total := shared.ZeroMoney()
	for _, p := range payments {
		total = total.Add(p.amount)
	}
	return total
}
