/*
Package order Order subdomain - core of the order & payment lifecycle

The package holds:
- Order aggregate root: line items, delivery configuration, due date, notes
  and the append-only payment ledger
- Payment Policy: pure functions deciding totals, penalties and payment acceptance
- Status state machine: the single transition table
- Domain events and repository port

DDD Core Principles:
1. Domain layer does not depend on any other layer (pure business logic)
2. All fields are private, behavior exposed through methods
3. Business rules encapsulated within entities and value objects
*/
package order

import (
	"fmt"
	"strings"
	"time"

	"aquadash/domain/shared"

	"github.com/google/uuid"
)

// Order Order aggregate root
// All modifications to Order, its items and its payments go through the aggregate root
type Order struct {
	id                  string
	clientID            string
	items               []Item
	deliveryType        DeliveryType
	deliveryFee         shared.Money
	deliveryFeeExplicit bool
	dueDate             *time.Time
	notes               string
	status              Status
	payments            []Payment
	assessedPenalty     shared.Money
	saleID              string
	version             int // Optimistic lock version number for concurrency control
	createdAt           time.Time
	updatedAt           time.Time
	validatedAt         *time.Time
	deliveredAt         *time.Time
	cancelledAt         *time.Time
	deleted             bool

	// Domain event list for recording events within the aggregate
	events []shared.DomainEvent

	// Dirty tracking for efficient persistence
	itemsDirty  bool      // item set changed since load; repository rewrites order_items
	newPayments []Payment // payments appended since load; repository inserts them
	isNew       bool      // True if this aggregate was newly created (not loaded from DB)
}

// CreateParams Create order options
type CreateParams struct {
	ClientID     string
	Items        []ItemRequest
	DeliveryType DeliveryType
	// DeliveryFee explicit fee override for home delivery; nil means default ratio
	DeliveryFee *shared.Money
	DueDate     *time.Time
	Notes       string
}

// DetailsUpdate fields editable outside the pending window
type DetailsUpdate struct {
	Notes        *string
	DueDate      *time.Time
	ClearDueDate bool
}

// ============================================================================
// Factory Methods - Creating Aggregate Roots
// ============================================================================

// NewOrder Create new Order aggregate root in pending status
func NewOrder(params CreateParams, policy Policy, now time.Time) (*Order, error) {
	clientID := strings.TrimSpace(params.ClientID)
	if clientID == "" {
		return nil, shared.NewValidationError("order", "client_id", "client is required")
	}

	if len(params.Items) == 0 {
		return nil, shared.NewValidationError("order", "items", "order must contain at least one item")
	}

	deliveryType, ok := ParseDeliveryType(string(params.DeliveryType))
	if !ok {
		return nil, shared.NewValidationError("order", "delivery_type", "unknown delivery type: "+string(params.DeliveryType))
	}

	if params.DeliveryFee != nil && params.DeliveryFee.IsNegative() {
		return nil, shared.NewValidationError("order", "delivery_fee", "delivery fee cannot be negative")
	}

	items := make([]Item, 0, len(params.Items))
	for _, req := range params.Items {
		item, err := NewItem(req)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	orderID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate order ID: %w", err)
	}

	o := &Order{
		id:              orderID.String(),
		clientID:        clientID,
		items:           items,
		notes:           strings.TrimSpace(params.Notes),
		status:          StatusPending,
		assessedPenalty: shared.ZeroMoney(),
		version:         0,
		createdAt:       now,
		updatedAt:       now,
		events:          make([]shared.DomainEvent, 0),
		isNew:           true,
	}
	o.applyDelivery(policy, deliveryType, params.DeliveryFee)

	if params.DueDate != nil {
		d := NormalizeDueDate(*params.DueDate)
		o.dueDate = &d
	}

	o.events = append(o.events, NewOrderCreatedEvent(o.id, o.clientID, o.BaseTotal(), now))

	return o, nil
}

// NewItem validates a line item request and assigns it an ID
func NewItem(req ItemRequest) (Item, error) {
	if strings.TrimSpace(req.ProductID) == "" {
		return Item{}, shared.NewValidationError("order_item", "product_id", "product is required")
	}
	if req.Quantity <= 0 {
		return Item{}, shared.NewValidationError("order_item", "quantity", "quantity must be positive")
	}
	if req.UnitPrice.IsNegative() {
		return Item{}, shared.NewValidationError("order_item", "unit_price", "unit price cannot be negative")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return Item{}, fmt.Errorf("failed to generate order item ID: %w", err)
	}

	return Item{
		id:          id.String(),
		productID:   strings.TrimSpace(req.ProductID),
		productName: strings.TrimSpace(req.ProductName),
		quantity:    req.Quantity,
		unitPrice:   req.UnitPrice,
	}, nil
}

// applyDelivery fixes the delivery fee at configuration time.
func (o *Order) applyDelivery(policy Policy, deliveryType DeliveryType, explicit *shared.Money) {
	o.deliveryType = deliveryType
	o.deliveryFeeExplicit = explicit != nil && deliveryType == DeliveryHome
	o.deliveryFee = policy.DeliveryFee(deliveryType, ProductsTotal(o.items), explicit)
}

// ============================================================================
// ReconstructionDTO - For Repository Layer Use Only
// ============================================================================

// ReconstructionDTO Order reconstruction data transfer object
// ⚠️ Note: This DTO should only be used in repository implementation, not called from application layer
type ReconstructionDTO struct {
	ID                  string
	ClientID            string
	Items               []Item
	DeliveryType        DeliveryType
	DeliveryFee         shared.Money
	DeliveryFeeExplicit bool
	DueDate             *time.Time
	Notes               string
	Status              Status
	Payments            []Payment
	AssessedPenalty     shared.Money
	SaleID              string
	Version             int
	CreatedAt           time.Time
	UpdatedAt           time.Time
	ValidatedAt         *time.Time
	DeliveredAt         *time.Time
	CancelledAt         *time.Time
	Deleted             bool
}

// RebuildFromDTO Reconstruct Order aggregate root from DTO
// ⚠️ Note: This method should only be used in repository implementation, not called from application layer
func RebuildFromDTO(dto ReconstructionDTO) *Order {
	return &Order{
		id:                  dto.ID,
		clientID:            dto.ClientID,
		items:               dto.Items,
		deliveryType:        dto.DeliveryType,
		deliveryFee:         dto.DeliveryFee,
		deliveryFeeExplicit: dto.DeliveryFeeExplicit,
		dueDate:             dto.DueDate,
		notes:               dto.Notes,
		status:              dto.Status,
		payments:            dto.Payments,
		assessedPenalty:     dto.AssessedPenalty,
		saleID:              dto.SaleID,
		version:             dto.Version,
		createdAt:           dto.CreatedAt,
		updatedAt:           dto.UpdatedAt,
		validatedAt:         dto.ValidatedAt,
		deliveredAt:         dto.DeliveredAt,
		cancelledAt:         dto.CancelledAt,
		deleted:             dto.Deleted,
		events:              nil,
		isNew:               false,
	}
}

// ============================================================================
// Item Editing - pending only
// ============================================================================

// AddItem Add order item through aggregate root
func (o *Order) AddItem(req ItemRequest, now time.Time) (Item, error) {
	if !o.status.AllowsItemEdits() {
		return Item{}, NewInvalidStateError(o.status, "add items")
	}

	item, err := NewItem(req)
	if err != nil {
		return Item{}, err
	}

	o.items = append(o.items, item)
	o.touchItems(now, "added", item.id)

	return item, nil
}

// RemoveItem Remove order item through aggregate root
func (o *Order) RemoveItem(itemID string, now time.Time) error {
	if !o.status.AllowsItemEdits() {
		return NewInvalidStateError(o.status, "remove items")
	}

	idx := o.indexOfItem(itemID)
	if idx < 0 {
		return NewItemNotFoundError(itemID)
	}

	remaining := make([]Item, 0, len(o.items)-1)
	remaining = append(remaining, o.items[:idx]...)
	remaining = append(remaining, o.items[idx+1:]...)

	if err := o.checkBaseCoversPaid(ProductsTotal(remaining), o.deliveryFee); err != nil {
		return err
	}

	o.items = remaining
	o.touchItems(now, "removed", itemID)

	return nil
}

// SetQuantity Change an item quantity through aggregate root
func (o *Order) SetQuantity(itemID string, quantity int, now time.Time) error {
	if !o.status.AllowsItemEdits() {
		return NewInvalidStateError(o.status, "change item quantity")
	}

	if quantity <= 0 {
		return shared.NewValidationError("order_item", "quantity", "quantity must be positive")
	}

	idx := o.indexOfItem(itemID)
	if idx < 0 {
		return NewItemNotFoundError(itemID)
	}

	updated := make([]Item, len(o.items))
	copy(updated, o.items)
	updated[idx].quantity = quantity

	if err := o.checkBaseCoversPaid(ProductsTotal(updated), o.deliveryFee); err != nil {
		return err
	}

	o.items = updated
	o.touchItems(now, "quantity_changed", itemID)

	return nil
}

// ChangeDelivery Change delivery type and fee; the fee is recomputed here and only here
func (o *Order) ChangeDelivery(policy Policy, deliveryType DeliveryType, explicitFee *shared.Money, now time.Time) error {
	if !o.status.AllowsItemEdits() {
		return NewInvalidStateError(o.status, "change delivery")
	}

	dt, ok := ParseDeliveryType(string(deliveryType))
	if !ok {
		return shared.NewValidationError("order", "delivery_type", "unknown delivery type: "+string(deliveryType))
	}
	if explicitFee != nil && explicitFee.IsNegative() {
		return shared.NewValidationError("order", "delivery_fee", "delivery fee cannot be negative")
	}

	fee := policy.DeliveryFee(dt, o.ProductsTotal(), explicitFee)
	if err := o.checkBaseCoversPaid(o.ProductsTotal(), fee); err != nil {
		return err
	}

	o.applyDelivery(policy, dt, explicitFee)
	o.updatedAt = now
	o.events = append(o.events, NewOrderItemChangedEvent(o.id, "delivery_changed", "", o.BaseTotal(), now))

	return nil
}

// UpdateDetails Edit notes and due date, allowed in every state but cancelled
func (o *Order) UpdateDetails(update DetailsUpdate, now time.Time) error {
	if !o.status.AllowsDetailEdits() {
		return NewInvalidStateError(o.status, "edit order details")
	}

	if update.Notes != nil {
		o.notes = strings.TrimSpace(*update.Notes)
	}

	switch {
	case update.ClearDueDate:
		o.dueDate = nil
	case update.DueDate != nil:
		d := NormalizeDueDate(*update.DueDate)
		o.dueDate = &d
	}

	o.updatedAt = now
	return nil
}

func (o *Order) indexOfItem(itemID string) int {
	for i, item := range o.items {
		if item.id == itemID {
			return i
		}
	}
	return -1
}

// checkBaseCoversPaid an edit must not leave the client having paid more than the order is worth.
func (o *Order) checkBaseCoversPaid(productsTotal, fee shared.Money) error {
	base := productsTotal.Add(fee).Add(o.assessedPenalty)
	if o.AmountPaid().ExceedsBy(base, shared.Epsilon) {
		return shared.NewValidationError("order", "items",
			"order total "+base.String()+" would fall below the amount already paid "+o.AmountPaid().String())
	}
	return nil
}

func (o *Order) touchItems(now time.Time, change, itemID string) {
	o.itemsDirty = true
	o.updatedAt = now
	o.events = append(o.events, NewOrderItemChangedEvent(o.id, change, itemID, o.BaseTotal(), now))
}

// ============================================================================
// Payments
// ============================================================================

// RecordPayment Accept a payment after the policy check and append it to the ledger.
// A payment accepted while overdue crystallises the accrued penalty, so the
// penalty stays part of the total due after it has been paid.
func (o *Order) RecordPayment(policy Policy, input PaymentInput, now time.Time) (Payment, error) {
	if !o.status.AllowsPayments() {
		return Payment{}, NewInvalidStateError(o.status, "record a payment")
	}
	if o.saleID != "" {
		return Payment{}, shared.NewInvalidStateError("order", "order "+o.id+" is already converted to a sale")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return Payment{}, fmt.Errorf("failed to generate payment ID: %w", err)
	}

	payment, err := NewPayment(id.String(), input, now)
	if err != nil {
		return Payment{}, err
	}

	due := o.Due(policy, now)
	if err := policy.CheckPayment(due, payment.amount); err != nil {
		return Payment{}, err
	}

	if due.IsOverdue {
		o.assessedPenalty = due.Penalty
	}

	o.payments = append(o.payments, payment)
	if !o.isNew {
		o.newPayments = append(o.newPayments, payment)
	}
	o.updatedAt = now

	after := o.Due(policy, now)
	o.events = append(o.events, NewPaymentRecordedEvent(o.id, payment, after.AmountPaid, after.Remaining, after.FullyPaid, now))

	return payment, nil
}

// ============================================================================
// State Change Methods - Domain Behavior
// ============================================================================

// ChangeStatus Move the order along the transition table
func (o *Order) ChangeStatus(target Status, reason string, now time.Time) error {
	if !CanTransition(o.status, target) {
		return NewIllegalTransitionError(o.status, target)
	}

	if target == StatusValidated && len(o.items) == 0 {
		return shared.NewValidationError("order", "items", "cannot validate an order without items")
	}

	from := o.status
	o.status = target
	o.updatedAt = now

	switch target {
	case StatusValidated:
		o.validatedAt = &now
	case StatusDelivered:
		o.deliveredAt = &now
	case StatusCancelled:
		o.cancelledAt = &now
	}

	o.events = append(o.events, NewOrderStatusChangedEvent(o.id, from, target, now))
	if target == StatusCancelled {
		o.events = append(o.events, NewOrderCancelledEvent(o.id, strings.TrimSpace(reason), now))
	}

	return nil
}

// MarkDeleted Logically delete the order, pending only
func (o *Order) MarkDeleted(now time.Time) error {
	if o.status != StatusPending {
		return NewInvalidStateError(o.status, "delete the order")
	}

	o.deleted = true
	o.updatedAt = now
	o.events = append(o.events, NewOrderDeletedEvent(o.id, now))

	return nil
}

// ReadyForConversion delivered, fully paid and not yet converted
func (o *Order) ReadyForConversion(policy Policy, now time.Time) bool {
	return o.status == StatusDelivered && o.saleID == "" && o.Due(policy, now).FullyPaid
}

// MarkConverted Record the sale the order was converted to
func (o *Order) MarkConverted(saleID string, now time.Time) error {
	if o.saleID != "" {
		return shared.NewConflictError("order", "order "+o.id+" is already converted to sale "+o.saleID)
	}

	o.saleID = saleID
	o.updatedAt = now
	o.events = append(o.events, NewOrderConvertedEvent(o.id, saleID, now))

	return nil
}

// IncrementVersionForSave Increments the version after successful persistence
func (o *Order) IncrementVersionForSave() {
	o.version++
}

// ============================================================================
// Derived Values
// ============================================================================

// Snapshot read-only view consumed by the Payment Policy
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ProductsTotal:   o.ProductsTotal(),
		DeliveryFee:     o.deliveryFee,
		DueDate:         o.dueDate,
		AmountPaid:      o.AmountPaid(),
		AssessedPenalty: o.assessedPenalty,
		PaymentCount:    len(o.payments),
	}
}

// Due balance projection as of now
func (o *Order) Due(policy Policy, now time.Time) Due {
	return policy.Evaluate(o.Snapshot(), now)
}

func (o *Order) ProductsTotal() shared.Money { return ProductsTotal(o.items) }
func (o *Order) BaseTotal() shared.Money     { return o.ProductsTotal().Add(o.deliveryFee) }
func (o *Order) AmountPaid() shared.Money    { return SumPayments(o.payments) }

// ============================================================================
// Getters - Read-only Accessors
// ============================================================================

func (o *Order) ID() string                    { return o.id }
func (o *Order) ClientID() string              { return o.clientID }
func (o *Order) DeliveryType() DeliveryType    { return o.deliveryType }
func (o *Order) DeliveryFee() shared.Money     { return o.deliveryFee }
func (o *Order) DeliveryFeeExplicit() bool     { return o.deliveryFeeExplicit }
func (o *Order) Notes() string                 { return o.notes }
func (o *Order) Status() Status                { return o.status }
func (o *Order) AssessedPenalty() shared.Money { return o.assessedPenalty }
func (o *Order) SaleID() string                { return o.saleID }
func (o *Order) IsConverted() bool             { return o.saleID != "" }
func (o *Order) IsDeleted() bool               { return o.deleted }
func (o *Order) Version() int                  { return o.version }
func (o *Order) CreatedAt() time.Time          { return o.createdAt }
func (o *Order) UpdatedAt() time.Time          { return o.updatedAt }
func (o *Order) ValidatedAt() *time.Time       { return o.validatedAt }
func (o *Order) DeliveredAt() *time.Time       { return o.deliveredAt }
func (o *Order) CancelledAt() *time.Time       { return o.cancelledAt }

// DueDate returns a copy of the due date, nil when unset
func (o *Order) DueDate() *time.Time {
	if o.dueDate == nil {
		return nil
	}
	d := *o.dueDate
	return &d
}

// Items Return copy of order items
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

// Payments Return copy of the payment ledger
func (o *Order) Payments() []Payment {
	payments := make([]Payment, len(o.payments))
	copy(payments, o.payments)
	return payments
}

// ============================================================================
// Dirty Tracking - For Repository Layer Use Only
// ============================================================================

// IsNew Returns true if this aggregate was newly created (not loaded from DB)
func (o *Order) IsNew() bool { return o.isNew }

// ItemsDirty Repository should rewrite the item rows
func (o *Order) ItemsDirty() bool { return o.itemsDirty }

// NewPayments Returns payments appended since the aggregate was loaded
func (o *Order) NewPayments() []Payment {
	payments := make([]Payment, len(o.newPayments))
	copy(payments, o.newPayments)
	return payments
}

// ClearDirtyTracking Clears all dirty tracking state after successful save
func (o *Order) ClearDirtyTracking() {
	o.itemsDirty = false
	o.newPayments = nil
	o.isNew = false
}

// PullEvents Get and clear aggregate root's event list
func (o *Order) PullEvents() []shared.DomainEvent {
	events := make([]shared.DomainEvent, len(o.events))
	copy(events, o.events)
	o.events = make([]shared.DomainEvent, 0)
	return events
}

// Compile-time check that Order implements AggregateRoot interface
var _ shared.AggregateRoot = (*Order)(nil)
