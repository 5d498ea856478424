package mysql

import (
	"context"
	"errors"

	"aquadash/domain/order"
	"aquadash/domain/shared"
	"aquadash/infrastructure/persistence"
	"aquadash/infrastructure/persistence/mysql/po"
	"aquadash/infrastructure/persistence/specification"

	"gorm.io/gorm"
)

// OrderRepository MySQL/GORM implementation of order repository
// DDD principle: Repository is only responsible for persistence of aggregate roots, not event publishing
// GORM usage specification: Association features are prohibited to maintain DDD aggregate boundaries
type OrderRepository struct {
	db         *gorm.DB
	translator *specification.OrderTranslator
}

// NewOrderRepository Create order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{
		db:         db,
		translator: specification.NewOrderTranslator(),
	}
}

// getDB returns the transaction from context if available, otherwise the default db
func (r *OrderRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Save inserts new orders and updates loaded ones under a version check
// When called within UoW.Execute(), it uses the transaction from context
// When called standalone, it creates its own transaction for atomicity
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return r.saveWithTx(tx, o)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveWithTx(tx, o)
	})
}

func (r *OrderRepository) saveWithTx(tx *gorm.DB, o *order.Order) error {
	orderPO := po.FromOrderDomain(o)

	if o.IsNew() {
		if err := tx.Create(orderPO).Error; err != nil {
			return err
		}
	} else {
		result := tx.Model(&po.OrderPO{}).
			Where("id = ? AND version = ?", o.ID(), o.Version()).
			Select("*").
			Omit("id", "created_at").
			Updates(orderPO)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return order.NewConcurrentModificationError(o.ID())
		}
	}

	// Items: simple strategy, delete then insert when the set changed
	if o.IsNew() || o.ItemsDirty() {
		if err := tx.Where("order_id = ?", o.ID()).Delete(&po.OrderItemPO{}).Error; err != nil {
			return err
		}
		if itemPOs := po.FromOrderItems(o); len(itemPOs) > 0 {
			if err := tx.Create(&itemPOs).Error; err != nil {
				return err
			}
		}
	}

	// Payments: append-only ledger
	newPayments := o.NewPayments()
	offset := len(o.Payments()) - len(newPayments)
	if o.IsNew() {
		newPayments, offset = o.Payments(), 0
	}
	if len(newPayments) > 0 {
		rows := po.FromPayments(o.ID(), newPayments, offset)
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
	}

	o.IncrementVersionForSave()
	o.ClearDirtyTracking()
	return nil
}

// FindByID Find order by ID; soft-deleted rows are excluded by gorm
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	db := r.getDB(ctx)

	var orderPO po.OrderPO
	if err := db.First(&orderPO, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.NewOrderNotFoundError(id)
		}
		return nil, err
	}

	orders, err := r.hydrate(db, []po.OrderPO{orderPO})
	if err != nil {
		return nil, err
	}
	return orders[0], nil
}

func (r *OrderRepository) FindByClientID(ctx context.Context, clientID string) ([]*order.Order, error) {
	return r.FindBySpecification(ctx, order.NewByClientIDSpecification(clientID))
}

// FindBySpecification pushes translatable specifications down to SQL and
// filters the rest in memory
func (r *OrderRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*order.Order]) ([]*order.Order, error) {
	db := r.getDB(ctx)
	query := db.Model(&po.OrderPO{})

	scope, translated := r.translator.Translate(spec)
	if translated {
		query = query.Scopes(scope)
	}

	var orderPOs []po.OrderPO
	if err := query.Order("created_at DESC, id DESC").Find(&orderPOs).Error; err != nil {
		return nil, err
	}

	orders, err := r.hydrate(db, orderPOs)
	if err != nil {
		return nil, err
	}
	if translated || spec == nil {
		return orders, nil
	}

	filtered := make([]*order.Order, 0, len(orders))
	for _, o := range orders {
		if spec.IsSatisfiedBy(ctx, o) {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}

// hydrate loads items and payments for a page of orders in two queries
// Preload is not used to keep aggregate boundaries explicit
func (r *OrderRepository) hydrate(db *gorm.DB, orderPOs []po.OrderPO) ([]*order.Order, error) {
	if len(orderPOs) == 0 {
		return []*order.Order{}, nil
	}

	ids := make([]string, len(orderPOs))
	for i, o := range orderPOs {
		ids[i] = o.ID
	}

	var itemPOs []po.OrderItemPO
	if err := db.Where("order_id IN ?", ids).Order("position ASC").Find(&itemPOs).Error; err != nil {
		return nil, err
	}
	var paymentPOs []po.OrderPaymentPO
	if err := db.Where("order_id IN ?", ids).Order("position ASC").Find(&paymentPOs).Error; err != nil {
		return nil, err
	}

	itemsByOrder := make(map[string][]po.OrderItemPO, len(orderPOs))
	for _, item := range itemPOs {
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}
	paymentsByOrder := make(map[string][]po.OrderPaymentPO, len(orderPOs))
	for _, p := range paymentPOs {
		paymentsByOrder[p.OrderID] = append(paymentsByOrder[p.OrderID], p)
	}

	orders := make([]*order.Order, len(orderPOs))
	for i := range orderPOs {
		orders[i] = orderPOs[i].ToDomain(itemsByOrder[orderPOs[i].ID], paymentsByOrder[orderPOs[i].ID])
	}
	return orders, nil
}

// Remove Logical deletion; the aggregate must already be marked deleted
// DDD principle: Logical deletion is recommended over physical deletion to preserve business history
func (r *OrderRepository) Remove(ctx context.Context, o *order.Order) error {
	if !o.IsDeleted() {
		return shared.NewInvalidStateError("order", "order "+o.ID()+" is not marked deleted")
	}
	return r.Save(ctx, o)
}

// Compile-time interface implementation check
var _ order.Repository = (*OrderRepository)(nil)
