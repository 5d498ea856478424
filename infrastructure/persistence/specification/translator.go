/*
Package specification translates domain specifications into GORM scopes.

Only specifications with a known column mapping are translated; when any
part of a composite is unknown, Translate reports false and the repository
falls back to evaluating IsSatisfiedBy in memory.
*/
package specification

import (
	"aquadash/domain/order"
	"aquadash/domain/shared"

	"gorm.io/gorm"
)

// Scope narrows a query
type Scope func(*gorm.DB) *gorm.DB

// OrderTranslator maps order specifications onto the orders table
type OrderTranslator struct{}

func NewOrderTranslator() *OrderTranslator {
	return &OrderTranslator{}
}

// Translate returns the scope for spec, or false when spec has no SQL form
func (t *OrderTranslator) Translate(spec shared.Specification[*order.Order]) (Scope, bool) {
	if spec == nil {
		return nil, false
	}

	switch s := spec.(type) {
	case shared.AndSpecification[*order.Order]:
		return t.translateAnd(s)
	case shared.OrSpecification[*order.Order]:
		return t.translateOr(s)
	case shared.NotSpecification[*order.Order]:
		return t.translateNot(s)
	}

	return t.translateConcrete(spec)
}

func (t *OrderTranslator) translateAnd(spec shared.AndSpecification[*order.Order]) (Scope, bool) {
	left, ok := t.Translate(spec.Left)
	if !ok {
		return nil, false
	}
	right, ok := t.Translate(spec.Right)
	if !ok {
		return nil, false
	}
	return func(db *gorm.DB) *gorm.DB {
		return right(left(db))
	}, true
}

func (t *OrderTranslator) translateOr(spec shared.OrSpecification[*order.Order]) (Scope, bool) {
	left, ok := t.Translate(spec.Left)
	if !ok {
		return nil, false
	}
	right, ok := t.Translate(spec.Right)
	if !ok {
		return nil, false
	}
	return func(db *gorm.DB) *gorm.DB {
		l := left(db.Session(&gorm.Session{NewDB: true}))
		r := right(db.Session(&gorm.Session{NewDB: true}))
		return db.Where(l.Or(r))
	}, true
}

func (t *OrderTranslator) translateNot(spec shared.NotSpecification[*order.Order]) (Scope, bool) {
	inner, ok := t.Translate(spec.Spec)
	if !ok {
		return nil, false
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Not(inner(db.Session(&gorm.Session{NewDB: true})))
	}, true
}

func (t *OrderTranslator) translateConcrete(spec shared.Specification[*order.Order]) (Scope, bool) {
	switch s := spec.(type) {
	case order.ByClientIDSpecification:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("client_id = ?", s.ClientID)
		}, true
	case order.ByStatusSpecification:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", string(s.Status))
		}, true
	case order.ByDateRangeSpecification:
		return func(db *gorm.DB) *gorm.DB {
			if !s.Start.IsZero() {
				db = db.Where("created_at >= ?", s.Start)
			}
			if !s.End.IsZero() {
				db = db.Where("created_at <= ?", s.End)
			}
			return db
		}, true
	case order.UnconvertedSpecification:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("sale_id = ?", "")
		}, true
	}

	return nil, false
}
