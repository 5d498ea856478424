package sale

import (
	"context"
	"errors"

	"aquadash/domain/shared"
)

var (
	ErrSaleNotFound = errors.New("sale not found")

	// ErrSaleAlreadyExists 同一订单已存在销售（sales.order_id 唯一）
	ErrSaleAlreadyExists = errors.New("sale already exists for order")
)

func NewSaleNotFoundError(key string) error {
	return shared.NewDomainError(ErrSaleNotFound, "sale", "sale not found: "+key)
}

func NewSaleAlreadyExistsError(orderID string) error {
	return shared.NewDomainError(ErrSaleAlreadyExists, "sale", "sale already exists for order "+orderID)
}

// Repository Sale repository interface
// Sales are immutable: Save only inserts
type Repository interface {
	// Save Insert a sale; ErrSaleAlreadyExists when the order already has one
	Save(ctx context.Context, s *Sale) error

	FindByID(ctx context.Context, id string) (*Sale, error)

	// FindByOrderID Find the sale produced by an order
	FindByOrderID(ctx context.Context, orderID string) (*Sale, error)

	// FindByClientID Find a client's sales, newest first
	FindByClientID(ctx context.Context, clientID string) ([]*Sale, error)
}
