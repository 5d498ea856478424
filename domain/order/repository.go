package order

import (
	"context"

	"aquadash/domain/shared"
)

// Repository Order repository interface
type Repository interface {
	// Save Save or update order aggregate root
	// New aggregates are inserted; loaded ones are updated under an optimistic version check
	// Repository only handles persistence, events collected by UoW
	Save(ctx context.Context, order *Order) error

	// FindByID Find order aggregate root by ID; deleted orders are not found
	FindByID(ctx context.Context, id string) (*Order, error)

	// FindByClientID Find a client's orders, newest first
	FindByClientID(ctx context.Context, clientID string) ([]*Order, error)

	// FindBySpecification Find orders matching spec, newest first
	FindBySpecification(ctx context.Context, spec shared.Specification[*Order]) ([]*Order, error)

	// Remove Logically delete order aggregate root
	Remove(ctx context.Context, order *Order) error
}
