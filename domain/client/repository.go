package client

import "context"

// Repository Client read repository
// Clients are owned by another context; the order context only reads them
type Repository interface {
	// FindByID Find client by ID, ErrClientNotFound when absent
	FindByID(ctx context.Context, id string) (*Client, error)
}
