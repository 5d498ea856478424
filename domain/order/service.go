package order

import (
	"context"

	"aquadash/domain/shared"
)

// ClientChecker Client status checker interface
// Used to break circular dependency between order and client packages
type ClientChecker interface {
	IsClientActive(ctx context.Context, clientID string) (bool, error)
}

// DomainService Order domain service
// DDD principle: Domain service can use Repository interfaces to query data but does not call Save for persistence
type DomainService struct {
	clientChecker ClientChecker
}

// NewDomainService Create order domain service
func NewDomainService(clientChecker ClientChecker) *DomainService {
	return &DomainService{clientChecker: clientChecker}
}

// CanPlaceOrder Check the client exists and is active before an order is created for it
func (s *DomainService) CanPlaceOrder(ctx context.Context, clientID string) error {
	active, err := s.clientChecker.IsClientActive(ctx, clientID)
	if err != nil {
		return err
	}
	if !active {
		return shared.NewValidationError("order", "client_id", "client "+clientID+" is not active")
	}
	return nil
}
