/*
Domain Service

Core principle: Domain service only reads, does not write
*/
package client

import (
	"context"
	"errors"
)

// DomainService Client domain service
type DomainService struct {
	clientRepository Repository
}

// NewDomainService Create client domain service
func NewDomainService(clientRepo Repository) *DomainService {
	return &DomainService{
		clientRepository: clientRepo,
	}
}

// IsClientActive satisfies order.ClientChecker
// Unknown clients are reported as an error, inactive ones as false
func (s *DomainService) IsClientActive(ctx context.Context, clientID string) (bool, error) {
	c, err := s.clientRepository.FindByID(ctx, clientID)
	if err != nil {
		return false, err
	}
	return c.IsActive(), nil
}

// IsNotFound reports whether err means the client does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, ErrClientNotFound)
}
