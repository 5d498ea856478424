/*
Package client Application Layer - client lookups

Clients are maintained elsewhere; the back-office only reads them to show
who an order belongs to and whether new orders can be taken for them.
*/
package client

import (
	"context"
	"time"

	"aquadash/domain/client"
)

// ApplicationService Client application service
type ApplicationService struct {
	clientRepo client.Repository
}

// NewApplicationService Create client application service
func NewApplicationService(clientRepo client.Repository) *ApplicationService {
	return &ApplicationService{clientRepo: clientRepo}
}

// ClientResponse Client response DTO
type ClientResponse struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Contact     string    `json:"contact,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	Address     string    `json:"address,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GetClient Get client information
func (s *ApplicationService) GetClient(ctx context.Context, clientID string) (*ClientResponse, error) {
	c, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return toClientResponse(c), nil
}

func toClientResponse(c *client.Client) *ClientResponse {
	return &ClientResponse{
		ID:          c.ID(),
		DisplayName: c.DisplayName(),
		Contact:     c.Contact(),
		Phone:       c.Phone(),
		Email:       c.Email(),
		Address:     c.Address(),
		IsActive:    c.IsActive(),
		CreatedAt:   c.CreatedAt(),
		UpdatedAt:   c.UpdatedAt(),
	}
}
