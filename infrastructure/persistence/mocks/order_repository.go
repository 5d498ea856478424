package mocks

import (
	"context"
	"sort"
	"sync"

	"aquadash/domain/order"
	"aquadash/domain/shared"
)

// MockOrderRepository in-memory order repository
// Orders are stored as reconstruction snapshots so every load returns an
// independent aggregate and the version check behaves like the SQL one.
type MockOrderRepository struct {
	orders map[string]order.ReconstructionDTO
	mu     sync.RWMutex
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]order.ReconstructionDTO),
	}
}

// snapshotOrder copies every persisted field of the aggregate
func snapshotOrder(o *order.Order) order.ReconstructionDTO {
	return order.ReconstructionDTO{
		ID:                  o.ID(),
		ClientID:            o.ClientID(),
		Items:               o.Items(),
		DeliveryType:        o.DeliveryType(),
		DeliveryFee:         o.DeliveryFee(),
		DeliveryFeeExplicit: o.DeliveryFeeExplicit(),
		DueDate:             o.DueDate(),
		Notes:               o.Notes(),
		Status:              o.Status(),
		Payments:            o.Payments(),
		AssessedPenalty:     o.AssessedPenalty(),
		SaleID:              o.SaleID(),
		Version:             o.Version(),
		CreatedAt:           o.CreatedAt(),
		UpdatedAt:           o.UpdatedAt(),
		ValidatedAt:         copyTime(o.ValidatedAt()),
		DeliveredAt:         copyTime(o.DeliveredAt()),
		CancelledAt:         copyTime(o.CancelledAt()),
		Deleted:             o.IsDeleted(),
	}
}

func (r *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.orders[o.ID()]
	if o.IsNew() {
		if exists {
			return shared.NewConflictError("order", "order "+o.ID()+" already exists")
		}
	} else if !exists || existing.Version != o.Version() {
		return order.NewConcurrentModificationError(o.ID())
	}

	dto := snapshotOrder(o)
	dto.Version = o.Version() + 1
	r.orders[o.ID()] = dto

	o.IncrementVersionForSave()
	o.ClearDirtyTracking()
	return nil
}

func (r *MockOrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dto, exists := r.orders[id]
	if !exists || dto.Deleted {
		return nil, order.NewOrderNotFoundError(id)
	}
	return rebuildOrder(dto), nil
}

func (r *MockOrderRepository) FindByClientID(ctx context.Context, clientID string) ([]*order.Order, error) {
	return r.FindBySpecification(ctx, order.NewByClientIDSpecification(clientID))
}

func (r *MockOrderRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*order.Order]) ([]*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]*order.Order, 0)
	for _, dto := range r.orders {
		if dto.Deleted {
			continue
		}
		o := rebuildOrder(dto)
		if spec.IsSatisfiedBy(ctx, o) {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt().Equal(orders[j].CreatedAt()) {
			return orders[i].ID() > orders[j].ID()
		}
		return orders[i].CreatedAt().After(orders[j].CreatedAt())
	})
	return orders, nil
}

// Remove Logical deletion; o must already be marked deleted
func (r *MockOrderRepository) Remove(ctx context.Context, o *order.Order) error {
	return r.Save(ctx, o)
}

func rebuildOrder(dto order.ReconstructionDTO) *order.Order {
	dto.Items = append([]order.Item(nil), dto.Items...)
	dto.Payments = append([]order.Payment(nil), dto.Payments...)
	dto.DueDate = copyTime(dto.DueDate)
	dto.ValidatedAt = copyTime(dto.ValidatedAt)
	dto.DeliveredAt = copyTime(dto.DeliveredAt)
	dto.CancelledAt = copyTime(dto.CancelledAt)
	return order.RebuildFromDTO(dto)
}

var _ order.Repository = (*MockOrderRepository)(nil)
