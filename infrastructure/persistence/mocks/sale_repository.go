package mocks

import (
	"context"
	"sort"
	"sync"

	"aquadash/domain/order"
	"aquadash/domain/sale"
)

// MockSaleRepository in-memory sale repository, one sale per order
type MockSaleRepository struct {
	sales   map[string]sale.ReconstructionDTO
	byOrder map[string]string
	mu      sync.RWMutex
}

func NewMockSaleRepository() *MockSaleRepository {
	return &MockSaleRepository{
		sales:   make(map[string]sale.ReconstructionDTO),
		byOrder: make(map[string]string),
	}
}

func (r *MockSaleRepository) Save(ctx context.Context, s *sale.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.OrderID() != "" {
		if _, exists := r.byOrder[s.OrderID()]; exists {
			return sale.NewSaleAlreadyExistsError(s.OrderID())
		}
		r.byOrder[s.OrderID()] = s.ID()
	}

	r.sales[s.ID()] = sale.ReconstructionDTO{
		ID:           s.ID(),
		OrderID:      s.OrderID(),
		Origin:       s.Origin(),
		ClientID:     s.ClientID(),
		Items:        s.Items(),
		DeliveryType: s.DeliveryType(),
		DeliveryFee:  s.DeliveryFee(),
		Penalty:      s.Penalty(),
		TotalAmount:  s.TotalAmount(),
		Payments:     s.Payments(),
		Notes:        s.Notes(),
		ConvertedAt:  s.ConvertedAt(),
		Version:      s.Version() + 1,
	}
	return nil
}

func (r *MockSaleRepository) FindByID(ctx context.Context, id string) (*sale.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dto, exists := r.sales[id]
	if !exists {
		return nil, sale.NewSaleNotFoundError(id)
	}
	return rebuildSale(dto), nil
}

func (r *MockSaleRepository) FindByOrderID(ctx context.Context, orderID string) (*sale.Sale, error) {
	r.mu.RLock()
	id, exists := r.byOrder[orderID]
	r.mu.RUnlock()
	if !exists {
		return nil, sale.NewSaleNotFoundError("order " + orderID)
	}
	return r.FindByID(ctx, id)
}

func (r *MockSaleRepository) FindByClientID(ctx context.Context, clientID string) ([]*sale.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sales := make([]*sale.Sale, 0)
	for _, dto := range r.sales {
		if dto.ClientID == clientID {
			sales = append(sales, rebuildSale(dto))
		}
	}
	sort.Slice(sales, func(i, j int) bool {
		if sales[i].ConvertedAt().Equal(sales[j].ConvertedAt()) {
			return sales[i].ID() > sales[j].ID()
		}
		return sales[i].ConvertedAt().After(sales[j].ConvertedAt())
	})
	return sales, nil
}

// Count number of stored sales
func (r *MockSaleRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sales)
}

func rebuildSale(dto sale.ReconstructionDTO) *sale.Sale {
	dto.Items = append([]order.Item(nil), dto.Items...)
	dto.Payments = append([]order.Payment(nil), dto.Payments...)
	return sale.RebuildFromDTO(dto)
}

var _ sale.Repository = (*MockSaleRepository)(nil)
