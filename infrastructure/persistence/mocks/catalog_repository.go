package mocks

import (
	"context"
	"sync"
	"time"

	"aquadash/domain/client"
	"aquadash/domain/product"
	"aquadash/domain/shared"
)

// MockClientRepository in-memory client directory with seed data
type MockClientRepository struct {
	clients map[string]*client.Client
	mu      sync.RWMutex
}

func NewMockClientRepository() *MockClientRepository {
	repo := &MockClientRepository{
		clients: make(map[string]*client.Client),
	}
	repo.initializeTestData()
	return repo
}

func (r *MockClientRepository) initializeTestData() {
	seeds := []struct {
		id, name, contact, phone, email, address string
		active                                   bool
	}{
		{"client-1", "Hotel Les Palmiers", "Awa Diop", "+221770000001", "achats@palmiers.example", "Route de la Corniche", true},
		{"client-2", "Boutique Keur Fatou", "Fatou Ndiaye", "+221770000002", "", "Marché HLM", true},
		{"client-3", "Restaurant Le Baobab", "Moussa Fall", "+221770000003", "contact@baobab.example", "Plateau", false},
	}
	for _, s := range seeds {
		c, err := client.NewClient(s.id, s.name, s.contact, s.phone, s.email, s.address)
		if err != nil {
			continue
		}
		if !s.active {
			c.Deactivate()
		}
		r.clients[c.ID()] = c
	}
}

// Add registers a client; used by tests
func (r *MockClientRepository) Add(c *client.Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c.ID()] = c
}

func (r *MockClientRepository) FindByID(ctx context.Context, id string) (*client.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, exists := r.clients[id]
	if !exists {
		return nil, client.NewClientNotFoundError(id)
	}
	return c, nil
}

// MockProductRepository in-memory product catalog with seed data
type MockProductRepository struct {
	products map[string]*product.Product
	mu       sync.RWMutex
}

func NewMockProductRepository() *MockProductRepository {
	repo := &MockProductRepository{
		products: make(map[string]*product.Product),
	}
	repo.initializeTestData()
	return repo
}

func (r *MockProductRepository) initializeTestData() {
	seeds := []struct {
		id, name string
		price    int64
		stock    int
	}{
		{"prod-water-19l", "Bonbonne eau 19L", 1500, 120},
		{"prod-water-pack", "Pack eau 1.5L x6", 1800, 300},
		{"prod-ice-5kg", "Sac de glace 5kg", 1000, 80},
		{"prod-ice-cubes", "Glaçons 2kg", 500, 200},
	}
	for _, s := range seeds {
		p, err := product.NewProduct(s.id, s.name, shared.MoneyFromInt(s.price), s.stock)
		if err != nil {
			continue
		}
		r.products[p.ID()] = p
	}
}

// Add registers a product; used by tests
func (r *MockProductRepository) Add(p *product.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID()] = p
}

func (r *MockProductRepository) FindByID(ctx context.Context, id string) (*product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.products[id]
	if !exists {
		return nil, product.NewProductNotFoundError(id)
	}
	return p, nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

var (
	_ client.Repository  = (*MockClientRepository)(nil)
	_ product.Repository = (*MockProductRepository)(nil)
)
