package mysql

import (
	"context"
	"errors"

	"aquadash/domain/client"
	"aquadash/domain/product"
	"aquadash/infrastructure/persistence"
	"aquadash/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// ClientRepository reads the clients table
type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*client.Client, error) {
	db := persistence.TxFromContext(ctx)
	if db == nil {
		db = r.db.WithContext(ctx)
	}

	var clientPO po.ClientPO
	if err := db.First(&clientPO, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, client.NewClientNotFoundError(id)
		}
		return nil, err
	}
	return clientPO.ToDomain(), nil
}

// ProductRepository reads the products table
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*product.Product, error) {
	db := persistence.TxFromContext(ctx)
	if db == nil {
		db = r.db.WithContext(ctx)
	}

	var productPO po.ProductPO
	if err := db.First(&productPO, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.NewProductNotFoundError(id)
		}
		return nil, err
	}
	return productPO.ToDomain(), nil
}

var (
	_ client.Repository  = (*ClientRepository)(nil)
	_ product.Repository = (*ProductRepository)(nil)
)
