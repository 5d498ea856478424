package po

import (
	"time"

	"aquadash/domain/client"
	"aquadash/domain/product"
	"aquadash/domain/shared"

	"github.com/shopspring/decimal"
)

// ClientPO client directory row, maintained outside this service
type ClientPO struct {
	ID          string    `gorm:"primaryKey;size:64"`
	DisplayName string    `gorm:"size:255;not null"`
	Contact     string    `gorm:"size:255"`
	Phone       string    `gorm:"size:32"`
	Email       string    `gorm:"size:255"`
	Address     string    `gorm:"size:512"`
	IsActive    bool      `gorm:"not null;default:true"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (ClientPO) TableName() string {
	return "clients"
}

func (po *ClientPO) ToDomain() *client.Client {
	return client.RebuildFromDTO(client.ReconstructionDTO{
		ID:          po.ID,
		DisplayName: po.DisplayName,
		Contact:     po.Contact,
		Phone:       po.Phone,
		Email:       po.Email,
		Address:     po.Address,
		IsActive:    po.IsActive,
		CreatedAt:   po.CreatedAt,
		UpdatedAt:   po.UpdatedAt,
	})
}

// ProductPO product catalog row, maintained outside this service
type ProductPO struct {
	ID             string          `gorm:"primaryKey;size:64"`
	Name           string          `gorm:"size:255;not null"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	AvailableStock int             `gorm:"not null;default:0"`
}

func (ProductPO) TableName() string {
	return "products"
}

func (po *ProductPO) ToDomain() *product.Product {
	return product.RebuildFromDTO(product.ReconstructionDTO{
		ID:             po.ID,
		Name:           po.Name,
		UnitPrice:      shared.NewMoney(po.UnitPrice),
		AvailableStock: po.AvailableStock,
	})
}
