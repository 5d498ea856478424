/*
Package product 商品目录（只读投影）

订单上下文只从商品目录读取名称与单价，用于在请求未给出时预填订单项。
库存扣减不在本上下文内。
*/
package product

import (
	"context"
	"errors"
	"strings"

	"aquadash/domain/shared"
)

var ErrProductNotFound = errors.New("product not found")

// Product 商品
type Product struct {
	id             string
	name           string
	unitPrice      shared.Money
	availableStock int
}

// NewProduct 创建商品（用于种子数据与测试）
func NewProduct(id, name string, unitPrice shared.Money, availableStock int) (*Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, shared.NewValidationError("product", "id", "product id cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewValidationError("product", "name", "product name cannot be empty")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewValidationError("product", "unit_price", "unit price cannot be negative")
	}
	return &Product{
		id:             id,
		name:           strings.TrimSpace(name),
		unitPrice:      unitPrice,
		availableStock: availableStock,
	}, nil
}

func (p *Product) ID() string              { return p.id }
func (p *Product) Name() string            { return p.name }
func (p *Product) UnitPrice() shared.Money { return p.unitPrice }
func (p *Product) AvailableStock() int     { return p.availableStock }

// ReconstructionDTO 商品重建数据传输对象
type ReconstructionDTO struct {
	ID             string
	Name           string
	UnitPrice      shared.Money
	AvailableStock int
}

// RebuildFromDTO 从DTO重建Product
func RebuildFromDTO(dto ReconstructionDTO) *Product {
	return &Product{
		id:             dto.ID,
		name:           dto.Name,
		unitPrice:      dto.UnitPrice,
		availableStock: dto.AvailableStock,
	}
}

// Repository Product read repository
type Repository interface {
	FindByID(ctx context.Context, id string) (*Product, error)
}

// NewProductNotFoundError 商品未找到（带堆栈）
func NewProductNotFoundError(productID string) error {
	return shared.NewDomainError(ErrProductNotFound, "product", "product not found: "+productID)
}
