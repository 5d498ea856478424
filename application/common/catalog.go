package common

import (
	"context"
	"strings"

	"aquadash/domain/order"
	"aquadash/domain/product"
)

// ItemResolver turns item requests into domain requests, filling name and
// unit price from the product catalog when the caller leaves them out
type ItemResolver struct {
	products product.Repository
}

func NewItemResolver(products product.Repository) *ItemResolver {
	return &ItemResolver{products: products}
}

func (r *ItemResolver) Resolve(ctx context.Context, entity string, req ItemRequest) (order.ItemRequest, error) {
	out := order.ItemRequest{
		ProductID:   strings.TrimSpace(req.ProductID),
		ProductName: strings.TrimSpace(req.ProductName),
		Quantity:    req.Quantity,
	}

	price, err := ParseOptionalAmount(entity, "unit_price", req.UnitPrice)
	if err != nil {
		return order.ItemRequest{}, err
	}

	if price == nil || out.ProductName == "" {
		p, err := r.products.FindByID(ctx, out.ProductID)
		if err != nil {
			return order.ItemRequest{}, err
		}
		if out.ProductName == "" {
			out.ProductName = p.Name()
		}
		if price == nil {
			unit := p.UnitPrice()
			price = &unit
		}
	}
	out.UnitPrice = *price

	return out, nil
}

func (r *ItemResolver) ResolveAll(ctx context.Context, entity string, reqs []ItemRequest) ([]order.ItemRequest, error) {
	out := make([]order.ItemRequest, 0, len(reqs))
	for _, req := range reqs {
		item, err := r.Resolve(ctx, entity, req)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
