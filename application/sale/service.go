/*
Package sale Application Layer - sales

Direct sales are created here in one transaction; sales converted from
orders are created by the order application service and only read here.
*/
package sale

import (
	"context"
	"time"

	"aquadash/application/common"
	"aquadash/domain/client"
	"aquadash/domain/order"
	"aquadash/domain/product"
	"aquadash/domain/sale"
	"aquadash/domain/shared"
	"aquadash/pkg/logger"

	"go.uber.org/zap"
)

// Dependencies collaborators of the sale application service
type Dependencies struct {
	Sales      sale.Repository
	Clients    client.Repository
	Products   product.Repository
	UoWFactory shared.UnitOfWorkFactory
	Policy     order.Policy
	Clock      func() time.Time
	Location   *time.Location
	Currency   string
}

// ApplicationService Sale application service
type ApplicationService struct {
	sales              sale.Repository
	orderDomainService *order.DomainService
	items              *common.ItemResolver
	uowFactory         shared.UnitOfWorkFactory
	policy             order.Policy
	clock              func() time.Time
	location           *time.Location
	currency           string
}

func NewApplicationService(deps Dependencies) *ApplicationService {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	return &ApplicationService{
		sales:              deps.Sales,
		orderDomainService: order.NewDomainService(client.NewDomainService(deps.Clients)),
		items:              common.NewItemResolver(deps.Products),
		uowFactory:         deps.UoWFactory,
		policy:             deps.Policy,
		clock:              deps.Clock,
		location:           deps.Location,
		currency:           deps.Currency,
	}
}

func (s *ApplicationService) now() time.Time {
	return s.clock().In(s.location)
}

// CreateDirectSale records a sale paid in full at the counter
func (s *ApplicationService) CreateDirectSale(ctx context.Context, req DirectSaleRequest) (*SaleResponse, error) {
	if err := s.orderDomainService.CanPlaceOrder(ctx, req.ClientID); err != nil {
		return nil, err
	}

	items, err := s.items.ResolveAll(ctx, "sale", req.Items)
	if err != nil {
		return nil, err
	}
	deliveryType, err := common.ParseDeliveryType("sale", req.DeliveryType)
	if err != nil {
		return nil, err
	}
	fee, err := common.ParseOptionalAmount("sale", "delivery_fee", req.DeliveryFee)
	if err != nil {
		return nil, err
	}
	payments := make([]order.PaymentInput, 0, len(req.Payments))
	for _, p := range req.Payments {
		in, err := common.ParsePaymentInput("sale", p)
		if err != nil {
			return nil, err
		}
		payments = append(payments, in)
	}

	var created *sale.Sale
	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		sl, err := sale.NewDirectSale(sale.DirectSaleParams{
			ClientID:     req.ClientID,
			Items:        items,
			DeliveryType: deliveryType,
			DeliveryFee:  fee,
			Payments:     payments,
			Notes:        req.Notes,
		}, s.policy, s.now())
		if err != nil {
			return err
		}
		if err := s.sales.Save(ctx, sl); err != nil {
			return err
		}
		uow.RegisterNew(sl)
		created = sl
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("direct sale recorded",
		zap.String("sale_id", created.ID()),
		zap.String("client_id", created.ClientID()),
		zap.String("total", created.TotalAmount().String()),
	)
	return ToSaleResponse(created, s.currency), nil
}

func (s *ApplicationService) GetSale(ctx context.Context, saleID string) (*SaleResponse, error) {
	sl, err := s.sales.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return ToSaleResponse(sl, s.currency), nil
}

func (s *ApplicationService) GetSaleByOrder(ctx context.Context, orderID string) (*SaleResponse, error) {
	sl, err := s.sales.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return ToSaleResponse(sl, s.currency), nil
}

func (s *ApplicationService) ListClientSales(ctx context.Context, clientID string) ([]*SaleResponse, error) {
	sales, err := s.sales.FindByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return toSaleResponses(sales, s.currency), nil
}
