package order

import (
	"time"

	"aquadash/application/common"
	"aquadash/domain/order"
)

func toOrderResponse(o *order.Order, due order.Due, asOf time.Time, currency string) *OrderResponse {
	next := order.NextStatuses(o.Status())
	nextNames := make([]string, len(next))
	for i, st := range next {
		nextNames[i] = string(st)
	}

	resp := &OrderResponse{
		ID:                  o.ID(),
		ClientID:            o.ClientID(),
		Items:               common.ToItemResponses(o.Items(), currency),
		DeliveryType:        string(o.DeliveryType()),
		DeliveryFee:         common.NewMoneyResponse(o.DeliveryFee(), currency),
		DeliveryFeeExplicit: o.DeliveryFeeExplicit(),
		Notes:               o.Notes(),
		Status:              string(o.Status()),
		NextStatuses:        nextNames,
		Payments:            common.ToPaymentResponses(o.Payments(), currency),
		SaleID:              o.SaleID(),
		Due:                 toDueResponse(due, asOf, currency),
		Version:             o.Version(),
		CreatedAt:           o.CreatedAt(),
		UpdatedAt:           o.UpdatedAt(),
		ValidatedAt:         o.ValidatedAt(),
		DeliveredAt:         o.DeliveredAt(),
		CancelledAt:         o.CancelledAt(),
	}
	if d := o.DueDate(); d != nil {
		resp.DueDate = d.Format(common.DateLayout)
	}
	return resp
}

func toDueResponse(due order.Due, asOf time.Time, currency string) *DueResponse {
	return &DueResponse{
		ProductsTotal:       common.NewMoneyResponse(due.ProductsTotal, currency),
		DeliveryFee:         common.NewMoneyResponse(due.DeliveryFee, currency),
		BaseTotal:           common.NewMoneyResponse(due.BaseTotal, currency),
		Penalty:             common.NewMoneyResponse(due.Penalty, currency),
		TotalDue:            common.NewMoneyResponse(due.TotalDue, currency),
		AmountPaid:          common.NewMoneyResponse(due.AmountPaid, currency),
		Remaining:           common.NewMoneyResponse(due.Remaining, currency),
		MinimumFirstPayment: common.NewMoneyResponse(due.MinimumFirstPayment, currency),
		IsOverdue:           due.IsOverdue,
		FullyPaid:           due.FullyPaid,
		AsOf:                asOf,
	}
}
