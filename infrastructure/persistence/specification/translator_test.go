package specification

import (
	"context"
	"testing"
	"time"

	"aquadash/domain/order"
	"aquadash/domain/shared"

	"github.com/stretchr/testify/assert"
)

type overdueOnly struct{}

func (overdueOnly) IsSatisfiedBy(ctx context.Context, o *order.Order) bool { return false }

func TestOrderTranslator_Translate(t *testing.T) {
	tr := NewOrderTranslator()
	byClient := order.NewByClientIDSpecification("client-1")
	byStatus := order.NewByStatusSpecification(order.StatusDelivered)
	unknown := shared.Specification[*order.Order](overdueOnly{})

	cases := []struct {
		name string
		spec shared.Specification[*order.Order]
		want bool
	}{
		{"nil", nil, false},
		{"client", byClient, true},
		{"date range", order.NewByDateRangeSpecification(time.Time{}, time.Now()), true},
		{"unconverted", order.UnconvertedSpecification{}, true},
		{"and", shared.And(byClient, byStatus), true},
		{"or", shared.Or(byClient, byStatus), true},
		{"not", shared.Not(byStatus), true},
		{"unknown", unknown, false},
		{"and with unknown", shared.And(byClient, unknown), false},
		{"nested unknown", shared.Or(byStatus, shared.Not(unknown)), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			scope, ok := tr.Translate(tc.spec)
			assert.Equal(t, tc.want, ok)
			assert.Equal(t, tc.want, scope != nil)
		})
	}
}
