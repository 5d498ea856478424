package order

import (
	"context"
	"time"

	"aquadash/domain/shared"
)

// ByClientIDSpecification filters orders by client ID
type ByClientIDSpecification struct {
	ClientID string
}

// IsSatisfiedBy returns true if the order belongs to the specified client
func (spec ByClientIDSpecification) IsSatisfiedBy(ctx context.Context, entity *Order) bool {
	return entity.ClientID() == spec.ClientID
}

// ByStatusSpecification filters orders by status
type ByStatusSpecification struct {
	Status Status
}

// IsSatisfiedBy returns true if the order has the specified status
func (spec ByStatusSpecification) IsSatisfiedBy(ctx context.Context, entity *Order) bool {
	return entity.Status() == spec.Status
}

// ByDateRangeSpecification filters orders by creation date range
// Both Start and End are optional - if zero, they are ignored
type ByDateRangeSpecification struct {
	Start time.Time
	End   time.Time
}

// IsSatisfiedBy returns true if the order was created within the date range
func (spec ByDateRangeSpecification) IsSatisfiedBy(ctx context.Context, entity *Order) bool {
	createdAt := entity.CreatedAt()

	if !spec.Start.IsZero() && createdAt.Before(spec.Start) {
		return false
	}

	if !spec.End.IsZero() && createdAt.After(spec.End) {
		return false
	}

	return true
}

// UnconvertedSpecification orders not yet turned into a sale
type UnconvertedSpecification struct{}

func (UnconvertedSpecification) IsSatisfiedBy(ctx context.Context, entity *Order) bool {
	return !entity.IsConverted()
}

// NewByClientIDSpecification creates a specification to filter by client ID
func NewByClientIDSpecification(clientID string) shared.Specification[*Order] {
	return ByClientIDSpecification{ClientID: clientID}
}

// NewByStatusSpecification creates a specification to filter by status
func NewByStatusSpecification(status Status) shared.Specification[*Order] {
	return ByStatusSpecification{Status: status}
}

// NewByDateRangeSpecification creates a specification to filter by date range
func NewByDateRangeSpecification(start, end time.Time) shared.Specification[*Order] {
	return ByDateRangeSpecification{Start: start, End: end}
}
