package mocks

import (
	"context"

	"aquadash/domain/shared"
	"aquadash/pkg/logger"

	"go.uber.org/zap"
)

// MockUnitOfWork runs fn without a transaction
// Events collected from registered aggregates are handed to the in-process
// publisher once fn succeeds; a failed publish is logged, never returned.
type MockUnitOfWork struct {
	aggregates []shared.AggregateRoot
	publisher  shared.DomainEventPublisher
}

// NewMockUnitOfWork publisher may be nil
func NewMockUnitOfWork(publisher shared.DomainEventPublisher) *MockUnitOfWork {
	return &MockUnitOfWork{
		aggregates: make([]shared.AggregateRoot, 0),
		publisher:  publisher,
	}
}

func (u *MockUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	u.aggregates = make([]shared.AggregateRoot, 0)

	if err := fn(ctx); err != nil {
		return err
	}

	for _, agg := range u.aggregates {
		for _, event := range agg.PullEvents() {
			logger.Debug("[MOCK OUTBOX] event collected",
				zap.String("event", event.EventName()),
				zap.String("aggregate_id", agg.ID()),
				zap.Time("occurred_on", event.OccurredOn()),
			)
			if u.publisher == nil {
				continue
			}
			if err := u.publisher.Publish(event); err != nil {
				logger.Warn("in-process event handler failed",
					zap.String("event", event.EventName()),
					zap.Error(err),
				)
			}
		}
	}

	return nil
}

func (u *MockUnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *MockUnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *MockUnitOfWork) RegisterRemoved(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// MockUnitOfWorkFactory hands out a fresh MockUnitOfWork per operation
type MockUnitOfWorkFactory struct {
	publisher shared.DomainEventPublisher
}

func NewMockUnitOfWorkFactory(publisher shared.DomainEventPublisher) *MockUnitOfWorkFactory {
	return &MockUnitOfWorkFactory{publisher: publisher}
}

func (f *MockUnitOfWorkFactory) New() shared.UnitOfWork {
	return NewMockUnitOfWork(f.publisher)
}

var (
	_ shared.UnitOfWork        = (*MockUnitOfWork)(nil)
	_ shared.UnitOfWorkFactory = (*MockUnitOfWorkFactory)(nil)
)
