package mysql

import (
	"context"
	"fmt"

	"aquadash/domain/shared"
	"aquadash/infrastructure/persistence"
	"aquadash/infrastructure/persistence/retry"
	"aquadash/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UnitOfWork implements the Unit of Work pattern with GORM
// It manages database transactions and collects domain events from aggregates
type UnitOfWork struct {
	db               *gorm.DB
	aggregates       []shared.AggregateRoot
	outboxRepository *OutboxRepository
	retryConfig      retry.Config
	publisher        shared.DomainEventPublisher
	committed        []shared.DomainEvent
}

// NewUnitOfWork creates a new UnitOfWork instance
func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{
		db:               db,
		aggregates:       make([]shared.AggregateRoot, 0),
		outboxRepository: NewOutboxRepository(db),
		retryConfig:      retry.DefaultConfig,
	}
}

// SetPublisher in-process subscribers (metrics) receive events after commit
func (u *UnitOfWork) SetPublisher(publisher shared.DomainEventPublisher) {
	u.publisher = publisher
}

// SetRetryConfig updates the retry configuration for this UnitOfWork
func (u *UnitOfWork) SetRetryConfig(config retry.Config) {
	u.retryConfig = config
}

// Execute runs the business logic inside a database transaction
// It:
// 1. Begins a transaction
// 2. Injects the transaction into context for repositories to use
// 3. Executes the business function
// 4. Collects events from registered aggregates into the outbox table
// 5. Commits on success, rolls back on error
// 6. Automatically retries on retryable errors (concurrent modification, deadlocks, etc.)
// 7. Hands the committed events to the in-process publisher
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	// Define the transaction execution function that will be retried
	executeOnce := func(ctx context.Context) error {
		// Reset aggregates for this attempt
		u.aggregates = make([]shared.AggregateRoot, 0)
		u.committed = nil

		// Begin transaction
		tx := u.db.WithContext(ctx).Begin()
		if tx.Error != nil {
			return fmt.Errorf("failed to begin transaction: %w", tx.Error)
		}

		// Create context with transaction
		txCtx := persistence.ContextWithTx(ctx, tx)

		// Execute business logic
		if err := fn(txCtx); err != nil {
			tx.Rollback()
			return err
		}

		// Collect and process events from registered aggregates (Outbox pattern)
		var collected []shared.DomainEvent
		for _, agg := range u.aggregates {
			events := agg.PullEvents()
			for _, event := range events {
				// Save event to outbox table using the transaction context
				if err := u.outboxRepository.SaveEvent(txCtx, event); err != nil {
					tx.Rollback()
					return fmt.Errorf("failed to save event to outbox: %w", err)
				}
			}
			collected = append(collected, events...)
		}

		// Commit transaction
		if err := tx.Commit().Error; err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}

		u.committed = collected
		return nil
	}

	// Execute with retry logic
	if err := retry.ExecuteWithRetry(ctx, u.retryConfig, executeOnce); err != nil {
		return err
	}

	u.publishCommitted()
	return nil
}

// publishCommitted failures are logged; the outbox row remains the durable record
func (u *UnitOfWork) publishCommitted() {
	if u.publisher == nil {
		return
	}
	for _, event := range u.committed {
		if err := u.publisher.Publish(event); err != nil {
			logger.Warn("in-process event handler failed",
				zap.String("event", event.EventName()),
				zap.String("aggregate_id", event.GetAggregateID()),
				zap.Error(err),
			)
		}
	}
	u.committed = nil
}

// RegisterNew registers a newly created aggregate root for event collection
func (u *UnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// RegisterDirty registers a modified aggregate root for event collection
func (u *UnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// RegisterRemoved registers a deleted aggregate root for event collection
func (u *UnitOfWork) RegisterRemoved(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// Compile-time check that UnitOfWork implements shared.UnitOfWork
var _ shared.UnitOfWork = (*UnitOfWork)(nil)
