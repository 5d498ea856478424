package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aquadash/infrastructure/messaging"
	"aquadash/infrastructure/persistence/mysql/po"
	"aquadash/pkg/logger"

	"go.uber.org/zap"
)

// outboxStore the OutboxRepository operations the worker relies on
type outboxStore interface {
	ReclaimStale(ctx context.Context, timeout time.Duration) (int64, error)
	GetPendingEvents(ctx context.Context, limit int) ([]*po.OutboxEventPO, error)
	MarkEventProcessing(ctx context.Context, eventID string) error
	MarkEventPublished(ctx context.Context, eventID string) error
	MarkEventFailed(ctx context.Context, eventID string, maxRetries int, cause error) error
}

// OutboxWorker relays committed outbox rows to a messaging.Publisher.
// Delivery is at-least-once: a row whose publish ack is lost is reclaimed
// after processingTimeout and sent again, so consumers dedupe on Message.ID.
type OutboxWorker struct {
	repository        outboxStore
	publisher         messaging.Publisher
	pollInterval      time.Duration
	batchSize         int
	maxRetries        int
	processingTimeout time.Duration
}

func NewOutboxWorker(
	repository outboxStore,
	publisher messaging.Publisher,
	pollInterval time.Duration,
	batchSize int,
	maxRetries int,
	processingTimeout time.Duration,
) (*OutboxWorker, error) {
	if repository == nil {
		return nil, fmt.Errorf("outbox repository is required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher is required")
	}
	if pollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive")
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive")
	}
	if maxRetries <= 0 {
		return nil, fmt.Errorf("max retries must be positive")
	}
	if processingTimeout <= 0 {
		return nil, fmt.Errorf("processing timeout must be positive")
	}

	return &OutboxWorker{
		repository:        repository,
		publisher:         publisher,
		pollInterval:      pollInterval,
		batchSize:         batchSize,
		maxRetries:        maxRetries,
		processingTimeout: processingTimeout,
	}, nil
}

// Run polls until ctx is cancelled
func (w *OutboxWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.ProcessBatch(ctx); err != nil {
				logger.Error("Outbox batch processing failed", zap.Error(err))
			}
		}
	}
}

// ProcessBatch publishes one batch and returns how many rows were delivered.
// Once a row of an aggregate cannot be delivered, the rest of that
// aggregate's rows wait for a later batch.
func (w *OutboxWorker) ProcessBatch(ctx context.Context) (int, error) {
	reclaimed, err := w.repository.ReclaimStale(ctx, w.processingTimeout)
	if err != nil {
		return 0, err
	}
	if reclaimed > 0 {
		logger.Warn("Reclaimed stale outbox claims",
			zap.Int64("count", reclaimed),
			zap.Duration("processing_timeout", w.processingTimeout),
		)
	}

	events, err := w.repository.GetPendingEvents(ctx, w.batchSize)
	if err != nil {
		return 0, err
	}

	held := make(map[string]bool)
	published := 0
	for _, event := range events {
		if held[event.AggregateID] {
			continue
		}
		if err := w.relay(ctx, event); err != nil {
			held[event.AggregateID] = true
			continue
		}
		published++
	}

	return published, nil
}

func (w *OutboxWorker) relay(ctx context.Context, event *po.OutboxEventPO) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event_type", event.EventType),
		zap.String("aggregate_id", event.AggregateID),
	}

	if err := w.repository.MarkEventProcessing(ctx, event.ID); err != nil {
		if errors.Is(err, ErrOutboxEventClaimed) {
			logger.Debug("Outbox event claimed elsewhere", fields...)
		} else {
			logger.Warn("Failed to claim outbox event", append(fields, zap.Error(err))...)
		}
		return err
	}

	msg := messaging.Message{
		ID:          event.ID,
		AggregateID: event.AggregateID,
		EventType:   event.EventType,
		Payload:     event.Payload,
		CreatedAt:   event.CreatedAt,
	}
	if err := w.publisher.Publish(ctx, msg); err != nil {
		logger.Warn("Outbox event publish failed",
			append(fields, zap.Int("attempt", event.RetryCount+1), zap.Error(err))...)
		if failErr := w.repository.MarkEventFailed(ctx, event.ID, w.maxRetries, err); failErr != nil {
			// row stays PROCESSING; ReclaimStale returns it to PENDING
			logger.Error("Failed to record outbox publish failure", append(fields, zap.Error(failErr))...)
		}
		return err
	}

	if err := w.repository.MarkEventPublished(ctx, event.ID); err != nil {
		// published but not settled; ReclaimStale will hand it out again
		logger.Error("Failed to mark outbox event as published", append(fields, zap.Error(err))...)
		return err
	}
	return nil
}
