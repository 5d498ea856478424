/*
Package messaging publishes outbox rows to downstream consumers.

The outbox worker hands every pending row to a Publisher. LoggingPublisher
writes the event to the application log; KafkaPublisher writes it to a
Kafka topic keyed by aggregate id.

Delivery is at least once: a row may be published again after a lost
acknowledgement, so consumers dedupe on Message.ID. Rows of one aggregate
are handed over in creation order and a row waiting for a retry holds back
the rows behind it. A row parked as FAILED after its last retry stops
holding them back, so only then can a later event overtake it.
*/
package messaging

import (
	"context"
	"time"

	"aquadash/pkg/logger"

	"go.uber.org/zap"
)

// Message one outbox row ready for delivery
type Message struct {
	ID          string
	AggregateID string
	EventType   string
	Payload     string
	CreatedAt   time.Time
}

type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// LoggingPublisher default publisher when no broker is configured
type LoggingPublisher struct{}

func NewLoggingPublisher() *LoggingPublisher {
	return &LoggingPublisher{}
}

func (p *LoggingPublisher) Publish(ctx context.Context, msg Message) error {
	logger.Info("Outbox event published",
		zap.String("event_id", msg.ID),
		zap.String("event_type", msg.EventType),
		zap.String("aggregate_id", msg.AggregateID),
		zap.String("payload", msg.Payload),
	)
	return nil
}

func (p *LoggingPublisher) Close() error { return nil }

var _ Publisher = (*LoggingPublisher)(nil)
