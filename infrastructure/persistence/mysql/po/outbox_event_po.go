package po

import (
	"encoding/json"
	"time"

	"aquadash/domain/shared"

	"github.com/google/uuid"
)

// OutboxEventPO one domain event waiting to be relayed.
// Status moves PENDING -> PROCESSING -> PUBLISHED, or back to PENDING on a
// failed attempt until RetryCount reaches the limit (then FAILED).
// UpdatedAt doubles as the claim time while PROCESSING.
type OutboxEventPO struct {
	ID          string     `gorm:"primaryKey;size:64"`
	AggregateID string     `gorm:"size:64;not null;index:idx_outbox_aggregate_status,priority:1"`
	EventType   string     `gorm:"size:100;index;not null"`
	Payload     string     `gorm:"type:json;not null"`
	Status      string     `gorm:"size:20;default:PENDING;not null;index:idx_outbox_aggregate_status,priority:2"`
	RetryCount  int        `gorm:"default:0;not null"`
	LastError   string     `gorm:"size:512"`
	PublishedAt *time.Time `gorm:"index"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime;index"`
}

// TableName Specify table name
func (OutboxEventPO) TableName() string {
	return "outbox_events"
}

// EventStatus Outbox event status enum
type EventStatus string

const (
	EventStatusPending    EventStatus = "PENDING"
	EventStatusProcessing EventStatus = "PROCESSING"
	EventStatusPublished  EventStatus = "PUBLISHED"
	EventStatusFailed     EventStatus = "FAILED"
)

// FromDomainEvent Convert domain event to outbox persistence object
func FromDomainEvent(event shared.DomainEvent) (*OutboxEventPO, error) {
	payload, err := SerializeEvent(event)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &OutboxEventPO{
		ID:          uuid.New().String(),
		AggregateID: event.GetAggregateID(),
		EventType:   event.EventName(),
		Payload:     payload,
		Status:      string(EventStatusPending),
		RetryCount:  0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// SerializeEvent envelope fields plus the event's own payload under "data"
func SerializeEvent(event shared.DomainEvent) (string, error) {
	eventData := map[string]interface{}{
		"event_name":   event.EventName(),
		"aggregate_id": event.GetAggregateID(),
		"occurred_on":  event.OccurredOn(),
	}
	if pe, ok := event.(shared.PayloadEvent); ok {
		eventData["data"] = pe.Payload()
	}

	data, err := json.Marshal(eventData)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ToEventData Extract event data from outbox PO (for debugging/testing)
func (po *OutboxEventPO) ToEventData() (map[string]interface{}, error) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(po.Payload), &data); err != nil {
		return nil, err
	}
	return data, nil
}
