package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aquadash/domain/shared"
	"aquadash/infrastructure/persistence"
	"aquadash/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// ErrOutboxEventClaimed another relay instance already holds the row
var ErrOutboxEventClaimed = errors.New("outbox event already claimed")

const maxLastErrorLen = 512

// OutboxRepository outbox_events table: written inside the aggregate's
// transaction, drained by OutboxWorker.
//
// Relay rules:
//   - rows of one aggregate go out in created_at order; an aggregate with a
//     row in PROCESSING is skipped until that row settles
//   - a PROCESSING row whose claim is older than the processing timeout is
//     returned to PENDING (worker crashed or the publish ack was lost)
//   - a row that exhausts its retries is parked as FAILED and no longer
//     holds back the rows behind it
type OutboxRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewOutboxRepository Create outbox repository
func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db, now: time.Now}
}

func (r *OutboxRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// SaveEvent appends one event; joins the UoW transaction when ctx carries one
func (r *OutboxRepository) SaveEvent(ctx context.Context, event shared.DomainEvent) error {
	if err := shared.ValidateEvent(event); err != nil {
		return fmt.Errorf("invalid domain event: %w", err)
	}

	row, err := po.FromDomainEvent(event)
	if err != nil {
		return fmt.Errorf("serialize %s: %w", event.EventName(), err)
	}
	if err := r.getDB(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("insert outbox event %s: %w", event.EventName(), err)
	}
	return nil
}

// ReclaimStale returns PROCESSING rows claimed before now-timeout to PENDING
func (r *OutboxRepository) ReclaimStale(ctx context.Context, timeout time.Duration) (int64, error) {
	now := r.now()
	result := r.getDB(ctx).Model(&po.OutboxEventPO{}).
		Where("status = ? AND updated_at < ?", string(po.EventStatusProcessing), now.Add(-timeout)).
		Updates(map[string]interface{}{
			"status":     string(po.EventStatusPending),
			"last_error": "claim expired",
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("reclaim stale outbox events: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// GetPendingEvents oldest PENDING rows whose aggregate has nothing in flight
func (r *OutboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]*po.OutboxEventPO, error) {
	db := r.getDB(ctx)

	inFlight := db.Model(&po.OutboxEventPO{}).
		Select("aggregate_id").
		Where("status = ?", string(po.EventStatusProcessing))

	var rows []*po.OutboxEventPO
	err := db.Where("status = ?", string(po.EventStatusPending)).
		Where("aggregate_id NOT IN (?)", inFlight).
		Order("created_at ASC").
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load pending outbox events: %w", err)
	}
	return rows, nil
}

// MarkEventProcessing claims a PENDING row; ErrOutboxEventClaimed if it is no longer PENDING
func (r *OutboxRepository) MarkEventProcessing(ctx context.Context, eventID string) error {
	result := r.getDB(ctx).Model(&po.OutboxEventPO{}).
		Where("id = ? AND status = ?", eventID, string(po.EventStatusPending)).
		Updates(map[string]interface{}{
			"status":     string(po.EventStatusProcessing),
			"updated_at": r.now(),
		})
	if result.Error != nil {
		return fmt.Errorf("claim outbox event %s: %w", eventID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrOutboxEventClaimed, eventID)
	}
	return nil
}

// MarkEventPublished settles a claimed row
func (r *OutboxRepository) MarkEventPublished(ctx context.Context, eventID string) error {
	now := r.now()
	result := r.getDB(ctx).Model(&po.OutboxEventPO{}).
		Where("id = ? AND status = ?", eventID, string(po.EventStatusProcessing)).
		Updates(map[string]interface{}{
			"status":       string(po.EventStatusPublished),
			"published_at": now,
			"last_error":   "",
			"updated_at":   now,
		})
	if result.Error != nil {
		return fmt.Errorf("settle outbox event %s: %w", eventID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("outbox event %s is not claimed", eventID)
	}
	return nil
}

// MarkEventFailed records a failed attempt: back to PENDING, or FAILED once
// maxRetries attempts have been made. status is assigned before retry_count
// so the CASE reads the pre-increment count.
func (r *OutboxRepository) MarkEventFailed(ctx context.Context, eventID string, maxRetries int, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	if len(msg) > maxLastErrorLen {
		msg = msg[:maxLastErrorLen]
	}

	result := r.getDB(ctx).Exec(
		"UPDATE outbox_events SET "+
			"status = CASE WHEN retry_count + 1 >= ? THEN ? ELSE ? END, "+
			"retry_count = retry_count + 1, last_error = ?, updated_at = ? "+
			"WHERE id = ? AND status = ?",
		maxRetries, string(po.EventStatusFailed), string(po.EventStatusPending),
		msg, r.now(),
		eventID, string(po.EventStatusProcessing),
	)
	if result.Error != nil {
		return fmt.Errorf("record failed attempt for outbox event %s: %w", eventID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("outbox event %s is not claimed", eventID)
	}
	return nil
}

var _ shared.OutboxRepository = (*OutboxRepository)(nil)
