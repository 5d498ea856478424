package mysql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"aquadash/infrastructure/messaging"
	"aquadash/infrastructure/persistence/mysql/po"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryOutbox applies the same relay rules as OutboxRepository to rows held in memory
type memoryOutbox struct {
	now         time.Time
	rows        []*po.OutboxEventPO
	claimedElse map[string]bool
	failSettle  map[string]bool
}

func newMemoryOutbox(now time.Time, rows ...*po.OutboxEventPO) *memoryOutbox {
	for i, row := range rows {
		row.Status = string(po.EventStatusPending)
		row.CreatedAt = now.Add(time.Duration(i) * time.Millisecond)
		row.UpdatedAt = row.CreatedAt
		if row.Payload == "" {
			row.Payload = "{}"
		}
	}
	return &memoryOutbox{
		now:         now,
		rows:        rows,
		claimedElse: map[string]bool{},
		failSettle:  map[string]bool{},
	}
}

func (m *memoryOutbox) row(id string) *po.OutboxEventPO {
	for _, r := range m.rows {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (m *memoryOutbox) status(id string) string { return m.row(id).Status }

func (m *memoryOutbox) ReclaimStale(ctx context.Context, timeout time.Duration) (int64, error) {
	var n int64
	for _, r := range m.rows {
		if r.Status == string(po.EventStatusProcessing) && r.UpdatedAt.Before(m.now.Add(-timeout)) {
			r.Status = string(po.EventStatusPending)
			r.UpdatedAt = m.now
			n++
		}
	}
	return n, nil
}

func (m *memoryOutbox) GetPendingEvents(ctx context.Context, limit int) ([]*po.OutboxEventPO, error) {
	inFlight := map[string]bool{}
	for _, r := range m.rows {
		if r.Status == string(po.EventStatusProcessing) {
			inFlight[r.AggregateID] = true
		}
	}

	var out []*po.OutboxEventPO
	for _, r := range m.rows {
		if r.Status == string(po.EventStatusPending) && !inFlight[r.AggregateID] {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryOutbox) MarkEventProcessing(ctx context.Context, eventID string) error {
	r := m.row(eventID)
	if m.claimedElse[eventID] || r.Status != string(po.EventStatusPending) {
		return fmt.Errorf("%w: %s", ErrOutboxEventClaimed, eventID)
	}
	r.Status = string(po.EventStatusProcessing)
	r.UpdatedAt = m.now
	return nil
}

func (m *memoryOutbox) MarkEventPublished(ctx context.Context, eventID string) error {
	if m.failSettle[eventID] {
		return errors.New("connection reset")
	}
	r := m.row(eventID)
	r.Status = string(po.EventStatusPublished)
	r.UpdatedAt = m.now
	return nil
}

func (m *memoryOutbox) MarkEventFailed(ctx context.Context, eventID string, maxRetries int, cause error) error {
	r := m.row(eventID)
	if r.RetryCount+1 >= maxRetries {
		r.Status = string(po.EventStatusFailed)
	} else {
		r.Status = string(po.EventStatusPending)
	}
	r.RetryCount++
	r.LastError = cause.Error()
	r.UpdatedAt = m.now
	return nil
}

type fakePublisher struct {
	failFor map[string]bool
	sent    []string
}

func (p *fakePublisher) Publish(ctx context.Context, msg messaging.Message) error {
	if p.failFor[msg.ID] {
		return errors.New("broker unavailable")
	}
	p.sent = append(p.sent, msg.ID)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

var outboxNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func outboxRow(id, aggregateID, eventType string) *po.OutboxEventPO {
	return &po.OutboxEventPO{ID: id, AggregateID: aggregateID, EventType: eventType}
}

func TestNewOutboxWorker_Validates(t *testing.T) {
	store := newMemoryOutbox(outboxNow)
	pub := &fakePublisher{}

	_, err := NewOutboxWorker(nil, pub, time.Second, 10, 3, time.Minute)
	assert.Error(t, err)
	_, err = NewOutboxWorker(store, nil, time.Second, 10, 3, time.Minute)
	assert.Error(t, err)
	_, err = NewOutboxWorker(store, pub, 0, 10, 3, time.Minute)
	assert.Error(t, err)
	_, err = NewOutboxWorker(store, pub, time.Second, 0, 3, time.Minute)
	assert.Error(t, err)
	_, err = NewOutboxWorker(store, pub, time.Second, 10, 0, time.Minute)
	assert.Error(t, err)
	_, err = NewOutboxWorker(store, pub, time.Second, 10, 3, 0)
	assert.Error(t, err)
}

func TestOutboxWorker_HoldsAggregateAfterFailure(t *testing.T) {
	store := newMemoryOutbox(outboxNow,
		outboxRow("evt-1", "order-1", "order.created"),
		outboxRow("evt-2", "order-1", "order.payment_recorded"),
		outboxRow("evt-3", "order-1", "order.status_changed"),
		outboxRow("evt-4", "order-2", "order.created"),
		outboxRow("evt-5", "order-3", "order.created"),
	)
	store.claimedElse["evt-4"] = true
	pub := &fakePublisher{failFor: map[string]bool{"evt-2": true}}

	w, err := NewOutboxWorker(store, pub, time.Second, 10, 5, time.Minute)
	require.NoError(t, err)

	n, err := w.ProcessBatch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"evt-1", "evt-5"}, pub.sent)
	assert.Equal(t, string(po.EventStatusPending), store.status("evt-2"))
	assert.Equal(t, 1, store.row("evt-2").RetryCount)
	assert.Equal(t, "broker unavailable", store.row("evt-2").LastError)
	assert.Equal(t, string(po.EventStatusPending), store.status("evt-3"), "later event of the same order must wait")

	pub.failFor = nil
	delete(store.claimedElse, "evt-4")
	n, err = w.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"evt-1", "evt-5", "evt-2", "evt-3", "evt-4"}, pub.sent)
}

func TestOutboxWorker_ReclaimsUnsettledClaim(t *testing.T) {
	store := newMemoryOutbox(outboxNow,
		outboxRow("evt-1", "order-1", "order.payment_recorded"),
		outboxRow("evt-2", "order-1", "sale.created"),
	)
	store.failSettle["evt-1"] = true
	pub := &fakePublisher{}

	w, err := NewOutboxWorker(store, pub, time.Second, 10, 5, time.Minute)
	require.NoError(t, err)

	n, err := w.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, string(po.EventStatusProcessing), store.status("evt-1"))
	assert.Equal(t, string(po.EventStatusPending), store.status("evt-2"))

	// inside the timeout the claim is left alone and the order stays blocked
	store.now = outboxNow.Add(30 * time.Second)
	n, err = w.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, []string{"evt-1"}, pub.sent)

	store.failSettle = map[string]bool{}
	store.now = outboxNow.Add(2 * time.Minute)
	n, err = w.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"evt-1", "evt-1", "evt-2"}, pub.sent)
	assert.Equal(t, string(po.EventStatusPublished), store.status("evt-1"))
	assert.Equal(t, string(po.EventStatusPublished), store.status("evt-2"))
}

func TestOutboxWorker_ParksAfterMaxRetries(t *testing.T) {
	store := newMemoryOutbox(outboxNow,
		outboxRow("evt-1", "order-1", "order.created"),
		outboxRow("evt-2", "order-1", "order.payment_recorded"),
	)
	pub := &fakePublisher{failFor: map[string]bool{"evt-1": true}}

	w, err := NewOutboxWorker(store, pub, time.Second, 10, 2, time.Minute)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := w.ProcessBatch(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, string(po.EventStatusFailed), store.status("evt-1"))
	assert.Equal(t, 2, store.row("evt-1").RetryCount)
	assert.Empty(t, pub.sent)

	n, err := w.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"evt-2"}, pub.sent)
}
