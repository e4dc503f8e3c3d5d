package inventory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"warehouse-service/internal/model"
)

// captureWriter records messages in order and can be told to start failing
// after a number of successful writes.
type captureWriter struct {
	messages  []kafka.Message
	failAfter int
}

func (w *captureWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.failAfter >= 0 && len(w.messages) >= w.failAfter {
		return errors.New("broker unavailable")
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func stageTestEvents(t *testing.T, svc *Service, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		if err := stageEvent(svc.db, model.EventInventoryReserved, model.AggregateReservation,
			fmt.Sprintf("res-%d", i), map[string]int{"n": i}); err != nil {
			t.Fatalf("failed to stage event: %v", err)
		}
	}
}

func TestRelay_PublishesUnpublishedInOrder(t *testing.T) {
	svc, db := newTestService(t)
	stageTestEvents(t, svc, 3)

	writer := &captureWriter{failAfter: -1}
	relay := NewRelay(db, writer, time.Second, 100)

	if err := relay.publishBatch(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(writer.messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(writer.messages))
	}
	if string(writer.messages[0].Key) != "res-0" || string(writer.messages[2].Key) != "res-2" {
		t.Errorf("messages out of order: %q .. %q", writer.messages[0].Key, writer.messages[2].Key)
	}

	headers := map[string]string{}
	for _, h := range writer.messages[0].Headers {
		headers[h.Key] = string(h.Value)
	}
	if headers["event_type"] != model.EventInventoryReserved {
		t.Errorf("expected event_type header, got %v", headers)
	}
	if headers["aggregate_type"] != model.AggregateReservation {
		t.Errorf("expected aggregate_type header, got %v", headers)
	}

	var unpublished int64
	db.Model(&model.OutboxEvent{}).Where("published_at IS NULL").Count(&unpublished)
	if unpublished != 0 {
		t.Errorf("expected all rows stamped, %d still unpublished", unpublished)
	}

	// A second pass finds nothing to do.
	if err := relay.publishBatch(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(writer.messages) != 3 {
		t.Errorf("stamped rows must not be republished, got %d messages", len(writer.messages))
	}
}

func TestRelay_StopsAtFirstFailure(t *testing.T) {
	svc, db := newTestService(t)
	stageTestEvents(t, svc, 3)

	writer := &captureWriter{failAfter: 1}
	relay := NewRelay(db, writer, time.Second, 100)

	err := relay.publishBatch(context.Background())
	if err == nil {
		t.Fatal("expected the broker error to surface")
	}
	if len(writer.messages) != 1 {
		t.Fatalf("expected exactly 1 delivered before the failure, got %d", len(writer.messages))
	}

	var unpublished int64
	db.Model(&model.OutboxEvent{}).Where("published_at IS NULL").Count(&unpublished)
	if unpublished != 2 {
		t.Errorf("expected 2 rows left for the next tick, got %d", unpublished)
	}

	// The broker comes back; the remaining rows drain in order.
	writer.failAfter = -1
	if err := relay.publishBatch(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(writer.messages) != 3 {
		t.Fatalf("expected all 3 delivered, got %d", len(writer.messages))
	}
	if string(writer.messages[1].Key) != "res-1" {
		t.Errorf("retry must resume where it stopped, got %q", writer.messages[1].Key)
	}
}

func TestRelay_RespectsBatchSize(t *testing.T) {
	svc, db := newTestService(t)
	stageTestEvents(t, svc, 5)

	writer := &captureWriter{failAfter: -1}
	relay := NewRelay(db, writer, time.Second, 2)

	if err := relay.publishBatch(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(writer.messages) != 2 {
		t.Errorf("expected batch capped at 2, got %d", len(writer.messages))
	}
}
