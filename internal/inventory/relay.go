package inventory

import (
	"context"
	"strings"
	"time"

	"warehouse-service/internal/model"
	"warehouse-service/pkg/config"
	"warehouse-service/prometheus"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MessageWriter is the slice of kafka.Writer the relay needs
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// NewKafkaWriter builds the event writer from config
func NewKafkaWriter(cfg *config.Config) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(cfg.Kafka.Brokers, ",")...),
		Topic:        cfg.Kafka.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	}
}

// Relay drains the outbox table to Kafka. Events go out in insert order and
// get stamped with the publish time; a failed publish leaves the row
// unstamped for the next tick, so delivery is at least once.
type Relay struct {
	db        *gorm.DB
	writer    MessageWriter
	interval  time.Duration
	batchSize int
}

func NewRelay(db *gorm.DB, writer MessageWriter, interval time.Duration, batchSize int) *Relay {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Relay{db: db, writer: writer, interval: interval, batchSize: batchSize}
}

// Start runs the relay loop until ctx is cancelled
func (r *Relay) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	zap.L().Info("Outbox relay started", zap.Duration("interval", r.interval))
	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Outbox relay stopped")
			return
		case <-ticker.C:
			if err := r.publishBatch(ctx); err != nil {
				zap.L().Error("Outbox publish failed", zap.Error(err))
			}
		}
	}
}

// publishBatch sends the oldest unpublished events one by one, stopping at
// the first failure so ordering per aggregate is preserved.
func (r *Relay) publishBatch(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "outbox.publishBatch", trace.WithSpanKind(trace.SpanKindProducer))
	defer span.End()

	var events []model.OutboxEvent
	err := r.db.WithContext(ctx).
		Where("published_at IS NULL").
		Order("id").
		Limit(r.batchSize).
		Find(&events).Error
	if err != nil {
		return err
	}

	for _, event := range events {
		msg := kafka.Message{
			Key:   []byte(event.AggregateID),
			Value: event.Payload,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(event.EventType)},
				{Key: "aggregate_type", Value: []byte(event.AggregateType)},
			},
		}
		carrier := propagation.MapCarrier{}
		otel.GetTextMapPropagator().Inject(ctx, carrier)
		for key, value := range carrier {
			msg.Headers = append(msg.Headers, kafka.Header{Key: key, Value: []byte(value)})
		}

		if err := r.writer.WriteMessages(ctx, msg); err != nil {
			prometheus.OutboxPublishErrorsCounter.Inc()
			return err
		}

		if err := r.db.WithContext(ctx).Model(&model.OutboxEvent{}).
			Where("id = ?", event.ID).
			Update("published_at", time.Now()).Error; err != nil {
			return err
		}
		prometheus.OutboxPublishedCounter.Inc()
	}
	return nil
}
