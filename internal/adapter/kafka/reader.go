package kafka

import (
	"context"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/NikhilGolait/KisanMitra/internal/config"
	"github.com/NikhilGolait/KisanMitra/internal/domain"
)

// Reader consumes sensor readings from the source topic.
// It implements pipeline.SensorSource.
type Reader struct {
	reader *kafkago.Reader
	logger *slog.Logger
}

// NewReader creates a Kafka consumer for the configured sensor topic.
func NewReader(cfg *config.Config, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaSensorTopic,
		GroupID: cfg.KafkaGroupID,
	})
	return &Reader{reader: r, logger: logger}
}

// Fetch blocks until the next sensor message arrives. Offsets are committed
// explicitly via the returned event's Commit function, after the advisory
// has been published.
func (r *Reader) Fetch(ctx context.Context) (domain.SensorEvent, error) {
	msg, err := r.reader.FetchMessage(ctx)
	if err != nil {
		return domain.SensorEvent{}, fmt.Errorf("fetch sensor message: %w", err)
	}
	return r.mapMessageToSensorEvent(msg), nil
}

func (r *Reader) Close() error {
	return r.reader.Close()
}

func (r *Reader) mapMessageToSensorEvent(msg kafkago.Message) domain.SensorEvent {
	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}

	return domain.SensorEvent{
		Key:       msg.Key,
		Value:     msg.Value,
		Headers:   headers,
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Timestamp: msg.Time,
		Commit: func(ctx context.Context) error {
			return r.reader.CommitMessages(ctx, msg)
		},
	}
}
