package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/NikhilGolait/KisanMitra/internal/config"
	"github.com/NikhilGolait/KisanMitra/internal/domain"
)

// Writer produces advisories to the sink topic.
// It implements pipeline.AdvisoryPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes and writes one advisory to the sink topic.
func (w *Writer) Publish(ctx context.Context, advisory domain.Advisory) error {
	msg, err := serializeToMessage(advisory)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an Advisory into a Kafka message.
func serializeToMessage(advisory domain.Advisory) (kafkago.Message, error) {
	data, err := json.Marshal(advisory)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize advisory: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(advisory.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "location_valid", Value: []byte(fmt.Sprintf("%t", advisory.Location.Valid))},
			{Key: "generated_at", Value: []byte(advisory.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
