// Package kafka publishes enriched observations to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/lerban/gw-data-viz/internal/config"
	"github.com/lerban/gw-data-viz/internal/domain"
	"github.com/lerban/gw-data-viz/internal/pipeline"
)

// Writer produces observation messages to a Kafka topic.
// It implements pipeline.Exporter.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured observation topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Export serializes every enriched observation of a run and publishes them in
// a single WriteMessages call. Runs with no observations publish nothing.
func (w *Writer) Export(ctx context.Context, result *pipeline.Result) error {
	if len(result.Observations) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(result.Observations))
	for i := range result.Observations {
		msg, err := serializeToMessage(result.Observations[i], result.RunID, result.GeneratedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return err
	}
	w.logger.Info("observations published", "topic", w.writer.Topic, "messages", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals one enriched observation into a Kafka message.
// Messages are keyed by site id so a partition carries a site's full history
// in order.
func serializeToMessage(obs domain.EnrichedObservation, runID string, generatedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(obs)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize observation: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(obs.SiteID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "parameter_code", Value: []byte(obs.ParameterCode)},
			{Key: "run_id", Value: []byte(runID)},
			{Key: "generated_at", Value: []byte(generatedAt.Format(time.RFC3339))},
		},
	}, nil
}
