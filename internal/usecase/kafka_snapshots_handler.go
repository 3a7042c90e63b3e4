package usecase

import (
	"context"
	"encoding/json"
	"time"

	"ChainPulse/internal/domain/models"
	drepo "ChainPulse/internal/domain/repository"
	pkgkafka "ChainPulse/pkg/kafka"
)

// KafkaSnapshotsHandler consumes chain snapshots from a Kafka topic and
// feeds them into the detection processor.
type KafkaSnapshotsHandler struct {
	topic   string
	proc    *SnapshotProcessor
	metrics drepo.Metrics
}

func NewKafkaSnapshotsHandler(topic string, proc *SnapshotProcessor, metrics drepo.Metrics) *KafkaSnapshotsHandler {
	return &KafkaSnapshotsHandler{topic: topic, proc: proc, metrics: metrics}
}

func (h *KafkaSnapshotsHandler) Topic() string { return h.topic }

func (h *KafkaSnapshotsHandler) Handle(ctx context.Context, b []byte) error {
	var snap models.MarketSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	// E2E latency from snapshot time to now (approx)
	h.metrics.RecordLatency("ingest_e2e_seconds", time.Since(snap.Timestamp).Seconds())

	if err := h.proc.Process(ctx, &snap); err != nil {
		h.metrics.RecordError("consumer_process")
		return err
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaSnapshotsHandler)(nil)
