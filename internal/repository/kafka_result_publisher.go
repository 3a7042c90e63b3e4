package repository

import (
	"context"

	"ChainPulse/internal/domain/models"
	"ChainPulse/internal/domain/repository"
	pkgkafka "ChainPulse/pkg/kafka"
)

// KafkaResultPublisher implements Publisher for Kafka, keyed by symbol so
// per-symbol ordering is preserved across partitions.
type KafkaResultPublisher struct {
	producer      *pkgkafka.Producer
	resultsTopic  string
	advancedTopic string
}

// NewKafkaResultPublisher creates a Kafka publisher.
func NewKafkaResultPublisher(producer *pkgkafka.Producer, resultsTopic, advancedTopic string) repository.Publisher {
	return &KafkaResultPublisher{
		producer:      producer,
		resultsTopic:  resultsTopic,
		advancedTopic: advancedTopic,
	}
}

func (p *KafkaResultPublisher) PublishResult(ctx context.Context, r *models.AnalysisResult) error {
	return p.producer.Publish(ctx, p.resultsTopic, []byte(r.Symbol), r)
}

func (p *KafkaResultPublisher) PublishAdvanced(ctx context.Context, m *models.AdvancedMetrics) error {
	return p.producer.Publish(ctx, p.advancedTopic, []byte(m.Symbol), m)
}

func (p *KafkaResultPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
