package repository

import (
	"context"

	"ForexPulse/internal/domain/models"
	domrepo "ForexPulse/internal/domain/repository"
	pkgkafka "ForexPulse/pkg/kafka"
)

// KafkaSignalPublisher broadcasts emitted signals to the notification layer.
// Messages are keyed by pair so one pair's signals stay ordered.
type KafkaSignalPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaSignalPublisher creates a publisher over the given topic.
func NewKafkaSignalPublisher(producer *pkgkafka.Producer, topic string) domrepo.SignalPublisher {
	return &KafkaSignalPublisher{producer: producer, topic: topic}
}

func (p *KafkaSignalPublisher) Publish(ctx context.Context, sig *models.SignalAnalysis) error {
	return p.producer.Publish(ctx, p.topic, []byte(sig.Pair), sig)
}

func (p *KafkaSignalPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
