package repository

import (
	"context"

	"AssetRadar/internal/domain/models"
	"AssetRadar/pkg/kafka"
)

// KafkaPublisher emits completed run results to a topic for downstream
// consumers.
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaPublisher(producer *kafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, result *models.RunResult) error {
	return p.producer.Publish(ctx, p.topic, []byte(result.ID), result)
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
