package repository

import (
	"context"
	"fmt"

	"Assemblief/internal/domain/models"
	domrepo "Assemblief/internal/domain/repository"
)

type messagePublisher interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// KafkaEvaluationPublisher writes evaluation events to one topic keyed by asset.
type KafkaEvaluationPublisher struct {
	producer messagePublisher
	topic    string
}

func NewKafkaEvaluationPublisher(producer messagePublisher, topic string) *KafkaEvaluationPublisher {
	return &KafkaEvaluationPublisher{producer: producer, topic: topic}
}

func (p *KafkaEvaluationPublisher) PublishEvaluation(ctx context.Context, ev models.EvaluationEvent) error {
	if err := p.producer.Publish(ctx, p.topic, []byte(ev.Asset), ev); err != nil {
		return fmt.Errorf("publish %s event: %w", ev.Kind, err)
	}
	return nil
}

func (p *KafkaEvaluationPublisher) Close() error {
	return p.producer.Close()
}

var _ domrepo.EvaluationPublisher = (*KafkaEvaluationPublisher)(nil)
