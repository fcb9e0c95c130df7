package event

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
)

// ApplicationPublisher 发布报名事件到指定 topic
type ApplicationPublisher struct {
	producer Producer
	topic    string
}

func NewApplicationPublisher(producer Producer, topic string) *ApplicationPublisher {
	if topic == "" {
		topic = ApplicationTopic
	}
	return &ApplicationPublisher{
		producer: producer,
		topic:    topic,
	}
}

func (p *ApplicationPublisher) Publish(ctx context.Context, msg *ApplicationMessage) error {
	val, err := msg.Marshal()
	if err != nil {
		return fmt.Errorf("marshal application message: %w", err)
	}
	_, _, err = p.producer.Produce(ctx, &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(msg.Key()),
		Value: sarama.ByteEncoder(val),
	})
	if err != nil {
		return fmt.Errorf("produce application message: %w", err)
	}
	return nil
}
