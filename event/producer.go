package event

import (
	"context"

	"github.com/IBM/sarama"
)

type Producer interface {
	Produce(ctx context.Context, msg *sarama.ProducerMessage) (partition int32, offset int64, err error)
}

type SaramaSyncProducer struct {
	producer sarama.SyncProducer
}

var _ Producer = (*SaramaSyncProducer)(nil)

func NewSaramaSyncProducer(producer sarama.SyncProducer) *SaramaSyncProducer {
	return &SaramaSyncProducer{producer: producer}
}

func (p *SaramaSyncProducer) Produce(ctx context.Context, msg *sarama.ProducerMessage) (int32, int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	return p.producer.SendMessage(msg)
}

func (p *SaramaSyncProducer) Close() error {
	return p.producer.Close()
}

// NopProducer 未启用 kafka 时丢弃消息
type NopProducer struct{}

var _ Producer = NopProducer{}

func (NopProducer) Produce(context.Context, *sarama.ProducerMessage) (int32, int64, error) {
	return 0, 0, nil
}
