package ioc

import (
	"log"

	"github.com/IBM/sarama"
	"github.com/spf13/viper"
	"github.com/to404hanga/contest_gateway/config"
	"github.com/to404hanga/contest_gateway/event"
	"github.com/to404hanga/contest_gateway/pkg/logger"
	"github.com/to404hanga/contest_gateway/service"
)

func kafkaConfig() config.KafkaConfig {
	var cfg config.KafkaConfig
	if err := viper.UnmarshalKey(cfg.Key(), &cfg); err != nil {
		log.Panicf("unmarshal kafka config failed: %v", err)
	}
	return cfg
}

// InitProducer kafka 未启用时返回丢弃消息的 producer
func InitProducer(l logger.Logger) (event.Producer, func()) {
	cfg := kafkaConfig()
	if !cfg.Enabled {
		l.Info("kafka disabled, application events are dropped")
		return event.NopProducer{}, func() {}
	}

	scfg := sarama.NewConfig()
	scfg.Producer.Return.Successes = true
	scfg.Producer.RequiredAcks = sarama.WaitForLocal
	producer, err := sarama.NewSyncProducer(cfg.Brokers, scfg)
	if err != nil {
		log.Panicf("init kafka producer failed: %v", err)
	}
	p := event.NewSaramaSyncProducer(producer)
	return p, func() {
		if err := p.Close(); err != nil {
			l.Error("close kafka producer failed", logger.Error(err))
		}
	}
}

func InitEventPublisher(producer event.Producer) service.EventPublisher {
	return event.NewApplicationPublisher(producer, kafkaConfig().Topic)
}
