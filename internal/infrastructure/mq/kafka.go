package mq

import (
	"context"
	"fmt"

	"salarysystem/internal/config"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// Producer Kafka 同步生产者
type Producer struct {
	producer sarama.SyncProducer
	logger   *zap.Logger
}

// NewSaramaConfig 生产者配置：等待全部副本确认，按 key 哈希分区
func NewSaramaConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Return.Successes = true
	cfg.Producer.Partitioner = sarama.NewHashPartitioner
	return cfg
}

// InitKafka 连接 Kafka 并创建生产者
func InitKafka(cfg *config.KafkaConfig, logger *zap.Logger) (*Producer, error) {
	p, err := sarama.NewSyncProducer(cfg.Brokers, NewSaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("创建 Kafka 生产者失败: %w", err)
	}
	logger.Info("Kafka 生产者创建成功", zap.Strings("brokers", cfg.Brokers))
	return NewProducer(p, logger), nil
}

func NewProducer(p sarama.SyncProducer, logger *zap.Logger) *Producer {
	return &Producer{producer: p, logger: logger}
}

// Publish 发送一条消息
// SyncProducer 不支持取消，ctx 只用于在发送前短路
func (p *Producer) Publish(ctx context.Context, topic, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.StringEncoder(value),
	})
	if err != nil {
		return fmt.Errorf("发送 Kafka 消息失败: topic=%s, key=%s: %w", topic, key, err)
	}
	p.logger.Debug("Kafka 消息已发送",
		zap.String("topic", topic),
		zap.String("key", key),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))
	return nil
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
