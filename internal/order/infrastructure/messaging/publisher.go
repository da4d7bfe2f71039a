// Package messaging 订单事件的 Kafka 发布实现
package messaging

import (
	"context"

	"github.com/wyfcoding/markettracker/internal/order/domain"
	"github.com/wyfcoding/markettracker/pkg/mq"
)

// kafkaEventPublisher 基于 Kafka 的事件发布者
type kafkaEventPublisher struct {
	producer *mq.KafkaProducer
}

// NewKafkaEventPublisher 创建 Kafka 事件发布者
func NewKafkaEventPublisher(producer *mq.KafkaProducer) domain.EventPublisher {
	return &kafkaEventPublisher{producer: producer}
}

func (p *kafkaEventPublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	return p.producer.SendMessage(ctx, topic, key, event)
}

// NoopEventPublisher 未配置 Kafka 时的空实现
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	return nil
}
