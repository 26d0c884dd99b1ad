package rocketmq

import (
	"context"
	"errors"

	"stash/config"
	"stash/pkg/log"

	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/apache/rocketmq-client-go/v2/producer"
	"github.com/apache/rocketmq-client-go/v2/rlog"
	"go.uber.org/zap"
)

func init() {
	rlog.SetLogLevel("error")
}

// Handler 处理一条消息, 返回 error 时消息稍后重投
type Handler func(ctx context.Context, body []byte) error

type Producer struct {
	p rocketmq.Producer
}

func NewProducer(cfg *config.RocketMQConfig) (*Producer, error) {
	if cfg == nil || len(cfg.NameServer) == 0 {
		return nil, errors.New("rocketmq nameserver not configured")
	}
	p, err := rocketmq.NewProducer(
		producer.WithNameServer(cfg.NameServer),
		producer.WithRetry(cfg.Producer.Retry),
		producer.WithGroupName(cfg.Producer.Group),
	)
	if err != nil {
		return nil, err
	}
	if err := p.Start(); err != nil {
		return nil, err
	}
	log.L.Info("init producer success", zap.Strings("nameserver", cfg.NameServer))
	return &Producer{p: p}, nil
}

func (p *Producer) SendMsg(ctx context.Context, topic string, body []byte) error {
	res, err := p.p.SendSync(ctx, primitive.NewMessage(topic, body))
	if err != nil {
		return err
	}
	log.L.Debug("send message success", zap.String("topic", topic), zap.String("msg_id", res.MsgID))
	return nil
}

func (p *Producer) Shutdown() error {
	return p.p.Shutdown()
}

type Consumer struct {
	c rocketmq.PushConsumer
}

// StartConsumer 订阅 topic 并启动消费
func StartConsumer(cfg *config.RocketMQConfig, topic string, h Handler) (*Consumer, error) {
	if cfg == nil || len(cfg.NameServer) == 0 {
		return nil, errors.New("rocketmq nameserver not configured")
	}
	c, err := rocketmq.NewPushConsumer(
		consumer.WithNameServer(cfg.NameServer),
		consumer.WithGroupName(cfg.Consumer.Group),
	)
	if err != nil {
		return nil, err
	}

	err = c.Subscribe(topic, consumer.MessageSelector{}, func(ctx context.Context, msgs ...*primitive.MessageExt) (consumer.ConsumeResult, error) {
		for _, msg := range msgs {
			if err := h(ctx, msg.Body); err != nil {
				log.L.Error("consume message failed", zap.String("topic", topic), zap.String("msg_id", msg.MsgId), zap.Error(err))
				return consumer.ConsumeRetryLater, nil
			}
		}
		return consumer.ConsumeSuccess, nil
	})
	if err != nil {
		return nil, err
	}
	if err := c.Start(); err != nil {
		return nil, err
	}
	log.L.Info("consumer started", zap.String("topic", topic))
	return &Consumer{c: c}, nil
}

func (c *Consumer) Shutdown() error {
	return c.c.Shutdown()
}
