package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"stash/config"
	"stash/pkg/log"
	"stash/pkg/rocketmq"
	"stash/types"

	"go.uber.org/zap"
)

// ActivityPublisher 投递积分事件, 业务事务提交后调用
type ActivityPublisher interface {
	Publish(ctx context.Context, ev *types.ActivityEvent) error
}

// DirectPublisher 进程内同步处理
type DirectPublisher struct {
	Reputation IReputationService
}

func (p *DirectPublisher) Publish(ctx context.Context, ev *types.ActivityEvent) error {
	return p.Reputation.Apply(ctx, ev)
}

// MQPublisher 发送到 RocketMQ, 由 ActivityConsumer 处理
type MQPublisher struct {
	Producer *rocketmq.Producer
	Topic    string
}

func (p *MQPublisher) Publish(ctx context.Context, ev *types.ActivityEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.Producer.SendMsg(ctx, p.Topic, body)
}

// NewActivityPublisher reputation.async 开启时使用 MQ
func NewActivityPublisher(conf *config.Config, rep IReputationService) (ActivityPublisher, func(), error) {
	if !conf.Reputation.Async {
		return &DirectPublisher{Reputation: rep}, func() {}, nil
	}
	producer, err := rocketmq.NewProducer(conf.RocketMQ)
	if err != nil {
		return nil, nil, fmt.Errorf("init activity producer: %w", err)
	}
	cleanup := func() {
		if err := producer.Shutdown(); err != nil {
			log.L.Warn("shutdown activity producer failed", zap.Error(err))
		}
	}
	return &MQPublisher{Producer: producer, Topic: conf.Reputation.Topic}, cleanup, nil
}

// ActivityConsumer 消费 MQ 中的积分事件
type ActivityConsumer struct {
	Config     *config.Config
	Reputation IReputationService
}

// Handle 无效消息直接丢弃, 只有存储错误才重投
func (c *ActivityConsumer) Handle(ctx context.Context, body []byte) error {
	var ev types.ActivityEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		log.L.Error("drop malformed activity event", zap.ByteString("body", body), zap.Error(err))
		return nil
	}
	err := c.Reputation.Apply(ctx, &ev)
	if errors.Is(err, ErrInvalidActivity) {
		log.L.Error("drop invalid activity event", zap.ByteString("body", body), zap.Error(err))
		return nil
	}
	return err
}

// Start 未开启异步时返回 nil
func (c *ActivityConsumer) Start() (*rocketmq.Consumer, error) {
	if !c.Config.Reputation.Async {
		return nil, nil
	}
	return rocketmq.StartConsumer(c.Config.RocketMQ, c.Config.Reputation.Topic, c.Handle)
}

// publishActivity 积分投递失败只记录日志, 不影响主流程
func publishActivity(ctx context.Context, pub ActivityPublisher, userID uint64, activity, sourceID string, revoke bool) {
	if pub == nil || userID == 0 {
		return
	}
	ev := &types.ActivityEvent{
		UserID:     userID,
		Activity:   activity,
		SourceID:   sourceID,
		Revoke:     revoke,
		OccurredAt: time.Now(),
	}
	if err := pub.Publish(ctx, ev); err != nil {
		log.L.Error("publish activity failed",
			zap.Uint64("user_id", userID),
			zap.String("activity", activity),
			zap.String("source_id", sourceID),
			zap.Bool("revoke", revoke),
			zap.Error(err),
		)
	}
}
