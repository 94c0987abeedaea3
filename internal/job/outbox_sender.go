package job

import (
	"context"
	"time"

	"salarysystem/internal/config"
	"salarysystem/internal/model"

	"go.uber.org/zap"
)

// OutboxStore outbox 表的读写，实现见 repository.OutboxRepository
type OutboxStore interface {
	FetchPending(ctx context.Context, limit int) ([]*model.OutboxMessage, error)
	MarkSent(ctx context.Context, id int64) error
	RecordFailure(ctx context.Context, msg *model.OutboxMessage, maxRetry int) (bool, error)
}

// Publisher 消息发送，实现见 mq.Producer
type Publisher interface {
	Publish(ctx context.Context, topic, key, value string) error
}

// OutboxSender 把工资计算事件从 outbox 表投递到 Kafka
//
// 至少投递一次：发送成功但标记 SENT 失败时下一轮会重发，消费方按 event_no 去重
type OutboxSender struct {
	store     OutboxStore
	publisher Publisher
	maxRetry  int
	logger    *zap.Logger
	stopCh    chan struct{}
	interval  time.Duration
	batchSize int
}

func NewOutboxSender(store OutboxStore, publisher Publisher, cfg *config.Config, logger *zap.Logger) *OutboxSender {
	maxRetry := cfg.Business.MaxRetryCount
	if maxRetry < 1 {
		maxRetry = 1
	}
	return &OutboxSender{
		store:     store,
		publisher: publisher,
		maxRetry:  maxRetry,
		logger:    logger.Named("outbox_sender"),
		stopCh:    make(chan struct{}),
		interval:  100 * time.Millisecond,
		batchSize: 100,
	}
}

func (s *OutboxSender) Start(ctx context.Context) {
	s.logger.Info("消息发送任务启动")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("收到停止信号，任务退出")
			return
		case <-s.stopCh:
			s.logger.Info("任务停止")
			return
		case <-ticker.C:
			s.processPendingMessages(ctx)
		}
	}
}

func (s *OutboxSender) Stop() {
	close(s.stopCh)
}

// processPendingMessages 返回本轮发送成功的条数
func (s *OutboxSender) processPendingMessages(ctx context.Context) int {
	messages, err := s.store.FetchPending(ctx, s.batchSize)
	if err != nil {
		s.logger.Error("查询待发送消息失败", zap.Error(err))
		return 0
	}

	sent := 0
	for _, msg := range messages {
		if ctx.Err() != nil {
			break
		}
		if s.sendMessage(ctx, msg) {
			sent++
		}
	}
	return sent
}

func (s *OutboxSender) sendMessage(ctx context.Context, msg *model.OutboxMessage) bool {
	err := s.publisher.Publish(ctx, msg.Topic, msg.MessageKey, msg.Payload)
	if err == nil {
		if err := s.store.MarkSent(ctx, msg.ID); err != nil {
			s.logger.Error("更新消息状态失败", zap.Int64("id", msg.ID), zap.Error(err))
			return false
		}
		s.logger.Debug("消息发送成功",
			zap.Int64("id", msg.ID),
			zap.String("event_no", msg.EventNo),
			zap.String("topic", msg.Topic),
			zap.String("key", msg.MessageKey))
		return true
	}

	s.logger.Warn("消息发送失败", zap.Int64("id", msg.ID), zap.Error(err))

	gaveUp, recordErr := s.store.RecordFailure(ctx, msg, s.maxRetry)
	if recordErr != nil {
		s.logger.Error("记录发送失败次数失败", zap.Int64("id", msg.ID), zap.Error(recordErr))
		return false
	}
	if gaveUp {
		s.logger.Error("消息超过最大重试次数，标记为失败",
			zap.Int64("id", msg.ID),
			zap.String("event_no", msg.EventNo),
			zap.Int("retry_count", msg.RetryCount))
	}
	return false
}
