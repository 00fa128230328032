package worker

import (
	"context"
	"errors"
	"time"

	"github.com/orderapp-next/internal/config"
	"github.com/orderapp-next/internal/logger"
	"github.com/orderapp-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Service 异步队列服务。除消费队列任务外，
// 每天在配置的时刻触发一次例行成本重算。
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
	costs    config.CostsConfig
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, costs config.CostsConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
		costs:    costs,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	go s.runDailyRecomputeLoop(ctx)
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runDailyRecomputeLoop 每天在配置时刻把成本重算任务推进队列。
// 经由队列触发而不是直接调用，多实例部署时任务去重只执行一次。
func (s *Service) runDailyRecomputeLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.Container == nil {
		return
	}
	loc := s.costs.Location()
	for {
		now := time.Now().In(loc)
		next := time.Date(now.Year(), now.Month(), now.Day(),
			s.costs.DailyHour, s.costs.DailyMinute, 0, 0, loc)
		if !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}
		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		if err := s.consumer.QueueClient.EnqueueCostRecompute(queue.CostRecomputePayload{}); err != nil {
			logger.Warnw("worker_daily_recompute_enqueue_failed", "error", err)
		} else {
			logger.Infow("worker_daily_recompute_enqueued", "at", next.Format(time.RFC3339))
		}
	}
}
