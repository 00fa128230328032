package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/orderapp-next/internal/logger"
	"github.com/orderapp-next/internal/provider"
	"github.com/orderapp-next/internal/queue"
	"github.com/orderapp-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCostRecompute, c.handleCostRecompute)
}

func (c *Consumer) handleCostRecompute(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_cost_recompute_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CostRecomputePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_cost_recompute_unmarshal_failed", "error", err)
		return err
	}
	if c.CostService == nil {
		logger.Warnw("worker_cost_recompute_skip_cost_service_nil")
		return nil
	}

	if payload.StartDate == "" {
		if err := c.CostService.RunPendingRecompute(); err != nil {
			logger.Warnw("worker_cost_recompute_failed", "error", err)
			return err
		}
		return nil
	}

	start, err := time.Parse("2006-01-02", payload.StartDate)
	if err != nil {
		// 载荷损坏，重试也不会成功
		logger.Warnw("worker_cost_recompute_skip_invalid_start_date",
			"start_date", payload.StartDate, "error", err)
		return nil
	}
	if err := c.CostService.RecomputeFrom(start); err != nil {
		if errors.Is(err, service.ErrRecomputeDateInFuture) {
			logger.Warnw("worker_cost_recompute_skip_future_date", "start_date", payload.StartDate)
			return nil
		}
		logger.Warnw("worker_cost_recompute_failed", "start_date", payload.StartDate, "error", err)
		return err
	}
	if err := c.CostService.ClearDirtyThrough(start); err != nil {
		logger.Warnw("worker_cost_dirty_clear_failed", "start_date", payload.StartDate, "error", err)
	}
	return nil
}
