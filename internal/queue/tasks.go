package queue

import (
	"encoding/json"

	"github.com/orderapp-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCostRecompute 成本重算任务
	TaskCostRecompute = constants.TaskCostRecompute
)

// CostRecomputePayload 成本重算任务载荷。
// StartDate 为空时从登记的起算日（或今天）开始。
type CostRecomputePayload struct {
	StartDate string `json:"start_date,omitempty"`
}

// NewCostRecomputeTask 创建成本重算任务
func NewCostRecomputeTask(payload CostRecomputePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCostRecompute, body), nil
}
