package constants

// 订单状态常量（沿用历史数据中的繁体中文字面值）
const (
	OrderStatusPreparing = "準備中"
	OrderStatusCompleted = "已完成"
	OrderStatusCancelled = "已取消"
)

// OrderStatuses 全部合法订单状态
var OrderStatuses = []string{
	OrderStatusPreparing,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// 系统设置键常量
const (
	SettingCostUpdateStartDate = "cost_update_start_date"
)

// 队列与任务常量
const (
	QueueDefault      = "default"
	TaskCostRecompute = "cost:recompute"
)

// 数值精度常量
const (
	// CostPerUnitScale 单位成本保留的小数位
	CostPerUnitScale = 5
	// MoneyScale 金额保留的小数位
	MoneyScale = 2
	// QuantityScale 数量保留的小数位
	QuantityScale = 3
)
