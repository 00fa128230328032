package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialCost 原料成本快照，(material_id, cost_date) 唯一。
// 只追加的时间序列：历史行永不修改，报表按日期回溯取值。
// 约束：cost_per_unit = stocked_cost / stocked_quantity（写入时按 5 位小数取整）。
type MaterialCost struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	MaterialID      uint            `gorm:"uniqueIndex:idx_material_cost_date;not null" json:"material_id"` // 原料ID
	CostDate        time.Time       `gorm:"uniqueIndex:idx_material_cost_date;not null" json:"cost_date"`   // 快照日期（UTC 零点）
	StockedQuantity decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"stocked_quantity"`            // 截至当日库存数量
	StockedCost     Money           `gorm:"type:decimal(12,2);not null" json:"stocked_cost"`                // 截至当日库存成本
	CostPerUnit     decimal.Decimal `gorm:"type:decimal(10,5);not null" json:"cost_per_unit"`               // 单位成本
	CreatedAt       time.Time       `json:"created_at"`
}

// TableName 指定表名
func (MaterialCost) TableName() string {
	return "material_costs"
}

// ProductCost 产品成本快照，(product_id, cost_date) 唯一。
// 始终按"今天"的在用配方与最新原料成本计算，代表当前标准成本。
type ProductCost struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	ProductID   uint            `gorm:"uniqueIndex:idx_product_cost_date;not null" json:"product_id"` // 产品ID
	CostDate    time.Time       `gorm:"uniqueIndex:idx_product_cost_date;not null" json:"cost_date"`  // 快照日期（UTC 零点）
	CostPerUnit decimal.Decimal `gorm:"type:decimal(10,5);not null" json:"cost_per_unit"`             // 单位成本
	CreatedAt   time.Time       `json:"created_at"`
}

// TableName 指定表名
func (ProductCost) TableName() string {
	return "product_costs"
}
