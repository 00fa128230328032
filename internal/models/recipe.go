package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe 配方行（产品 BOM）。配方修改采用追加式版本化：
// 旧行写入 end_at 关闭，新行另起 start_at，历史订单按时间窗口回溯。
// 同一 (product_id, material_id) 最多存在一行 end_at 为空的在用行。
type Recipe struct {
	ID         uint            `gorm:"primarykey" json:"id"`
	ProductID  uint            `gorm:"index:idx_recipe_product_material;not null" json:"product_id"`  // 产品ID
	MaterialID uint            `gorm:"index:idx_recipe_product_material;not null" json:"material_id"` // 原料ID
	Quantity   decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"quantity"`                   // 单份产品用量
	StartAt    time.Time       `gorm:"index;not null" json:"start_at"`                                // 生效时间
	EndAt      *time.Time      `gorm:"index" json:"end_at"`                                           // 失效时间（在用为空）

	Material *Material `gorm:"foreignKey:MaterialID" json:"material,omitempty"` // 原料
}

// TableName 指定表名
func (Recipe) TableName() string {
	return "recipes"
}

// ActiveAt 判断配方行在指定时刻是否有效
func (r Recipe) ActiveAt(t time.Time) bool {
	if t.Before(r.StartAt) {
		return false
	}
	return r.EndAt == nil || t.Before(*r.EndAt)
}
