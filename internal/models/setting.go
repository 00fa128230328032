package models

import "time"

// Setting 系统设置表（键值对）。
// 成本重算的待处理起算日存放在这里；丢失是安全的，
// 只意味着放弃一次回补重算，后续变更会重新登记。
type Setting struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Key       string    `gorm:"uniqueIndex;not null" json:"key"` // 设置键
	Value     string    `gorm:"type:text" json:"value"`          // 设置值
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Setting) TableName() string {
	return "settings"
}
