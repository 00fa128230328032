package models

import "time"

// Unit 计量单位表
type Unit struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"` // 单位名称
}

// TableName 指定表名
func (Unit) TableName() string {
	return "units"
}

// Material 原料表
type Material struct {
	ID        uint      `gorm:"primarykey" json:"id"`             // 主键
	Name      string    `gorm:"uniqueIndex;not null" json:"name"` // 原料名称
	UnitID    uint      `gorm:"index" json:"unit_id"`             // 计量单位ID
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Unit *Unit `gorm:"foreignKey:UnitID" json:"unit,omitempty"` // 计量单位
}

// TableName 指定表名
func (Material) TableName() string {
	return "materials"
}
