package models

import "time"

// Vendor 供应商表
type Vendor struct {
	ID                 uint      `gorm:"primarykey" json:"id"`                   // 主键
	Name               string    `gorm:"uniqueIndex;not null" json:"name"`       // 供应商名称
	OfficePhone        string    `gorm:"type:varchar(32)" json:"office_phone"`   // 市话
	MobilePhone        string    `gorm:"type:varchar(32)" json:"mobile_phone"`   // 行动电话
	Address            string    `gorm:"type:varchar(255)" json:"address"`       // 地址
	TaxID              string    `gorm:"type:varchar(32)" json:"tax_id"`         // 统一编号
	ContactName        string    `gorm:"type:varchar(64)" json:"contact_name"`   // 联络人
	ContactMobilePhone string    `gorm:"type:varchar(32)" json:"contact_mobile"` // 联络人电话
	OpenDays           string    `gorm:"type:varchar(64)" json:"open_days"`      // 营业日（逗号分隔）
	Note               string    `gorm:"type:varchar(255)" json:"note"`          // 备注
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Vendor) TableName() string {
	return "vendors"
}
