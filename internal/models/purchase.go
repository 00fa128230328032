package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase 进货单表
type Purchase struct {
	ID           uint      `gorm:"primarykey" json:"id"`                    // 主键
	PurchaseDate time.Time `gorm:"index;not null" json:"purchase_date"`     // 进货日期（UTC 零点）
	VendorID     uint      `gorm:"index;not null" json:"vendor_id"`         // 供应商ID
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Vendor  *Vendor          `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`     // 供应商
	Details []PurchaseDetail `gorm:"foreignKey:PurchaseID" json:"details,omitempty"` // 进货明细
}

// TableName 指定表名
func (Purchase) TableName() string {
	return "purchases"
}

// PurchaseDetail 进货明细表，(purchase_id, material_id) 为复合主键
type PurchaseDetail struct {
	PurchaseID uint            `gorm:"primaryKey" json:"purchase_id"`                     // 进货单ID
	MaterialID uint            `gorm:"primaryKey" json:"material_id"`                     // 原料ID
	Quantity   decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"quantity"`       // 进货数量
	PriceTotal Money           `gorm:"type:decimal(12,2);not null" json:"price_total"`    // 进货总价
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	Material *Material `gorm:"foreignKey:MaterialID" json:"material,omitempty"` // 原料
}

// TableName 指定表名
func (PurchaseDetail) TableName() string {
	return "purchase_details"
}
