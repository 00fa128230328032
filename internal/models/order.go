package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order 订单表。completion_at 仅预约单填写；
// 预约单完成时 ordered_at 会对齐到 completion_at，使成本归属到实际出餐日。
type Order struct {
	ID           uint       `gorm:"primarykey" json:"id"`                   // 主键
	OrderedAt    time.Time  `gorm:"index;not null" json:"ordered_at"`       // 下单时间
	CompletionAt *time.Time `gorm:"index" json:"completion_at"`             // 预约完成时间
	Status       string     `gorm:"index;not null" json:"status"`           // 订单状态
	IsPaid       bool       `gorm:"not null;default:false" json:"is_paid"`  // 是否已付款
	Note         string     `gorm:"type:varchar(255)" json:"note"`          // 备注
	PriceTotal   Money      `gorm:"type:decimal(12,2);not null" json:"price_total"` // 订单总价
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Details []OrderDetail `gorm:"foreignKey:OrderID" json:"details,omitempty"` // 订单明细
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// OrderDetail 订单明细表，(order_id, product_id) 为复合主键
type OrderDetail struct {
	OrderID   uint            `gorm:"primaryKey" json:"order_id"`                  // 订单ID
	ProductID uint            `gorm:"primaryKey" json:"product_id"`                // 产品ID
	Quantity  decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"quantity"` // 数量

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 产品
}

// TableName 指定表名
func (OrderDetail) TableName() string {
	return "order_details"
}
