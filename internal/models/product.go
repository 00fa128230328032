package models

import "time"

// Product 产品表
type Product struct {
	ID        uint      `gorm:"primarykey" json:"id"`             // 主键
	Name      string    `gorm:"uniqueIndex;not null" json:"name"` // 产品名称
	UnitID    uint      `gorm:"index" json:"unit_id"`             // 计量单位ID
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Unit   *Unit          `gorm:"foreignKey:UnitID" json:"unit,omitempty"`      // 计量单位
	Prices []ProductPrice `gorm:"foreignKey:ProductID" json:"prices,omitempty"` // 价格历史
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// ProductPrice 产品价格表。价格变更只追加新行，永不原地更新，
// 以保证按下单时点回溯价格。
type ProductPrice struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	ProductID   uint      `gorm:"index:idx_product_price_effective;not null" json:"product_id"` // 产品ID
	Price       Money     `gorm:"type:decimal(12,2);not null" json:"price"`                     // 价格
	EffectiveAt time.Time `gorm:"index:idx_product_price_effective;not null" json:"effective_at"` // 生效时间
}

// TableName 指定表名
func (ProductPrice) TableName() string {
	return "product_prices"
}
