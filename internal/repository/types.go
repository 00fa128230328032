package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page     int
	PageSize int
	Status   string
	IsPaid   *bool
	DateFrom *time.Time
	DateTo   *time.Time
}

// PurchaseListFilter 查询进货单列表的过滤条件
type PurchaseListFilter struct {
	Page     int
	PageSize int
	VendorID uint
	DateFrom *time.Time
	DateTo   *time.Time
}

// MaterialPurchaseSum 按原料汇总的进货数量与金额
type MaterialPurchaseSum struct {
	MaterialID    uint
	TotalQuantity decimal.Decimal
	TotalCost     decimal.Decimal
}

// CompletedOrderLine 已完成订单的明细行（含下单时间），用于原料耗用归集
type CompletedOrderLine struct {
	OrderID   uint
	ProductID uint
	Quantity  decimal.Decimal
	OrderedAt time.Time
}
