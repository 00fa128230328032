package repository

import (
	"errors"
	"time"

	"github.com/orderapp-next/internal/constants"
	"github.com/orderapp-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	List(filter OrderListFilter) ([]models.Order, int64, error)
	GetByID(id uint) (*models.Order, error)
	Create(order *models.Order) error
	Update(order *models.Order) error
	UpsertDetail(detail *models.OrderDetail) error
	DeleteDetail(orderID, productID uint) error
	Delete(id uint) error
	// CompletedLines 下单时间早于 before 的已完成订单明细行
	CompletedLines(before time.Time) ([]CompletedOrderLine, error)
	// ListBetween 下单时间落在 [from, to) 的订单
	ListBetween(from, to time.Time) ([]models.Order, error)
	// ListFrom 下单时间不早于 from 的订单
	ListFrom(from time.Time) ([]models.Order, error)
	// ListBefore 下单时间早于 before 的订单（倒序）
	ListBefore(before time.Time) ([]models.Order, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Transaction 执行事务
func (r *GormOrderRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List 订单列表
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.IsPaid != nil {
		query = query.Where("is_paid = ?", *filter.IsPaid)
	}
	if filter.DateFrom != nil {
		query = query.Where("ordered_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("ordered_at < ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var orders []models.Order
	if err := query.
		Preload("Details").
		Preload("Details.Product").
		Order("ordered_at DESC, id DESC").
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// GetByID 根据 ID 获取订单（含明细）
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.
		Preload("Details").
		Preload("Details.Product").
		Preload("Details.Product.Unit").
		First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// Create 创建订单（连同明细）
func (r *GormOrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// Update 更新订单
func (r *GormOrderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}

// UpsertDetail 按 (order_id, product_id) 插入或更新订单明细
func (r *GormOrderRepository) UpsertDetail(detail *models.OrderDetail) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity"}),
	}).Create(detail).Error
}

// DeleteDetail 删除单条订单明细
func (r *GormOrderRepository) DeleteDetail(orderID, productID uint) error {
	return r.db.
		Where("order_id = ? AND product_id = ?", orderID, productID).
		Delete(&models.OrderDetail{}).Error
}

// Delete 删除订单及其明细
func (r *GormOrderRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderDetail{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, id).Error
	})
}

// CompletedLines 下单时间早于 before 的已完成订单明细行
func (r *GormOrderRepository) CompletedLines(before time.Time) ([]CompletedOrderLine, error) {
	var lines []CompletedOrderLine
	if err := r.db.
		Table("order_details od").
		Joins("JOIN orders o ON o.id = od.order_id").
		Where("o.status = ? AND o.ordered_at < ?", constants.OrderStatusCompleted, before).
		Select("od.order_id AS order_id, od.product_id AS product_id, od.quantity AS quantity, o.ordered_at AS ordered_at").
		Scan(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// ListBetween 下单时间落在 [from, to) 的订单
func (r *GormOrderRepository) ListBetween(from, to time.Time) ([]models.Order, error) {
	return r.listWhere("ordered_at >= ? AND ordered_at < ?", "ordered_at ASC, id ASC", from, to)
}

// ListFrom 下单时间不早于 from 的订单
func (r *GormOrderRepository) ListFrom(from time.Time) ([]models.Order, error) {
	return r.listWhere("ordered_at >= ?", "ordered_at ASC, id ASC", from)
}

// ListBefore 下单时间早于 before 的订单（倒序）
func (r *GormOrderRepository) ListBefore(before time.Time) ([]models.Order, error) {
	return r.listWhere("ordered_at < ?", "ordered_at DESC, id DESC", before)
}

func (r *GormOrderRepository) listWhere(cond, order string, args ...interface{}) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.
		Preload("Details").
		Preload("Details.Product").
		Where(cond, args...).
		Order(order).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
