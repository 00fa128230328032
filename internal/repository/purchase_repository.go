package repository

import (
	"errors"
	"time"

	"github.com/orderapp-next/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PurchaseRepository 进货数据访问接口
type PurchaseRepository interface {
	List(filter PurchaseListFilter) ([]models.Purchase, int64, error)
	GetByID(id uint) (*models.Purchase, error)
	Create(purchase *models.Purchase) error
	UpsertDetail(detail *models.PurchaseDetail) error
	DeleteDetail(purchaseID, materialID uint) error
	Delete(id uint) error
	// SumByMaterial 汇总进货日期不晚于 upTo 的各原料进货数量与金额
	SumByMaterial(upTo time.Time) (map[uint]MaterialPurchaseSum, error)
	SumAllByMaterial() (map[uint]MaterialPurchaseSum, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) PurchaseRepository
}

// GormPurchaseRepository GORM 实现
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository 创建进货仓库
func NewPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPurchaseRepository) WithTx(tx *gorm.DB) PurchaseRepository {
	if tx == nil {
		return r
	}
	return &GormPurchaseRepository{db: tx}
}

// Transaction 执行事务
func (r *GormPurchaseRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List 进货单列表（按日期倒序）
func (r *GormPurchaseRepository) List(filter PurchaseListFilter) ([]models.Purchase, int64, error) {
	query := r.db.Model(&models.Purchase{})
	if filter.VendorID != 0 {
		query = query.Where("vendor_id = ?", filter.VendorID)
	}
	if filter.DateFrom != nil {
		query = query.Where("purchase_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("purchase_date <= ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var purchases []models.Purchase
	if err := query.
		Preload("Vendor").
		Preload("Details").
		Preload("Details.Material").
		Order("purchase_date DESC, id DESC").
		Find(&purchases).Error; err != nil {
		return nil, 0, err
	}
	return purchases, total, nil
}

// GetByID 根据 ID 获取进货单（含明细）
func (r *GormPurchaseRepository) GetByID(id uint) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := r.db.
		Preload("Vendor").
		Preload("Details").
		Preload("Details.Material").
		First(&purchase, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &purchase, nil
}

// Create 创建进货单（连同明细）
func (r *GormPurchaseRepository) Create(purchase *models.Purchase) error {
	return r.db.Create(purchase).Error
}

// UpsertDetail 按 (purchase_id, material_id) 插入或更新进货明细
func (r *GormPurchaseRepository) UpsertDetail(detail *models.PurchaseDetail) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "purchase_id"}, {Name: "material_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "price_total", "updated_at"}),
	}).Create(detail).Error
}

// DeleteDetail 删除单条进货明细
func (r *GormPurchaseRepository) DeleteDetail(purchaseID, materialID uint) error {
	return r.db.
		Where("purchase_id = ? AND material_id = ?", purchaseID, materialID).
		Delete(&models.PurchaseDetail{}).Error
}

// Delete 删除进货单及其明细
func (r *GormPurchaseRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purchase_id = ?", id).Delete(&models.PurchaseDetail{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Purchase{}, id).Error
	})
}

type materialSumRow struct {
	MaterialID    uint
	TotalQuantity decimal.Decimal
	TotalCost     decimal.Decimal
}

// SumByMaterial 汇总进货日期不晚于 upTo 的各原料进货数量与金额
func (r *GormPurchaseRepository) SumByMaterial(upTo time.Time) (map[uint]MaterialPurchaseSum, error) {
	return r.sumByMaterial(r.db.
		Table("purchase_details pd").
		Joins("JOIN purchases p ON p.id = pd.purchase_id").
		Where("p.purchase_date <= ?", upTo))
}

// SumAllByMaterial 汇总全量进货数量与金额（库存总览用）
func (r *GormPurchaseRepository) SumAllByMaterial() (map[uint]MaterialPurchaseSum, error) {
	return r.sumByMaterial(r.db.Table("purchase_details pd"))
}

func (r *GormPurchaseRepository) sumByMaterial(query *gorm.DB) (map[uint]MaterialPurchaseSum, error) {
	var rows []materialSumRow
	if err := query.
		Select("pd.material_id AS material_id, SUM(pd.quantity) AS total_quantity, SUM(pd.price_total) AS total_cost").
		Group("pd.material_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	sums := make(map[uint]MaterialPurchaseSum, len(rows))
	for _, row := range rows {
		sums[row.MaterialID] = MaterialPurchaseSum{
			MaterialID:    row.MaterialID,
			TotalQuantity: row.TotalQuantity,
			TotalCost:     row.TotalCost,
		}
	}
	return sums, nil
}
