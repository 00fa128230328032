package repository

import (
	"github.com/orderapp-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CostRepository 成本台账数据访问接口
type CostRepository interface {
	// MaterialSeries 某原料的成本序列，按成本日期升序
	MaterialSeries(materialID uint) ([]models.MaterialCost, error)
	// AllMaterialSeries 全部原料的成本序列，按原料分组、日期升序
	AllMaterialSeries() (map[uint][]models.MaterialCost, error)
	// SaveMaterialCost 按 (material_id, cost_date) 插入或更新
	SaveMaterialCost(cost *models.MaterialCost) error
	// ProductSeries 某产品的成本序列，按成本日期升序
	ProductSeries(productID uint) ([]models.ProductCost, error)
	AllProductSeries() (map[uint][]models.ProductCost, error)
	// SaveProductCost 按 (product_id, cost_date) 插入或更新
	SaveProductCost(cost *models.ProductCost) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) CostRepository
}

// GormCostRepository GORM 实现
type GormCostRepository struct {
	db *gorm.DB
}

// NewCostRepository 创建成本仓库
func NewCostRepository(db *gorm.DB) *GormCostRepository {
	return &GormCostRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCostRepository) WithTx(tx *gorm.DB) CostRepository {
	if tx == nil {
		return r
	}
	return &GormCostRepository{db: tx}
}

// Transaction 执行事务
func (r *GormCostRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// MaterialSeries 某原料的成本序列，按成本日期升序
func (r *GormCostRepository) MaterialSeries(materialID uint) ([]models.MaterialCost, error) {
	var costs []models.MaterialCost
	if err := r.db.
		Where("material_id = ?", materialID).
		Order("cost_date ASC").
		Find(&costs).Error; err != nil {
		return nil, err
	}
	return costs, nil
}

// AllMaterialSeries 全部原料的成本序列，按原料分组、日期升序
func (r *GormCostRepository) AllMaterialSeries() (map[uint][]models.MaterialCost, error) {
	var costs []models.MaterialCost
	if err := r.db.Order("material_id ASC, cost_date ASC").Find(&costs).Error; err != nil {
		return nil, err
	}
	series := make(map[uint][]models.MaterialCost)
	for _, cost := range costs {
		series[cost.MaterialID] = append(series[cost.MaterialID], cost)
	}
	return series, nil
}

// SaveMaterialCost 按 (material_id, cost_date) 插入或更新
func (r *GormCostRepository) SaveMaterialCost(cost *models.MaterialCost) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "material_id"}, {Name: "cost_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"stocked_quantity", "stocked_cost", "cost_per_unit",
		}),
	}).Create(cost).Error
}

// ProductSeries 某产品的成本序列，按成本日期升序
func (r *GormCostRepository) ProductSeries(productID uint) ([]models.ProductCost, error) {
	var costs []models.ProductCost
	if err := r.db.
		Where("product_id = ?", productID).
		Order("cost_date ASC").
		Find(&costs).Error; err != nil {
		return nil, err
	}
	return costs, nil
}

// AllProductSeries 全部产品的成本序列，按产品分组、日期升序
func (r *GormCostRepository) AllProductSeries() (map[uint][]models.ProductCost, error) {
	var costs []models.ProductCost
	if err := r.db.Order("product_id ASC, cost_date ASC").Find(&costs).Error; err != nil {
		return nil, err
	}
	series := make(map[uint][]models.ProductCost)
	for _, cost := range costs {
		series[cost.ProductID] = append(series[cost.ProductID], cost)
	}
	return series, nil
}

// SaveProductCost 按 (product_id, cost_date) 插入或更新
func (r *GormCostRepository) SaveProductCost(cost *models.ProductCost) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "cost_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"cost_per_unit"}),
	}).Create(cost).Error
}
