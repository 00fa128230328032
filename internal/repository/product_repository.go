package repository

import (
	"errors"

	"github.com/orderapp-next/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 产品数据访问接口
type ProductRepository interface {
	List() ([]models.Product, error)
	GetByID(id uint) (*models.Product, error)
	GetByName(name string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	// AddPrice 追加一条价格记录，历史价格不修改
	AddPrice(price *models.ProductPrice) error
	// PriceSeries 某产品的全部价格记录，按生效时间升序
	PriceSeries(productID uint) ([]models.ProductPrice, error)
	AllPriceSeries() (map[uint][]models.ProductPrice, error)
	CountOrderDetails(productID uint) (int64, error)
	// Delete 删除产品及其价格、配方与成本记录
	Delete(id uint) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建产品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// Transaction 执行事务
func (r *GormProductRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List 产品列表（按名称排序）
func (r *GormProductRepository) List() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Preload("Unit").Order("name ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// GetByID 根据 ID 获取产品
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Unit").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetByName 根据名称获取产品
func (r *GormProductRepository) GetByName(name string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Where("name = ?", name).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// Create 创建产品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update 更新产品
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// AddPrice 追加一条价格记录，历史价格不修改
func (r *GormProductRepository) AddPrice(price *models.ProductPrice) error {
	return r.db.Create(price).Error
}

// PriceSeries 某产品的全部价格记录，按生效时间升序
func (r *GormProductRepository) PriceSeries(productID uint) ([]models.ProductPrice, error) {
	var prices []models.ProductPrice
	if err := r.db.
		Where("product_id = ?", productID).
		Order("effective_at ASC, id ASC").
		Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

// AllPriceSeries 全部产品的价格记录，按产品分组、生效时间升序
func (r *GormProductRepository) AllPriceSeries() (map[uint][]models.ProductPrice, error) {
	var prices []models.ProductPrice
	if err := r.db.Order("product_id ASC, effective_at ASC, id ASC").Find(&prices).Error; err != nil {
		return nil, err
	}
	series := make(map[uint][]models.ProductPrice)
	for _, price := range prices {
		series[price.ProductID] = append(series[price.ProductID], price)
	}
	return series, nil
}

// Delete 删除产品及其价格、配方与成本记录。
// 订单明细的引用由调用方先行检查。
func (r *GormProductRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductPrice{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.Recipe{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductCost{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, id).Error
	})
}

// CountOrderDetails 统计产品被订单引用的次数
func (r *GormProductRepository) CountOrderDetails(productID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.OrderDetail{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}
