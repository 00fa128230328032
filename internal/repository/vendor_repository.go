package repository

import (
	"errors"

	"github.com/orderapp-next/internal/models"

	"gorm.io/gorm"
)

// VendorRepository 供应商数据访问接口
type VendorRepository interface {
	List() ([]models.Vendor, error)
	GetByID(id uint) (*models.Vendor, error)
	GetByName(name string) (*models.Vendor, error)
	Create(vendor *models.Vendor) error
	Update(vendor *models.Vendor) error
	Delete(id uint) error
	CountPurchases(vendorID uint) (int64, error)
}

// GormVendorRepository GORM 实现
type GormVendorRepository struct {
	db *gorm.DB
}

// NewVendorRepository 创建供应商仓库
func NewVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

// List 供应商列表
func (r *GormVendorRepository) List() ([]models.Vendor, error) {
	var vendors []models.Vendor
	if err := r.db.Order("id ASC").Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

// GetByID 根据 ID 获取供应商
func (r *GormVendorRepository) GetByID(id uint) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.First(&vendor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vendor, nil
}

// GetByName 根据名称获取供应商
func (r *GormVendorRepository) GetByName(name string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.Where("name = ?", name).First(&vendor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vendor, nil
}

// Create 创建供应商
func (r *GormVendorRepository) Create(vendor *models.Vendor) error {
	return r.db.Create(vendor).Error
}

// Update 更新供应商
func (r *GormVendorRepository) Update(vendor *models.Vendor) error {
	return r.db.Save(vendor).Error
}

// Delete 删除供应商
func (r *GormVendorRepository) Delete(id uint) error {
	return r.db.Delete(&models.Vendor{}, id).Error
}

// CountPurchases 统计供应商关联的进货单数量
func (r *GormVendorRepository) CountPurchases(vendorID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Purchase{}).Where("vendor_id = ?", vendorID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
