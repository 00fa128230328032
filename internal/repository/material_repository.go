package repository

import (
	"errors"

	"github.com/orderapp-next/internal/models"

	"gorm.io/gorm"
)

// MaterialRepository 原料数据访问接口
type MaterialRepository interface {
	List() ([]models.Material, error)
	GetByID(id uint) (*models.Material, error)
	GetByName(name string) (*models.Material, error)
	Create(material *models.Material) error
	Update(material *models.Material) error
	Delete(id uint) error
	// Referenced 判断原料是否仍被进货明细、配方或成本快照引用
	Referenced(materialID uint) (bool, error)
	EnsureUnit(name string) (*models.Unit, error)
}

// GormMaterialRepository GORM 实现
type GormMaterialRepository struct {
	db *gorm.DB
}

// NewMaterialRepository 创建原料仓库
func NewMaterialRepository(db *gorm.DB) *GormMaterialRepository {
	return &GormMaterialRepository{db: db}
}

// List 原料列表
func (r *GormMaterialRepository) List() ([]models.Material, error) {
	var materials []models.Material
	if err := r.db.Preload("Unit").Order("id ASC").Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

// GetByID 根据 ID 获取原料
func (r *GormMaterialRepository) GetByID(id uint) (*models.Material, error) {
	var material models.Material
	if err := r.db.Preload("Unit").First(&material, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &material, nil
}

// GetByName 根据名称获取原料
func (r *GormMaterialRepository) GetByName(name string) (*models.Material, error) {
	var material models.Material
	if err := r.db.Where("name = ?", name).First(&material).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &material, nil
}

// Create 创建原料
func (r *GormMaterialRepository) Create(material *models.Material) error {
	return r.db.Create(material).Error
}

// Update 更新原料
func (r *GormMaterialRepository) Update(material *models.Material) error {
	return r.db.Save(material).Error
}

// Delete 删除原料
func (r *GormMaterialRepository) Delete(id uint) error {
	return r.db.Delete(&models.Material{}, id).Error
}

// Referenced 判断原料是否仍被引用。被引用的原料不可删除。
func (r *GormMaterialRepository) Referenced(materialID uint) (bool, error) {
	tables := []interface{}{
		&models.PurchaseDetail{},
		&models.Recipe{},
		&models.MaterialCost{},
	}
	for _, model := range tables {
		var count int64
		if err := r.db.Model(model).Where("material_id = ?", materialID).Count(&count).Error; err != nil {
			return false, err
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}

// EnsureUnit 按名称获取计量单位，不存在则创建
func (r *GormMaterialRepository) EnsureUnit(name string) (*models.Unit, error) {
	var unit models.Unit
	err := r.db.Where("name = ?", name).First(&unit).Error
	if err == nil {
		return &unit, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	unit = models.Unit{Name: name}
	if err := r.db.Create(&unit).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}
