package repository

import (
	"time"

	"github.com/orderapp-next/internal/models"

	"gorm.io/gorm"
)

// RecipeRepository 配方数据访问接口
type RecipeRepository interface {
	// ListAll 全部配方行（含历史版本），按产品、原料、生效时间排序
	ListAll() ([]models.Recipe, error)
	// ListByProduct 某产品的全部配方行（含历史版本）
	ListByProduct(productID uint) ([]models.Recipe, error)
	// ListOpenByProduct 某产品当前未关闭的配方行
	ListOpenByProduct(productID uint) ([]models.Recipe, error)
	Create(recipe *models.Recipe) error
	// CloseLine 把一条未关闭的配方行设置结束时间
	CloseLine(id uint, endAt time.Time) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) RecipeRepository
}

// GormRecipeRepository GORM 实现
type GormRecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository 创建配方仓库
func NewRecipeRepository(db *gorm.DB) *GormRecipeRepository {
	return &GormRecipeRepository{db: db}
}

// WithTx 绑定事务
func (r *GormRecipeRepository) WithTx(tx *gorm.DB) RecipeRepository {
	if tx == nil {
		return r
	}
	return &GormRecipeRepository{db: tx}
}

// Transaction 执行事务
func (r *GormRecipeRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// ListAll 全部配方行（含历史版本）
func (r *GormRecipeRepository) ListAll() ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := r.db.
		Preload("Material").
		Preload("Material.Unit").
		Order("product_id ASC, material_id ASC, start_at ASC").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// ListByProduct 某产品的全部配方行（含历史版本）
func (r *GormRecipeRepository) ListByProduct(productID uint) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := r.db.
		Preload("Material").
		Preload("Material.Unit").
		Where("product_id = ?", productID).
		Order("material_id ASC, start_at ASC").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// ListOpenByProduct 某产品当前未关闭的配方行
func (r *GormRecipeRepository) ListOpenByProduct(productID uint) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := r.db.
		Preload("Material").
		Where("product_id = ? AND end_at IS NULL", productID).
		Order("material_id ASC").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// Create 创建配方行
func (r *GormRecipeRepository) Create(recipe *models.Recipe) error {
	return r.db.Create(recipe).Error
}

// CloseLine 把一条未关闭的配方行设置结束时间
func (r *GormRecipeRepository) CloseLine(id uint, endAt time.Time) error {
	return r.db.Model(&models.Recipe{}).
		Where("id = ? AND end_at IS NULL", id).
		Update("end_at", endAt).Error
}
