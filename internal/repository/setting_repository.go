package repository

import (
	"errors"

	"github.com/orderapp-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingRepository 键值设置数据访问接口
type SettingRepository interface {
	// Get 读取设置值，不存在时返回 ("", false, nil)
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	WithTx(tx *gorm.DB) SettingRepository
}

// GormSettingRepository GORM 实现
type GormSettingRepository struct {
	db *gorm.DB
}

// NewSettingRepository 创建设置仓库
func NewSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

// WithTx 绑定事务
func (r *GormSettingRepository) WithTx(tx *gorm.DB) SettingRepository {
	if tx == nil {
		return r
	}
	return &GormSettingRepository{db: tx}
}

// Get 读取设置值，不存在时返回 ("", false, nil)
func (r *GormSettingRepository) Get(key string) (string, bool, error) {
	var setting models.Setting
	if err := r.db.Where("key = ?", key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return setting.Value, true, nil
}

// Set 写入设置值，存在时覆盖
func (r *GormSettingRepository) Set(key, value string) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&models.Setting{Key: key, Value: value}).Error
}

// Delete 删除设置
func (r *GormSettingRepository) Delete(key string) error {
	return r.db.Where("key = ?", key).Delete(&models.Setting{}).Error
}
