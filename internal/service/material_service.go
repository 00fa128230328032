package service

import (
	"github.com/orderapp-next/internal/models"
	"github.com/orderapp-next/internal/repository"
)

// MaterialService 原料管理
type MaterialService struct {
	materialRepo repository.MaterialRepository
}

// NewMaterialService 创建原料服务
func NewMaterialService(materialRepo repository.MaterialRepository) *MaterialService {
	return &MaterialService{materialRepo: materialRepo}
}

// ListMaterials 原料列表
func (s *MaterialService) ListMaterials() ([]models.Material, error) {
	return s.materialRepo.List()
}

// GetMaterial 获取单个原料
func (s *MaterialService) GetMaterial(id uint) (*models.Material, error) {
	material, err := s.materialRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, ErrMaterialNotFound
	}
	return material, nil
}

// CreateMaterial 创建原料，计量单位不存在时自动建立
func (s *MaterialService) CreateMaterial(name, unitName string) (*models.Material, error) {
	existing, err := s.materialRepo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrMaterialExists
	}
	unit, err := s.materialRepo.EnsureUnit(unitName)
	if err != nil {
		return nil, err
	}
	material := &models.Material{Name: name, UnitID: unit.ID}
	if err := s.materialRepo.Create(material); err != nil {
		return nil, err
	}
	material.Unit = unit
	return material, nil
}

// UpdateMaterial 更新原料名称与计量单位
func (s *MaterialService) UpdateMaterial(id uint, name, unitName string) (*models.Material, error) {
	material, err := s.materialRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, ErrMaterialNotFound
	}
	byName, err := s.materialRepo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if byName != nil && byName.ID != id {
		return nil, ErrMaterialExists
	}
	unit, err := s.materialRepo.EnsureUnit(unitName)
	if err != nil {
		return nil, err
	}
	material.Name = name
	material.UnitID = unit.ID
	material.Unit = unit
	if err := s.materialRepo.Update(material); err != nil {
		return nil, err
	}
	return material, nil
}

// DeleteMaterial 删除原料，仍被进货、配方或成本记录引用时拒绝
func (s *MaterialService) DeleteMaterial(id uint) error {
	material, err := s.materialRepo.GetByID(id)
	if err != nil {
		return err
	}
	if material == nil {
		return ErrMaterialNotFound
	}
	referenced, err := s.materialRepo.Referenced(id)
	if err != nil {
		return err
	}
	if referenced {
		return ErrMaterialInUse
	}
	return s.materialRepo.Delete(id)
}

// CleanUpMaterials 批量清理未被引用的原料，返回成功删除的数量
func (s *MaterialService) CleanUpMaterials(ids []uint) (int, error) {
	deleted := 0
	for _, id := range ids {
		if err := s.DeleteMaterial(id); err != nil {
			if err == ErrMaterialNotFound || err == ErrMaterialInUse {
				continue
			}
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}
