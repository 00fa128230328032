package service

import (
	"github.com/orderapp-next/internal/models"
	"github.com/orderapp-next/internal/repository"
)

// VendorService 供应商管理
type VendorService struct {
	vendorRepo repository.VendorRepository
}

// NewVendorService 创建供应商服务
func NewVendorService(vendorRepo repository.VendorRepository) *VendorService {
	return &VendorService{vendorRepo: vendorRepo}
}

// ListVendors 供应商列表
func (s *VendorService) ListVendors() ([]models.Vendor, error) {
	return s.vendorRepo.List()
}

// GetVendor 获取单个供应商
func (s *VendorService) GetVendor(id uint) (*models.Vendor, error) {
	vendor, err := s.vendorRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, ErrVendorNotFound
	}
	return vendor, nil
}

// CreateVendor 创建供应商，名称唯一
func (s *VendorService) CreateVendor(vendor *models.Vendor) error {
	existing, err := s.vendorRepo.GetByName(vendor.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrVendorExists
	}
	return s.vendorRepo.Create(vendor)
}

// UpdateVendor 更新供应商
func (s *VendorService) UpdateVendor(vendor *models.Vendor) error {
	existing, err := s.vendorRepo.GetByID(vendor.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrVendorNotFound
	}
	byName, err := s.vendorRepo.GetByName(vendor.Name)
	if err != nil {
		return err
	}
	if byName != nil && byName.ID != vendor.ID {
		return ErrVendorExists
	}
	vendor.CreatedAt = existing.CreatedAt
	return s.vendorRepo.Update(vendor)
}

// DeleteVendor 删除供应商，仍有进货单引用时拒绝
func (s *VendorService) DeleteVendor(id uint) error {
	vendor, err := s.vendorRepo.GetByID(id)
	if err != nil {
		return err
	}
	if vendor == nil {
		return ErrVendorNotFound
	}
	count, err := s.vendorRepo.CountPurchases(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrVendorInUse
	}
	return s.vendorRepo.Delete(id)
}
