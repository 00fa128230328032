package service

import (
	"time"

	"github.com/orderapp-next/internal/logger"
	"github.com/orderapp-next/internal/models"
	"github.com/orderapp-next/internal/repository"

	"github.com/shopspring/decimal"
)

// PurchaseDetailInput 进货明细输入
type PurchaseDetailInput struct {
	MaterialID uint            `json:"material_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	PriceTotal decimal.Decimal `json:"price_total" binding:"required"`
}

// CreatePurchaseInput 创建进货单输入
type CreatePurchaseInput struct {
	VendorID     uint                  `json:"vendor_id" binding:"required"`
	PurchaseDate time.Time             `json:"purchase_date" binding:"required"`
	Details      []PurchaseDetailInput `json:"details" binding:"required"`
}

// PurchaseService 进货管理。所有改动都会登记成本回补重算。
type PurchaseService struct {
	purchaseRepo repository.PurchaseRepository
	vendorRepo   repository.VendorRepository
	materialRepo repository.MaterialRepository
	costSvc      *CostService
}

// NewPurchaseService 创建进货服务
func NewPurchaseService(
	purchaseRepo repository.PurchaseRepository,
	vendorRepo repository.VendorRepository,
	materialRepo repository.MaterialRepository,
	costSvc *CostService,
) *PurchaseService {
	return &PurchaseService{
		purchaseRepo: purchaseRepo,
		vendorRepo:   vendorRepo,
		materialRepo: materialRepo,
		costSvc:      costSvc,
	}
}

// ListPurchases 进货单列表
func (s *PurchaseService) ListPurchases(filter repository.PurchaseListFilter) ([]models.Purchase, int64, error) {
	return s.purchaseRepo.List(filter)
}

// GetPurchase 获取进货单
func (s *PurchaseService) GetPurchase(id uint) (*models.Purchase, error) {
	purchase, err := s.purchaseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, ErrPurchaseNotFound
	}
	return purchase, nil
}

// CreatePurchase 创建进货单（连同明细），完成后登记成本回补重算
func (s *PurchaseService) CreatePurchase(input CreatePurchaseInput) (*models.Purchase, error) {
	if len(input.Details) == 0 {
		return nil, ErrPurchaseEmpty
	}
	vendor, err := s.vendorRepo.GetByID(input.VendorID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, ErrVendorNotFound
	}

	purchaseDate := models.DateOf(input.PurchaseDate, s.costSvc.loc)
	purchase := &models.Purchase{
		VendorID:     input.VendorID,
		PurchaseDate: purchaseDate,
	}
	for _, detail := range input.Details {
		material, err := s.materialRepo.GetByID(detail.MaterialID)
		if err != nil {
			return nil, err
		}
		if material == nil {
			return nil, ErrMaterialNotFound
		}
		purchase.Details = append(purchase.Details, models.PurchaseDetail{
			MaterialID: detail.MaterialID,
			Quantity:   detail.Quantity,
			PriceTotal: models.NewMoneyFromDecimal(detail.PriceTotal),
		})
	}
	if err := s.purchaseRepo.Create(purchase); err != nil {
		return nil, err
	}
	s.markDirty(purchaseDate)
	return purchase, nil
}

// UpsertPurchaseDetail 新增或更新一条进货明细，完成后登记成本回补重算
func (s *PurchaseService) UpsertPurchaseDetail(purchaseID uint, input PurchaseDetailInput) error {
	purchase, err := s.purchaseRepo.GetByID(purchaseID)
	if err != nil {
		return err
	}
	if purchase == nil {
		return ErrPurchaseNotFound
	}
	material, err := s.materialRepo.GetByID(input.MaterialID)
	if err != nil {
		return err
	}
	if material == nil {
		return ErrMaterialNotFound
	}
	detail := &models.PurchaseDetail{
		PurchaseID: purchaseID,
		MaterialID: input.MaterialID,
		Quantity:   input.Quantity,
		PriceTotal: models.NewMoneyFromDecimal(input.PriceTotal),
	}
	if err := s.purchaseRepo.UpsertDetail(detail); err != nil {
		return err
	}
	s.markDirty(purchase.PurchaseDate)
	return nil
}

// RemovePurchaseDetail 删除一条进货明细
func (s *PurchaseService) RemovePurchaseDetail(purchaseID, materialID uint) error {
	purchase, err := s.purchaseRepo.GetByID(purchaseID)
	if err != nil {
		return err
	}
	if purchase == nil {
		return ErrPurchaseNotFound
	}
	if err := s.purchaseRepo.DeleteDetail(purchaseID, materialID); err != nil {
		return err
	}
	s.markDirty(purchase.PurchaseDate)
	return nil
}

// DeletePurchase 删除进货单及其明细
func (s *PurchaseService) DeletePurchase(id uint) error {
	purchase, err := s.purchaseRepo.GetByID(id)
	if err != nil {
		return err
	}
	if purchase == nil {
		return ErrPurchaseNotFound
	}
	if err := s.purchaseRepo.Delete(id); err != nil {
		return err
	}
	s.markDirty(purchase.PurchaseDate)
	return nil
}

// markDirty 登记回补重算并同步执行。两者都不回滚已提交的变更：
// 失败只记告警，下一次变更或例行重算会幂等补上。
func (s *PurchaseService) markDirty(date time.Time) {
	if err := s.costSvc.MarkCostsDirty(date); err != nil {
		logger.Warnw("cost_dirty_mark_failed", "date", date.Format(costDateLayout), "error", err)
		return
	}
	if err := s.costSvc.RunPendingRecompute(); err != nil {
		logger.Warnw("cost_recompute_failed", "error", err)
	}
}
