package service

import (
	"time"

	"github.com/orderapp-next/internal/logger"
	"github.com/orderapp-next/internal/models"
	"github.com/orderapp-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecipeLineInput 配方行输入
type RecipeLineInput struct {
	MaterialID uint            `json:"material_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
}

// UpsertProductInput 产品输入
type UpsertProductInput struct {
	Name     string          `json:"name" binding:"required"`
	UnitName string          `json:"unit_name" binding:"required"`
	Price    decimal.Decimal `json:"price" binding:"required"`
}

// RecipeService 产品与配方管理。
// 配方修改是追加式的：用量变化会关闭旧行、另起新行，
// 历史订单的成本回溯因此不受影响。价格同理只追加。
type RecipeService struct {
	productRepo  repository.ProductRepository
	recipeRepo   repository.RecipeRepository
	materialRepo repository.MaterialRepository
	costSvc      *CostService
}

// NewRecipeService 创建配方服务
func NewRecipeService(
	productRepo repository.ProductRepository,
	recipeRepo repository.RecipeRepository,
	materialRepo repository.MaterialRepository,
	costSvc *CostService,
) *RecipeService {
	return &RecipeService{
		productRepo:  productRepo,
		recipeRepo:   recipeRepo,
		materialRepo: materialRepo,
		costSvc:      costSvc,
	}
}

// ListProducts 产品列表
func (s *RecipeService) ListProducts() ([]models.Product, error) {
	return s.productRepo.List()
}

// GetProduct 获取单个产品
func (s *RecipeService) GetProduct(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// UpsertProduct 按名称创建或更新产品。价格与当前价不同才追加新价格行。
func (s *RecipeService) UpsertProduct(input UpsertProductInput) (*models.Product, error) {
	unit, err := s.materialRepo.EnsureUnit(input.UnitName)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.GetByName(input.Name)
	if err != nil {
		return nil, err
	}
	now := s.costSvc.now()
	if product == nil {
		product = &models.Product{Name: input.Name, UnitID: unit.ID}
		if err := s.productRepo.Create(product); err != nil {
			return nil, err
		}
	} else if product.UnitID != unit.ID {
		product.UnitID = unit.ID
		if err := s.productRepo.Update(product); err != nil {
			return nil, err
		}
	}

	current, err := s.CurrentPrice(product.ID, now)
	newPrice := models.NewMoneyFromDecimal(input.Price)
	switch {
	case err == ErrSeriesNotFound:
		// 首条价格
	case err != nil:
		return nil, err
	case current.Decimal.Equal(newPrice.Decimal):
		return product, nil
	}
	if err := s.productRepo.AddPrice(&models.ProductPrice{
		ProductID:   product.ID,
		Price:       newPrice,
		EffectiveAt: now,
	}); err != nil {
		return nil, err
	}
	return product, nil
}

// CurrentPrice 按时点回溯产品价格
func (s *RecipeService) CurrentPrice(productID uint, at time.Time) (models.Money, error) {
	series, err := s.productRepo.PriceSeries(productID)
	if err != nil {
		return models.Money{}, err
	}
	price, err := latestAsOf(series, at, func(p models.ProductPrice) time.Time { return p.EffectiveAt })
	if err != nil {
		return models.Money{}, err
	}
	return price.Price, nil
}

// GetRecipe 某产品的全部配方行（含历史版本）
func (s *RecipeService) GetRecipe(productID uint) ([]models.Recipe, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return s.recipeRepo.ListByProduct(productID)
}

// ReplaceRecipeLines 把产品的在用配方整体替换为给定行集合：
//   - 在用行不在新集合里 → 关闭
//   - 用量变化 → 关闭旧行、另起新行
//   - 新原料 → 直接开新行
//
// 用量相同的行原样保留，不产生新版本。
func (s *RecipeService) ReplaceRecipeLines(productID uint, lines []RecipeLineInput) error {
	if len(lines) == 0 {
		return ErrRecipeEmpty
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	for _, line := range lines {
		material, err := s.materialRepo.GetByID(line.MaterialID)
		if err != nil {
			return err
		}
		if material == nil {
			return ErrMaterialNotFound
		}
	}

	open, err := s.recipeRepo.ListOpenByProduct(productID)
	if err != nil {
		return err
	}
	openByMaterial := make(map[uint]models.Recipe, len(open))
	for _, recipe := range open {
		openByMaterial[recipe.MaterialID] = recipe
	}

	now := s.costSvc.now()
	err = s.recipeRepo.Transaction(func(tx *gorm.DB) error {
		txRepo := s.recipeRepo.WithTx(tx)
		seen := make(map[uint]bool, len(lines))
		for _, line := range lines {
			seen[line.MaterialID] = true
			existing, ok := openByMaterial[line.MaterialID]
			if ok && existing.Quantity.Equal(line.Quantity) {
				continue
			}
			if ok {
				if err := txRepo.CloseLine(existing.ID, now); err != nil {
					return err
				}
			}
			if err := txRepo.Create(&models.Recipe{
				ProductID:  productID,
				MaterialID: line.MaterialID,
				Quantity:   line.Quantity,
				StartAt:    now,
			}); err != nil {
				return err
			}
		}
		for materialID, existing := range openByMaterial {
			if seen[materialID] {
				continue
			}
			if err := txRepo.CloseLine(existing.ID, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.refreshProductCosts()
	return nil
}

// CloseRecipe 关闭产品的全部在用配方行（产品停售）
func (s *RecipeService) CloseRecipe(productID uint) error {
	open, err := s.recipeRepo.ListOpenByProduct(productID)
	if err != nil {
		return err
	}
	now := s.costSvc.now()
	err = s.recipeRepo.Transaction(func(tx *gorm.DB) error {
		txRepo := s.recipeRepo.WithTx(tx)
		for _, recipe := range open {
			if err := txRepo.CloseLine(recipe.ID, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.refreshProductCosts()
	return nil
}

// DeleteProduct 删除产品及其价格、配方与成本记录。
// 仍被订单引用的产品不可删除，应改用 CloseRecipe 停售。
func (s *RecipeService) DeleteProduct(id uint) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	count, err := s.productRepo.CountOrderDetails(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrProductInUse
	}
	return s.productRepo.Delete(id)
}

// refreshProductCosts 配方变化后同步执行一次待办重算，刷新产品成本；
// 失败只记告警，下一次变更或例行重算会幂等补上
func (s *RecipeService) refreshProductCosts() {
	if err := s.costSvc.RunPendingRecompute(); err != nil {
		logger.Warnw("product_cost_refresh_failed", "error", err)
	}
}
