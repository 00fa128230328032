package service

import (
	"time"

	"github.com/orderapp-next/internal/constants"
	"github.com/orderapp-next/internal/logger"
	"github.com/orderapp-next/internal/models"
	"github.com/orderapp-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CostService 成本台账引擎。
// 原料成本按日期快照：截至当日的累计进货减去严格早于当日的累计消耗；
// 消耗按下单日前一笔单位成本计价，因此当日快照不会引用自身。
// 产品成本只计算"今天"：在用配方行乘以各原料最新单位成本。
type CostService struct {
	purchaseRepo repository.PurchaseRepository
	orderRepo    repository.OrderRepository
	recipeRepo   repository.RecipeRepository
	productRepo  repository.ProductRepository
	costRepo     repository.CostRepository
	settingRepo  repository.SettingRepository
	loc          *time.Location

	// now 可注入，测试用
	now func() time.Time
}

// NewCostService 创建成本服务
func NewCostService(
	purchaseRepo repository.PurchaseRepository,
	orderRepo repository.OrderRepository,
	recipeRepo repository.RecipeRepository,
	productRepo repository.ProductRepository,
	costRepo repository.CostRepository,
	settingRepo repository.SettingRepository,
	loc *time.Location,
) *CostService {
	if loc == nil {
		loc = time.Local
	}
	return &CostService{
		purchaseRepo: purchaseRepo,
		orderRepo:    orderRepo,
		recipeRepo:   recipeRepo,
		productRepo:  productRepo,
		costRepo:     costRepo,
		settingRepo:  settingRepo,
		loc:          loc,
		now:          time.Now,
	}
}

// Today 返回业务时区下的今天（UTC 零点形式）
func (s *CostService) Today() time.Time {
	return models.DateOf(s.now(), s.loc)
}

// materialUsage 单一原料在某个重算日之前的累计消耗
type materialUsage struct {
	quantity decimal.Decimal
	cost     decimal.Decimal
	// unresolved 表示存在无法计价的消耗行，该原料当日快照整体跳过
	unresolved bool
}

// RecomputeMaterialCosts 重算指定日期的全部原料成本快照。
// 只对有进货记录的原料产生快照；库存数量不为正、或存在无法计价的
// 消耗时跳过该原料，绝不写入猜测值。写入是幂等的：数值未变化的
// 快照不会重复落库。
func (s *CostService) RecomputeMaterialCosts(targetDate time.Time) error {
	targetDate = models.DateOf(targetDate, time.UTC)

	sums, err := s.purchaseRepo.SumByMaterial(targetDate)
	if err != nil {
		return err
	}
	if len(sums) == 0 {
		return nil
	}

	costSeries, err := s.costRepo.AllMaterialSeries()
	if err != nil {
		return err
	}
	usage, err := s.collectUsage(targetDate, costSeries)
	if err != nil {
		return err
	}

	var pending []models.MaterialCost
	skipped := 0
	for materialID, sum := range sums {
		quantity := sum.TotalQuantity
		cost := sum.TotalCost
		if agg, ok := usage[materialID]; ok {
			if agg.unresolved {
				skipped++
				logger.Warnw("material_cost_skipped",
					"material_id", materialID,
					"date", targetDate.Format("2006-01-02"),
					"reason", "usage_cost_unresolved")
				continue
			}
			quantity = quantity.Sub(agg.quantity)
			cost = cost.Sub(agg.cost)
		}
		if !quantity.IsPositive() {
			skipped++
			continue
		}
		row := models.MaterialCost{
			MaterialID:      materialID,
			CostDate:        targetDate,
			StockedQuantity: quantity.Round(constants.QuantityScale),
			StockedCost:     models.NewMoneyFromDecimal(cost),
			CostPerUnit:     cost.Div(quantity).Round(constants.CostPerUnitScale),
		}
		// 与截至当日的最近一笔快照比对，数值未变则不写
		if prev, ok := latestMaterialCostAt(costSeries[materialID], targetDate); ok &&
			materialCostEqual(prev, row) {
			continue
		}
		pending = append(pending, row)
	}

	if len(pending) == 0 {
		return nil
	}
	err = s.costRepo.Transaction(func(tx *gorm.DB) error {
		txRepo := s.costRepo.WithTx(tx)
		for i := range pending {
			if err := txRepo.SaveMaterialCost(&pending[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Infow("material_costs_recomputed",
		"date", targetDate.Format("2006-01-02"),
		"written", len(pending),
		"skipped", skipped)
	return nil
}

// collectUsage 汇总业务日严格早于 targetDate 的已完成订单对各原料的消耗。
// 配方用量按下单时点有效的版本取值，消耗成本按下单日前一笔单位成本计价。
func (s *CostService) collectUsage(targetDate time.Time, costSeries map[uint][]models.MaterialCost) (map[uint]*materialUsage, error) {
	// 边界取业务时区的当日零点：targetDate 是归一化的 UTC 日期，
	// 直接用它作 SQL 上界会在时区偏移处漏掉前一业务日的订单
	dayStart := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, s.loc)
	lines, err := s.orderRepo.CompletedLines(dayStart.UTC())
	if err != nil {
		return nil, err
	}
	usage := make(map[uint]*materialUsage)
	if len(lines) == 0 {
		return usage, nil
	}

	recipes, err := s.recipeRepo.ListAll()
	if err != nil {
		return nil, err
	}
	recipesByProduct := make(map[uint][]models.Recipe)
	for _, recipe := range recipes {
		recipesByProduct[recipe.ProductID] = append(recipesByProduct[recipe.ProductID], recipe)
	}

	for _, line := range lines {
		orderDate := models.DateOf(line.OrderedAt, s.loc)
		if !orderDate.Before(targetDate) {
			continue
		}
		for _, recipe := range recipesByProduct[line.ProductID] {
			if !recipe.ActiveAt(line.OrderedAt) {
				continue
			}
			consumed := line.Quantity.Mul(recipe.Quantity)
			agg, ok := usage[recipe.MaterialID]
			if !ok {
				agg = &materialUsage{}
				usage[recipe.MaterialID] = agg
			}
			agg.quantity = agg.quantity.Add(consumed)
			snapshot, err := latestBefore(costSeries[recipe.MaterialID], orderDate,
				func(c models.MaterialCost) time.Time { return c.CostDate })
			if err != nil {
				agg.unresolved = true
				continue
			}
			agg.cost = agg.cost.Add(consumed.Mul(snapshot.CostPerUnit))
		}
	}
	return usage, nil
}

// RecomputeProductCosts 重算今天的全部产品成本快照。
// 产品成本 = Σ(在用配方行用量 × 原料最新单位成本)；
// 任一原料没有成本记录时跳过该产品。
func (s *CostService) RecomputeProductCosts() error {
	today := s.Today()

	recipes, err := s.recipeRepo.ListAll()
	if err != nil {
		return err
	}
	activeByProduct := make(map[uint][]models.Recipe)
	nowTime := s.now()
	for _, recipe := range recipes {
		if recipe.ActiveAt(nowTime) {
			activeByProduct[recipe.ProductID] = append(activeByProduct[recipe.ProductID], recipe)
		}
	}
	if len(activeByProduct) == 0 {
		return nil
	}

	materialSeries, err := s.costRepo.AllMaterialSeries()
	if err != nil {
		return err
	}
	productSeries, err := s.costRepo.AllProductSeries()
	if err != nil {
		return err
	}

	var pending []models.ProductCost
	skipped := 0
	for productID, lines := range activeByProduct {
		total := decimal.Zero
		unresolved := false
		for _, line := range lines {
			series := materialSeries[line.MaterialID]
			if len(series) == 0 {
				unresolved = true
				break
			}
			latest := series[len(series)-1]
			total = total.Add(line.Quantity.Mul(latest.CostPerUnit))
		}
		if unresolved {
			skipped++
			logger.Warnw("product_cost_skipped",
				"product_id", productID,
				"reason", "material_cost_missing")
			continue
		}
		if !total.IsPositive() {
			skipped++
			continue
		}
		row := models.ProductCost{
			ProductID:   productID,
			CostDate:    today,
			CostPerUnit: total.Round(constants.CostPerUnitScale),
		}
		// 与截至今天的最近一笔快照比对，数值未变则不写
		if prev, ok := latestProductCostAt(productSeries[productID], today); ok &&
			prev.CostPerUnit.Equal(row.CostPerUnit) {
			continue
		}
		pending = append(pending, row)
	}

	if len(pending) == 0 {
		return nil
	}
	err = s.costRepo.Transaction(func(tx *gorm.DB) error {
		txRepo := s.costRepo.WithTx(tx)
		for i := range pending {
			if err := txRepo.SaveProductCost(&pending[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Infow("product_costs_recomputed",
		"date", today.Format("2006-01-02"),
		"written", len(pending),
		"skipped", skipped)
	return nil
}

func materialCostEqual(a, b models.MaterialCost) bool {
	return a.StockedQuantity.Equal(b.StockedQuantity) &&
		a.StockedCost.Decimal.Equal(b.StockedCost.Decimal) &&
		a.CostPerUnit.Equal(b.CostPerUnit)
}

// latestMaterialCostAt 升序序列中成本日期 ≤ date 的最近一笔。
// 没有早期兜底：date 之前没有快照就视为不存在。
func latestMaterialCostAt(series []models.MaterialCost, date time.Time) (models.MaterialCost, bool) {
	var latest models.MaterialCost
	found := false
	for _, row := range series {
		if row.CostDate.After(date) {
			break
		}
		latest = row
		found = true
	}
	return latest, found
}

func latestProductCostAt(series []models.ProductCost, date time.Time) (models.ProductCost, bool) {
	var latest models.ProductCost
	found := false
	for _, row := range series {
		if row.CostDate.After(date) {
			break
		}
		latest = row
		found = true
	}
	return latest, found
}
