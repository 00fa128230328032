package service

import (
	"testing"
	"time"

	"github.com/orderapp-next/internal/models"
	"github.com/orderapp-next/internal/repository"

	"github.com/shopspring/decimal"
)

// seedRecipeLine 直接落库一条指定生效时间的配方行
func seedRecipeLine(t *testing.T, env *testEnv, productID, materialID uint, quantity decimal.Decimal, startAt time.Time) {
	t.Helper()
	recipe := &models.Recipe{
		ProductID:  productID,
		MaterialID: materialID,
		Quantity:   quantity,
		StartAt:    startAt,
	}
	if err := env.db.Create(recipe).Error; err != nil {
		t.Fatalf("create recipe failed: %v", err)
	}
}

func materialCostRows(t *testing.T, env *testEnv, materialID uint) []models.MaterialCost {
	t.Helper()
	var rows []models.MaterialCost
	if err := env.db.Where("material_id = ?", materialID).Order("cost_date ASC").Find(&rows).Error; err != nil {
		t.Fatalf("load material costs failed: %v", err)
	}
	return rows
}

func TestRecomputeMaterialCostsFromPurchases(t *testing.T) {
	env := setupServiceTest(t)
	vendor := seedVendor(t, env, "供應商A")
	flour := seedMaterial(t, env, "麵粉")
	seedPurchase(t, env, vendor.ID, date(-1), PurchaseDetailInput{
		MaterialID: flour.ID,
		Quantity:   decimal.NewFromInt(10),
		PriceTotal: decimal.NewFromInt(300),
	})

	if err := env.cost.RecomputeMaterialCosts(date(-1)); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}

	rows := materialCostRows(t, env, flour.ID)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	decimalEqual(t, rows[0].StockedQuantity, decimal.NewFromInt(10), "stocked quantity")
	decimalEqual(t, rows[0].StockedCost.Decimal, decimal.NewFromInt(300), "stocked cost")
	decimalEqual(t, rows[0].CostPerUnit, decimal.NewFromInt(30), "cost per unit")
}

func TestRecomputeMaterialCostsExcludesSameDayUsage(t *testing.T) {
	env := setupServiceTest(t)
	vendor := seedVendor(t, env, "供應商A")
	flour := seedMaterial(t, env, "麵粉")
	product := seedProductWithRecipe(t, env, "餐包", decimal.NewFromInt(35))
	seedRecipeLine(t, env, product.ID, flour.ID, decimal.NewFromFloat(0.5), date(-10))

	seedPurchase(t, env, vendor.ID, date(-1), PurchaseDetailInput{
		MaterialID: flour.ID,
		Quantity:   decimal.NewFromInt(10),
		PriceTotal: decimal.NewFromInt(300),
	})
	// 与重算日同一天的订单不计入消耗
	seedCompletedOrder(t, env, date(-1).Add(18*time.Hour), product.ID, decimal.NewFromInt(4))

	if err := env.cost.RecomputeMaterialCosts(date(-1)); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}

	rows := materialCostRows(t, env, flour.ID)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	decimalEqual(t, rows[0].StockedQuantity, decimal.NewFromInt(10), "stocked quantity")
}

func TestRecomputeMaterialCostsSubtractsPriorUsage(t *testing.T) {
	env := setupServiceTest(t)
	vendor := seedVendor(t, env, "供應商A")
	flour := seedMaterial(t, env, "麵粉")
	product := seedProductWithRecipe(t, env, "餐包", decimal.NewFromInt(35))
	seedRecipeLine(t, env, product.ID, flour.ID, decimal.NewFromFloat(0.5), date(-10))

	seedPurchase(t, env, vendor.ID, date(-2), PurchaseDetailInput{
		MaterialID: flour.ID,
		Quantity:   decimal.NewFromInt(10),
		PriceTotal: decimal.NewFromInt(300),
	})
	// 前一天售出 4 份，每份耗用 0.5 公斤
	seedCompletedOrder(t, env, date(-1).Add(18*time.Hour), product.ID, decimal.NewFromInt(4))

	if err := env.cost.RecomputeMaterialCosts(date(-2)); err != nil {
		t.Fatalf("recompute day -2 failed: %v", err)
	}
	if err := env.cost.RecomputeMaterialCosts(date(0)); err != nil {
		t.Fatalf("recompute day 0 failed: %v", err)
	}

	rows := materialCostRows(t, env, flour.ID)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	latest := rows[1]
	// 10 - 4*0.5 = 8；消耗按前一笔单位成本 30 计价：300 - 2*30 = 240
	decimalEqual(t, latest.StockedQuantity, decimal.NewFromInt(8), "stocked quantity")
	decimalEqual(t, latest.StockedCost.Decimal, decimal.NewFromInt(240), "stocked cost")
	decimalEqual(t, latest.CostPerUnit, decimal.NewFromInt(30), "cost per unit")
}

func TestRecomputeMaterialCostsSkipsUnresolvedUsage(t *testing.T) {
	env := setupServiceTest(t)
	vendor := seedVendor(t, env, "供應商A")
	flour := seedMaterial(t, env, "麵粉")
	product := seedProductWithRecipe(t, env, "餐包", decimal.NewFromInt(35))
	seedRecipeLine(t, env, product.ID, flour.ID, decimal.NewFromFloat(0.5), date(-10))

	// 进货在今天，但昨天已有消耗：消耗无法计价，当日快照跳过
	seedCompletedOrder(t, env, date(-1).Add(18*time.Hour), product.ID, decimal.NewFromInt(4))
	seedPurchase(t, env, vendor.ID, date(0), PurchaseDetailInput{
		MaterialID: flour.ID,
		Quantity:   decimal.NewFromInt(10),
		PriceTotal: decimal.NewFromInt(300),
	})

	if err := env.cost.RecomputeMaterialCosts(date(0)); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}
	if rows := materialCostRows(t, env, flour.ID); len(rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(rows))
	}
}

func TestRecomputeMaterialCostsIdempotent(t *testing.T) {
	env := setupServiceTest(t)
	vendor := seedVendor(t, env, "供應商A")
	flour := seedMaterial(t, env, "麵粉")
	seedPurchase(t, env, vendor.ID, date(-1), PurchaseDetailInput{
		MaterialID: flour.ID,
		Quantity:   decimal.NewFromInt(10),
		PriceTotal: decimal.NewFromInt(300),
	})

	for i := 0; i < 3; i++ {
		if err := env.cost.RecomputeMaterialCosts(date(-1)); err != nil {
			t.Fatalf("recompute #%d failed: %v", i, err)
		}
	}

	rows := materialCostRows(t, env, flour.ID)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
}

func TestRecomputeProductCosts(t *testing.T) {
	env := setupServiceTest(t)
	vendor := seedVendor(t, env, "供應商A")
	flour := seedMaterial(t, env, "麵粉")
	sugar := seedMaterial(t, env, "砂糖")
	product := seedProductWithRecipe(t, env, "餐包", decimal.NewFromInt(35))
	seedRecipeLine(t, env, product.ID, flour.ID, decimal.NewFromFloat(0.1), date(-10))
	seedRecipeLine(t, env, product.ID, sugar.ID, decimal.NewFromFloat(0.02), date(-10))

	seedPurchase(t, env, vendor.ID, date(-1),
		PurchaseDetailInput{
			MaterialID: flour.ID,
			Quantity:   decimal.NewFromInt(10),
			PriceTotal: decimal.NewFromInt(300),
		},
		PurchaseDetailInput{
			MaterialID: sugar.ID,
			Quantity:   decimal.NewFromInt(5),
			PriceTotal: decimal.NewFromInt(200),
		},
	)
	if err := env.cost.RecomputeMaterialCosts(date(-1)); err != nil {
		t.Fatalf("recompute material failed: %v", err)
	}
	if err := env.cost.RecomputeProductCosts(); err != nil {
		t.Fatalf("recompute product failed: %v", err)
	}

	var rows []models.ProductCost
	if err := env.db.Where("product_id = ?", product.ID).Find(&rows).Error; err != nil {
		t.Fatalf("load product costs failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	// 0.1*30 + 0.02*40 = 3.8
	decimalEqual(t, rows[0].CostPerUnit, decimal.NewFromFloat(3.8), "product cost per unit")
	if !models.SameDate(rows[0].CostDate, date(0)) {
		t.Fatalf("cost date = %v, want today", rows[0].CostDate)
	}
}

func TestRecomputeProductCostsSkipsMissingMaterialCost(t *testing.T) {
	env := setupServiceTest(t)
	flour := seedMaterial(t, env, "麵粉")
	product := seedProductWithRecipe(t, env, "餐包", decimal.NewFromInt(35))
	seedRecipeLine(t, env, product.ID, flour.ID, decimal.NewFromFloat(0.1), date(-10))

	if err := env.cost.RecomputeProductCosts(); err != nil {
		t.Fatalf("recompute product failed: %v", err)
	}
	var count int64
	if err := env.db.Model(&models.ProductCost{}).Count(&count).Error; err != nil {
		t.Fatalf("count product costs failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("count = %d, want 0", count)
	}
}

func TestRecomputeMaterialCostsWestOfUTCDayBoundary(t *testing.T) {
	env := setupServiceTest(t)
	vendor := seedVendor(t, env, "供應商A")
	flour := seedMaterial(t, env, "麵粉")
	product := seedProductWithRecipe(t, env, "餐包", decimal.NewFromInt(35))
	seedRecipeLine(t, env, product.ID, flour.ID, decimal.NewFromFloat(0.5), date(-10))

	seedPurchase(t, env, vendor.ID, date(-3), PurchaseDetailInput{
		MaterialID: flour.ID,
		Quantity:   decimal.NewFromInt(10),
		PriceTotal: decimal.NewFromInt(300),
	})
	// 订单的 UTC 时刻已过 -1 的 UTC 零点，但在 UTC-4 的业务日仍是 -2
	seedCompletedOrder(t, env, date(-1).Add(3*time.Hour), product.ID, decimal.NewFromInt(4))

	west := time.FixedZone("UTC-4", -4*60*60)
	costSvc := NewCostService(
		repository.NewPurchaseRepository(env.db),
		repository.NewOrderRepository(env.db),
		repository.NewRecipeRepository(env.db),
		repository.NewProductRepository(env.db),
		repository.NewCostRepository(env.db),
		repository.NewSettingRepository(env.db),
		west,
	)
	costSvc.now = func() time.Time { return testNow }

	if err := costSvc.RecomputeMaterialCosts(date(-1)); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}

	rows := materialCostRows(t, env, flour.ID)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	// 跨零点订单必须计入 -1 的消耗：10 - 4*0.5 = 8，300 - 2*30 = 240
	latest := rows[1]
	decimalEqual(t, latest.StockedQuantity, decimal.NewFromInt(8), "stocked quantity")
	decimalEqual(t, latest.StockedCost.Decimal, decimal.NewFromInt(240), "stocked cost")
}

func TestRecomputeMaterialCostsUsesRecipeVersionAtOrderTime(t *testing.T) {
	env := setupServiceTest(t)
	vendor := seedVendor(t, env, "供應商A")
	flour := seedMaterial(t, env, "麵粉")
	product := seedProductWithRecipe(t, env, "餐包", decimal.NewFromInt(35))

	// 旧版本每份用 2 公斤，于 -1 失效；新版本改为 3 公斤
	changedAt := date(-1).Add(6 * time.Hour)
	closed := &models.Recipe{
		ProductID:  product.ID,
		MaterialID: flour.ID,
		Quantity:   decimal.NewFromInt(2),
		StartAt:    date(-10),
		EndAt:      &changedAt,
	}
	if err := env.db.Create(closed).Error; err != nil {
		t.Fatalf("create closed recipe failed: %v", err)
	}
	seedRecipeLine(t, env, product.ID, flour.ID, decimal.NewFromInt(3), changedAt)

	seedPurchase(t, env, vendor.ID, date(-3), PurchaseDetailInput{
		MaterialID: flour.ID,
		Quantity:   decimal.NewFromInt(10),
		PriceTotal: decimal.NewFromInt(300),
	})
	// 订单落在旧版本的有效窗口内，消耗按当时的用量 2 计
	seedCompletedOrder(t, env, date(-2).Add(18*time.Hour), product.ID, decimal.NewFromInt(1))

	if err := env.cost.RecomputeMaterialCosts(date(0)); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}

	rows := materialCostRows(t, env, flour.ID)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	// 10 - 1*2 = 8，300 - 2*30 = 240；若误用改后的 3 公斤则是 7 / 210
	latest := rows[1]
	decimalEqual(t, latest.StockedQuantity, decimal.NewFromInt(8), "stocked quantity")
	decimalEqual(t, latest.StockedCost.Decimal, decimal.NewFromInt(240), "stocked cost")
	decimalEqual(t, latest.CostPerUnit, decimal.NewFromInt(30), "cost per unit")
}
