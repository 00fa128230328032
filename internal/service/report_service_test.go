package service

import (
	"errors"
	"testing"
	"time"

	"github.com/orderapp-next/internal/constants"
	"github.com/orderapp-next/internal/models"

	"github.com/shopspring/decimal"
)

func seedProductCost(t *testing.T, env *testEnv, productID uint, costDate time.Time, costPerUnit decimal.Decimal) {
	t.Helper()
	row := &models.ProductCost{ProductID: productID, CostDate: costDate, CostPerUnit: costPerUnit}
	if err := env.db.Create(row).Error; err != nil {
		t.Fatalf("create product cost failed: %v", err)
	}
}

func seedMaterialCost(t *testing.T, env *testEnv, materialID uint, costDate time.Time, quantity, cost, costPerUnit decimal.Decimal) {
	t.Helper()
	row := &models.MaterialCost{
		MaterialID:      materialID,
		CostDate:        costDate,
		StockedQuantity: quantity,
		StockedCost:     models.NewMoneyFromDecimal(cost),
		CostPerUnit:     costPerUnit,
	}
	if err := env.db.Create(row).Error; err != nil {
		t.Fatalf("create material cost failed: %v", err)
	}
}

func TestPreviousOrdersOverview(t *testing.T) {
	env := setupServiceTest(t)
	product := seedProductWithRecipe(t, env, "餐包", decimal.NewFromInt(35))
	seedProductCost(t, env, product.ID, date(-1), decimal.NewFromFloat(3.8))

	completed := &models.Order{
		OrderedAt:  date(-1).Add(18 * time.Hour),
		Status:     constants.OrderStatusCompleted,
		PriceTotal: models.NewMoneyFromDecimal(decimal.NewFromInt(105)),
		Details: []models.OrderDetail{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(3)},
		},
	}
	if err := env.db.Create(completed).Error; err != nil {
		t.Fatalf("create completed order failed: %v", err)
	}
	// 同日取消的订单只计笔数，不计营收
	cancelled := &models.Order{
		OrderedAt:  date(-1).Add(19 * time.Hour),
		Status:     constants.OrderStatusCancelled,
		PriceTotal: models.NewMoneyFromDecimal(decimal.NewFromInt(70)),
		Details: []models.OrderDetail{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(2)},
		},
	}
	if err := env.db.Create(cancelled).Error; err != nil {
		t.Fatalf("create cancelled order failed: %v", err)
	}

	overviews, err := env.report.PreviousOrdersOverview()
	if err != nil {
		t.Fatalf("overview failed: %v", err)
	}
	if len(overviews) != 1 {
		t.Fatalf("days = %d, want 1", len(overviews))
	}
	day := overviews[0]
	if day.OrderCount != 2 {
		t.Fatalf("order count = %d, want 2", day.OrderCount)
	}
	decimalEqual(t, day.Revenue.Decimal, decimal.NewFromInt(105), "revenue")
	if day.Cost == nil || day.Profit == nil {
		t.Fatal("cost/profit missing")
	}
	// 3 * 3.8 = 11.4
	decimalEqual(t, day.Cost.Decimal, decimal.NewFromFloat(11.4), "cost")
	decimalEqual(t, day.Profit.Decimal, decimal.NewFromFloat(93.6), "profit")
}

func TestPreviousOrdersOverviewCostUnknown(t *testing.T) {
	env := setupServiceTest(t)
	product := seedProductWithRecipe(t, env, "餐包", decimal.NewFromInt(35))

	order := &models.Order{
		OrderedAt:  date(-1).Add(18 * time.Hour),
		Status:     constants.OrderStatusCompleted,
		PriceTotal: models.NewMoneyFromDecimal(decimal.NewFromInt(105)),
		Details: []models.OrderDetail{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(3)},
		},
	}
	if err := env.db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	overviews, err := env.report.PreviousOrdersOverview()
	if err != nil {
		t.Fatalf("overview failed: %v", err)
	}
	if len(overviews) != 1 {
		t.Fatalf("days = %d, want 1", len(overviews))
	}
	day := overviews[0]
	decimalEqual(t, day.Revenue.Decimal, decimal.NewFromInt(105), "revenue")
	if day.Cost != nil || day.Profit != nil {
		t.Fatal("cost/profit should be unknown")
	}
}

func TestTodayAndFutureOrders(t *testing.T) {
	env := setupServiceTest(t)
	product := seedProductWithRecipe(t, env, "餐包", decimal.NewFromInt(35))

	todayOrder, err := env.order.CreateOrder(CreateOrderInput{
		Details: []OrderLineInput{{ProductID: product.ID, Quantity: decimal.NewFromInt(1)}},
	})
	if err != nil {
		t.Fatalf("create today order failed: %v", err)
	}
	tomorrow := date(1).Add(10 * time.Hour)
	futureOrder, err := env.order.CreateOrder(CreateOrderInput{
		OrderedAt: &tomorrow,
		Details:   []OrderLineInput{{ProductID: product.ID, Quantity: decimal.NewFromInt(2)}},
	})
	if err != nil {
		t.Fatalf("create future order failed: %v", err)
	}
	seedCompletedOrder(t, env, date(-1).Add(18*time.Hour), product.ID, decimal.NewFromInt(1))

	todayViews, err := env.report.TodayOrders()
	if err != nil {
		t.Fatalf("today orders failed: %v", err)
	}
	if len(todayViews) != 1 || todayViews[0].ID != todayOrder.ID {
		t.Fatalf("today views = %+v, want only order %d", todayViews, todayOrder.ID)
	}
	if len(todayViews[0].Lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(todayViews[0].Lines))
	}
	decimalEqual(t, todayViews[0].Lines[0].UnitPrice.Decimal, decimal.NewFromInt(35), "unit price")

	futureViews, err := env.report.FutureOrders()
	if err != nil {
		t.Fatalf("future orders failed: %v", err)
	}
	if len(futureViews) != 1 || futureViews[0].ID != futureOrder.ID {
		t.Fatalf("future views = %+v, want only order %d", futureViews, futureOrder.ID)
	}
}

func TestMaterialStockLatestSnapshot(t *testing.T) {
	env := setupServiceTest(t)
	vendor := seedVendor(t, env, "供應商A")
	flour := seedMaterial(t, env, "麵粉")
	sugar := seedMaterial(t, env, "砂糖")
	// 进货落库时同步重算已写入 -2 当日快照 (10, 300, 30)
	seedPurchase(t, env, vendor.ID, date(-2), PurchaseDetailInput{
		MaterialID: flour.ID,
		Quantity:   decimal.NewFromInt(10),
		PriceTotal: decimal.NewFromInt(300),
	})
	seedMaterialCost(t, env, flour.ID, date(-1),
		decimal.NewFromInt(8), decimal.NewFromInt(240), decimal.NewFromInt(30))

	rows, err := env.report.MaterialStock()
	if err != nil {
		t.Fatalf("material stock failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	byID := map[uint]MaterialStockRow{}
	for _, row := range rows {
		byID[row.MaterialID] = row
	}
	flourRow := byID[flour.ID]
	if flourRow.StockedQuantity == nil {
		t.Fatal("flour snapshot missing")
	}
	decimalEqual(t, *flourRow.StockedQuantity, decimal.NewFromInt(8), "flour quantity")
	if !models.SameDate(*flourRow.AsOf, date(-1)) {
		t.Fatalf("as of = %v, want latest date", *flourRow.AsOf)
	}
	decimalEqual(t, flourRow.TotalPurchased, decimal.NewFromInt(10), "total purchased")
	decimalEqual(t, flourRow.TotalSpent.Decimal, decimal.NewFromInt(300), "total spent")
	if byID[sugar.ID].StockedQuantity != nil {
		t.Fatal("sugar should have no snapshot")
	}
}

func TestCostHistorySeries(t *testing.T) {
	env := setupServiceTest(t)
	flour := seedMaterial(t, env, "麵粉")
	product := seedProductWithRecipe(t, env, "餐包", decimal.NewFromInt(35))
	seedMaterialCost(t, env, flour.ID, date(-2),
		decimal.NewFromInt(10), decimal.NewFromInt(300), decimal.NewFromInt(30))
	seedMaterialCost(t, env, flour.ID, date(-1),
		decimal.NewFromInt(8), decimal.NewFromInt(240), decimal.NewFromInt(30))
	seedProductCost(t, env, product.ID, date(0), decimal.NewFromFloat(3.8))

	materialRows, err := env.report.MaterialCostHistory(flour.ID)
	if err != nil {
		t.Fatalf("material history failed: %v", err)
	}
	if len(materialRows) != 2 || !models.SameDate(materialRows[0].CostDate, date(-2)) {
		t.Fatalf("material history = %+v, want 2 rows ascending", materialRows)
	}

	productRows, err := env.report.ProductCostHistory(product.ID)
	if err != nil {
		t.Fatalf("product history failed: %v", err)
	}
	if len(productRows) != 1 {
		t.Fatalf("product history rows = %d, want 1", len(productRows))
	}

	if _, err := env.report.MaterialCostHistory(9999); !errors.Is(err, ErrMaterialNotFound) {
		t.Fatalf("err = %v, want ErrMaterialNotFound", err)
	}
}

func TestProductOverview(t *testing.T) {
	env := setupServiceTest(t)
	product := seedProductWithRecipe(t, env, "餐包", decimal.NewFromInt(35))
	seedProductCost(t, env, product.ID, date(0), decimal.NewFromFloat(3.8))

	rows, err := env.report.ProductOverview()
	if err != nil {
		t.Fatalf("product overview failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	row := rows[0]
	if row.Price == nil || row.Cost == nil || row.Margin == nil {
		t.Fatalf("row incomplete: %+v", row)
	}
	decimalEqual(t, row.Price.Decimal, decimal.NewFromInt(35), "price")
	decimalEqual(t, *row.Cost, decimal.NewFromFloat(3.8), "cost")
	decimalEqual(t, row.Margin.Decimal, decimal.NewFromFloat(31.2), "margin")
}
