package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/orderapp-next/internal/constants"
	"github.com/orderapp-next/internal/models"
	"github.com/orderapp-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// testNow 固定测试时间：2026-08-28 12:00 UTC
var testNow = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	db       *gorm.DB
	cost     *CostService
	vendor   *VendorService
	material *MaterialService
	purchase *PurchaseService
	recipe   *RecipeService
	order    *OrderService
	report   *ReportService
}

func setupServiceTest(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Unit{},
		&models.Vendor{},
		&models.Material{},
		&models.Purchase{},
		&models.PurchaseDetail{},
		&models.Product{},
		&models.ProductPrice{},
		&models.Recipe{},
		&models.Order{},
		&models.OrderDetail{},
		&models.MaterialCost{},
		&models.ProductCost{},
		&models.Setting{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	vendorRepo := repository.NewVendorRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	productRepo := repository.NewProductRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	costRepo := repository.NewCostRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	costSvc := NewCostService(purchaseRepo, orderRepo, recipeRepo, productRepo,
		costRepo, settingRepo, time.UTC)
	costSvc.now = func() time.Time { return testNow }

	return &testEnv{
		db:       db,
		cost:     costSvc,
		vendor:   NewVendorService(vendorRepo),
		material: NewMaterialService(materialRepo),
		purchase: NewPurchaseService(purchaseRepo, vendorRepo, materialRepo, costSvc),
		recipe:   NewRecipeService(productRepo, recipeRepo, materialRepo, costSvc),
		order:    NewOrderService(orderRepo, productRepo, costSvc),
		report:   NewReportService(orderRepo, productRepo, materialRepo, purchaseRepo, costRepo, costSvc),
	}
}

// date 返回相对 testNow 偏移 days 天的归一化日期
func date(days int) time.Time {
	return models.DateOf(testNow, time.UTC).AddDate(0, 0, days)
}

func seedVendor(t *testing.T, env *testEnv, name string) *models.Vendor {
	t.Helper()
	vendor := &models.Vendor{Name: name}
	if err := env.vendor.CreateVendor(vendor); err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}
	return vendor
}

func seedMaterial(t *testing.T, env *testEnv, name string) *models.Material {
	t.Helper()
	material, err := env.material.CreateMaterial(name, "公斤")
	if err != nil {
		t.Fatalf("create material failed: %v", err)
	}
	return material
}

func seedPurchase(t *testing.T, env *testEnv, vendorID uint, purchaseDate time.Time, details ...PurchaseDetailInput) *models.Purchase {
	t.Helper()
	purchase, err := env.purchase.CreatePurchase(CreatePurchaseInput{
		VendorID:     vendorID,
		PurchaseDate: purchaseDate,
		Details:      details,
	})
	if err != nil {
		t.Fatalf("create purchase failed: %v", err)
	}
	return purchase
}

func seedProductWithRecipe(t *testing.T, env *testEnv, name string, price decimal.Decimal, lines ...RecipeLineInput) *models.Product {
	t.Helper()
	product, err := env.recipe.UpsertProduct(UpsertProductInput{
		Name:     name,
		UnitName: "個",
		Price:    price,
	})
	if err != nil {
		t.Fatalf("upsert product failed: %v", err)
	}
	if len(lines) > 0 {
		if err := env.recipe.ReplaceRecipeLines(product.ID, lines); err != nil {
			t.Fatalf("replace recipe lines failed: %v", err)
		}
	}
	return product
}

// seedCompletedOrder 直接落库一笔指定下单时间的已完成订单
func seedCompletedOrder(t *testing.T, env *testEnv, orderedAt time.Time, productID uint, quantity decimal.Decimal) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderedAt:  orderedAt,
		Status:     constants.OrderStatusCompleted,
		PriceTotal: models.NewMoneyFromDecimal(decimal.Zero),
		Details: []models.OrderDetail{
			{ProductID: productID, Quantity: quantity},
		},
	}
	if err := env.db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func decimalEqual(t *testing.T, got, want decimal.Decimal, label string) {
	t.Helper()
	if !got.Equal(want) {
		t.Fatalf("%s = %s, want %s", label, got.String(), want.String())
	}
}
