package main

import (
	"time"

	"github.com/orderapp-next/internal/config"
	"github.com/orderapp-next/internal/constants"
	"github.com/orderapp-next/internal/logger"
	"github.com/orderapp-next/internal/models"
	"github.com/orderapp-next/internal/provider"
	"github.com/orderapp-next/internal/service"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	c := provider.NewContainer(cfg)
	loc := cfg.Costs.Location()
	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)

	// 供应商
	vendor := &models.Vendor{
		Name:        "大安食材行",
		MobilePhone: "0912-345-678",
		Address:     "台北市大安區和平東路一段 100 號",
		ContactName: "陳先生",
		OpenDays:    "1,2,3,4,5",
	}
	if err := c.VendorService.CreateVendor(vendor); err != nil {
		stdLog.Fatalf("Failed to seed vendor: %v", err)
	}

	// 原料
	flour, err := c.MaterialService.CreateMaterial("麵粉", "公斤")
	if err != nil {
		stdLog.Fatalf("Failed to seed material: %v", err)
	}
	sugar, err := c.MaterialService.CreateMaterial("砂糖", "公斤")
	if err != nil {
		stdLog.Fatalf("Failed to seed material: %v", err)
	}

	// 昨天的进货单
	if _, err := c.PurchaseService.CreatePurchase(service.CreatePurchaseInput{
		VendorID:     vendor.ID,
		PurchaseDate: yesterday,
		Details: []service.PurchaseDetailInput{
			{MaterialID: flour.ID, Quantity: decimal.NewFromInt(10), PriceTotal: decimal.NewFromInt(300)},
			{MaterialID: sugar.ID, Quantity: decimal.NewFromInt(5), PriceTotal: decimal.NewFromInt(200)},
		},
	}); err != nil {
		stdLog.Fatalf("Failed to seed purchase: %v", err)
	}

	// 产品与配方
	product, err := c.RecipeService.UpsertProduct(service.UpsertProductInput{
		Name:     "奶油餐包",
		UnitName: "個",
		Price:    decimal.NewFromInt(35),
	})
	if err != nil {
		stdLog.Fatalf("Failed to seed product: %v", err)
	}
	if err := c.RecipeService.ReplaceRecipeLines(product.ID, []service.RecipeLineInput{
		{MaterialID: flour.ID, Quantity: decimal.NewFromFloat(0.1)},
		{MaterialID: sugar.ID, Quantity: decimal.NewFromFloat(0.02)},
	}); err != nil {
		stdLog.Fatalf("Failed to seed recipe: %v", err)
	}

	// 昨天的一笔已完成订单
	orderedAt := yesterday.In(loc)
	order, err := c.OrderService.CreateOrder(service.CreateOrderInput{
		OrderedAt: &orderedAt,
		Details: []service.OrderLineInput{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(3)},
		},
	})
	if err != nil {
		stdLog.Fatalf("Failed to seed order: %v", err)
	}
	if err := c.OrderService.UpdateOrderStatus(order.ID, constants.OrderStatusCompleted); err != nil {
		stdLog.Fatalf("Failed to complete seed order: %v", err)
	}

	// 重算成本：从昨天补到今天
	if err := c.CostService.RecomputeFrom(models.DateOf(yesterday, loc)); err != nil {
		stdLog.Fatalf("Failed to recompute costs: %v", err)
	}

	stdLog.Println("Seed data created.")
}
