package router

import (
	"fmt"
	"strings"

	"github.com/orderapp-next/internal/cache"
	"github.com/orderapp-next/internal/config"
	backofficehandlers "github.com/orderapp-next/internal/http/handlers/backoffice"
	"github.com/orderapp-next/internal/logger"
	"github.com/orderapp-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	handler := backofficehandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "orderapp"
	}
	redisClient := cache.Client()
	mutationRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:mutation", redisPrefix),
		WindowSeconds: cfg.Security.MutationRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.MutationRateLimit.MaxRequests,
	}
	mutationLimiter := RateLimitMiddleware(redisClient, mutationRule, KeyByIP)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 供应商
		vendors := apiV1.Group("/vendors")
		{
			vendors.GET("", handler.GetVendors)
			vendors.GET("/:id", handler.GetVendor)
			vendors.POST("", mutationLimiter, handler.CreateVendor)
			vendors.PUT("/:id", mutationLimiter, handler.UpdateVendor)
			vendors.DELETE("/:id", mutationLimiter, handler.DeleteVendor)
		}

		// 原料
		materials := apiV1.Group("/materials")
		{
			materials.GET("", handler.GetMaterials)
			materials.POST("", mutationLimiter, handler.CreateMaterial)
			materials.PUT("/:id", mutationLimiter, handler.UpdateMaterial)
			materials.DELETE("/:id", mutationLimiter, handler.DeleteMaterial)
			materials.POST("/clean-up", mutationLimiter, handler.CleanUpMaterials)
		}

		// 进货
		purchases := apiV1.Group("/purchases")
		{
			purchases.GET("", handler.GetPurchases)
			purchases.GET("/:id", handler.GetPurchase)
			purchases.POST("", mutationLimiter, handler.CreatePurchase)
			purchases.PUT("/:id/details", mutationLimiter, handler.UpsertPurchaseDetail)
			purchases.DELETE("/:id/details/:material_id", mutationLimiter, handler.RemovePurchaseDetail)
			purchases.DELETE("/:id", mutationLimiter, handler.DeletePurchase)
		}

		// 产品与配方
		products := apiV1.Group("/products")
		{
			products.GET("", handler.GetProducts)
			products.POST("", mutationLimiter, handler.UpsertProduct)
			products.GET("/:id/recipe", handler.GetRecipe)
			products.PUT("/:id/recipe", mutationLimiter, handler.ReplaceRecipe)
			products.DELETE("/:id/recipe", mutationLimiter, handler.CloseRecipe)
			products.DELETE("/:id", mutationLimiter, handler.DeleteProduct)
		}

		// 订单
		orders := apiV1.Group("/orders")
		{
			orders.GET("", handler.GetOrders)
			orders.GET("/today", handler.GetTodayOrders)
			orders.GET("/future", handler.GetFutureOrders)
			orders.GET("/:id", handler.GetOrder)
			orders.POST("", mutationLimiter, handler.CreateOrder)
			orders.PUT("/:id/status", mutationLimiter, handler.UpdateOrderStatus)
			orders.PUT("/:id/paid", mutationLimiter, handler.SetOrderPaid)
			orders.PUT("/:id/details", mutationLimiter, handler.UpsertOrderDetail)
			orders.DELETE("/:id/details/:product_id", mutationLimiter, handler.RemoveOrderDetail)
			orders.DELETE("/:id", mutationLimiter, handler.DeleteOrder)
		}

		// 报表
		reports := apiV1.Group("/reports")
		{
			reports.GET("/orders/overview", handler.GetPreviousOrdersOverview)
			reports.GET("/products/overview", handler.GetProductOverview)
			reports.GET("/materials/stock", handler.GetMaterialStock)
		}

		// 成本
		costs := apiV1.Group("/costs")
		{
			costs.POST("/recompute", mutationLimiter, handler.TriggerCostRecompute)
			costs.GET("/materials/:id", handler.GetMaterialCostHistory)
			costs.GET("/products/:id", handler.GetProductCostHistory)
		}
	}

	return r
}
