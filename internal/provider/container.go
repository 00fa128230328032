package provider

import (
	"github.com/orderapp-next/internal/cache"
	"github.com/orderapp-next/internal/config"
	"github.com/orderapp-next/internal/logger"
	"github.com/orderapp-next/internal/models"
	"github.com/orderapp-next/internal/queue"
	"github.com/orderapp-next/internal/repository"
	"github.com/orderapp-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	VendorRepo   repository.VendorRepository
	MaterialRepo repository.MaterialRepository
	PurchaseRepo repository.PurchaseRepository
	ProductRepo  repository.ProductRepository
	RecipeRepo   repository.RecipeRepository
	OrderRepo    repository.OrderRepository
	CostRepo     repository.CostRepository
	SettingRepo  repository.SettingRepository

	// Services
	VendorService   *service.VendorService
	MaterialService *service.MaterialService
	PurchaseService *service.PurchaseService
	RecipeService   *service.RecipeService
	OrderService    *service.OrderService
	CostService     *service.CostService
	ReportService   *service.ReportService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.VendorRepo = repository.NewVendorRepository(db)
	c.MaterialRepo = repository.NewMaterialRepository(db)
	c.PurchaseRepo = repository.NewPurchaseRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.RecipeRepo = repository.NewRecipeRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.CostRepo = repository.NewCostRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
}

func (c *Container) initServices() {
	loc := c.Config.Costs.Location()
	c.CostService = service.NewCostService(
		c.PurchaseRepo, c.OrderRepo, c.RecipeRepo, c.ProductRepo,
		c.CostRepo, c.SettingRepo, loc)
	c.VendorService = service.NewVendorService(c.VendorRepo)
	c.MaterialService = service.NewMaterialService(c.MaterialRepo)
	c.PurchaseService = service.NewPurchaseService(
		c.PurchaseRepo, c.VendorRepo, c.MaterialRepo, c.CostService)
	c.RecipeService = service.NewRecipeService(
		c.ProductRepo, c.RecipeRepo, c.MaterialRepo, c.CostService)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ProductRepo, c.CostService)
	c.ReportService = service.NewReportService(
		c.OrderRepo, c.ProductRepo, c.MaterialRepo, c.PurchaseRepo, c.CostRepo, c.CostService)
}
