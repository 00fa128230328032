package service

import (
	"sort"
	"time"

	"github.com/orderapp-next/internal/constants"
	"github.com/orderapp-next/internal/models"
	"github.com/orderapp-next/internal/repository"

	"github.com/shopspring/decimal"
)

// OrderLineView 订单明细视图，单价按下单时点回溯
type OrderLineView struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   models.Money    `json:"unit_price"`
	LineTotal   models.Money    `json:"line_total"`
}

// OrderView 订单视图
type OrderView struct {
	ID           uint            `json:"id"`
	OrderedAt    time.Time       `json:"ordered_at"`
	CompletionAt *time.Time      `json:"completion_at,omitempty"`
	Status       string          `json:"status"`
	IsPaid       bool            `json:"is_paid"`
	Note         string          `json:"note,omitempty"`
	PriceTotal   models.Money    `json:"price_total"`
	Lines        []OrderLineView `json:"lines"`
}

// DailyOverview 历史订单按日汇总。成本无法完整计算时 Cost 与 Profit 为空。
type DailyOverview struct {
	Date       string        `json:"date"`
	OrderCount int           `json:"order_count"`
	Revenue    models.Money  `json:"revenue"`
	Cost       *models.Money `json:"cost,omitempty"`
	Profit     *models.Money `json:"profit,omitempty"`
}

// ProductOverviewRow 产品总览：当前价格、当前成本与毛利
type ProductOverviewRow struct {
	ProductID uint             `json:"product_id"`
	Name      string           `json:"name"`
	UnitName  string           `json:"unit_name,omitempty"`
	Price     *models.Money    `json:"price,omitempty"`
	Cost      *decimal.Decimal `json:"cost,omitempty"`
	Margin    *models.Money    `json:"margin,omitempty"`
}

// MaterialStockRow 原料库存总览：最新成本快照与进货累计
type MaterialStockRow struct {
	MaterialID      uint             `json:"material_id"`
	Name            string           `json:"name"`
	UnitName        string           `json:"unit_name,omitempty"`
	StockedQuantity *decimal.Decimal `json:"stocked_quantity,omitempty"`
	StockedCost     *models.Money    `json:"stocked_cost,omitempty"`
	CostPerUnit     *decimal.Decimal `json:"cost_per_unit,omitempty"`
	AsOf            *time.Time       `json:"as_of,omitempty"`
	TotalPurchased  decimal.Decimal  `json:"total_purchased"`
	TotalSpent      models.Money     `json:"total_spent"`
}

// ReportService 报表查询。读取已落库的快照，不触发重算。
type ReportService struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	materialRepo repository.MaterialRepository
	purchaseRepo repository.PurchaseRepository
	costRepo     repository.CostRepository
	costSvc      *CostService
}

// NewReportService 创建报表服务
func NewReportService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	materialRepo repository.MaterialRepository,
	purchaseRepo repository.PurchaseRepository,
	costRepo repository.CostRepository,
	costSvc *CostService,
) *ReportService {
	return &ReportService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		materialRepo: materialRepo,
		purchaseRepo: purchaseRepo,
		costRepo:     costRepo,
		costSvc:      costSvc,
	}
}

// dayStart 业务时区下某个归一化日期的零点时刻
func (s *ReportService) dayStart(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, s.costSvc.loc)
}

// TodayOrders 今天的订单
func (s *ReportService) TodayOrders() ([]OrderView, error) {
	today := s.costSvc.Today()
	orders, err := s.orderRepo.ListBetween(s.dayStart(today), s.dayStart(models.NextDate(today)))
	if err != nil {
		return nil, err
	}
	return s.orderViews(orders)
}

// FutureOrders 明天起的预约订单
func (s *ReportService) FutureOrders() ([]OrderView, error) {
	today := s.costSvc.Today()
	orders, err := s.orderRepo.ListFrom(s.dayStart(models.NextDate(today)))
	if err != nil {
		return nil, err
	}
	return s.orderViews(orders)
}

// OrderDetails 单笔订单明细，单价按下单时点回溯
func (s *ReportService) OrderDetails(orderID uint) (*OrderView, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	views, err := s.orderViews([]models.Order{*order})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// PreviousOrdersOverview 今天以前的订单按日汇总，日期倒序。
// 营收只计已完成订单；任一明细的产品成本缺失时当日成本标记为无法计算。
func (s *ReportService) PreviousOrdersOverview() ([]DailyOverview, error) {
	today := s.costSvc.Today()
	orders, err := s.orderRepo.ListBefore(s.dayStart(today))
	if err != nil {
		return nil, err
	}
	costSeries, err := s.costRepo.AllProductSeries()
	if err != nil {
		return nil, err
	}

	type dayAgg struct {
		count       int
		revenue     decimal.Decimal
		cost        decimal.Decimal
		costUnknown bool
	}
	days := make(map[time.Time]*dayAgg)
	for _, order := range orders {
		date := models.DateOf(order.OrderedAt, s.costSvc.loc)
		agg, ok := days[date]
		if !ok {
			agg = &dayAgg{}
			days[date] = agg
		}
		agg.count++
		if order.Status != constants.OrderStatusCompleted {
			continue
		}
		agg.revenue = agg.revenue.Add(order.PriceTotal.Decimal)
		for _, detail := range order.Details {
			snapshot, err := latestAsOf(costSeries[detail.ProductID], date,
				func(c models.ProductCost) time.Time { return c.CostDate })
			if err != nil {
				agg.costUnknown = true
				continue
			}
			agg.cost = agg.cost.Add(detail.Quantity.Mul(snapshot.CostPerUnit))
		}
	}

	dates := make([]time.Time, 0, len(days))
	for date := range days {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })

	overviews := make([]DailyOverview, 0, len(dates))
	for _, date := range dates {
		agg := days[date]
		overview := DailyOverview{
			Date:       date.Format(costDateLayout),
			OrderCount: agg.count,
			Revenue:    models.NewMoneyFromDecimal(agg.revenue),
		}
		if !agg.costUnknown {
			cost := models.NewMoneyFromDecimal(agg.cost)
			profit := models.NewMoneyFromDecimal(agg.revenue.Sub(agg.cost))
			overview.Cost = &cost
			overview.Profit = &profit
		}
		overviews = append(overviews, overview)
	}
	return overviews, nil
}

// ProductOverview 产品总览：当前价格、当前成本与毛利
func (s *ReportService) ProductOverview() ([]ProductOverviewRow, error) {
	products, err := s.productRepo.List()
	if err != nil {
		return nil, err
	}
	priceSeries, err := s.productRepo.AllPriceSeries()
	if err != nil {
		return nil, err
	}
	costSeries, err := s.costRepo.AllProductSeries()
	if err != nil {
		return nil, err
	}

	now := s.costSvc.now()
	rows := make([]ProductOverviewRow, 0, len(products))
	for _, product := range products {
		row := ProductOverviewRow{ProductID: product.ID, Name: product.Name}
		if product.Unit != nil {
			row.UnitName = product.Unit.Name
		}
		if price, err := latestAsOf(priceSeries[product.ID], now,
			func(p models.ProductPrice) time.Time { return p.EffectiveAt }); err == nil {
			row.Price = &price.Price
		}
		if series := costSeries[product.ID]; len(series) > 0 {
			latest := series[len(series)-1]
			cost := latest.CostPerUnit
			row.Cost = &cost
			if row.Price != nil {
				margin := models.NewMoneyFromDecimal(row.Price.Decimal.Sub(cost))
				row.Margin = &margin
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// MaterialStock 原料库存总览：各原料最新成本快照与进货累计
func (s *ReportService) MaterialStock() ([]MaterialStockRow, error) {
	materials, err := s.materialRepo.List()
	if err != nil {
		return nil, err
	}
	series, err := s.costRepo.AllMaterialSeries()
	if err != nil {
		return nil, err
	}
	purchased, err := s.purchaseRepo.SumAllByMaterial()
	if err != nil {
		return nil, err
	}

	rows := make([]MaterialStockRow, 0, len(materials))
	for _, material := range materials {
		row := MaterialStockRow{MaterialID: material.ID, Name: material.Name}
		if material.Unit != nil {
			row.UnitName = material.Unit.Name
		}
		if sum, ok := purchased[material.ID]; ok {
			row.TotalPurchased = sum.TotalQuantity
			row.TotalSpent = models.NewMoneyFromDecimal(sum.TotalCost)
		}
		if costs := series[material.ID]; len(costs) > 0 {
			latest := costs[len(costs)-1]
			quantity := latest.StockedQuantity
			cost := latest.StockedCost
			unitCost := latest.CostPerUnit
			asOf := latest.CostDate
			row.StockedQuantity = &quantity
			row.StockedCost = &cost
			row.CostPerUnit = &unitCost
			row.AsOf = &asOf
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// MaterialCostHistory 某原料的成本快照序列，按日期升序
func (s *ReportService) MaterialCostHistory(materialID uint) ([]models.MaterialCost, error) {
	material, err := s.materialRepo.GetByID(materialID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, ErrMaterialNotFound
	}
	return s.costRepo.MaterialSeries(materialID)
}

// ProductCostHistory 某产品的成本快照序列，按日期升序
func (s *ReportService) ProductCostHistory(productID uint) ([]models.ProductCost, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return s.costRepo.ProductSeries(productID)
}

// orderViews 把订单转成带回溯单价的视图
func (s *ReportService) orderViews(orders []models.Order) ([]OrderView, error) {
	priceSeries, err := s.productRepo.AllPriceSeries()
	if err != nil {
		return nil, err
	}
	views := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		view := OrderView{
			ID:           order.ID,
			OrderedAt:    order.OrderedAt,
			CompletionAt: order.CompletionAt,
			Status:       order.Status,
			IsPaid:       order.IsPaid,
			Note:         order.Note,
			PriceTotal:   order.PriceTotal,
		}
		for _, detail := range order.Details {
			line := OrderLineView{
				ProductID: detail.ProductID,
				Quantity:  detail.Quantity,
			}
			if detail.Product != nil {
				line.ProductName = detail.Product.Name
			}
			if price, err := latestAsOf(priceSeries[detail.ProductID], order.OrderedAt,
				func(p models.ProductPrice) time.Time { return p.EffectiveAt }); err == nil {
				line.UnitPrice = price.Price
				line.LineTotal = models.NewMoneyFromDecimal(
					detail.Quantity.Mul(price.Price.Decimal))
			}
			view.Lines = append(view.Lines, line)
		}
		views = append(views, view)
	}
	return views, nil
}
