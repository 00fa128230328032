package service

import (
	"time"

	"github.com/orderapp-next/internal/constants"
	"github.com/orderapp-next/internal/logger"
	"github.com/orderapp-next/internal/models"
	"github.com/orderapp-next/internal/repository"

	"github.com/shopspring/decimal"
)

// OrderLineInput 订单明细输入
type OrderLineInput struct {
	ProductID uint            `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// CreateOrderInput 创建订单输入。CompletionAt 仅预约单填写。
type CreateOrderInput struct {
	OrderedAt    *time.Time       `json:"ordered_at"`
	CompletionAt *time.Time       `json:"completion_at"`
	Note         string           `json:"note"`
	Details      []OrderLineInput `json:"details" binding:"required"`
}

// OrderService 订单管理。
// 订单总价在下单时点按价格历史回溯锁定，之后价格变化不影响已有订单。
type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	costSvc     *CostService
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	costSvc *CostService,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		costSvc:     costSvc,
	}
}

// ListOrders 订单列表
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// GetOrder 获取订单
func (s *OrderService) GetOrder(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// CreateOrder 创建订单，总价按下单时点回溯产品价格计算
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if len(input.Details) == 0 {
		return nil, ErrOrderEmpty
	}
	orderedAt := s.costSvc.now()
	if input.OrderedAt != nil {
		orderedAt = *input.OrderedAt
	}

	order := &models.Order{
		OrderedAt:    orderedAt,
		CompletionAt: input.CompletionAt,
		Status:       constants.OrderStatusPreparing,
		Note:         input.Note,
	}
	for _, line := range input.Details {
		product, err := s.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, ErrProductNotFound
		}
		order.Details = append(order.Details, models.OrderDetail{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}
	total, err := s.priceTotal(order.Details, orderedAt)
	if err != nil {
		return nil, err
	}
	order.PriceTotal = total

	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateOrderStatus 更新订单状态。只有准备中的订单可以结束；
// 预约单完成时下单时间对齐到预约完成时间，成本归属到实际出餐日。
func (s *OrderService) UpdateOrderStatus(id uint, status string) error {
	valid := false
	for _, candidate := range constants.OrderStatuses {
		if candidate == status {
			valid = true
			break
		}
	}
	if !valid {
		return ErrInvalidOrderStatus
	}

	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if order.Status == status {
		return nil
	}
	if order.Status != constants.OrderStatusPreparing {
		return ErrOrderNotPreparing
	}

	order.Status = status
	if status == constants.OrderStatusCompleted && order.CompletionAt != nil {
		order.OrderedAt = *order.CompletionAt
	}
	if err := s.orderRepo.Update(order); err != nil {
		return err
	}
	if status == constants.OrderStatusCompleted {
		s.markDirty(order.OrderedAt)
	}
	return nil
}

// SetOrderPaid 标记订单付款状态
func (s *OrderService) SetOrderPaid(id uint, paid bool) error {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if order.IsPaid == paid {
		return nil
	}
	order.IsPaid = paid
	return s.orderRepo.Update(order)
}

// UpsertOrderDetail 新增或更新一条订单明细，只允许在准备中操作；
// 总价按原下单时点重新计算
func (s *OrderService) UpsertOrderDetail(orderID uint, line OrderLineInput) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusPreparing {
		return ErrOrderNotPreparing
	}
	product, err := s.productRepo.GetByID(line.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	if err := s.orderRepo.UpsertDetail(&models.OrderDetail{
		OrderID:   orderID,
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
	}); err != nil {
		return err
	}
	return s.refreshPriceTotal(orderID)
}

// RemoveOrderDetail 删除一条订单明细，只允许在准备中操作
func (s *OrderService) RemoveOrderDetail(orderID, productID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusPreparing {
		return ErrOrderNotPreparing
	}
	if err := s.orderRepo.DeleteDetail(orderID, productID); err != nil {
		return err
	}
	return s.refreshPriceTotal(orderID)
}

// DeleteOrder 删除订单。已完成订单删除会影响历史成本，登记回补重算。
func (s *OrderService) DeleteOrder(id uint) error {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if err := s.orderRepo.Delete(id); err != nil {
		return err
	}
	if order.Status == constants.OrderStatusCompleted {
		s.markDirty(order.OrderedAt)
	}
	return nil
}

// priceTotal 按下单时点回溯各产品价格并合计
func (s *OrderService) priceTotal(details []models.OrderDetail, orderedAt time.Time) (models.Money, error) {
	total := decimal.Zero
	for _, detail := range details {
		series, err := s.productRepo.PriceSeries(detail.ProductID)
		if err != nil {
			return models.Money{}, err
		}
		price, err := latestAsOf(series, orderedAt,
			func(p models.ProductPrice) time.Time { return p.EffectiveAt })
		if err != nil {
			return models.Money{}, ErrPriceNotFound
		}
		total = total.Add(detail.Quantity.Mul(price.Price.Decimal))
	}
	return models.NewMoneyFromDecimal(total), nil
}

func (s *OrderService) refreshPriceTotal(orderID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	total, err := s.priceTotal(order.Details, order.OrderedAt)
	if err != nil {
		return err
	}
	order.PriceTotal = total
	return s.orderRepo.Update(order)
}

// markDirty 登记回补重算并同步执行。两者都不回滚已提交的变更：
// 失败只记告警，下一次变更或例行重算会幂等补上。
func (s *OrderService) markDirty(orderedAt time.Time) {
	if err := s.costSvc.MarkCostsDirty(orderedAt); err != nil {
		logger.Warnw("cost_dirty_mark_failed",
			"date", models.DateOf(orderedAt, s.costSvc.loc).Format(costDateLayout),
			"error", err)
		return
	}
	if err := s.costSvc.RunPendingRecompute(); err != nil {
		logger.Warnw("cost_recompute_failed", "error", err)
	}
}
