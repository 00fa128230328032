package backoffice

import (
	"errors"
	"strconv"
	"time"

	"github.com/orderapp-next/internal/http/response"
	"github.com/orderapp-next/internal/repository"
	"github.com/orderapp-next/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderCreateRequest 创建订单请求
type OrderCreateRequest struct {
	OrderedAt    *time.Time               `json:"ordered_at"`
	CompletionAt *time.Time               `json:"completion_at"`
	Note         string                   `json:"note"`
	Details      []service.OrderLineInput `json:"details" binding:"required"`
}

// OrderStatusRequest 更新订单状态请求
type OrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderPaidRequest 更新付款状态请求
type OrderPaidRequest struct {
	IsPaid *bool `json:"is_paid" binding:"required"`
}

// GetOrders 获取订单列表
func (h *Handler) GetOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("status"),
	}
	if raw := c.Query("is_paid"); raw != "" {
		paid, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "参数不合法", err)
			return
		}
		filter.IsPaid = &paid
	}
	if raw := c.Query("date_from"); raw != "" {
		from, err := time.Parse(dateLayout, raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "日期格式不合法", err)
			return
		}
		filter.DateFrom = &from
	}
	if raw := c.Query("date_to"); raw != "" {
		to, err := time.Parse(dateLayout, raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "日期格式不合法", err)
			return
		}
		filter.DateTo = &to
	}

	orders, total, err := h.OrderService.ListOrders(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "订单查询失败", err)
		return
	}
	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, orders, pagination)
}

// GetOrder 获取订单明细（含回溯单价）
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	view, err := h.ReportService.OrderDetails(id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, err.Error(), nil)
			return
		}
		respondError(c, response.CodeInternal, "订单查询失败", err)
		return
	}
	response.Success(c, view)
}

// CreateOrder 创建订单
func (h *Handler) CreateOrder(c *gin.Context) {
	var req OrderCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "参数不合法", err)
		return
	}
	order, err := h.OrderService.CreateOrder(service.CreateOrderInput{
		OrderedAt:    req.OrderedAt,
		CompletionAt: req.CompletionAt,
		Note:         req.Note,
		Details:      req.Details,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderEmpty),
			errors.Is(err, service.ErrPriceNotFound):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		case errors.Is(err, service.ErrProductNotFound):
			respondError(c, response.CodeNotFound, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "订单创建失败", err)
		}
		return
	}
	response.Success(c, order)
}

// UpdateOrderStatus 更新订单状态
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "参数不合法", err)
		return
	}
	if err := h.OrderService.UpdateOrderStatus(id, req.Status); err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, err.Error(), nil)
		case errors.Is(err, service.ErrInvalidOrderStatus),
			errors.Is(err, service.ErrOrderNotPreparing):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "订单状态更新失败", err)
		}
		return
	}
	response.Success(c, nil)
}

// SetOrderPaid 更新订单付款状态
func (h *Handler) SetOrderPaid(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req OrderPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsPaid == nil {
		respondError(c, response.CodeBadRequest, "参数不合法", err)
		return
	}
	if err := h.OrderService.SetOrderPaid(id, *req.IsPaid); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, err.Error(), nil)
			return
		}
		respondError(c, response.CodeInternal, "订单付款状态更新失败", err)
		return
	}
	response.Success(c, nil)
}

// UpsertOrderDetail 新增或更新订单明细
func (h *Handler) UpsertOrderDetail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req service.OrderLineInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "参数不合法", err)
		return
	}
	if err := h.OrderService.UpsertOrderDetail(id, req); err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound),
			errors.Is(err, service.ErrProductNotFound):
			respondError(c, response.CodeNotFound, err.Error(), nil)
		case errors.Is(err, service.ErrOrderNotPreparing):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "订单明细更新失败", err)
		}
		return
	}
	response.Success(c, nil)
}

// RemoveOrderDetail 删除订单明细
func (h *Handler) RemoveOrderDetail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 32)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "参数不合法", nil)
		return
	}
	if err := h.OrderService.RemoveOrderDetail(id, uint(productID)); err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, err.Error(), nil)
		case errors.Is(err, service.ErrOrderNotPreparing):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "订单明细删除失败", err)
		}
		return
	}
	response.Success(c, nil)
}

// DeleteOrder 删除订单
func (h *Handler) DeleteOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.OrderService.DeleteOrder(id); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, err.Error(), nil)
			return
		}
		respondError(c, response.CodeInternal, "订单删除失败", err)
		return
	}
	response.Success(c, nil)
}
