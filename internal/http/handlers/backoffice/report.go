package backoffice

import (
	"errors"
	"time"

	"github.com/orderapp-next/internal/cache"
	"github.com/orderapp-next/internal/http/response"
	"github.com/orderapp-next/internal/queue"
	"github.com/orderapp-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetTodayOrders 今天的订单
func (h *Handler) GetTodayOrders(c *gin.Context) {
	views, err := h.ReportService.TodayOrders()
	if err != nil {
		respondError(c, response.CodeInternal, "订单查询失败", err)
		return
	}
	response.Success(c, views)
}

// GetFutureOrders 明天起的预约订单
func (h *Handler) GetFutureOrders(c *gin.Context) {
	views, err := h.ReportService.FutureOrders()
	if err != nil {
		respondError(c, response.CodeInternal, "订单查询失败", err)
		return
	}
	response.Success(c, views)
}

// overviewCacheTTL 汇总类报表的缓存时长
const overviewCacheTTL = 30 * time.Second

// GetPreviousOrdersOverview 历史订单按日汇总
func (h *Handler) GetPreviousOrdersOverview(c *gin.Context) {
	var cached []service.DailyOverview
	if hit, err := cache.GetJSON(c.Request.Context(), "report:orders_overview", &cached); err == nil && hit {
		response.Success(c, cached)
		return
	}
	overviews, err := h.ReportService.PreviousOrdersOverview()
	if err != nil {
		respondError(c, response.CodeInternal, "历史订单汇总失败", err)
		return
	}
	if err := cache.SetJSON(c.Request.Context(), "report:orders_overview", overviews, overviewCacheTTL); err != nil {
		requestLog(c).Warnw("report_cache_set_failed", "error", err)
	}
	response.Success(c, overviews)
}

// GetProductOverview 产品总览（价格、成本、毛利）
func (h *Handler) GetProductOverview(c *gin.Context) {
	var cached []service.ProductOverviewRow
	if hit, err := cache.GetJSON(c.Request.Context(), "report:product_overview", &cached); err == nil && hit {
		response.Success(c, cached)
		return
	}
	rows, err := h.ReportService.ProductOverview()
	if err != nil {
		respondError(c, response.CodeInternal, "产品总览查询失败", err)
		return
	}
	if err := cache.SetJSON(c.Request.Context(), "report:product_overview", rows, overviewCacheTTL); err != nil {
		requestLog(c).Warnw("report_cache_set_failed", "error", err)
	}
	response.Success(c, rows)
}

// GetMaterialStock 原料库存总览
func (h *Handler) GetMaterialStock(c *gin.Context) {
	rows, err := h.ReportService.MaterialStock()
	if err != nil {
		respondError(c, response.CodeInternal, "原料库存查询失败", err)
		return
	}
	response.Success(c, rows)
}

// GetMaterialCostHistory 某原料的成本快照序列
func (h *Handler) GetMaterialCostHistory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rows, err := h.ReportService.MaterialCostHistory(id)
	if err != nil {
		if errors.Is(err, service.ErrMaterialNotFound) {
			respondError(c, response.CodeNotFound, err.Error(), nil)
			return
		}
		respondError(c, response.CodeInternal, "原料成本历史查询失败", err)
		return
	}
	response.Success(c, rows)
}

// GetProductCostHistory 某产品的成本快照序列
func (h *Handler) GetProductCostHistory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rows, err := h.ReportService.ProductCostHistory(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, err.Error(), nil)
			return
		}
		respondError(c, response.CodeInternal, "产品成本历史查询失败", err)
		return
	}
	response.Success(c, rows)
}

// CostRecomputeRequest 手动触发成本重算请求
type CostRecomputeRequest struct {
	StartDate string `json:"start_date"`
}

// TriggerCostRecompute 手动触发成本重算。
// 队列可用时走异步任务，否则同步执行。
func (h *Handler) TriggerCostRecompute(c *gin.Context) {
	var req CostRecomputeRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondError(c, response.CodeBadRequest, "参数不合法", err)
		return
	}
	if req.StartDate != "" {
		if _, err := time.Parse(dateLayout, req.StartDate); err != nil {
			respondError(c, response.CodeBadRequest, "日期格式不合法", err)
			return
		}
	}

	if h.QueueClient.Enabled() {
		if err := h.QueueClient.EnqueueCostRecompute(queue.CostRecomputePayload{StartDate: req.StartDate}); err != nil {
			respondError(c, response.CodeInternal, "成本重算任务提交失败", err)
			return
		}
		response.SuccessWithMsg(c, "已提交成本重算任务", nil)
		return
	}

	if req.StartDate != "" {
		start, _ := time.Parse(dateLayout, req.StartDate)
		if err := h.CostService.RecomputeFrom(start); err != nil {
			if errors.Is(err, service.ErrRecomputeDateInFuture) {
				respondError(c, response.CodeBadRequest, err.Error(), nil)
				return
			}
			respondError(c, response.CodeInternal, "成本重算失败", err)
			return
		}
		if err := h.CostService.ClearDirtyThrough(start); err != nil {
			requestLog(c).Warnw("cost_dirty_clear_failed", "error", err)
		}
	} else if err := h.CostService.RunPendingRecompute(); err != nil {
		respondError(c, response.CodeInternal, "成本重算失败", err)
		return
	}
	response.Success(c, nil)
}
