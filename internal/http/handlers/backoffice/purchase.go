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

const dateLayout = "2006-01-02"

// PurchaseCreateRequest 创建进货单请求
type PurchaseCreateRequest struct {
	VendorID     uint                          `json:"vendor_id" binding:"required"`
	PurchaseDate string                        `json:"purchase_date" binding:"required"`
	Details      []service.PurchaseDetailInput `json:"details" binding:"required"`
}

// GetPurchases 获取进货单列表
func (h *Handler) GetPurchases(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.PurchaseListFilter{Page: page, PageSize: pageSize}
	if raw := c.Query("vendor_id"); raw != "" {
		vendorID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondError(c, response.CodeBadRequest, "参数不合法", err)
			return
		}
		filter.VendorID = uint(vendorID)
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

	purchases, total, err := h.PurchaseService.ListPurchases(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "进货单查询失败", err)
		return
	}
	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, purchases, pagination)
}

// GetPurchase 获取进货单详情
func (h *Handler) GetPurchase(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	purchase, err := h.PurchaseService.GetPurchase(id)
	if err != nil {
		if errors.Is(err, service.ErrPurchaseNotFound) {
			respondError(c, response.CodeNotFound, err.Error(), nil)
			return
		}
		respondError(c, response.CodeInternal, "进货单查询失败", err)
		return
	}
	response.Success(c, purchase)
}

// CreatePurchase 创建进货单
func (h *Handler) CreatePurchase(c *gin.Context) {
	var req PurchaseCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "参数不合法", err)
		return
	}
	purchaseDate, err := time.Parse(dateLayout, req.PurchaseDate)
	if err != nil {
		respondError(c, response.CodeBadRequest, "日期格式不合法", err)
		return
	}
	purchase, err := h.PurchaseService.CreatePurchase(service.CreatePurchaseInput{
		VendorID:     req.VendorID,
		PurchaseDate: purchaseDate,
		Details:      req.Details,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPurchaseEmpty):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		case errors.Is(err, service.ErrVendorNotFound),
			errors.Is(err, service.ErrMaterialNotFound):
			respondError(c, response.CodeNotFound, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "进货单创建失败", err)
		}
		return
	}
	response.Success(c, purchase)
}

// UpsertPurchaseDetail 新增或更新进货明细
func (h *Handler) UpsertPurchaseDetail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req service.PurchaseDetailInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "参数不合法", err)
		return
	}
	if err := h.PurchaseService.UpsertPurchaseDetail(id, req); err != nil {
		switch {
		case errors.Is(err, service.ErrPurchaseNotFound),
			errors.Is(err, service.ErrMaterialNotFound):
			respondError(c, response.CodeNotFound, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "进货明细更新失败", err)
		}
		return
	}
	response.Success(c, nil)
}

// RemovePurchaseDetail 删除进货明细
func (h *Handler) RemovePurchaseDetail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	materialID, err := strconv.ParseUint(c.Param("material_id"), 10, 32)
	if err != nil || materialID == 0 {
		respondError(c, response.CodeBadRequest, "参数不合法", nil)
		return
	}
	if err := h.PurchaseService.RemovePurchaseDetail(id, uint(materialID)); err != nil {
		switch {
		case errors.Is(err, service.ErrPurchaseNotFound):
			respondError(c, response.CodeNotFound, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "进货明细删除失败", err)
		}
		return
	}
	response.Success(c, nil)
}

// DeletePurchase 删除进货单
func (h *Handler) DeletePurchase(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.PurchaseService.DeletePurchase(id); err != nil {
		switch {
		case errors.Is(err, service.ErrPurchaseNotFound):
			respondError(c, response.CodeNotFound, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "进货单删除失败", err)
		}
		return
	}
	response.Success(c, nil)
}
