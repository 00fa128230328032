package backoffice

import (
	"errors"

	"github.com/orderapp-next/internal/http/response"
	"github.com/orderapp-next/internal/models"
	"github.com/orderapp-next/internal/service"

	"github.com/gin-gonic/gin"
)

// VendorUpsertRequest 供应商创建/更新请求
type VendorUpsertRequest struct {
	Name               string `json:"name" binding:"required"`
	OfficePhone        string `json:"office_phone"`
	MobilePhone        string `json:"mobile_phone"`
	Address            string `json:"address"`
	TaxID              string `json:"tax_id"`
	ContactName        string `json:"contact_name"`
	ContactMobilePhone string `json:"contact_mobile"`
	OpenDays           string `json:"open_days"`
	Note               string `json:"note"`
}

// GetVendors 获取供应商列表
func (h *Handler) GetVendors(c *gin.Context) {
	vendors, err := h.VendorService.ListVendors()
	if err != nil {
		respondError(c, response.CodeInternal, "供应商查询失败", err)
		return
	}
	response.Success(c, vendors)
}

// GetVendor 获取供应商详情
func (h *Handler) GetVendor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	vendor, err := h.VendorService.GetVendor(id)
	if err != nil {
		if errors.Is(err, service.ErrVendorNotFound) {
			respondError(c, response.CodeNotFound, err.Error(), nil)
			return
		}
		respondError(c, response.CodeInternal, "供应商查询失败", err)
		return
	}
	response.Success(c, vendor)
}

// CreateVendor 创建供应商
func (h *Handler) CreateVendor(c *gin.Context) {
	var req VendorUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "参数不合法", err)
		return
	}
	vendor := req.toModel()
	if err := h.VendorService.CreateVendor(vendor); err != nil {
		switch {
		case errors.Is(err, service.ErrVendorExists):
			respondError(c, response.CodeConflict, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "供应商创建失败", err)
		}
		return
	}
	response.Success(c, vendor)
}

// UpdateVendor 更新供应商
func (h *Handler) UpdateVendor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req VendorUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "参数不合法", err)
		return
	}
	vendor := req.toModel()
	vendor.ID = id
	if err := h.VendorService.UpdateVendor(vendor); err != nil {
		switch {
		case errors.Is(err, service.ErrVendorNotFound):
			respondError(c, response.CodeNotFound, err.Error(), nil)
		case errors.Is(err, service.ErrVendorExists):
			respondError(c, response.CodeConflict, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "供应商更新失败", err)
		}
		return
	}
	response.Success(c, vendor)
}

// DeleteVendor 删除供应商
func (h *Handler) DeleteVendor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.VendorService.DeleteVendor(id); err != nil {
		switch {
		case errors.Is(err, service.ErrVendorNotFound):
			respondError(c, response.CodeNotFound, err.Error(), nil)
		case errors.Is(err, service.ErrVendorInUse):
			respondError(c, response.CodeConflict, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "供应商删除失败", err)
		}
		return
	}
	response.Success(c, nil)
}

func (r VendorUpsertRequest) toModel() *models.Vendor {
	return &models.Vendor{
		Name:               r.Name,
		OfficePhone:        r.OfficePhone,
		MobilePhone:        r.MobilePhone,
		Address:            r.Address,
		TaxID:              r.TaxID,
		ContactName:        r.ContactName,
		ContactMobilePhone: r.ContactMobilePhone,
		OpenDays:           r.OpenDays,
		Note:               r.Note,
	}
}
