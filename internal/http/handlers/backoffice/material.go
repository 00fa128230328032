package backoffice

import (
	"errors"

	"github.com/orderapp-next/internal/http/response"
	"github.com/orderapp-next/internal/service"

	"github.com/gin-gonic/gin"
)

// MaterialUpsertRequest 原料创建/更新请求
type MaterialUpsertRequest struct {
	Name     string `json:"name" binding:"required"`
	UnitName string `json:"unit_name" binding:"required"`
}

// MaterialCleanUpRequest 原料批量清理请求
type MaterialCleanUpRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

// GetMaterials 获取原料列表
func (h *Handler) GetMaterials(c *gin.Context) {
	materials, err := h.MaterialService.ListMaterials()
	if err != nil {
		respondError(c, response.CodeInternal, "原料查询失败", err)
		return
	}
	response.Success(c, materials)
}

// CreateMaterial 创建原料
func (h *Handler) CreateMaterial(c *gin.Context) {
	var req MaterialUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "参数不合法", err)
		return
	}
	material, err := h.MaterialService.CreateMaterial(req.Name, req.UnitName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMaterialExists):
			respondError(c, response.CodeConflict, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "原料创建失败", err)
		}
		return
	}
	response.Success(c, material)
}

// UpdateMaterial 更新原料
func (h *Handler) UpdateMaterial(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req MaterialUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "参数不合法", err)
		return
	}
	material, err := h.MaterialService.UpdateMaterial(id, req.Name, req.UnitName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMaterialNotFound):
			respondError(c, response.CodeNotFound, err.Error(), nil)
		case errors.Is(err, service.ErrMaterialExists):
			respondError(c, response.CodeConflict, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "原料更新失败", err)
		}
		return
	}
	response.Success(c, material)
}

// DeleteMaterial 删除原料
func (h *Handler) DeleteMaterial(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.MaterialService.DeleteMaterial(id); err != nil {
		switch {
		case errors.Is(err, service.ErrMaterialNotFound):
			respondError(c, response.CodeNotFound, err.Error(), nil)
		case errors.Is(err, service.ErrMaterialInUse):
			respondError(c, response.CodeConflict, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "原料删除失败", err)
		}
		return
	}
	response.Success(c, nil)
}

// CleanUpMaterials 批量清理未被引用的原料
func (h *Handler) CleanUpMaterials(c *gin.Context) {
	var req MaterialCleanUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "参数不合法", err)
		return
	}
	deleted, err := h.MaterialService.CleanUpMaterials(req.IDs)
	if err != nil {
		respondError(c, response.CodeInternal, "原料清理失败", err)
		return
	}
	response.Success(c, gin.H{"deleted": deleted})
}
