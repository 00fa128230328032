package backoffice

import (
	"errors"

	"github.com/orderapp-next/internal/cache"
	"github.com/orderapp-next/internal/http/response"
	"github.com/orderapp-next/internal/service"

	"github.com/gin-gonic/gin"
)

// invalidateProductOverview 产品变更后清除总览缓存
func invalidateProductOverview(c *gin.Context) {
	if err := cache.Del(c.Request.Context(), "report:product_overview"); err != nil {
		requestLog(c).Warnw("report_cache_del_failed", "error", err)
	}
}

// RecipeReplaceRequest 整体替换配方请求
type RecipeReplaceRequest struct {
	Lines []service.RecipeLineInput `json:"lines" binding:"required"`
}

// GetProducts 获取产品列表
func (h *Handler) GetProducts(c *gin.Context) {
	products, err := h.RecipeService.ListProducts()
	if err != nil {
		respondError(c, response.CodeInternal, "产品查询失败", err)
		return
	}
	response.Success(c, products)
}

// UpsertProduct 按名称创建或更新产品（含价格）
func (h *Handler) UpsertProduct(c *gin.Context) {
	var req service.UpsertProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "参数不合法", err)
		return
	}
	product, err := h.RecipeService.UpsertProduct(req)
	if err != nil {
		respondError(c, response.CodeInternal, "产品保存失败", err)
		return
	}
	invalidateProductOverview(c)
	response.Success(c, product)
}

// GetRecipe 获取产品配方（含历史版本）
func (h *Handler) GetRecipe(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	recipes, err := h.RecipeService.GetRecipe(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, err.Error(), nil)
			return
		}
		respondError(c, response.CodeInternal, "配方查询失败", err)
		return
	}
	response.Success(c, recipes)
}

// ReplaceRecipe 整体替换产品的在用配方
func (h *Handler) ReplaceRecipe(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req RecipeReplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "参数不合法", err)
		return
	}
	if err := h.RecipeService.ReplaceRecipeLines(id, req.Lines); err != nil {
		switch {
		case errors.Is(err, service.ErrRecipeEmpty):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		case errors.Is(err, service.ErrProductNotFound),
			errors.Is(err, service.ErrMaterialNotFound):
			respondError(c, response.CodeNotFound, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "配方保存失败", err)
		}
		return
	}
	invalidateProductOverview(c)
	response.Success(c, nil)
}

// DeleteProduct 删除产品
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.RecipeService.DeleteProduct(id); err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			respondError(c, response.CodeNotFound, err.Error(), nil)
		case errors.Is(err, service.ErrProductInUse):
			respondError(c, response.CodeConflict, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "产品删除失败", err)
		}
		return
	}
	invalidateProductOverview(c)
	response.Success(c, nil)
}

// CloseRecipe 关闭产品的全部在用配方行
func (h *Handler) CloseRecipe(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.RecipeService.CloseRecipe(id); err != nil {
		respondError(c, response.CodeInternal, "配方关闭失败", err)
		return
	}
	invalidateProductOverview(c)
	response.Success(c, nil)
}
