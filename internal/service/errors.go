package service

import "errors"

var (
	// ErrVendorNotFound 供应商不存在
	ErrVendorNotFound = errors.New("供应商不存在")
	// ErrVendorExists 供应商名称已存在
	ErrVendorExists = errors.New("供应商名称已存在")
	// ErrVendorInUse 供应商仍有进货单引用
	ErrVendorInUse = errors.New("供应商仍有进货单引用，无法删除")

	// ErrMaterialNotFound 原料不存在
	ErrMaterialNotFound = errors.New("原料不存在")
	// ErrMaterialExists 原料名称已存在
	ErrMaterialExists = errors.New("原料名称已存在")
	// ErrMaterialInUse 原料仍被进货、配方或成本记录引用
	ErrMaterialInUse = errors.New("原料仍被引用，无法删除")

	// ErrProductNotFound 产品不存在
	ErrProductNotFound = errors.New("产品不存在")
	// ErrProductExists 产品名称已存在
	ErrProductExists = errors.New("产品名称已存在")
	// ErrProductInUse 产品仍被订单引用
	ErrProductInUse = errors.New("产品仍被订单引用，无法删除")

	// ErrPurchaseNotFound 进货单不存在
	ErrPurchaseNotFound = errors.New("进货单不存在")
	// ErrPurchaseEmpty 进货单没有明细
	ErrPurchaseEmpty = errors.New("进货单必须至少包含一条明细")

	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = errors.New("订单不存在")
	// ErrOrderEmpty 订单没有明细
	ErrOrderEmpty = errors.New("订单必须至少包含一条明细")
	// ErrInvalidOrderStatus 订单状态不合法
	ErrInvalidOrderStatus = errors.New("订单状态不合法")
	// ErrOrderNotPreparing 只有准备中的订单可以修改
	ErrOrderNotPreparing = errors.New("订单已结束，无法修改")

	// ErrRecipeEmpty 配方没有任何在用行
	ErrRecipeEmpty = errors.New("配方必须至少包含一条原料")
	// ErrPriceNotFound 产品没有任何价格记录
	ErrPriceNotFound = errors.New("产品没有价格记录")

	// ErrSeriesNotFound 时间序列为空，无法回溯取值
	ErrSeriesNotFound = errors.New("没有可回溯的历史记录")
	// ErrRecomputeDateInFuture 重算起始日不能晚于今天
	ErrRecomputeDateInFuture = errors.New("成本重算起始日不能晚于今天")
)
