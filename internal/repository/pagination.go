package repository

import "gorm.io/gorm"

// maxPageSize 单页上限，防止报表页一次拉取整张订单表
const maxPageSize = 500

// applyPagination 应用分页参数。pageSize 不为正时不分页（成本引擎的
// 全量读取走这条路径），页码非法时回退到第一页。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
