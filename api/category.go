package api

import (
	"moneybook/database"
	"moneybook/models"

	"github.com/gin-gonic/gin"
)

// CategoryHandler 类别处理器
type CategoryHandler struct{}

// NewCategoryHandler 创建类别处理器
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// CategoryListResponse 类别列表返回
type CategoryListResponse struct {
	Income  []models.IncomeCategory  `json:"income"`
	Expense []models.ExpenseCategory `json:"expense"`
}

// List 获取类别列表
// @Summary 获取收入和支出类别
// @Description 获取数据库维护的收入类别和支出类别，按 sort 排序
// @Tags 类别
// @Produce json
// @Success 200 {object} Response{data=CategoryListResponse} "获取成功"
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	var incomeCats []models.IncomeCategory
	if err := database.DB.Order("sort").Find(&incomeCats).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询收入类别失败"))
		return
	}
	var expenseCats []models.ExpenseCategory
	if err := database.DB.Order("sort").Find(&expenseCats).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询支出类别失败"))
		return
	}
	Success(c, CategoryListResponse{Income: incomeCats, Expense: expenseCats})
}
