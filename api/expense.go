package api

import (
	"strconv"
	"time"

	"moneybook/ledger"
	"moneybook/middleware"
	"moneybook/models"

	"github.com/gin-gonic/gin"
)

// ExpenseHandler 支出处理器
type ExpenseHandler struct {
	store *ledger.Store
}

// NewExpenseHandler 创建支出处理器
func NewExpenseHandler(store *ledger.Store) *ExpenseHandler {
	return &ExpenseHandler{store: store}
}

// CreateExpenseRequest 创建支出请求
// 金额为表单原始字符串，服务端清洗为数字和单个小数点后解析
type CreateExpenseRequest struct {
	Amount      string `json:"amount" example:"99.99"`
	ItemName    string `json:"item_name" example:"午餐"`
	Category    string `json:"category" example:"餐饮"`
	Description string `json:"description" example:"公司楼下"`
	ImageURL    string `json:"image_url" example:"https://cdn.example.com/receipt.jpg"`
	ExpenseTime string `json:"expense_time" example:"2024-01-15 12:30:00"` // 可选，默认当前时间
}

// UpdateExpenseRequest 更新支出请求，空字段表示不变
type UpdateExpenseRequest struct {
	Amount      string `json:"amount" example:"88.00"`
	ItemName    string `json:"item_name" example:"午餐"`
	Category    string `json:"category" example:"餐饮"`
	Description string `json:"description" example:"改在别家吃"`
	ImageURL    string `json:"image_url"`
	ExpenseTime string `json:"expense_time" example:"2024-01-15 12:30:00"`
}

// ExpenseListRequest 支出列表请求
type ExpenseListRequest struct {
	Page      int    `form:"page" example:"1"`
	PageSize  int    `form:"page_size" example:"10"`
	Category  string `form:"category" example:"餐饮"`
	StartTime string `form:"start_time" example:"2024-01-01"`
	EndTime   string `form:"end_time" example:"2024-12-31"`
}

// ExpenseResponse 支出变更返回
type ExpenseResponse struct {
	Entry          models.Expense `json:"entry"`
	Balance        float64        `json:"balance"`
	BalanceDisplay string         `json:"balance_display"`
}

// Create 创建支出
// @Summary 创建支出
// @Description 记一笔支出：金额不能超过当前余额，扣减余额和写入流水在同一事务内完成
// @Tags 支出
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateExpenseRequest true "支出信息"
// @Success 200 {object} Response{data=ExpenseResponse} "创建成功"
// @Failure 400 {object} Response "参数错误或余额不足"
// @Failure 401 {object} Response "未授权"
// @Failure 503 {object} Response "存储超时，可重试"
// @Router /api/v1/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	in := ledger.ExpenseInput{
		Amount:      req.Amount,
		ItemName:    req.ItemName,
		Category:    req.Category,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	if req.ExpenseTime != "" {
		t, err := time.ParseInLocation("2006-01-02 15:04:05", req.ExpenseTime, time.Local)
		if err != nil {
			BadRequest(c, "时间格式错误，应为: 2006-01-02 15:04:05")
			return
		}
		in.ExpenseTime = t
	}

	entry, wallet, err := h.store.AddExpense(c.Request.Context(), userID, in)
	if err != nil {
		LedgerError(c, err, "创建支出失败")
		return
	}

	SuccessWithMessage(c, "创建成功", ExpenseResponse{
		Entry:          *entry,
		Balance:        wallet.Balance,
		BalanceDisplay: ledger.FormatAmount(wallet.Balance),
	})
}

// List 获取支出列表
// @Summary 获取支出列表
// @Description 获取当前用户的支出流水，按时间倒序，支持分页和筛选
// @Tags 支出
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param category query string false "类别筛选"
// @Param start_time query string false "开始时间 (2024-01-01)"
// @Param end_time query string false "结束时间 (2024-12-31)"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Expense}} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	var req ExpenseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 10
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	opt := ledger.ListOptions{
		Page:     req.Page,
		PageSize: req.PageSize,
		Category: req.Category,
	}
	if req.StartTime != "" {
		if t, err := time.ParseInLocation("2006-01-02", req.StartTime, time.Local); err == nil {
			opt.StartTime = t
		}
	}
	if req.EndTime != "" {
		if t, err := time.ParseInLocation("2006-01-02", req.EndTime, time.Local); err == nil {
			opt.EndTime = t.Add(24*time.Hour - time.Second)
		}
	}

	list, total, err := h.store.ListExpenses(c.Request.Context(), userID, opt)
	if err != nil {
		LedgerError(c, err, "查询失败")
		return
	}
	Success(c, PageResponse{Total: total, Page: req.Page, PageSize: req.PageSize, List: list})
}

// Get 获取单条支出
// @Summary 获取单条支出
// @Description 根据ID获取支出详情
// @Tags 支出
// @Produce json
// @Security BearerAuth
// @Param id path int true "支出ID"
// @Success 200 {object} Response{data=models.Expense} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/expenses/{id} [get]
func (h *ExpenseHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	entry, err := h.store.GetExpense(c.Request.Context(), userID, uint(id))
	if err != nil {
		LedgerError(c, err, "查询失败")
		return
	}
	Success(c, entry)
}

// Update 更新支出
// @Summary 更新支出
// @Description 编辑支出记录。金额变化时按新旧差额调整余额：旧金额先退回，新金额重新扣减并校验，整个过程在同一事务内完成
// @Tags 支出
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "支出ID"
// @Param request body UpdateExpenseRequest true "支出信息"
// @Success 200 {object} Response{data=ExpenseResponse} "更新成功"
// @Failure 400 {object} Response "参数错误或余额不足"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Failure 503 {object} Response "存储超时，可重试"
// @Router /api/v1/expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	up := ledger.ExpenseUpdate{
		Amount:      req.Amount,
		ItemName:    req.ItemName,
		Category:    req.Category,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	if req.ExpenseTime != "" {
		t, err := time.ParseInLocation("2006-01-02 15:04:05", req.ExpenseTime, time.Local)
		if err != nil {
			BadRequest(c, "时间格式错误，应为: 2006-01-02 15:04:05")
			return
		}
		up.ExpenseTime = t
	}

	entry, wallet, err := h.store.UpdateExpense(c.Request.Context(), userID, uint(id), up)
	if err != nil {
		LedgerError(c, err, "更新支出失败")
		return
	}

	SuccessWithMessage(c, "更新成功", ExpenseResponse{
		Entry:          *entry,
		Balance:        wallet.Balance,
		BalanceDisplay: ledger.FormatAmount(wallet.Balance),
	})
}
