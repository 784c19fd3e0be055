package api

import (
	"time"

	"moneybook/ledger"
	"moneybook/middleware"
	"moneybook/models"

	"github.com/gin-gonic/gin"
)

// IncomeHandler 收入处理器
type IncomeHandler struct {
	store *ledger.Store
}

// NewIncomeHandler 创建收入处理器
func NewIncomeHandler(store *ledger.Store) *IncomeHandler {
	return &IncomeHandler{store: store}
}

// CreateIncomeRequest 创建收入请求
// 金额为表单原始字符串，服务端负责清洗和解析
type CreateIncomeRequest struct {
	Amount     string `json:"amount" example:"5000.00"`
	Name       string `json:"name" example:"八月工资"`
	Bank       string `json:"bank" example:"招商银行"`
	Category   string `json:"category" example:"工资"`
	IncomeTime string `json:"income_time" example:"2024-01-15 09:00:00"` // 可选，默认当前时间
}

// IncomeListRequest 收入列表请求
type IncomeListRequest struct {
	Page      int    `form:"page" example:"1"`
	PageSize  int    `form:"page_size" example:"10"`
	Category  string `form:"category" example:"工资"`
	Bank      string `form:"bank" example:"招商银行"`
	StartTime string `form:"start_time" example:"2024-01-01"`
	EndTime   string `form:"end_time" example:"2024-12-31"`
}

// AddIncomeResponse 创建收入返回
type AddIncomeResponse struct {
	Entry          models.Income `json:"entry"`
	Balance        float64       `json:"balance"`
	BalanceDisplay string        `json:"balance_display"`
}

// Create 创建收入
// @Summary 创建收入
// @Description 记一笔收入：校验通过后增加余额和累计收入，并写入收入流水，三者在同一事务内完成
// @Tags 收入
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateIncomeRequest true "收入信息"
// @Success 200 {object} Response{data=AddIncomeResponse} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 503 {object} Response "存储超时，可重试"
// @Router /api/v1/incomes [post]
func (h *IncomeHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	var req CreateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	in := ledger.IncomeInput{
		Amount:   req.Amount,
		Name:     req.Name,
		Bank:     req.Bank,
		Category: req.Category,
	}
	if req.IncomeTime != "" {
		t, err := time.ParseInLocation("2006-01-02 15:04:05", req.IncomeTime, time.Local)
		if err != nil {
			BadRequest(c, "时间格式错误，应为: 2006-01-02 15:04:05")
			return
		}
		in.IncomeTime = t
	}

	entry, wallet, err := h.store.AddIncome(c.Request.Context(), userID, in)
	if err != nil {
		LedgerError(c, err, "创建收入失败")
		return
	}

	SuccessWithMessage(c, "创建成功", AddIncomeResponse{
		Entry:          *entry,
		Balance:        wallet.Balance,
		BalanceDisplay: ledger.FormatAmount(wallet.Balance),
	})
}

// List 获取收入列表
// @Summary 获取收入列表
// @Description 获取当前用户的收入流水，按时间倒序，支持分页与筛选
// @Tags 收入
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param category query string false "收入类别筛选"
// @Param bank query string false "银行筛选"
// @Param start_time query string false "开始时间 (2024-01-01)"
// @Param end_time query string false "结束时间 (2024-12-31)"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Income}} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/incomes [get]
func (h *IncomeHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	var req IncomeListRequest
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
		Bank:     req.Bank,
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

	list, total, err := h.store.ListIncomes(c.Request.Context(), userID, opt)
	if err != nil {
		LedgerError(c, err, "查询失败")
		return
	}
	Success(c, PageResponse{Total: total, Page: req.Page, PageSize: req.PageSize, List: list})
}
