package api

import (
	"moneybook/ledger"
	"moneybook/middleware"

	"github.com/gin-gonic/gin"
)

// WalletHandler 钱包处理器
type WalletHandler struct {
	store *ledger.Store
}

// NewWalletHandler 创建钱包处理器
func NewWalletHandler(store *ledger.Store) *WalletHandler {
	return &WalletHandler{store: store}
}

// WalletResponse 钱包返回，display 字段为客户端展示用的缩写形式
type WalletResponse struct {
	Balance            float64 `json:"balance" example:"12500.50"`
	TotalIncome        float64 `json:"total_income" example:"30000.00"`
	BalanceDisplay     string  `json:"balance_display" example:"12.5K"`
	TotalIncomeDisplay string  `json:"total_income_display" example:"30K"`
}

// Get 获取钱包
// @Summary 获取钱包余额
// @Description 获取当前用户的余额和累计收入，附带展示用的缩写金额
// @Tags 钱包
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=WalletResponse} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 503 {object} Response "存储超时，可重试"
// @Router /api/v1/wallet [get]
func (h *WalletHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	wallet, err := h.store.Wallet(c.Request.Context(), userID)
	if err != nil {
		LedgerError(c, err, "查询钱包失败")
		return
	}

	Success(c, WalletResponse{
		Balance:            wallet.Balance,
		TotalIncome:        wallet.TotalIncome,
		BalanceDisplay:     ledger.FormatAmount(wallet.Balance),
		TotalIncomeDisplay: ledger.FormatAmount(wallet.TotalIncome),
	})
}
