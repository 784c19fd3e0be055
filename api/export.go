package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"moneybook/config"
	"moneybook/database"
	"moneybook/ledger"
	"moneybook/middleware"
	"moneybook/models"
	"moneybook/service"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler 导出处理器
type ExportHandler struct {
	store        *ledger.Store
	emailService *service.EmailService
}

// NewExportHandler 创建导出处理器
func NewExportHandler(store *ledger.Store, cfg *config.Config) *ExportHandler {
	return &ExportHandler{
		store:        store,
		emailService: service.NewEmailService(&cfg.Email),
	}
}

// historyForExport 读取历史流水并按时间范围过滤
func (h *ExportHandler) historyForExport(c *gin.Context) ([]ledger.HistoryEntry, bool) {
	userID := middleware.GetCurrentUserID(c)
	entries, err := h.store.History(c.Request.Context(), userID)
	if err != nil {
		LedgerError(c, err, "查询历史流水失败")
		return nil, false
	}

	startStr := c.Query("start_time")
	endStr := c.Query("end_time")
	var start, end time.Time
	if startStr != "" {
		t, err := time.ParseInLocation("2006-01-02", startStr, time.Local)
		if err != nil {
			BadRequest(c, "开始时间格式错误，应为: 2006-01-02")
			return nil, false
		}
		start = t
	}
	if endStr != "" {
		t, err := time.ParseInLocation("2006-01-02", endStr, time.Local)
		if err != nil {
			BadRequest(c, "结束时间格式错误，应为: 2006-01-02")
			return nil, false
		}
		end = t.Add(24*time.Hour - time.Second)
	}
	return filterByTime(entries, start, end), true
}

// filterByTime 按时间范围过滤历史流水，零值边界表示不限制
func filterByTime(entries []ledger.HistoryEntry, start, end time.Time) []ledger.HistoryEntry {
	if start.IsZero() && end.IsZero() {
		return entries
	}
	filtered := make([]ledger.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if !start.IsZero() && e.OccurredAt.Before(start) {
			continue
		}
		if !end.IsZero() && e.OccurredAt.After(end) {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

func kindLabel(kind ledger.EntryKind) string {
	if kind == ledger.KindIncome {
		return "收入"
	}
	return "支出"
}

// ExportCSV 导出历史流水为 CSV
// @Summary 导出历史流水（CSV）
// @Description 导出收支合并后的历史流水为 CSV 文件，支持时间范围筛选
// @Tags 导出
// @Produce text/csv
// @Security BearerAuth
// @Param start_time query string false "开始时间 (2024-01-01)"
// @Param end_time query string false "结束时间 (2024-12-31)"
// @Success 200 {file} file "CSV 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	entries, ok := h.historyForExport(c)
	if !ok {
		return
	}

	buf := new(bytes.Buffer)
	// 添加 BOM 以支持 Excel 中文显示
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)
	headers := []string{"类型", "名称", "金额", "类别", "银行", "描述", "时间"}
	if err := writer.Write(headers); err != nil {
		InternalError(c, "生成CSV失败")
		return
	}
	for _, e := range entries {
		record := []string{
			kindLabel(e.Kind),
			e.Title,
			fmt.Sprintf("%.2f", e.Amount),
			e.Category,
			e.Bank,
			e.Description,
			e.OccurredAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(record); err != nil {
			InternalError(c, "生成CSV失败")
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "生成CSV失败")
		return
	}

	filename := fmt.Sprintf("history_%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportJSON 导出历史流水为 JSON
// @Summary 导出历史流水（JSON）
// @Description 导出收支合并后的历史流水为 JSON 文件，支持时间范围筛选
// @Tags 导出
// @Produce json
// @Security BearerAuth
// @Param start_time query string false "开始时间 (2024-01-01)"
// @Param end_time query string false "结束时间 (2024-12-31)"
// @Success 200 {object} Response{data=[]ledger.HistoryEntry} "导出成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/json [get]
func (h *ExportHandler) ExportJSON(c *gin.Context) {
	entries, ok := h.historyForExport(c)
	if !ok {
		return
	}
	filename := fmt.Sprintf("history_%s.json", time.Now().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	Success(c, entries)
}

// buildExcel 把历史流水写成 Excel 工作簿
func buildExcel(entries []ledger.HistoryEntry) (*excelize.File, error) {
	f := excelize.NewFile()

	sheetName := "收支流水"
	f.SetSheetName("Sheet1", sheetName)

	// 设置表头样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	headers := []string{"类型", "名称", "金额", "类别", "银行", "描述", "时间"}
	for i, head := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, head); err != nil {
			return nil, err
		}
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for row, e := range entries {
		values := []interface{}{
			kindLabel(e.Kind),
			e.Title,
			e.Amount,
			e.Category,
			e.Bank,
			e.Description,
			e.OccurredAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, err
			}
		}
	}

	_ = f.SetColWidth(sheetName, "A", "G", 18)
	return f, nil
}

// ExportExcel 导出历史流水为 Excel
// @Summary 导出历史流水（Excel）
// @Description 导出收支合并后的历史流水为 xlsx 文件，支持时间范围筛选
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param start_time query string false "开始时间 (2024-01-01)"
// @Param end_time query string false "结束时间 (2024-12-31)"
// @Success 200 {file} file "Excel 文件"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	entries, ok := h.historyForExport(c)
	if !ok {
		return
	}

	f, err := buildExcel(entries)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "生成Excel失败"))
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "生成Excel失败"))
		return
	}

	filename := fmt.Sprintf("history_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// EmailStatementRequest 邮件账单请求
type EmailStatementRequest struct {
	Month string `json:"month" example:"2024-01"` // 可选，默认当前月份
}

// EmailStatement 发送月度账单邮件
// @Summary 发送月度账单邮件
// @Description 把指定月份的收支流水生成 Excel 附件，发送到当前用户的注册邮箱
// @Tags 导出
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body EmailStatementRequest false "账单月份"
// @Success 200 {object} Response "发送成功"
// @Failure 400 {object} Response "请求参数错误或用户未设置邮箱"
// @Failure 401 {object} Response "未授权"
// @Failure 500 {object} Response "发送失败"
// @Router /api/v1/export/email [post]
func (h *ExportHandler) EmailStatement(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req EmailStatementRequest
	_ = c.ShouldBindJSON(&req)

	month := time.Now().Format("2006-01")
	if req.Month != "" {
		month = req.Month
	}
	start, err := time.ParseInLocation("2006-01", month, time.Local)
	if err != nil {
		BadRequest(c, "月份格式错误，应为: 2006-01")
		return
	}
	end := start.AddDate(0, 1, 0).Add(-time.Second)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "用户不存在")
		return
	}
	if user.Email == "" {
		BadRequest(c, "请先设置邮箱")
		return
	}

	entries, err := h.store.History(c.Request.Context(), userID)
	if err != nil {
		LedgerError(c, err, "查询历史流水失败")
		return
	}
	entries = filterByTime(entries, start, end)

	f, err := buildExcel(entries)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "生成Excel失败"))
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "生成Excel失败"))
		return
	}

	filename := fmt.Sprintf("statement_%s.xlsx", month)
	if err := h.emailService.SendStatementEmail(user.Email, user.Username, month, filename, buf.Bytes()); err != nil {
		InternalError(c, SafeErrorMessage(err, "发送邮件失败"))
		return
	}
	SuccessWithMessage(c, "账单已发送至 "+user.Email, nil)
}
