package api

import (
	"encoding/json"
	"fmt"
	"time"

	"moneybook/ledger"
	"moneybook/middleware"

	"github.com/gin-gonic/gin"
)

// HistoryHandler 历史流水处理器
type HistoryHandler struct {
	store *ledger.Store
}

// NewHistoryHandler 创建历史流水处理器
func NewHistoryHandler(store *ledger.Store) *HistoryHandler {
	return &HistoryHandler{store: store}
}

// List 获取历史流水
// @Summary 获取历史流水
// @Description 收入与支出合并后的历史流水，按时间倒序
// @Tags 历史
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]ledger.HistoryEntry} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 503 {object} Response "存储超时，可重试"
// @Router /api/v1/history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	entries, err := h.store.History(c.Request.Context(), userID)
	if err != nil {
		LedgerError(c, err, "查询历史流水失败")
		return
	}
	Success(c, entries)
}

// Watch 订阅账本变更（SSE）
// @Summary 订阅账本变更
// @Description 以 Server-Sent Events 推送当前用户的账本变更，客户端收到事件后刷新即可，无需轮询
// @Tags 历史
// @Produce text/event-stream
// @Security BearerAuth
// @Success 200 {string} string "事件流"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/history/watch [get]
func (h *HistoryHandler) Watch(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	// SSE响应头
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ch := h.store.Notifier().Subscribe(16)
	defer h.store.Notifier().Unsubscribe(ch)

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	c.Writer.Flush()
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if ev.UserID != userID {
				continue
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(c.Writer, "data: %s\n\n", data)
			c.Writer.Flush()
		case <-heartbeat.C:
			// 注释行心跳，保持连接不被中间层断开
			fmt.Fprint(c.Writer, ": ping\n\n")
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}
