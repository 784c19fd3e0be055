package api

import (
	"net/http/httptest"
	"testing"
	"time"

	"moneybook/config"
	"moneybook/ledger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExportHandler() *ExportHandler {
	return NewExportHandler(newTestStore(), &config.Config{})
}

func expectHistoryQueries(mock sqlmock.Sqlmock) {
	mock.MatchExpectationsInOrder(false)
	mock.ExpectQuery("SELECT .* FROM `incomes`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "amount", "bank", "category", "income_time"}).
			AddRow(1, 1, "工资", 5000, "招商银行", "工资", time.Date(2024, 1, 15, 9, 0, 0, 0, time.Local)))
	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "item_name", "amount", "category", "expense_time"}).
			AddRow(2, 1, "午餐", 99.99, "餐饮", time.Date(2024, 1, 20, 12, 0, 0, 0, time.Local)))
}

func TestExportHandler_ExportCSV(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	expectHistoryQueries(mock)

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/export/csv", newTestExportHandler().ExportCSV)

	req := httptest.NewRequest("GET", "/export/csv?start_time=2024-01-01&end_time=2024-01-31", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Body.String(), "金额")
	assert.Contains(t, w.Body.String(), "工资")
	assert.Contains(t, w.Body.String(), "午餐")
	assert.Contains(t, w.Body.String(), "99.99")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportHandler_ExportCSV_InvalidTime(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	expectHistoryQueries(mock)

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/export/csv", newTestExportHandler().ExportCSV)

	req := httptest.NewRequest("GET", "/export/csv?start_time=bad-date", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "格式错误")
}

func TestExportHandler_ExportJSON(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	expectHistoryQueries(mock)

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/export/json", newTestExportHandler().ExportJSON)

	req := httptest.NewRequest("GET", "/export/json", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".json")
	assert.Contains(t, w.Body.String(), "工资")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportHandler_ExportExcel(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	expectHistoryQueries(mock)

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/export/excel", newTestExportHandler().ExportExcel)

	req := httptest.NewRequest("GET", "/export/excel", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.NotEmpty(t, w.Body.Bytes())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFilterByTime(t *testing.T) {
	entries := []ledger.HistoryEntry{
		{ID: 1, OccurredAt: time.Date(2024, 1, 10, 0, 0, 0, 0, time.Local)},
		{ID: 2, OccurredAt: time.Date(2024, 2, 10, 0, 0, 0, 0, time.Local)},
		{ID: 3, OccurredAt: time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local)},
	}

	// 无边界，原样返回
	assert.Len(t, filterByTime(entries, time.Time{}, time.Time{}), 3)

	// 仅开始时间
	got := filterByTime(entries, time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local), time.Time{})
	require.Len(t, got, 2)
	assert.Equal(t, uint(2), got[0].ID)

	// 开始 + 结束
	got = filterByTime(entries,
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local),
		time.Date(2024, 2, 28, 0, 0, 0, 0, time.Local))
	require.Len(t, got, 1)
	assert.Equal(t, uint(2), got[0].ID)
}

func TestKindLabel(t *testing.T) {
	assert.Equal(t, "收入", kindLabel(ledger.KindIncome))
	assert.Equal(t, "支出", kindLabel(ledger.KindExpense))
}
