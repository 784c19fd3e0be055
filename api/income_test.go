package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func walletMockRows(balance, totalIncome float64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "balance", "total_income", "created_at", "updated_at"}).
		AddRow(1, 1, balance, totalIncome, time.Now(), time.Now())
}

func TestIncomeHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `wallets`").
		WillReturnRows(walletMockRows(100, 500))
	mock.ExpectExec("UPDATE `wallets`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `incomes`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/incomes", NewIncomeHandler(newTestStore()).Create)

	body := `{"amount":"5000","name":"八月工资","bank":"招商银行","category":"工资","income_time":"2024-01-15 09:00:00"}`
	req := httptest.NewRequest("POST", "/incomes", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "创建成功", resp["message"])
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(5100), data["balance"])
	assert.Equal(t, "5.1K", data["balance_display"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIncomeHandler_Create_ValidationError(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/incomes", NewIncomeHandler(newTestStore()).Create)

	// 金额非法，不应有任何 SQL
	body := `{"amount":"abc","name":"工资","bank":"招商银行","category":"工资"}`
	req := httptest.NewRequest("POST", "/incomes", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "金额格式错误")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIncomeHandler_Create_AllFieldsEmpty(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/incomes", NewIncomeHandler(newTestStore()).Create)

	req := httptest.NewRequest("POST", "/incomes", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "请填写所有字段")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIncomeHandler_List(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `incomes`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT .* FROM `incomes`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "amount", "bank", "category", "income_time"}).
			AddRow(1, 1, "工资", 5000, "招商银行", "工资", time.Now()))

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/incomes", NewIncomeHandler(newTestStore()).List)

	req := httptest.NewRequest("GET", "/incomes?page=1&page_size=10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["total"])
	require.NoError(t, mock.ExpectationsWereMet())
}
