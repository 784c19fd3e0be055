package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletHandler_Get(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `wallets`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "balance", "total_income", "created_at", "updated_at"}).
			AddRow(1, 1, 12500, 30000, time.Now(), time.Now()))

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/wallet", NewWalletHandler(newTestStore()).Get)

	req := httptest.NewRequest("GET", "/wallet", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(12500), data["balance"])
	assert.Equal(t, "12.5K", data["balance_display"])
	assert.Equal(t, "30K", data["total_income_display"])
	require.NoError(t, mock.ExpectationsWereMet())
}
