package service

import (
	"testing"

	"moneybook/config"

	"github.com/stretchr/testify/assert"
)

func newTestEmailService() *EmailService {
	return NewEmailService(&config.EmailConfig{})
}

func TestGenerateStatementEmailBody(t *testing.T) {
	s := newTestEmailService()
	body := s.generateStatementEmailBody("张三", "2024-01")
	assert.Contains(t, body, "张三")
	assert.Contains(t, body, "2024-01")
	assert.Contains(t, body, "收支账单")
	assert.Contains(t, body, "记账本")
}

func TestSendStatementEmailDisabled(t *testing.T) {
	s := newTestEmailService()
	err := s.SendStatementEmail("user@example.com", "张三", "2024-01", "bill.xlsx", []byte("data"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "未启用")
}

func TestSendTestEmailDisabled(t *testing.T) {
	s := newTestEmailService()
	err := s.SendTestEmail("user@example.com")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "未启用")
}
