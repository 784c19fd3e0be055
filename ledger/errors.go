package ledger

import "errors"

var (
	// ErrInsufficientBalance 余额不足，支出金额超过可用余额
	ErrInsufficientBalance = errors.New("余额不足")
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("记录不存在")
	// ErrStoreTimeout 存储操作超时，调用方可稍后重试
	ErrStoreTimeout = errors.New("存储操作超时")
)

// ValidationError 输入校验错误，Field 为首个未通过校验的字段
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalidField(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
