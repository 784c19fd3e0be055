package models

import (
	"time"
)

// Wallet 钱包模型，每个用户一行，保存权威余额和累计收入
// 余额只允许通过 ledger.Store 的原子操作修改
type Wallet struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	Balance     float64   `json:"balance" gorm:"type:decimal(12,2);not null;default:0"`
	TotalIncome float64   `json:"total_income" gorm:"type:decimal(12,2);not null;default:0"` // 累计收入
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	User        User      `json:"-" gorm:"foreignKey:UserID"`
}

// TableName 设置表名
func (Wallet) TableName() string {
	return "wallets"
}
