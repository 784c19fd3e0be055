package models

import (
	"time"

	"gorm.io/gorm"
)

// Income 收入记录模型
type Income struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	UserID     uint           `json:"user_id" gorm:"index;not null"`
	Name       string         `json:"name" gorm:"size:100;not null"` // 收入名称
	Amount     float64        `json:"amount" gorm:"type:decimal(10,2);not null"`
	Bank       string         `json:"bank" gorm:"size:50;not null"`
	Category   string         `json:"category" gorm:"size:50;not null"`
	IncomeTime time.Time      `json:"income_time" gorm:"not null;index"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
	User       User           `json:"-" gorm:"foreignKey:UserID"`
}

func (Income) TableName() string {
	return "incomes"
}
