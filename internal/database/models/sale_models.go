package models

import (
	"time"

	"github.com/shopspring/decimal"

	"ventaspro/internal/utils"
)

// Sale carries Commission and AppliedPercentage derived from the active rules at save time.
type Sale struct {
	ID                int64           `gorm:"primaryKey;autoIncrement"`
	SalespersonID     int64           `gorm:"index;not null"`
	Salesperson       *Salesperson    `gorm:"foreignKey:SalespersonID"`
	Date              utils.Date      `gorm:"index;not null"`
	Amount            decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Description       *string         `gorm:"type:text"`
	Commission        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	AppliedPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	CreatedAt         time.Time       `gorm:"autoCreateTime"`
}

func (Sale) TableName() string {
	return "ventas"
}
