package models

import (
	"time"

	"github.com/shopspring/decimal"

	"ventaspro/internal/utils"
)

type CommissionRule struct {
	ID         int64           `gorm:"primaryKey;autoIncrement"`
	Name       string          `gorm:"size:100;not null"`
	MinAmount  decimal.Decimal `gorm:"type:decimal(10,2);not null;index"`
	Percentage decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	IsActive   bool            `gorm:"index;not null"`
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime"`
}

// CommissionSummary is append-only: rows are inserted by period aggregation and never updated.
type CommissionSummary struct {
	ID              int64           `gorm:"primaryKey;autoIncrement"`
	SalespersonID   int64           `gorm:"index;not null"`
	Salesperson     *Salesperson    `gorm:"foreignKey:SalespersonID"`
	PeriodStart     utils.Date      `gorm:"index;not null"`
	PeriodEnd       utils.Date      `gorm:"index;not null"`
	TotalSales      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalCommission decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	SaleCount       int             `gorm:"not null"`
	CalculatedAt    time.Time       `gorm:"autoCreateTime;index"`
}

func (CommissionRule) TableName() string {
	return "reglas_comision"
}

func (CommissionSummary) TableName() string {
	return "comisiones_calculadas"
}
