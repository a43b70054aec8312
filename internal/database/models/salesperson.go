package models

import (
	"time"

	"ventaspro/internal/utils"
)

type Salesperson struct {
	ID        int64      `gorm:"primaryKey;autoIncrement"`
	FirstName string     `gorm:"size:100;not null"`
	LastName  string     `gorm:"size:100;not null"`
	Email     string     `gorm:"size:254;uniqueIndex;not null"`
	Phone     *string    `gorm:"size:20"`
	JoinDate  utils.Date `gorm:"not null"`
	IsActive  bool       `gorm:"not null"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`

	Sales     []Sale              `gorm:"foreignKey:SalespersonID;constraint:OnDelete:CASCADE"`
	Summaries []CommissionSummary `gorm:"foreignKey:SalespersonID;constraint:OnDelete:CASCADE"`
}

func (Salesperson) TableName() string {
	return "vendedores"
}

func (s Salesperson) FullName() string {
	return s.FirstName + " " + s.LastName
}
