package database_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"ventaspro/config"
	"ventaspro/internal/database"
	"ventaspro/internal/database/dbtest"
	"ventaspro/internal/database/models"
	"ventaspro/internal/utils"
)

func TestNewConnectionRejectsBadConfig(t *testing.T) {
	_, err := database.NewConnection(config.DBConfig{Driver: "sqlite"})
	assert.Error(t, err)

	_, err = database.NewConnection(config.DBConfig{Driver: "oracle", DSN: "x"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestMigrateAndRoundTrip(t *testing.T) {
	db := dbtest.Open(t)

	sp := models.Salesperson{FirstName: "Ana", LastName: "Paz", Email: "ana@example.com", JoinDate: utils.NewDate(2024, 1, 2), IsActive: true}
	require.NoError(t, db.Create(&sp).Error)

	sale := models.Sale{
		SalespersonID:     sp.ID,
		Date:              utils.NewDate(2024, 2, 3),
		Amount:            decimal.RequireFromString("999.99"),
		Commission:        decimal.RequireFromString("20.00"),
		AppliedPercentage: decimal.RequireFromString("2.00"),
	}
	require.NoError(t, db.Create(&sale).Error)

	var got models.Sale
	require.NoError(t, db.Preload("Salesperson").First(&got, sale.ID).Error)
	assert.Equal(t, "2024-02-03", got.Date.String())
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("999.99")))
	assert.True(t, got.Commission.Equal(decimal.NewFromInt(20)))
	require.NotNil(t, got.Salesperson)
	assert.Equal(t, "Ana Paz", got.Salesperson.FullName())

	var count int64
	require.NoError(t, db.Model(&models.Sale{}).Where("date BETWEEN ? AND ?", utils.NewDate(2024, 2, 3), utils.NewDate(2024, 2, 3)).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDuplicateEmailIsTranslated(t *testing.T) {
	db := dbtest.Open(t)

	a := models.Salesperson{FirstName: "A", LastName: "A", Email: "dup@example.com", JoinDate: utils.Today()}
	b := models.Salesperson{FirstName: "B", LastName: "B", Email: "dup@example.com", JoinDate: utils.Today()}
	require.NoError(t, db.Create(&a).Error)
	assert.ErrorIs(t, db.Create(&b).Error, gorm.ErrDuplicatedKey)
}

func TestMigrateCreatesTables(t *testing.T) {
	db := dbtest.Open(t)

	for _, table := range []string{"vendedores", "reglas_comision", "ventas", "comisiones_calculadas"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}
