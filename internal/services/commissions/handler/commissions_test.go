package handler

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc/codes"
	"gorm.io/gorm"

	"ventaspro/internal/cache"
	"ventaspro/internal/database/models"
	"ventaspro/internal/utils"
)

func seedSalesperson(t *testing.T, db *gorm.DB, first, email string) models.Salesperson {
	t.Helper()
	sp := models.Salesperson{FirstName: first, LastName: "Test", Email: email, JoinDate: utils.NewDate(2023, 1, 1), IsActive: true}
	require.NoError(t, db.Create(&sp).Error)
	return sp
}

func seedSale(t *testing.T, db *gorm.DB, salespersonID int64, date utils.Date, amount, commission string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Sale{
		SalespersonID: salespersonID,
		Date:          date,
		Amount:        decimal.RequireFromString(amount),
		Commission:    decimal.RequireFromString(commission),
	}).Error)
}

func TestParsePeriod(t *testing.T) {
	start, end, err := ParsePeriod("2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", start.String())
	assert.Equal(t, "2024-01-31", end.String())

	_, _, err = ParsePeriod("2024-01-05", "2024-01-05")
	assert.NoError(t, err)

	for name, p := range map[string][2]string{
		"missing start":  {"", "2024-01-31"},
		"missing end":    {"2024-01-01", " "},
		"malformed":      {"2024/01/01", "2024-01-31"},
		"impossible day": {"2024-02-30", "2024-03-01"},
		"reversed":       {"2024-02-01", "2024-01-31"},
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := ParsePeriod(p[0], p[1])
			requireCode(t, err, codes.InvalidArgument)
		})
	}
}

func TestCalculateCommissions(t *testing.T) {
	h, db := newTestHandler(t, nil)
	ctx := context.Background()

	ana := seedSalesperson(t, db, "Ana", "ana@example.com")
	luis := seedSalesperson(t, db, "Luis", "luis@example.com")
	idle := seedSalesperson(t, db, "Idle", "idle@example.com")

	seedSale(t, db, luis.ID, utils.NewDate(2024, 1, 15), "100", "2")
	seedSale(t, db, luis.ID, utils.NewDate(2024, 1, 1), "200", "4")
	seedSale(t, db, luis.ID, utils.NewDate(2024, 1, 31), "300", "6")
	seedSale(t, db, ana.ID, utils.NewDate(2024, 1, 20), "1500", "75")
	seedSale(t, db, ana.ID, utils.NewDate(2024, 2, 1), "999.99", "20")
	seedSale(t, db, idle.ID, utils.NewDate(2023, 12, 31), "50", "1")

	results, err := h.CalculateCommissions(ctx, CalculateCommissionsRequest{PeriodStart: "2024-01-01", PeriodEnd: "2024-01-31"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	first, second := results[0], results[1]
	assert.Equal(t, ana.ID, first.Salesperson.ID)
	assert.Equal(t, 1, first.Count)
	assert.Equal(t, "1500.00", utils.FormatMoney(first.TotalAmount))
	assert.Equal(t, "75.00", utils.FormatMoney(first.TotalCommission))

	assert.Equal(t, luis.ID, second.Salesperson.ID)
	assert.Equal(t, "Luis", second.Salesperson.FirstName)
	assert.Equal(t, 3, second.Count)
	assert.Equal(t, "600.00", utils.FormatMoney(second.TotalAmount))
	assert.Equal(t, "12.00", utils.FormatMoney(second.TotalCommission))
	assert.Equal(t, "200.00", utils.FormatMoney(second.AverageAmount))
	assert.Equal(t, "4.00", utils.FormatMoney(second.AverageCommission))
	require.Len(t, second.Sales, 3)
	assert.Equal(t, "2024-01-31", second.Sales[0].Date.String())
	assert.Equal(t, "2024-01-01", second.Sales[2].Date.String())

	assert.NotZero(t, second.Summary.ID)
	assert.Equal(t, 3, second.Summary.SaleCount)
	assert.Equal(t, "2024-01-01", second.Summary.PeriodStart.String())
	assert.Equal(t, "2024-01-31", second.Summary.PeriodEnd.String())

	var stored []models.CommissionSummary
	require.NoError(t, db.Order("salesperson_id").Find(&stored).Error)
	require.Len(t, stored, 2)
	assert.Equal(t, "600.00", utils.FormatMoney(stored[1].TotalSales))
}

func TestCalculateCommissionsIsAppendOnly(t *testing.T) {
	h, db := newTestHandler(t, nil)
	ctx := context.Background()

	sp := seedSalesperson(t, db, "Ana", "ana@example.com")
	seedSale(t, db, sp.ID, utils.NewDate(2024, 3, 3), "500", "10")

	req := CalculateCommissionsRequest{PeriodStart: "2024-03-01", PeriodEnd: "2024-03-31"}
	_, err := h.CalculateCommissions(ctx, req)
	require.NoError(t, err)
	_, err = h.CalculateCommissions(ctx, req)
	require.NoError(t, err)

	var stored []models.CommissionSummary
	require.NoError(t, db.Order("id").Find(&stored).Error)
	require.Len(t, stored, 2)
	assert.NotEqual(t, stored[0].ID, stored[1].ID)
	for _, s := range stored {
		assert.Equal(t, sp.ID, s.SalespersonID)
		assert.Equal(t, "500.00", utils.FormatMoney(s.TotalSales))
		assert.Equal(t, "10.00", utils.FormatMoney(s.TotalCommission))
		assert.Equal(t, 1, s.SaleCount)
	}
}

func TestCalculateCommissionsEmptyPeriod(t *testing.T) {
	h, db := newTestHandler(t, nil)

	results, err := h.CalculateCommissions(context.Background(), CalculateCommissionsRequest{PeriodStart: "2030-01-01", PeriodEnd: "2030-01-31"})
	require.NoError(t, err)
	assert.Empty(t, results)

	var count int64
	require.NoError(t, db.Model(&models.CommissionSummary{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCalculateCommissionsRejectsBadPeriod(t *testing.T) {
	h, db := newTestHandler(t, nil)

	_, err := h.CalculateCommissions(context.Background(), CalculateCommissionsRequest{PeriodStart: "2024-02-01", PeriodEnd: "2024-01-01"})
	requireCode(t, err, codes.InvalidArgument)

	var count int64
	require.NoError(t, db.Model(&models.CommissionSummary{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListSummaries(t *testing.T) {
	h, db := newTestHandler(t, nil)
	ctx := context.Background()

	ana := seedSalesperson(t, db, "Ana", "ana@example.com")
	luis := seedSalesperson(t, db, "Luis", "luis@example.com")
	seedSale(t, db, ana.ID, utils.NewDate(2024, 1, 10), "100", "2")
	seedSale(t, db, luis.ID, utils.NewDate(2024, 1, 12), "100", "2")
	seedSale(t, db, ana.ID, utils.NewDate(2024, 2, 10), "100", "2")

	_, err := h.CalculateCommissions(ctx, CalculateCommissionsRequest{PeriodStart: "2024-01-01", PeriodEnd: "2024-01-31"})
	require.NoError(t, err)
	_, err = h.CalculateCommissions(ctx, CalculateCommissionsRequest{PeriodStart: "2024-02-01", PeriodEnd: "2024-02-29"})
	require.NoError(t, err)

	all, err := h.ListSummaries(ctx, SummaryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Newest first.
	assert.Equal(t, "2024-02-01", all[0].PeriodStart.String())
	require.NotNil(t, all[0].Salesperson)
	assert.Equal(t, "Ana", all[0].Salesperson.FirstName)

	january, err := h.ListSummaries(ctx, SummaryFilter{StartDate: "2024-01-01", EndDate: "2024-01-31"})
	require.NoError(t, err)
	assert.Len(t, january, 2)

	fromFeb, err := h.ListSummaries(ctx, SummaryFilter{StartDate: "2024-02-01"})
	require.NoError(t, err)
	assert.Len(t, fromFeb, 1)

	mine, err := h.ListSummaries(ctx, SummaryFilter{SalespersonID: &luis.ID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, luis.ID, mine[0].SalespersonID)

	_, err = h.ListSummaries(ctx, SummaryFilter{EndDate: "31/01/2024"})
	requireCode(t, err, codes.InvalidArgument)
}

func TestGetSummaryReadsThroughCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	h, db := newTestHandler(t, cache.New(rdb, zaptest.NewLogger(t)))
	ctx := context.Background()

	sp := seedSalesperson(t, db, "Ana", "ana@example.com")
	seedSale(t, db, sp.ID, utils.NewDate(2024, 1, 10), "1500", "75")
	results, err := h.CalculateCommissions(ctx, CalculateCommissionsRequest{PeriodStart: "2024-01-01", PeriodEnd: "2024-01-31"})
	require.NoError(t, err)
	id := results[0].Summary.ID

	key := cache.SummaryKey(id)
	assert.False(t, mr.Exists(key))

	summary, err := h.GetSummary(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "75.00", utils.FormatMoney(summary.TotalCommission))
	assert.True(t, mr.Exists(key))
	assert.Equal(t, cache.SummaryCacheTTL, mr.TTL(key))

	// Served from the cache once the row is gone.
	require.NoError(t, db.Delete(&models.CommissionSummary{}, id).Error)
	cached, err := h.GetSummary(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, cached.ID)
	assert.Equal(t, "1500.00", utils.FormatMoney(cached.TotalSales))
	require.NotNil(t, cached.Salesperson)
	assert.Equal(t, "Ana", cached.Salesperson.FirstName)

	mr.FlushAll()
	_, err = h.GetSummary(ctx, id)
	requireCode(t, err, codes.NotFound)

	_, err = h.GetSummary(ctx, 0)
	requireCode(t, err, codes.InvalidArgument)
}

func TestGetSummaryReflectsSalespersonChanges(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	h, db := newTestHandler(t, cache.New(rdb, zaptest.NewLogger(t)))
	ctx := context.Background()

	sp := seedSalesperson(t, db, "Old", "old@example.com")
	seedSale(t, db, sp.ID, utils.NewDate(2024, 1, 10), "100", "2")
	results, err := h.CalculateCommissions(ctx, CalculateCommissionsRequest{PeriodStart: "2024-01-01", PeriodEnd: "2024-01-31"})
	require.NoError(t, err)
	id := results[0].Summary.ID

	first, err := h.GetSummary(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Old", first.Salesperson.FirstName)
	require.True(t, mr.Exists(cache.SummaryKey(id)))

	require.NoError(t, db.Model(&models.Salesperson{}).Where("id = ?", sp.ID).Update("first_name", "New").Error)

	listed, err := h.ListSummaries(ctx, SummaryFilter{SalespersonID: &sp.ID})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "New", listed[0].Salesperson.FirstName)

	detail, err := h.GetSummary(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, detail.Salesperson)
	assert.Equal(t, "New", detail.Salesperson.FirstName)
	assert.Equal(t, "100.00", utils.FormatMoney(detail.TotalSales))
}
