package commission

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	totals := Summarize([]Entry{
		{SaleID: 1, SalespersonID: 1, Amount: d("100"), Commission: d("2")},
		{SaleID: 2, SalespersonID: 1, Amount: d("200"), Commission: d("4")},
		{SaleID: 3, SalespersonID: 1, Amount: d("300"), Commission: d("6")},
	})

	assert.Equal(t, 3, totals.Count)
	assert.Equal(t, "600.00", totals.TotalAmount.StringFixed(2))
	assert.Equal(t, "12.00", totals.TotalCommission.StringFixed(2))
	assert.Equal(t, "200.00", totals.AverageAmount.StringFixed(2))
	assert.Equal(t, "4.00", totals.AverageCommission.StringFixed(2))
}

func TestSummarizeEmpty(t *testing.T) {
	totals := Summarize(nil)
	assert.Zero(t, totals.Count)
	assert.True(t, totals.TotalAmount.IsZero())
	assert.True(t, totals.AverageAmount.IsZero())
	assert.True(t, totals.AverageCommission.IsZero())
}

func TestAverage(t *testing.T) {
	assert.True(t, Average(d("10"), 0).IsZero())
	assert.Equal(t, "3.33", Average(d("10"), 3).StringFixed(2))
	assert.Equal(t, "6.67", Average(d("20"), 3).StringFixed(2))
}

func TestAggregateGroupsBySalesperson(t *testing.T) {
	groups := Aggregate([]Entry{
		{SaleID: 10, SalespersonID: 2, Amount: d("50"), Commission: d("1")},
		{SaleID: 11, SalespersonID: 1, Amount: d("100"), Commission: d("2")},
		{SaleID: 12, SalespersonID: 2, Amount: d("150"), Commission: d("3")},
	})

	require.Len(t, groups, 2)

	assert.Equal(t, int64(1), groups[0].SalespersonID)
	assert.Equal(t, 1, groups[0].Count)
	assert.Equal(t, "100.00", groups[0].TotalAmount.StringFixed(2))

	assert.Equal(t, int64(2), groups[1].SalespersonID)
	assert.Equal(t, 2, groups[1].Count)
	assert.Equal(t, "200.00", groups[1].TotalAmount.StringFixed(2))
	assert.Equal(t, "100.00", groups[1].AverageAmount.StringFixed(2))
	assert.Equal(t, "2.00", groups[1].AverageCommission.StringFixed(2))
	assert.Equal(t, []int64{10, 12}, []int64{groups[1].Entries[0].SaleID, groups[1].Entries[1].SaleID})
}

func TestAggregateEmpty(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
}

func TestAggregateTotalsMatchSummarize(t *testing.T) {
	entries := []Entry{
		{SaleID: 1, SalespersonID: 3, Amount: d("10.10"), Commission: d("0.20")},
		{SaleID: 2, SalespersonID: 4, Amount: d("20.20"), Commission: d("0.40")},
		{SaleID: 3, SalespersonID: 3, Amount: d("30.30"), Commission: d("0.61")},
	}

	sum := decimal.Zero
	count := 0
	for _, g := range Aggregate(entries) {
		sum = sum.Add(g.TotalAmount)
		count += g.Count
	}
	all := Summarize(entries)
	assert.True(t, sum.Equal(all.TotalAmount))
	assert.Equal(t, all.Count, count)
}
