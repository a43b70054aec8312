package commission

import (
	"sort"

	"github.com/shopspring/decimal"

	"ventaspro/internal/utils"
)

type Entry struct {
	SaleID        int64
	SalespersonID int64
	Amount        decimal.Decimal
	Commission    decimal.Decimal
}

type Totals struct {
	Count             int
	TotalAmount       decimal.Decimal
	TotalCommission   decimal.Decimal
	AverageAmount     decimal.Decimal
	AverageCommission decimal.Decimal
}

type Group struct {
	SalespersonID int64
	Totals
	Entries []Entry
}

// Summarize totals the entries. Averages are zero for an empty set.
func Summarize(entries []Entry) Totals {
	totals := Totals{
		TotalAmount:     decimal.Zero,
		TotalCommission: decimal.Zero,
	}
	for _, e := range entries {
		totals.Count++
		totals.TotalAmount = totals.TotalAmount.Add(e.Amount)
		totals.TotalCommission = totals.TotalCommission.Add(e.Commission)
	}
	totals.AverageAmount = Average(totals.TotalAmount, totals.Count)
	totals.AverageCommission = Average(totals.TotalCommission, totals.Count)
	return totals
}

func Average(total decimal.Decimal, count int) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return utils.RoundMoney(total.Div(decimal.NewFromInt(int64(count))))
}

// Aggregate groups entries by salesperson, ordered by salesperson ID. Entries keep
// their input order inside a group, and only salespeople with entries appear.
func Aggregate(entries []Entry) []Group {
	bySalesperson := make(map[int64][]Entry)
	for _, e := range entries {
		bySalesperson[e.SalespersonID] = append(bySalesperson[e.SalespersonID], e)
	}

	groups := make([]Group, 0, len(bySalesperson))
	for id, group := range bySalesperson {
		groups = append(groups, Group{
			SalespersonID: id,
			Totals:        Summarize(group),
			Entries:       group,
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].SalespersonID < groups[j].SalespersonID
	})
	return groups
}
