// Package commission holds the pure commission math: picking the rule that applies to a
// sale amount and aggregating sales into per-salesperson totals. Nothing here touches storage.
package commission

import (
	"github.com/shopspring/decimal"

	"ventaspro/internal/utils"
)

type Rule struct {
	ID         int64
	MinAmount  decimal.Decimal
	Percentage decimal.Decimal
	Active     bool
}

type Result struct {
	// RuleID is 0 when no rule matched.
	RuleID     int64
	Percentage decimal.Decimal
	Amount     decimal.Decimal
}

func (r Result) Matched() bool {
	return r.RuleID != 0
}

// SelectRule returns the active rule with the largest MinAmount not above amount.
// Rules sharing that threshold are resolved in favour of the lowest ID.
func SelectRule(amount decimal.Decimal, rules []Rule) (Rule, bool) {
	var (
		best  Rule
		found bool
	)
	for _, rule := range rules {
		if !rule.Active || rule.MinAmount.GreaterThan(amount) {
			continue
		}
		switch {
		case !found:
			best, found = rule, true
		case rule.MinAmount.GreaterThan(best.MinAmount):
			best = rule
		case rule.MinAmount.Equal(best.MinAmount) && rule.ID < best.ID:
			best = rule
		}
	}
	return best, found
}

// Compute derives the commission fields of a sale. The commission is
// amount * percentage / 100 rounded half away from zero to two places.
func Compute(amount decimal.Decimal, rules []Rule) Result {
	rule, ok := SelectRule(amount, rules)
	if !ok {
		return Result{Percentage: decimal.Zero, Amount: decimal.Zero}
	}
	return Result{
		RuleID:     rule.ID,
		Percentage: utils.RoundMoney(rule.Percentage),
		Amount:     utils.RoundMoney(amount.Mul(rule.Percentage).Div(utils.Hundred)),
	}
}
