package handler

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"

	"ventaspro/internal/cache"
	"ventaspro/internal/database/dbtest"
	"ventaspro/internal/utils"
)

func newTestHandler(t *testing.T, c *cache.Cache) (*CommissionHandler, *gorm.DB) {
	db := dbtest.Open(t)
	return NewCommissionHandler(db, c, zaptest.NewLogger(t)), db
}

func requireCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, status.Code(err), err.Error())
}

func rule(name, min, pct string) RuleRequest {
	return RuleRequest{
		Name:       name,
		MinAmount:  decimal.RequireFromString(min),
		Percentage: decimal.RequireFromString(pct),
	}
}

func TestCreateRule(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	ctx := context.Background()

	r, err := h.CreateRule(ctx, rule(" Básica ", "0", "2"))
	require.NoError(t, err)
	assert.NotZero(t, r.ID)
	assert.Equal(t, "Básica", r.Name)
	assert.True(t, r.IsActive)

	inactive := false
	req := rule("Premium", "1000", "5")
	req.IsActive = &inactive
	r, err = h.CreateRule(ctx, req)
	require.NoError(t, err)
	assert.False(t, r.IsActive)

	got, err := h.GetRule(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "1000.00", utils.FormatMoney(got.MinAmount))
	assert.Equal(t, "5.00", utils.FormatMoney(got.Percentage))
}

func TestCreateRuleValidation(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	ctx := context.Background()

	cases := map[string]RuleRequest{
		"empty name":          rule("  ", "0", "2"),
		"negative minimum":    rule("R", "-1", "2"),
		"percentage above":    rule("R", "0", "100.01"),
		"negative percentage": rule("R", "0", "-0.5"),
		"three decimals":      rule("R", "10.005", "2"),
		"minimum too large":   rule("R", "100000000", "2"),
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := h.CreateRule(ctx, req)
			requireCode(t, err, codes.InvalidArgument)
		})
	}

	_, err := h.CreateRule(ctx, rule("Bounds", "0", "100"))
	assert.NoError(t, err)
}

func TestListRules(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	ctx := context.Background()

	high, err := h.CreateRule(ctx, rule("Alta", "1000", "5"))
	require.NoError(t, err)
	low, err := h.CreateRule(ctx, rule("Baja", "0", "2"))
	require.NoError(t, err)
	_, err = h.SetRuleActive(ctx, high.ID, false)
	require.NoError(t, err)

	all, err := h.ListRules(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, low.ID, all[0].ID)
	assert.Equal(t, high.ID, all[1].ID)

	active := true
	onlyActive, err := h.ListRules(ctx, &active)
	require.NoError(t, err)
	require.Len(t, onlyActive, 1)
	assert.Equal(t, low.ID, onlyActive[0].ID)

	inactive := false
	onlyInactive, err := h.ListRules(ctx, &inactive)
	require.NoError(t, err)
	require.Len(t, onlyInactive, 1)
	assert.Equal(t, high.ID, onlyInactive[0].ID)

	rules, err := h.ActiveRules(ctx, nil)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, low.ID, rules[0].ID)
	assert.True(t, rules[0].Active)
}

func TestUpdateAndToggleRule(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	ctx := context.Background()

	r, err := h.CreateRule(ctx, rule("Básica", "0", "2"))
	require.NoError(t, err)

	updated, err := h.UpdateRule(ctx, r.ID, rule("Básica plus", "50", "3.5"))
	require.NoError(t, err)
	assert.Equal(t, "Básica plus", updated.Name)
	assert.Equal(t, "3.50", utils.FormatMoney(updated.Percentage))
	assert.True(t, updated.IsActive)

	off, err := h.SetRuleActive(ctx, r.ID, false)
	require.NoError(t, err)
	assert.False(t, off.IsActive)

	on, err := h.SetRuleActive(ctx, r.ID, true)
	require.NoError(t, err)
	assert.True(t, on.IsActive)

	_, err = h.UpdateRule(ctx, 404, rule("X", "0", "1"))
	requireCode(t, err, codes.NotFound)
	_, err = h.SetRuleActive(ctx, 404, true)
	requireCode(t, err, codes.NotFound)
}

func TestDeleteRule(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	ctx := context.Background()

	r, err := h.CreateRule(ctx, rule("Básica", "0", "2"))
	require.NoError(t, err)

	require.NoError(t, h.DeleteRule(ctx, r.ID))
	_, err = h.GetRule(ctx, r.ID)
	requireCode(t, err, codes.NotFound)
	requireCode(t, h.DeleteRule(ctx, r.ID), codes.NotFound)
}
