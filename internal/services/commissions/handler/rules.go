package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"

	"ventaspro/internal/commission"
	"ventaspro/internal/database/models"
	"ventaspro/internal/utils"
)

var maxPercentage = decimal.NewFromInt(100)

type RuleRequest struct {
	Name       string
	MinAmount  decimal.Decimal
	Percentage decimal.Decimal
	// IsActive defaults to true on create and is left unchanged on update when nil.
	IsActive *bool
}

func validateRule(req *RuleRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return status.Errorf(codes.InvalidArgument, "Rule name is required")
	}
	if len(req.Name) > 100 {
		return status.Errorf(codes.InvalidArgument, "Rule name must be at most 100 characters")
	}
	if req.MinAmount.IsNegative() {
		return status.Errorf(codes.InvalidArgument, "Minimum amount must be zero or greater")
	}
	if req.MinAmount.GreaterThanOrEqual(utils.MaxAmount) {
		return status.Errorf(codes.InvalidArgument, "Minimum amount must be lower than %s", utils.MaxAmount)
	}
	if !utils.HasMoneyScale(req.MinAmount) {
		return status.Errorf(codes.InvalidArgument, "Minimum amount allows at most %d decimal places", utils.MoneyPlaces)
	}
	if req.Percentage.IsNegative() || req.Percentage.GreaterThan(maxPercentage) {
		return status.Errorf(codes.InvalidArgument, "Percentage must be between 0 and 100")
	}
	if !utils.HasMoneyScale(req.Percentage) {
		return status.Errorf(codes.InvalidArgument, "Percentage allows at most %d decimal places", utils.MoneyPlaces)
	}
	return nil
}

func ruleToCommissionRule(rule models.CommissionRule) commission.Rule {
	return commission.Rule{
		ID:         rule.ID,
		MinAmount:  rule.MinAmount,
		Percentage: rule.Percentage,
		Active:     rule.IsActive,
	}
}

// ActiveRules loads the rules eligible for matching using tx, so callers inside a
// transaction see a consistent rule set.
func (c *CommissionHandler) ActiveRules(ctx context.Context, tx *gorm.DB) ([]commission.Rule, error) {
	if tx == nil {
		tx = c.db
	}
	var rules []models.CommissionRule
	if err := tx.WithContext(ctx).Where("is_active = ?", true).Order("min_amount asc, id asc").Find(&rules).Error; err != nil {
		return nil, status.Errorf(codes.Internal, "Failed to load commission rules: %v", err)
	}

	out := make([]commission.Rule, 0, len(rules))
	for _, r := range rules {
		out = append(out, ruleToCommissionRule(r))
	}
	return out, nil
}

func (c *CommissionHandler) findRule(tx *gorm.DB, id int64) (*models.CommissionRule, error) {
	if id <= 0 {
		return nil, status.Errorf(codes.InvalidArgument, "Rule ID is required")
	}
	var rule models.CommissionRule
	if err := tx.First(&rule, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, status.Errorf(codes.NotFound, "Commission rule with ID %d not found", id)
		}
		return nil, status.Errorf(codes.Internal, "Failed to get commission rule: %v", err)
	}
	return &rule, nil
}

func (c *CommissionHandler) CreateRule(ctx context.Context, req RuleRequest) (*models.CommissionRule, error) {
	if err := validateRule(&req); err != nil {
		return nil, err
	}

	rule := models.CommissionRule{
		Name:       req.Name,
		MinAmount:  req.MinAmount,
		Percentage: req.Percentage,
		IsActive:   true,
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	if err := c.db.WithContext(ctx).Create(&rule).Error; err != nil {
		return nil, status.Errorf(codes.Internal, "Failed to create commission rule: %v", err)
	}

	c.logger.Info("commission rule created",
		zap.Int64("rule_id", rule.ID),
		zap.String("min_amount", utils.FormatMoney(rule.MinAmount)),
		zap.String("percentage", utils.FormatMoney(rule.Percentage)),
	)
	return &rule, nil
}

func (c *CommissionHandler) GetRule(ctx context.Context, id int64) (*models.CommissionRule, error) {
	return c.findRule(c.db.WithContext(ctx), id)
}

// ListRules filters on the active flag when active is not nil.
func (c *CommissionHandler) ListRules(ctx context.Context, active *bool) ([]models.CommissionRule, error) {
	query := c.db.WithContext(ctx).Order("min_amount asc, id asc")
	if active != nil {
		query = query.Where("is_active = ?", *active)
	}

	var rules []models.CommissionRule
	if err := query.Find(&rules).Error; err != nil {
		return nil, status.Errorf(codes.Internal, "Failed to list commission rules: %v", err)
	}
	return rules, nil
}

// UpdateRule changes the rule only. Sales saved earlier keep their commission.
func (c *CommissionHandler) UpdateRule(ctx context.Context, id int64, req RuleRequest) (*models.CommissionRule, error) {
	if err := validateRule(&req); err != nil {
		return nil, err
	}

	var rule *models.CommissionRule
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if rule, err = c.findRule(tx, id); err != nil {
			return err
		}

		rule.Name = req.Name
		rule.MinAmount = req.MinAmount
		rule.Percentage = req.Percentage
		if req.IsActive != nil {
			rule.IsActive = *req.IsActive
		}
		if err := tx.Save(rule).Error; err != nil {
			return status.Errorf(codes.Internal, "Failed to update commission rule: %v", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("commission rule updated", zap.Int64("rule_id", id))
	return rule, nil
}

func (c *CommissionHandler) SetRuleActive(ctx context.Context, id int64, active bool) (*models.CommissionRule, error) {
	var rule *models.CommissionRule
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if rule, err = c.findRule(tx, id); err != nil {
			return err
		}
		rule.IsActive = active
		if err := tx.Save(rule).Error; err != nil {
			return status.Errorf(codes.Internal, "Failed to change commission rule state: %v", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("commission rule state changed", zap.Int64("rule_id", id), zap.Bool("active", active))
	return rule, nil
}

func (c *CommissionHandler) DeleteRule(ctx context.Context, id int64) error {
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := c.findRule(tx, id); err != nil {
			return err
		}
		if err := tx.Delete(&models.CommissionRule{}, id).Error; err != nil {
			return status.Errorf(codes.Internal, "Failed to delete commission rule: %v", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.logger.Info("commission rule deleted", zap.Int64("rule_id", id))
	return nil
}
