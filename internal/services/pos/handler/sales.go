package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ventaspro/internal/commission"
	"ventaspro/internal/database/models"
	"ventaspro/internal/metrics"
	"ventaspro/internal/utils"
)

// RuleSource supplies the active commission rules, read through tx.
type RuleSource interface {
	ActiveRules(ctx context.Context, tx *gorm.DB) ([]commission.Rule, error)
}

type SaleRequest struct {
	SalespersonID int64
	Date          string
	Amount        decimal.Decimal
	Description   *string
}

type SaleFilter struct {
	SalespersonID *int64
	StartDate     string
	EndDate       string
}

type POSHandler struct {
	db     *gorm.DB
	rules  RuleSource
	logger *zap.Logger
}

func NewPOSHandler(db *gorm.DB, rules RuleSource, logger *zap.Logger) *POSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &POSHandler{
		db:     db,
		rules:  rules,
		logger: logger,
	}
}

func validateSale(req *SaleRequest) (utils.Date, error) {
	if req.SalespersonID <= 0 {
		return utils.Date{}, status.Errorf(codes.InvalidArgument, "vendedor is required")
	}
	date, err := utils.ParseDate(req.Date)
	if err != nil {
		return utils.Date{}, status.Errorf(codes.InvalidArgument, "Invalid fecha: %v", err)
	}
	if !req.Amount.IsPositive() {
		return utils.Date{}, status.Errorf(codes.InvalidArgument, "Amount must be greater than zero")
	}
	if req.Amount.GreaterThanOrEqual(utils.MaxAmount) {
		return utils.Date{}, status.Errorf(codes.InvalidArgument, "Amount must be lower than %s", utils.MaxAmount)
	}
	if !utils.HasMoneyScale(req.Amount) {
		return utils.Date{}, status.Errorf(codes.InvalidArgument, "Amount allows at most %d decimal places", utils.MoneyPlaces)
	}
	if req.Description != nil {
		req.Description = utils.StrPtr(strings.TrimSpace(*req.Description))
	}
	return date, nil
}

func (s *POSHandler) ensureSalesperson(tx *gorm.DB, id int64) error {
	var count int64
	if err := tx.Model(&models.Salesperson{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return status.Errorf(codes.Internal, "Failed to check salesperson: %v", err)
	}
	if count == 0 {
		return status.Errorf(codes.InvalidArgument, "Salesperson with ID %d does not exist", id)
	}
	return nil
}

// applyCommission overwrites the derived fields of sale from the current active rules.
func (s *POSHandler) applyCommission(ctx context.Context, tx *gorm.DB, sale *models.Sale) (commission.Result, error) {
	rules, err := s.rules.ActiveRules(ctx, tx)
	if err != nil {
		return commission.Result{}, err
	}
	result := commission.Compute(sale.Amount, rules)
	sale.Commission = result.Amount
	sale.AppliedPercentage = result.Percentage
	return result, nil
}

func (s *POSHandler) findSale(tx *gorm.DB, id int64) (*models.Sale, error) {
	if id <= 0 {
		return nil, status.Errorf(codes.InvalidArgument, "Sale ID is required")
	}
	var sale models.Sale
	if err := tx.Preload("Salesperson").First(&sale, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, status.Errorf(codes.NotFound, "Sale with ID %d not found", id)
		}
		return nil, status.Errorf(codes.Internal, "Failed to get sale: %v", err)
	}
	return &sale, nil
}

func asStatus(err error, format string) error {
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Errorf(codes.Internal, format, err)
}

func (s *POSHandler) CreateSale(ctx context.Context, req SaleRequest) (*models.Sale, error) {
	date, err := validateSale(&req)
	if err != nil {
		return nil, err
	}

	var (
		sale   *models.Sale
		result commission.Result
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureSalesperson(tx, req.SalespersonID); err != nil {
			return err
		}

		draft := models.Sale{
			SalespersonID: req.SalespersonID,
			Date:          date,
			Amount:        req.Amount,
			Description:   req.Description,
		}
		if result, err = s.applyCommission(ctx, tx, &draft); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&draft).Error; err != nil {
			return err
		}

		sale, err = s.findSale(tx, draft.ID)
		return err
	})
	if err != nil {
		return nil, asStatus(err, "Failed to create sale: %v")
	}

	metrics.SalesWrittenTotal.WithLabelValues("create", strconv.FormatBool(result.Matched())).Inc()
	s.logger.Info("sale created",
		zap.Int64("sale_id", sale.ID),
		zap.Int64("salesperson_id", sale.SalespersonID),
		zap.String("amount", utils.FormatMoney(sale.Amount)),
		zap.Int64("rule_id", result.RuleID),
		zap.String("commission", utils.FormatMoney(sale.Commission)),
	)
	return sale, nil
}

// UpdateSale replaces the editable fields and recomputes the commission against the
// rules active now.
func (s *POSHandler) UpdateSale(ctx context.Context, id int64, req SaleRequest) (*models.Sale, error) {
	date, err := validateSale(&req)
	if err != nil {
		return nil, err
	}

	var (
		sale   *models.Sale
		result commission.Result
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.findSale(tx, id)
		if err != nil {
			return err
		}
		if err := s.ensureSalesperson(tx, req.SalespersonID); err != nil {
			return err
		}

		existing.SalespersonID = req.SalespersonID
		existing.Salesperson = nil
		existing.Date = date
		existing.Amount = req.Amount
		existing.Description = req.Description
		if result, err = s.applyCommission(ctx, tx, existing); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(existing).Error; err != nil {
			return err
		}

		sale, err = s.findSale(tx, id)
		return err
	})
	if err != nil {
		return nil, asStatus(err, "Failed to update sale: %v")
	}

	metrics.SalesWrittenTotal.WithLabelValues("update", strconv.FormatBool(result.Matched())).Inc()
	s.logger.Info("sale updated",
		zap.Int64("sale_id", id),
		zap.Int64("rule_id", result.RuleID),
		zap.String("commission", utils.FormatMoney(sale.Commission)),
	)
	return sale, nil
}

func (s *POSHandler) GetSale(ctx context.Context, id int64) (*models.Sale, error) {
	return s.findSale(s.db.WithContext(ctx), id)
}

func (s *POSHandler) DeleteSale(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.findSale(tx, id); err != nil {
			return err
		}
		if err := tx.Delete(&models.Sale{}, id).Error; err != nil {
			return status.Errorf(codes.Internal, "Failed to delete sale: %v", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("sale deleted", zap.Int64("sale_id", id))
	return nil
}

func (s *POSHandler) filteredQuery(ctx context.Context, filter SaleFilter) (*gorm.DB, error) {
	start, err := utils.ParseOptionalDate(filter.StartDate)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "Invalid fecha_inicio: %v", err)
	}
	end, err := utils.ParseOptionalDate(filter.EndDate)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "Invalid fecha_fin: %v", err)
	}

	query := s.db.WithContext(ctx).Model(&models.Sale{})
	if filter.SalespersonID != nil {
		query = query.Where("salesperson_id = ?", *filter.SalespersonID)
	}
	if start != nil {
		query = query.Where("date >= ?", *start)
	}
	if end != nil {
		query = query.Where("date <= ?", *end)
	}
	return query, nil
}

func (s *POSHandler) ListSales(ctx context.Context, filter SaleFilter) ([]models.Sale, error) {
	query, err := s.filteredQuery(ctx, filter)
	if err != nil {
		return nil, err
	}

	var sales []models.Sale
	if err := query.Preload("Salesperson").Order("date desc, created_at desc, id desc").Find(&sales).Error; err != nil {
		return nil, status.Errorf(codes.Internal, "Failed to list sales: %v", err)
	}
	return sales, nil
}

// SalesStatistics totals the filtered sales. Sums are done in decimal so every driver
// yields the same cents.
func (s *POSHandler) SalesStatistics(ctx context.Context, filter SaleFilter) (commission.Totals, error) {
	query, err := s.filteredQuery(ctx, filter)
	if err != nil {
		return commission.Totals{}, err
	}

	var rows []struct {
		ID         int64
		Amount     decimal.Decimal
		Commission decimal.Decimal
	}
	if err := query.Select("id", "amount", "commission").Scan(&rows).Error; err != nil {
		return commission.Totals{}, status.Errorf(codes.Internal, "Failed to compute sales statistics: %v", err)
	}

	entries := make([]commission.Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, commission.Entry{SaleID: r.ID, Amount: r.Amount, Commission: r.Commission})
	}
	return commission.Summarize(entries), nil
}
