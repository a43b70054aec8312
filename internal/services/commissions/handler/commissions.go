package handler

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"

	"ventaspro/internal/cache"
	"ventaspro/internal/commission"
	"ventaspro/internal/database/models"
	"ventaspro/internal/metrics"
	"ventaspro/internal/utils"
)

type CalculateCommissionsRequest struct {
	PeriodStart string
	PeriodEnd   string
}

// SalespersonCommission is one group of a period aggregation together with the summary
// row that was persisted for it.
type SalespersonCommission struct {
	Salesperson models.Salesperson
	commission.Totals
	Summary models.CommissionSummary
	Sales   []models.Sale
}

type SummaryFilter struct {
	SalespersonID *int64
	StartDate     string
	EndDate       string
}

type CommissionHandler struct {
	db     *gorm.DB
	cache  *cache.Cache
	logger *zap.Logger
}

func NewCommissionHandler(db *gorm.DB, c *cache.Cache, logger *zap.Logger) *CommissionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommissionHandler{
		db:     db,
		cache:  c,
		logger: logger,
	}
}

// ParsePeriod validates an inclusive [start, end] date range.
func ParsePeriod(start, end string) (utils.Date, utils.Date, error) {
	if strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
		return utils.Date{}, utils.Date{}, status.Errorf(codes.InvalidArgument, "fecha_inicio and fecha_fin are required")
	}
	from, err := utils.ParseDate(start)
	if err != nil {
		return utils.Date{}, utils.Date{}, status.Errorf(codes.InvalidArgument, "Invalid fecha_inicio: %v", err)
	}
	to, err := utils.ParseDate(end)
	if err != nil {
		return utils.Date{}, utils.Date{}, status.Errorf(codes.InvalidArgument, "Invalid fecha_fin: %v", err)
	}
	if from.After(to) {
		return utils.Date{}, utils.Date{}, status.Errorf(codes.InvalidArgument, "fecha_inicio must not be after fecha_fin")
	}
	return from, to, nil
}

// CalculateCommissions aggregates every sale dated inside the period by salesperson and
// appends one summary row per salesperson. Running it twice for the same period writes
// the summaries twice.
func (c *CommissionHandler) CalculateCommissions(ctx context.Context, req CalculateCommissionsRequest) ([]SalespersonCommission, error) {
	start, end, err := ParsePeriod(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return nil, err
	}

	var results []SalespersonCommission
	err = c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sales []models.Sale
		if err := tx.Preload("Salesperson").
			Where("date >= ? AND date <= ?", start, end).
			Order("date desc, created_at desc, id desc").
			Find(&sales).Error; err != nil {
			return status.Errorf(codes.Internal, "Failed to get sales for period: %v", err)
		}

		byID := make(map[int64]models.Sale, len(sales))
		entries := make([]commission.Entry, 0, len(sales))
		for _, sale := range sales {
			byID[sale.ID] = sale
			entries = append(entries, commission.Entry{
				SaleID:        sale.ID,
				SalespersonID: sale.SalespersonID,
				Amount:        sale.Amount,
				Commission:    sale.Commission,
			})
		}

		for _, group := range commission.Aggregate(entries) {
			summary := models.CommissionSummary{
				SalespersonID:   group.SalespersonID,
				PeriodStart:     start,
				PeriodEnd:       end,
				TotalSales:      group.TotalAmount,
				TotalCommission: group.TotalCommission,
				SaleCount:       group.Count,
			}
			if err := tx.Create(&summary).Error; err != nil {
				return status.Errorf(codes.Internal, "Failed to save commission summary for salesperson %d: %v", group.SalespersonID, err)
			}

			groupSales := make([]models.Sale, 0, len(group.Entries))
			for _, e := range group.Entries {
				groupSales = append(groupSales, byID[e.SaleID])
			}

			result := SalespersonCommission{
				Totals:  group.Totals,
				Summary: summary,
				Sales:   groupSales,
			}
			if sp := groupSales[0].Salesperson; sp != nil {
				result.Salesperson = *sp
				result.Summary.Salesperson = sp
			}
			results = append(results, result)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.CommissionRunsTotal.Inc()
	metrics.SummariesCreatedTotal.Add(float64(len(results)))
	c.logger.Info("commissions calculated",
		zap.String("period_start", start.String()),
		zap.String("period_end", end.String()),
		zap.Int("salespeople", len(results)),
	)
	return results, nil
}

func (c *CommissionHandler) ListSummaries(ctx context.Context, filter SummaryFilter) ([]models.CommissionSummary, error) {
	start, err := utils.ParseOptionalDate(filter.StartDate)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "Invalid fecha_inicio: %v", err)
	}
	end, err := utils.ParseOptionalDate(filter.EndDate)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "Invalid fecha_fin: %v", err)
	}

	query := c.db.WithContext(ctx).Preload("Salesperson")
	if filter.SalespersonID != nil {
		query = query.Where("salesperson_id = ?", *filter.SalespersonID)
	}
	if start != nil {
		query = query.Where("period_start >= ?", *start)
	}
	if end != nil {
		query = query.Where("period_end <= ?", *end)
	}

	var summaries []models.CommissionSummary
	if err := query.Order("calculated_at desc, id desc").Find(&summaries).Error; err != nil {
		return nil, status.Errorf(codes.Internal, "Failed to list commission summaries: %v", err)
	}
	return summaries, nil
}

// GetSummary reads the summary row through the cache. Only the row is cached since it
// never changes after insert; the salesperson is always loaded from the database.
func (c *CommissionHandler) GetSummary(ctx context.Context, id int64) (*models.CommissionSummary, error) {
	if id <= 0 {
		return nil, status.Errorf(codes.InvalidArgument, "Summary ID is required")
	}

	db := c.db.WithContext(ctx)
	key := cache.SummaryKey(id)

	var summary models.CommissionSummary
	if !c.cache.GetJSON(ctx, key, &summary) {
		if err := db.First(&summary, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, status.Errorf(codes.NotFound, "Commission summary with ID %d not found", id)
			}
			return nil, status.Errorf(codes.Internal, "Failed to get commission summary: %v", err)
		}
		summary.Salesperson = nil
		c.cache.SetJSON(ctx, key, &summary, cache.SummaryCacheTTL)
	}

	var salesperson models.Salesperson
	if err := db.First(&salesperson, summary.SalespersonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.cache.Delete(ctx, key)
			return nil, status.Errorf(codes.NotFound, "Commission summary with ID %d not found", id)
		}
		return nil, status.Errorf(codes.Internal, "Failed to get summary salesperson: %v", err)
	}
	summary.Salesperson = &salesperson
	return &summary, nil
}
