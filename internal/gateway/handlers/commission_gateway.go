package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ventaspro/internal/database/models"
	commissions "ventaspro/internal/services/commissions/handler"
)

type CommissionService interface {
	CreateRule(ctx context.Context, req commissions.RuleRequest) (*models.CommissionRule, error)
	GetRule(ctx context.Context, id int64) (*models.CommissionRule, error)
	ListRules(ctx context.Context, active *bool) ([]models.CommissionRule, error)
	UpdateRule(ctx context.Context, id int64, req commissions.RuleRequest) (*models.CommissionRule, error)
	SetRuleActive(ctx context.Context, id int64, active bool) (*models.CommissionRule, error)
	DeleteRule(ctx context.Context, id int64) error

	CalculateCommissions(ctx context.Context, req commissions.CalculateCommissionsRequest) ([]commissions.SalespersonCommission, error)
	ListSummaries(ctx context.Context, filter commissions.SummaryFilter) ([]models.CommissionSummary, error)
	GetSummary(ctx context.Context, id int64) (*models.CommissionSummary, error)
}

type CommissionsHTTPHandler struct {
	commissions CommissionService
	logger      *zap.Logger
	timeouts    Timeouts
}

func NewCommissionsHTTPHandler(commissions CommissionService, logger *zap.Logger, timeouts Timeouts) *CommissionsHTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommissionsHTTPHandler{
		commissions: commissions,
		logger:      logger,
		timeouts:    timeouts,
	}
}

type CalculateCommissionBody struct {
	FechaInicio string `json:"fecha_inicio"`
	FechaFin    string `json:"fecha_fin"`
}

type SummaryQuery struct {
	FechaInicio string `form:"fecha_inicio"`
	FechaFin    string `form:"fecha_fin"`
	Vendedor    *int64 `form:"vendedor"`
}

func (h *CommissionsHTTPHandler) CalculateCommissions(c *gin.Context) {
	var body CalculateCommissionBody
	if !bindJSON(c, &body) {
		return
	}

	ctx, cancel := requestContext(c, h.timeouts.Write)
	defer cancel()

	results, err := h.commissions.CalculateCommissions(ctx, commissions.CalculateCommissionsRequest{
		PeriodStart: body.FechaInicio,
		PeriodEnd:   body.FechaFin,
	})
	if handleServiceError(c, h.logger, err) {
		return
	}

	c.JSON(http.StatusOK, listResponse("Commissions calculated successfully", toCommissionResultViews(results), len(results)))
}

func (h *CommissionsHTTPHandler) ListSummaries(c *gin.Context) {
	var query SummaryQuery
	if !bindQuery(c, &query) {
		return
	}

	ctx, cancel := requestContext(c, h.timeouts.Read)
	defer cancel()

	summaries, err := h.commissions.ListSummaries(ctx, commissions.SummaryFilter{
		SalespersonID: query.Vendedor,
		StartDate:     query.FechaInicio,
		EndDate:       query.FechaFin,
	})
	if handleServiceError(c, h.logger, err) {
		return
	}

	c.JSON(http.StatusOK, listResponse("Commission summaries retrieved successfully", toSummaryViews(summaries), len(summaries)))
}

func (h *CommissionsHTTPHandler) GetSummary(c *gin.Context) {
	id, ok := parseID(c, "summary")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.timeouts.Read)
	defer cancel()

	summary, err := h.commissions.GetSummary(ctx, id)
	if handleServiceError(c, h.logger, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("Commission summary retrieved successfully", toSummaryView(*summary)))
}
