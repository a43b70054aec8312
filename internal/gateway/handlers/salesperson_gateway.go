package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ventaspro/internal/database/models"
	commissions "ventaspro/internal/services/commissions/handler"
	pos "ventaspro/internal/services/pos/handler"
	salespeople "ventaspro/internal/services/salespeople/handler"
)

type SalespersonService interface {
	CreateSalesperson(ctx context.Context, req salespeople.SalespersonRequest) (*models.Salesperson, error)
	GetSalesperson(ctx context.Context, id int64) (*salespeople.SalespersonDetail, error)
	ListSalespeople(ctx context.Context, activeOnly bool) ([]models.Salesperson, error)
	UpdateSalesperson(ctx context.Context, id int64, req salespeople.SalespersonRequest) (*models.Salesperson, error)
	DeleteSalesperson(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) error
}

type SalespersonHTTPHandler struct {
	salespeople SalespersonService
	sales       SaleService
	commissions CommissionService
	logger      *zap.Logger
	timeouts    Timeouts
}

func NewSalespersonHTTPHandler(salespeople SalespersonService, sales SaleService, commissions CommissionService, logger *zap.Logger, timeouts Timeouts) *SalespersonHTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalespersonHTTPHandler{
		salespeople: salespeople,
		sales:       sales,
		commissions: commissions,
		logger:      logger,
		timeouts:    timeouts,
	}
}

type SalespersonBody struct {
	Nombre   string  `json:"nombre" binding:"required,max=100"`
	Apellido string  `json:"apellido" binding:"required,max=100"`
	Email    string  `json:"email" binding:"required,email"`
	Telefono *string `json:"telefono" binding:"omitempty,max=20"`
	Activo   *bool   `json:"activo"`
}

func (b SalespersonBody) toRequest() salespeople.SalespersonRequest {
	return salespeople.SalespersonRequest{
		FirstName: b.Nombre,
		LastName:  b.Apellido,
		Email:     b.Email,
		Phone:     b.Telefono,
		IsActive:  b.Activo,
	}
}

type DateRangeQuery struct {
	FechaInicio string `form:"fecha_inicio"`
	FechaFin    string `form:"fecha_fin"`
}

func (h *SalespersonHTTPHandler) CreateSalesperson(c *gin.Context) {
	var body SalespersonBody
	if !bindJSON(c, &body) {
		return
	}

	ctx, cancel := requestContext(c, h.timeouts.Write)
	defer cancel()

	sp, err := h.salespeople.CreateSalesperson(ctx, body.toRequest())
	if handleServiceError(c, h.logger, err) {
		return
	}

	c.JSON(http.StatusCreated, successResponse("Salesperson created successfully", toSalespersonView(*sp)))
}

func (h *SalespersonHTTPHandler) listSalespeople(c *gin.Context, activeOnly bool) {
	ctx, cancel := requestContext(c, h.timeouts.Read)
	defer cancel()

	list, err := h.salespeople.ListSalespeople(ctx, activeOnly)
	if handleServiceError(c, h.logger, err) {
		return
	}

	c.JSON(http.StatusOK, listResponse("Salespeople retrieved successfully", toSalespersonSimpleViews(list), len(list)))
}

func (h *SalespersonHTTPHandler) ListSalespeople(c *gin.Context) {
	h.listSalespeople(c, false)
}

func (h *SalespersonHTTPHandler) ListActiveSalespeople(c *gin.Context) {
	h.listSalespeople(c, true)
}

func (h *SalespersonHTTPHandler) GetSalesperson(c *gin.Context) {
	id, ok := parseID(c, "salesperson")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.timeouts.Read)
	defer cancel()

	detail, err := h.salespeople.GetSalesperson(ctx, id)
	if handleServiceError(c, h.logger, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("Salesperson retrieved successfully", toSalespersonDetailView(*detail)))
}

func (h *SalespersonHTTPHandler) UpdateSalesperson(c *gin.Context) {
	id, ok := parseID(c, "salesperson")
	if !ok {
		return
	}
	var body SalespersonBody
	if !bindJSON(c, &body) {
		return
	}

	ctx, cancel := requestContext(c, h.timeouts.Write)
	defer cancel()

	sp, err := h.salespeople.UpdateSalesperson(ctx, id, body.toRequest())
	if handleServiceError(c, h.logger, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("Salesperson updated successfully", toSalespersonView(*sp)))
}

func (h *SalespersonHTTPHandler) DeleteSalesperson(c *gin.Context) {
	id, ok := parseID(c, "salesperson")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.timeouts.Write)
	defer cancel()

	if handleServiceError(c, h.logger, h.salespeople.DeleteSalesperson(ctx, id)) {
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *SalespersonHTTPHandler) ListSalespersonSales(c *gin.Context) {
	id, ok := parseID(c, "salesperson")
	if !ok {
		return
	}
	var query DateRangeQuery
	if !bindQuery(c, &query) {
		return
	}

	ctx, cancel := requestContext(c, h.timeouts.Read)
	defer cancel()

	if handleServiceError(c, h.logger, h.salespeople.Exists(ctx, id)) {
		return
	}
	sales, err := h.sales.ListSales(ctx, pos.SaleFilter{
		SalespersonID: &id,
		StartDate:     query.FechaInicio,
		EndDate:       query.FechaFin,
	})
	if handleServiceError(c, h.logger, err) {
		return
	}

	c.JSON(http.StatusOK, listResponse("Sales retrieved successfully", toSaleViews(sales), len(sales)))
}

func (h *SalespersonHTTPHandler) ListSalespersonSummaries(c *gin.Context) {
	id, ok := parseID(c, "salesperson")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.timeouts.Read)
	defer cancel()

	if handleServiceError(c, h.logger, h.salespeople.Exists(ctx, id)) {
		return
	}
	summaries, err := h.commissions.ListSummaries(ctx, commissions.SummaryFilter{SalespersonID: &id})
	if handleServiceError(c, h.logger, err) {
		return
	}

	c.JSON(http.StatusOK, listResponse("Commission summaries retrieved successfully", toSummaryViews(summaries), len(summaries)))
}
