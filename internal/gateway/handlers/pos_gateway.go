package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ventaspro/internal/commission"
	"ventaspro/internal/database/models"
	pos "ventaspro/internal/services/pos/handler"
)

type SaleService interface {
	CreateSale(ctx context.Context, req pos.SaleRequest) (*models.Sale, error)
	GetSale(ctx context.Context, id int64) (*models.Sale, error)
	UpdateSale(ctx context.Context, id int64, req pos.SaleRequest) (*models.Sale, error)
	DeleteSale(ctx context.Context, id int64) error
	ListSales(ctx context.Context, filter pos.SaleFilter) ([]models.Sale, error)
	SalesStatistics(ctx context.Context, filter pos.SaleFilter) (commission.Totals, error)
}

type POSHTTPHandler struct {
	sales  SaleService
	logger   *zap.Logger
	timeouts Timeouts
}

func NewPOSHTTPHandler(sales SaleService, logger *zap.Logger, timeouts Timeouts) *POSHTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &POSHTTPHandler{
		sales:    sales,
		logger:   logger,
		timeouts: timeouts,
	}
}

// SaleBody carries only caller-owned fields. The commission columns are always derived.
type SaleBody struct {
	Vendedor    int64            `json:"vendedor" binding:"required"`
	Fecha       string           `json:"fecha" binding:"required"`
	Monto       *decimal.Decimal `json:"monto" binding:"required"`
	Descripcion *string          `json:"descripcion"`
}

func (b SaleBody) toRequest() pos.SaleRequest {
	return pos.SaleRequest{
		SalespersonID: b.Vendedor,
		Date:          b.Fecha,
		Amount:        *b.Monto,
		Description:   b.Descripcion,
	}
}

type SaleQuery struct {
	Vendedor    *int64 `form:"vendedor"`
	FechaInicio string `form:"fecha_inicio"`
	FechaFin    string `form:"fecha_fin"`
}

func (q SaleQuery) toFilter() pos.SaleFilter {
	return pos.SaleFilter{
		SalespersonID: q.Vendedor,
		StartDate:     q.FechaInicio,
		EndDate:       q.FechaFin,
	}
}

func (h *POSHTTPHandler) CreateSale(c *gin.Context) {
	var body SaleBody
	if !bindJSON(c, &body) {
		return
	}

	ctx, cancel := requestContext(c, h.timeouts.Write)
	defer cancel()

	sale, err := h.sales.CreateSale(ctx, body.toRequest())
	if handleServiceError(c, h.logger, err) {
		return
	}

	c.JSON(http.StatusCreated, successResponse("Sale created successfully", toSaleView(*sale)))
}

func (h *POSHTTPHandler) ListSales(c *gin.Context) {
	var query SaleQuery
	if !bindQuery(c, &query) {
		return
	}

	ctx, cancel := requestContext(c, h.timeouts.Read)
	defer cancel()

	sales, err := h.sales.ListSales(ctx, query.toFilter())
	if handleServiceError(c, h.logger, err) {
		return
	}

	c.JSON(http.StatusOK, listResponse("Sales retrieved successfully", toSaleViews(sales), len(sales)))
}

func (h *POSHTTPHandler) SalesStatistics(c *gin.Context) {
	var query SaleQuery
	if !bindQuery(c, &query) {
		return
	}

	ctx, cancel := requestContext(c, h.timeouts.Read)
	defer cancel()

	totals, err := h.sales.SalesStatistics(ctx, query.toFilter())
	if handleServiceError(c, h.logger, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("Sales statistics retrieved successfully", toStatisticsView(totals)))
}

func (h *POSHTTPHandler) GetSale(c *gin.Context) {
	id, ok := parseID(c, "sale")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.timeouts.Read)
	defer cancel()

	sale, err := h.sales.GetSale(ctx, id)
	if handleServiceError(c, h.logger, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("Sale retrieved successfully", toSaleView(*sale)))
}

func (h *POSHTTPHandler) UpdateSale(c *gin.Context) {
	id, ok := parseID(c, "sale")
	if !ok {
		return
	}
	var body SaleBody
	if !bindJSON(c, &body) {
		return
	}

	ctx, cancel := requestContext(c, h.timeouts.Write)
	defer cancel()

	sale, err := h.sales.UpdateSale(ctx, id, body.toRequest())
	if handleServiceError(c, h.logger, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("Sale updated successfully", toSaleView(*sale)))
}

func (h *POSHTTPHandler) DeleteSale(c *gin.Context) {
	id, ok := parseID(c, "sale")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.timeouts.Write)
	defer cancel()

	if handleServiceError(c, h.logger, h.sales.DeleteSale(ctx, id)) {
		return
	}

	c.Status(http.StatusNoContent)
}
