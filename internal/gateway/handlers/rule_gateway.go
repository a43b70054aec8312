package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	commissions "ventaspro/internal/services/commissions/handler"
)

type RuleBody struct {
	Nombre      string           `json:"nombre" binding:"required,max=100"`
	MontoMinimo *decimal.Decimal `json:"monto_minimo" binding:"required"`
	Porcentaje  *decimal.Decimal `json:"porcentaje" binding:"required"`
	Activa      *bool            `json:"activa"`
}

func (b RuleBody) toRequest() commissions.RuleRequest {
	return commissions.RuleRequest{
		Name:       b.Nombre,
		MinAmount:  *b.MontoMinimo,
		Percentage: *b.Porcentaje,
		IsActive:   b.Activa,
	}
}

type RuleQuery struct {
	Activas *bool `form:"activas"`
}

func (h *CommissionsHTTPHandler) CreateRule(c *gin.Context) {
	var body RuleBody
	if !bindJSON(c, &body) {
		return
	}

	ctx, cancel := requestContext(c, h.timeouts.Write)
	defer cancel()

	rule, err := h.commissions.CreateRule(ctx, body.toRequest())
	if handleServiceError(c, h.logger, err) {
		return
	}

	c.JSON(http.StatusCreated, successResponse("Commission rule created successfully", toRuleView(*rule)))
}

func (h *CommissionsHTTPHandler) ListRules(c *gin.Context) {
	var query RuleQuery
	if !bindQuery(c, &query) {
		return
	}

	ctx, cancel := requestContext(c, h.timeouts.Read)
	defer cancel()

	rules, err := h.commissions.ListRules(ctx, query.Activas)
	if handleServiceError(c, h.logger, err) {
		return
	}

	c.JSON(http.StatusOK, listResponse("Commission rules retrieved successfully", toRuleViews(rules), len(rules)))
}

func (h *CommissionsHTTPHandler) GetRule(c *gin.Context) {
	id, ok := parseID(c, "rule")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.timeouts.Read)
	defer cancel()

	rule, err := h.commissions.GetRule(ctx, id)
	if handleServiceError(c, h.logger, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("Commission rule retrieved successfully", toRuleView(*rule)))
}

func (h *CommissionsHTTPHandler) UpdateRule(c *gin.Context) {
	id, ok := parseID(c, "rule")
	if !ok {
		return
	}
	var body RuleBody
	if !bindJSON(c, &body) {
		return
	}

	ctx, cancel := requestContext(c, h.timeouts.Write)
	defer cancel()

	rule, err := h.commissions.UpdateRule(ctx, id, body.toRequest())
	if handleServiceError(c, h.logger, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("Commission rule updated successfully", toRuleView(*rule)))
}

func (h *CommissionsHTTPHandler) setRuleActive(c *gin.Context, active bool, message string) {
	id, ok := parseID(c, "rule")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.timeouts.Write)
	defer cancel()

	rule, err := h.commissions.SetRuleActive(ctx, id, active)
	if handleServiceError(c, h.logger, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse(message, toRuleView(*rule)))
}

func (h *CommissionsHTTPHandler) ActivateRule(c *gin.Context) {
	h.setRuleActive(c, true, "Commission rule activated")
}

func (h *CommissionsHTTPHandler) DeactivateRule(c *gin.Context) {
	h.setRuleActive(c, false, "Commission rule deactivated")
}

func (h *CommissionsHTTPHandler) DeleteRule(c *gin.Context) {
	id, ok := parseID(c, "rule")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.timeouts.Write)
	defer cancel()

	if handleServiceError(c, h.logger, h.commissions.DeleteRule(ctx, id)) {
		return
	}

	c.Status(http.StatusNoContent)
}
