package handler

import (
	"fmt"
	"html"
	"net/http"

	"github.com/cleberrangel/houseforge-api/internal/estimator"
	"github.com/cleberrangel/houseforge-api/internal/middleware"
	"github.com/cleberrangel/houseforge-api/internal/model"
	"github.com/cleberrangel/houseforge-api/internal/service"
	"github.com/gin-gonic/gin"
)

// EstimateHandler expõe o estimador na API de máquina
type EstimateHandler struct {
	estimates *service.EstimateService
}

// NewEstimateHandler cria o handler de estimativas
func NewEstimateHandler(estimates *service.EstimateService) *EstimateHandler {
	return &EstimateHandler{estimates: estimates}
}

// exportRequest é o payload da exportação: parâmetros mais um título opcional
type exportRequest struct {
	model.EstimateRequest
	Title string `json:"title"`
}

// Estimate calcula uma estimativa
// @Summary      Calcula estimativa de obra
// @Description  Retorna materiais, custos nas três faixas e cronograma
// @Tags         estimates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body model.EstimateRequest true "Parâmetros da obra"
// @Success      200 {object} model.Response
// @Failure      400 {object} model.ErrorResponse
// @Failure      401 {object} model.ErrorResponse
// @Failure      429 {object} model.ErrorResponse
// @Router       /api/v1/estimates [post]
func (h *EstimateHandler) Estimate(c *gin.Context) {
	var req model.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "payload inválido", err)
		return
	}

	result, err := h.estimates.Estimate(c.Request.Context(), "", req.Input())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Data:    result,
		Meta:    &model.Meta{ModelVersion: result.ModelVersion},
	})
}

// Summary calcula a estimativa e retorna só o resumo da faixa selecionada
// @Summary      Resumo da estimativa
// @Tags         estimates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body model.EstimateRequest true "Parâmetros da obra"
// @Success      200 {object} model.Response
// @Failure      400 {object} model.ErrorResponse
// @Router       /api/v1/estimates/summary [post]
func (h *EstimateHandler) Summary(c *gin.Context) {
	var req model.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "payload inválido", err)
		return
	}

	result, err := h.estimates.Estimate(c.Request.Context(), "", req.Input())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Data:    service.Summarize(result),
		Meta:    &model.Meta{ModelVersion: result.ModelVersion},
	})
}

// Export calcula a estimativa e devolve a planilha
// @Summary      Exporta estimativa em Excel
// @Tags         estimates
// @Accept       json
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        request body exportRequest true "Parâmetros da obra"
// @Success      200 {file} binary
// @Failure      400 {object} model.ErrorResponse
// @Router       /api/v1/estimates/export [post]
func (h *EstimateHandler) Export(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "payload inválido", err)
		return
	}

	title := middleware.SanitizeTitle(req.Title)
	buf, err := h.estimates.Export(c.Request.Context(), title, req.Input())
	if err != nil {
		handleError(c, err)
		return
	}

	sendWorkbook(c, title, estimator.ParseBudgetTier(req.BudgetTier), buf.Bytes())
}

// sendWorkbook grava a planilha como anexo
func sendWorkbook(c *gin.Context, title string, tier estimator.BudgetTier, data []byte) {
	name := "estimativa"
	if title != "" {
		name = middleware.SanitizeFilename(html.UnescapeString(title))
	}
	filename := fmt.Sprintf("%s_%s.xlsx", name, tier)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", len(data)))
	c.Header("X-Budget-Tier", string(tier))
	c.Data(http.StatusOK, xlsxContentType, data)
}
