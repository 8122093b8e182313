package handler

import (
	"fmt"
	"net/http"

	"github.com/cleberrangel/houseforge-api/internal/estimator"
	"github.com/cleberrangel/houseforge-api/internal/middleware"
	"github.com/cleberrangel/houseforge-api/internal/model"
	"github.com/cleberrangel/houseforge-api/internal/service"
	"github.com/gin-gonic/gin"
)

// ProjectHandler expõe as obras do usuário logado
type ProjectHandler struct {
	projects  *service.ProjectService
	estimates *service.EstimateService
}

// NewProjectHandler cria o handler de obras
func NewProjectHandler(projects *service.ProjectService, estimates *service.EstimateService) *ProjectHandler {
	return &ProjectHandler{projects: projects, estimates: estimates}
}

// projectID valida o parâmetro :id; responde 404 se não for um UUID
func projectID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if !middleware.ValidateProjectID(id) {
		handleError(c, model.ErrProjectNotFound)
		return "", false
	}
	return id, true
}

// Create cria uma obra e calcula a estimativa
// @Summary      Cria obra
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        request body model.CreateProjectRequest true "Obra"
// @Success      201 {object} model.Response
// @Failure      400 {object} model.ErrorResponse
// @Router       /api/web/projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var req model.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "payload inválido", err)
		return
	}

	p, err := h.projects.Create(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, model.Response{
		Success: true,
		Data:    p,
		Meta:    &model.Meta{ModelVersion: p.ModelVersion},
	})
}

// List lista as obras do usuário
// @Summary      Lista obras
// @Tags         projects
// @Produce      json
// @Success      200 {object} model.Response
// @Router       /api/web/projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projects.List(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Data:    projects,
		Meta:    &model.Meta{Total: len(projects)},
	})
}

// Get retorna a obra com a estimativa gravada
// @Summary      Detalha obra
// @Tags         projects
// @Produce      json
// @Param        id path string true "ID da obra"
// @Success      200 {object} model.Response
// @Failure      403 {object} model.ErrorResponse
// @Failure      404 {object} model.ErrorResponse
// @Router       /api/web/projects/{id} [get]
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	p, err := h.projects.Get(c.Request.Context(), c.GetString("user_id"), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Data:    p,
		Meta:    &model.Meta{ModelVersion: p.ModelVersion},
	})
}

// Update altera a obra; mudanças nos parâmetros recalculam a estimativa
// @Summary      Altera obra
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id path string true "ID da obra"
// @Param        request body model.UpdateProjectRequest true "Campos alterados"
// @Success      200 {object} model.Response
// @Failure      400 {object} model.ErrorResponse
// @Failure      404 {object} model.ErrorResponse
// @Router       /api/web/projects/{id} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	var req model.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "payload inválido", err)
		return
	}

	p, err := h.projects.Update(c.Request.Context(), c.GetString("user_id"), id, req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Data:    p,
		Meta:    &model.Meta{ModelVersion: p.ModelVersion},
	})
}

// UpdateStatus muda o status da obra
// @Summary      Muda status da obra
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id path string true "ID da obra"
// @Param        request body model.StatusRequest true "Novo status"
// @Success      200 {object} model.Response
// @Failure      409 {object} model.ErrorResponse
// @Router       /api/web/projects/{id}/status [put]
func (h *ProjectHandler) UpdateStatus(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	var req model.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "payload inválido", err)
		return
	}

	p, err := h.projects.UpdateStatus(c.Request.Context(), c.GetString("user_id"), id, req.Status)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.Response{Success: true, Data: p})
}

// Delete remove a obra
// @Summary      Remove obra
// @Tags         projects
// @Param        id path string true "ID da obra"
// @Success      200 {object} model.Response
// @Failure      404 {object} model.ErrorResponse
// @Router       /api/web/projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	if err := h.projects.Delete(c.Request.Context(), c.GetString("user_id"), id); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.Response{Success: true})
}

// Export devolve a planilha da estimativa gravada, sem recalcular
// @Summary      Exporta estimativa da obra
// @Tags         projects
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id path string true "ID da obra"
// @Success      200 {file} binary
// @Failure      404 {object} model.ErrorResponse
// @Router       /api/web/projects/{id}/export [get]
func (h *ProjectHandler) Export(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	p, err := h.projects.Get(ctx, c.GetString("user_id"), id)
	if err != nil {
		handleError(c, err)
		return
	}
	if p.Estimate == nil {
		handleError(c, fmt.Errorf("obra %s sem estimativa gravada", p.ID))
		return
	}

	buf, err := h.estimates.Workbook(ctx, p.ID, p.Title, p.Input, *p.Estimate)
	if err != nil {
		handleError(c, err)
		return
	}

	sendWorkbook(c, p.Title, estimator.ParseBudgetTier(p.Input.BudgetTier), buf.Bytes())
}
