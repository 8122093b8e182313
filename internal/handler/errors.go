package handler

import (
	"errors"
	"net/http"

	"github.com/cleberrangel/houseforge-api/internal/estimator"
	"github.com/cleberrangel/houseforge-api/internal/logger"
	"github.com/cleberrangel/houseforge-api/internal/model"
	"github.com/gin-gonic/gin"
)

// handleError converte erros de domínio na resposta HTTP correspondente
func handleError(c *gin.Context, err error) {
	var verr *estimator.ValidationError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "parâmetros da estimativa inválidos",
			Details: verr.Error(),
			Code:    "INVALID_INPUT",
		})
	case errors.Is(err, model.ErrInvalidProject):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "dados da obra inválidos",
			Details: err.Error(),
			Code:    "INVALID_INPUT",
		})
	case errors.Is(err, model.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Success: false,
			Error:   "obra não encontrada",
			Code:    "PROJECT_NOT_FOUND",
		})
	case errors.Is(err, model.ErrForbidden):
		c.JSON(http.StatusForbidden, model.ErrorResponse{
			Success: false,
			Error:   "acesso negado a esta obra",
			Code:    "FORBIDDEN",
		})
	case errors.Is(err, model.ErrInvalidStatusTransition):
		c.JSON(http.StatusConflict, model.ErrorResponse{
			Success: false,
			Error:   "transição de status inválida",
			Details: err.Error(),
			Code:    "INVALID_STATUS_TRANSITION",
		})
	case errors.Is(err, model.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, model.ErrorResponse{
			Success: false,
			Error:   "limite de requisições excedido",
			Details: "aguarde alguns segundos e tente novamente",
			Code:    "RATE_LIMITED",
		})
	default:
		logger.FromGin(c).Error().Err(err).Str("path", c.Request.URL.Path).Msg("Erro interno")
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "erro interno",
			Code:    "INTERNAL_ERROR",
		})
	}
}

// badRequest responde 400 para payloads que não puderam ser lidos
func badRequest(c *gin.Context, msg string, err error) {
	resp := model.ErrorResponse{
		Success: false,
		Error:   msg,
		Code:    "INVALID_INPUT",
	}
	if err != nil {
		resp.Details = err.Error()
	}
	c.JSON(http.StatusBadRequest, resp)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
