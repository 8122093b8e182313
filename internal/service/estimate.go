package service

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/cleberrangel/houseforge-api/internal/estimator"
	"github.com/cleberrangel/houseforge-api/internal/logger"
	"github.com/cleberrangel/houseforge-api/internal/metrics"
)

// EstimateService executa o estimador registrando métricas e auditoria.
// O estimador em si não tem efeitos colaterais.
type EstimateService struct{}

// NewEstimateService cria o serviço de estimativas
func NewEstimateService() *EstimateService {
	return &EstimateService{}
}

// Estimate calcula a estimativa. resourceID identifica a obra quando houver.
func (s *EstimateService) Estimate(ctx context.Context, resourceID string, in estimator.Input) (estimator.Result, error) {
	ctx = logger.WithEstimate(logger.WithProject(ctx, resourceID), in)

	start := time.Now()
	result, err := estimator.Estimate(in)
	metrics.Get().IncrementEstimate(err == nil, time.Since(start))

	if err != nil {
		logger.Get(ctx).Debug().Err(err).Msg("Estimativa rejeitada")
		return estimator.Result{}, err
	}
	if !strings.EqualFold(result.RequestedBudgetTier, string(result.SelectedBudgetTier)) {
		logger.Get(ctx).Debug().
			Str("selected_budget_tier", string(result.SelectedBudgetTier)).
			Msg("Faixa desconhecida, usando medium")
	}

	selected := result.Selected()
	logger.AuditEstimate(ctx, logger.AuditActionEstimateRun, resourceID,
		string(result.SelectedBudgetTier), selected.TotalCost, result.Timeline.TotalDays)

	return result, nil
}

// Export calcula a estimativa e gera a planilha
func (s *EstimateService) Export(ctx context.Context, title string, in estimator.Input) (*bytes.Buffer, error) {
	result, err := s.Estimate(ctx, "", in)
	if err != nil {
		return nil, err
	}
	return s.Workbook(ctx, "", title, in, result)
}

// Workbook gera a planilha de uma estimativa já calculada
func (s *EstimateService) Workbook(ctx context.Context, resourceID, title string, in estimator.Input, result estimator.Result) (*bytes.Buffer, error) {
	ctx = logger.WithProject(ctx, resourceID)
	buf, err := EstimateWorkbook(title, in, result)
	metrics.Get().IncrementExport(err == nil)
	if err != nil {
		logger.Get(ctx).Error().Err(err).Msg("Erro ao gerar planilha")
		return nil, err
	}

	selected := result.Selected()
	logger.AuditEstimate(ctx, logger.AuditActionEstimateExport, resourceID,
		string(result.SelectedBudgetTier), selected.TotalCost, result.Timeline.TotalDays)
	return buf, nil
}
