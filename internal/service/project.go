package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cleberrangel/houseforge-api/internal/cache"
	"github.com/cleberrangel/houseforge-api/internal/estimator"
	"github.com/cleberrangel/houseforge-api/internal/logger"
	"github.com/cleberrangel/houseforge-api/internal/metrics"
	"github.com/cleberrangel/houseforge-api/internal/middleware"
	"github.com/cleberrangel/houseforge-api/internal/model"
	"github.com/cleberrangel/houseforge-api/internal/websocket"
	"github.com/google/uuid"
)

// ProjectStore é a persistência de obras usada pelo serviço
type ProjectStore interface {
	Create(ctx context.Context, p *model.Project) error
	GetByID(ctx context.Context, id string) (*model.Project, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Project, error)
	Update(ctx context.Context, p *model.Project) error
	UpdateStatus(ctx context.Context, id string, from, to model.ProjectStatus) error
	Delete(ctx context.Context, id string) error
}

// Notifier entrega eventos de obra ao dono
type Notifier interface {
	NotifyProject(ownerID, eventType, projectID string, data interface{})
}

// ProjectService implementa o ciclo de vida das obras. Todas as operações
// são restritas ao dono.
type ProjectService struct {
	store     ProjectStore
	estimates *EstimateService
	cache     *cache.Cache
	notifier  Notifier
}

// NewProjectService cria o serviço de obras. notifier pode ser nil.
func NewProjectService(store ProjectStore, estimates *EstimateService, c *cache.Cache, notifier Notifier) *ProjectService {
	return &ProjectService{
		store:     store,
		estimates: estimates,
		cache:     c,
		notifier:  notifier,
	}
}

func cacheKey(id string) string {
	return "project:" + id
}

// Create valida os dados, calcula a estimativa uma única vez e grava a obra
// com status planning. Entrada inválida não grava nada.
func (s *ProjectService) Create(ctx context.Context, ownerID string, req model.CreateProjectRequest) (*model.Project, error) {
	details, err := cleanDetails(req.ProjectDetails)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	ctx = logger.WithProject(ctx, id)
	in := req.EstimateRequest.Input()
	result, err := s.estimates.Estimate(ctx, id, in)
	if err != nil {
		return nil, err
	}

	p := &model.Project{
		ID:           id,
		OwnerID:      ownerID,
		Title:        details.Title,
		Location:     details.Location,
		PropertyType: details.PropertyType,
		Description:  details.Description,
		Status:       model.StatusPlanning,
	}
	applyEstimate(p, in, result)

	if err := s.store.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("erro ao gravar obra: %w", err)
	}

	metrics.Get().IncrementProjectCreated()
	s.audit(ctx, logger.AuditActionProjectCreate, map[string]interface{}{
		"budget_tier": p.Input.BudgetTier,
		"total_cost":  p.TotalCost,
	})
	s.notify(p.OwnerID, websocket.EventProjectCreated, p.ID, Summarize(result))

	logger.Get(ctx).Info().
		Str("owner_id", ownerID).
		Float64("total_cost", p.TotalCost).
		Int("total_days", p.TotalDays).
		Msg("Obra criada")

	return p, nil
}

// Get retorna a obra com a estimativa gravada
func (s *ProjectService) Get(ctx context.Context, ownerID, id string) (*model.Project, error) {
	ctx = logger.WithProject(ctx, id)
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != ownerID {
		logger.Get(ctx).Warn().Str("owner_id", ownerID).Msg("Acesso negado à obra de outro usuário")
		return nil, model.ErrForbidden
	}
	return p, nil
}

// List retorna as obras do usuário, mais recentes primeiro, sem a estimativa
// completa
func (s *ProjectService) List(ctx context.Context, ownerID string) ([]model.Project, error) {
	return s.store.ListByOwner(ctx, ownerID)
}

// Update altera campos descritivos e, se algum parâmetro mudar, recalcula
// e substitui a estimativa inteira
func (s *ProjectService) Update(ctx context.Context, ownerID, id string, req model.UpdateProjectRequest) (*model.Project, error) {
	ctx = logger.WithProject(ctx, id)
	p, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	// só os campos informados são sanitizados; os gravados já estão limpos
	updated := *p
	if req.Title != nil {
		updated.Title = middleware.SanitizeTitle(*req.Title)
		if strings.TrimSpace(updated.Title) == "" {
			return nil, fmt.Errorf("%w: título obrigatório", model.ErrInvalidProject)
		}
	}
	if req.Location != nil {
		updated.Location = middleware.SanitizeText(*req.Location, model.MaxLocationLength)
	}
	if req.PropertyType != nil {
		updated.PropertyType = middleware.SanitizeText(*req.PropertyType, model.MaxPropertyTypeLength)
	}
	if req.Description != nil {
		updated.Description = middleware.SanitizeText(*req.Description, model.MaxDescriptionLength)
	}

	reestimated := false
	if req.ChangesEstimate() {
		in := p.Input
		if req.SquareFeet != nil {
			in.SquareFeet = *req.SquareFeet
		}
		if req.Rooms != nil {
			in.Rooms = *req.Rooms
		}
		if req.Floors != nil {
			in.Floors = *req.Floors
		}
		if req.Bathrooms != nil {
			in.Bathrooms = *req.Bathrooms
		}
		if req.BudgetTier != nil {
			in.BudgetTier = *req.BudgetTier
		}

		result, err := s.estimates.Estimate(ctx, id, in)
		if err != nil {
			return nil, err
		}
		applyEstimate(&updated, in, result)
		reestimated = true
	}

	if err := s.store.Update(ctx, &updated); err != nil {
		return nil, err
	}
	s.cache.Delete(cacheKey(id))

	metrics.Get().IncrementProjectUpdated()
	s.audit(ctx, logger.AuditActionProjectUpdate, map[string]interface{}{
		"reestimated": reestimated,
	})
	if reestimated {
		s.notify(updated.OwnerID, websocket.EventProjectEstimated, id, Summarize(*updated.Estimate))
	}

	return &updated, nil
}

// UpdateStatus move a obra para next se a transição for permitida
func (s *ProjectService) UpdateStatus(ctx context.Context, ownerID, id string, next model.ProjectStatus) (*model.Project, error) {
	if !next.IsValid() {
		return nil, fmt.Errorf("%w: status desconhecido %q", model.ErrInvalidProject, next)
	}

	ctx = logger.WithProject(ctx, id)
	p, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if !p.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", model.ErrInvalidStatusTransition, p.Status, next)
	}

	// a transição é condicional ao status lido: concorrentes não se sobrepõem
	if err := s.store.UpdateStatus(ctx, id, p.Status, next); err != nil {
		s.cache.Delete(cacheKey(id))
		return nil, err
	}
	s.cache.Delete(cacheKey(id))

	previous := p.Status
	updated := *p
	updated.Status = next
	updated.UpdatedAt = time.Now()

	metrics.Get().IncrementStatusChange()
	s.audit(ctx, logger.AuditActionProjectStatus, map[string]interface{}{
		"from": previous,
		"to":   next,
	})
	s.notify(updated.OwnerID, websocket.EventProjectStatus, id, map[string]model.ProjectStatus{
		"from": previous,
		"to":   next,
	})

	return &updated, nil
}

// Delete remove a obra
func (s *ProjectService) Delete(ctx context.Context, ownerID, id string) error {
	ctx = logger.WithProject(ctx, id)
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(cacheKey(id))

	metrics.Get().IncrementProjectDeleted()
	s.audit(ctx, logger.AuditActionProjectDelete, nil)
	s.notify(ownerID, websocket.EventProjectDeleted, id, nil)
	return nil
}

// load lê a obra pelo cache e, na falta, do banco
func (s *ProjectService) load(ctx context.Context, id string) (*model.Project, error) {
	if cached, ok := s.cache.Get(cacheKey(id)); ok {
		if p, ok := cached.(*model.Project); ok {
			copied := *p
			return &copied, nil
		}
	}

	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(cacheKey(id), p)

	copied := *p
	return &copied, nil
}

// audit registra a operação na obra marcada em ctx por logger.WithProject
func (s *ProjectService) audit(ctx context.Context, action logger.AuditAction, details map[string]interface{}) {
	logger.Audit(ctx, logger.AuditEvent{
		Action:   action,
		Resource: "project",
		Success:  true,
		Details:  details,
	})
}

func (s *ProjectService) notify(ownerID, eventType, id string, data interface{}) {
	if s.notifier != nil {
		s.notifier.NotifyProject(ownerID, eventType, id, data)
	}
}

// applyEstimate grava na obra a estimativa e os parâmetros usados. A faixa
// gravada é a resolvida pelo estimador.
func applyEstimate(p *model.Project, in estimator.Input, r estimator.Result) {
	in.BudgetTier = string(r.SelectedBudgetTier)
	p.Input = in
	p.Estimate = &r
	p.ModelVersion = r.ModelVersion
	p.TotalCost = r.Selected().TotalCost
	p.TotalDays = r.Timeline.TotalDays
}

func cleanDetails(d model.ProjectDetails) (model.ProjectDetails, error) {
	d.Title = middleware.SanitizeTitle(d.Title)
	d.Location = middleware.SanitizeText(d.Location, model.MaxLocationLength)
	d.PropertyType = middleware.SanitizeText(d.PropertyType, model.MaxPropertyTypeLength)
	d.Description = middleware.SanitizeText(d.Description, model.MaxDescriptionLength)

	if strings.TrimSpace(d.Title) == "" {
		return d, fmt.Errorf("%w: título obrigatório", model.ErrInvalidProject)
	}
	return d, nil
}
