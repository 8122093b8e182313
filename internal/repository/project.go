package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cleberrangel/houseforge-api/internal/estimator"
	"github.com/cleberrangel/houseforge-api/internal/model"
)

// ProjectRepository persiste obras no PostgreSQL. A estimativa é gravada
// como JSONB exatamente como foi gerada, junto com a versão do modelo.
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository cria o repositório de obras
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `
	id, owner_id, title, location, property_type, description, status,
	square_feet, rooms, floors, bathrooms, budget_tier,
	model_version, total_cost, total_days, created_at, updated_at`

// Create grava uma nova obra
func (r *ProjectRepository) Create(ctx context.Context, p *model.Project) error {
	estimate, err := json.Marshal(p.Estimate)
	if err != nil {
		return fmt.Errorf("erro ao serializar estimativa: %w", err)
	}

	query := `
		INSERT INTO projects (
			id, owner_id, title, location, property_type, description, status,
			square_feet, rooms, floors, bathrooms, budget_tier,
			estimate, model_version, total_cost, total_days, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		p.ID, p.OwnerID, p.Title, p.Location, p.PropertyType, p.Description, p.Status,
		p.Input.SquareFeet, p.Input.Rooms, p.Input.Floors, p.Input.Bathrooms, p.Input.BudgetTier,
		estimate, p.ModelVersion, p.TotalCost, p.TotalDays,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// GetByID busca a obra com a estimativa completa
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*model.Project, error) {
	query := `SELECT ` + projectColumns + `, estimate FROM projects WHERE id = $1`

	var (
		p   model.Project
		raw []byte
	)
	dest := append(scanTargets(&p), &raw)
	if err := r.db.QueryRowContext(ctx, query, id).Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrProjectNotFound
		}
		return nil, err
	}

	var result estimator.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("estimativa corrompida na obra %s: %w", id, err)
	}
	p.Estimate = &result
	return &p, nil
}

// ListByOwner lista as obras do usuário, mais recentes primeiro, sem a
// estimativa completa
func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE owner_id = $1 ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(scanTargets(&p)...); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Update grava campos descritivos, parâmetros e estimativa numa única instrução
func (r *ProjectRepository) Update(ctx context.Context, p *model.Project) error {
	estimate, err := json.Marshal(p.Estimate)
	if err != nil {
		return fmt.Errorf("erro ao serializar estimativa: %w", err)
	}

	query := `
		UPDATE projects SET
			title = $2, location = $3, property_type = $4, description = $5,
			square_feet = $6, rooms = $7, floors = $8, bathrooms = $9, budget_tier = $10,
			estimate = $11, model_version = $12, total_cost = $13, total_days = $14,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		p.ID, p.Title, p.Location, p.PropertyType, p.Description,
		p.Input.SquareFeet, p.Input.Rooms, p.Input.Floors, p.Input.Bathrooms, p.Input.BudgetTier,
		estimate, p.ModelVersion, p.TotalCost, p.TotalDays,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrProjectNotFound
	}
	return err
}

// UpdateStatus muda o status somente se o atual ainda for from, evitando
// que duas transições concorrentes se sobreponham
func (r *ProjectRepository) UpdateStatus(ctx context.Context, id string, from, to model.ProjectStatus) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE projects SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`, id, from, to)
	if err != nil {
		return err
	}
	if err := requireAffected(result); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrInvalidStatusTransition
		}
		return err
	}
	return nil
}

// Delete remove a obra
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if err := requireAffected(result); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrProjectNotFound
		}
		return err
	}
	return nil
}

func scanTargets(p *model.Project) []interface{} {
	return []interface{}{
		&p.ID, &p.OwnerID, &p.Title, &p.Location, &p.PropertyType, &p.Description, &p.Status,
		&p.Input.SquareFeet, &p.Input.Rooms, &p.Input.Floors, &p.Input.Bathrooms, &p.Input.BudgetTier,
		&p.ModelVersion, &p.TotalCost, &p.TotalDays, &p.CreatedAt, &p.UpdatedAt,
	}
}
