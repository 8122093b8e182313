package model

import (
	"time"

	"github.com/cleberrangel/houseforge-api/internal/estimator"
)

// ProjectStatus é o estágio de execução de uma obra
type ProjectStatus string

const (
	StatusPlanning   ProjectStatus = "planning"
	StatusInProgress ProjectStatus = "in_progress"
	StatusCompleted  ProjectStatus = "completed"
	StatusCancelled  ProjectStatus = "cancelled"
)

// Limites dos campos de texto da obra, em runas antes do escape de HTML.
// As colunas guardam o texto escapado e por isso são mais largas.
const (
	MaxTitleLength        = 200
	MaxLocationLength     = 200
	MaxPropertyTypeLength = 100
	MaxDescriptionLength  = 5000
)

// transições permitidas a partir de cada status
var statusTransitions = map[ProjectStatus][]ProjectStatus{
	StatusPlanning:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

// IsValid indica se o status é conhecido
func (s ProjectStatus) IsValid() bool {
	switch s {
	case StatusPlanning, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo indica se a obra pode passar de s para next.
// completed e cancelled são finais.
func (s ProjectStatus) CanTransitionTo(next ProjectStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Project é uma obra com a estimativa calculada na criação ou no último recálculo
type Project struct {
	ID           string            `json:"id"`
	OwnerID      string            `json:"owner_id"`
	Title        string            `json:"title"`
	Location     string            `json:"location"`
	PropertyType string            `json:"property_type"`
	Description  string            `json:"description"`
	Status       ProjectStatus     `json:"status"`
	Input        estimator.Input   `json:"inputs"`
	Estimate     *estimator.Result `json:"estimate,omitempty"`
	ModelVersion string            `json:"model_version"`
	TotalCost    float64           `json:"total_cost"`
	TotalDays    int               `json:"total_days"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// ProjectDetails são os campos descritivos, que não afetam a estimativa
type ProjectDetails struct {
	Title        string `json:"title"`
	Location     string `json:"location"`
	PropertyType string `json:"property_type"`
	Description  string `json:"description"`
}
