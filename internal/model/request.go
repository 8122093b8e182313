package model

import "github.com/cleberrangel/houseforge-api/internal/estimator"

// EstimateRequest é o payload de entrada de uma estimativa. Campos numéricos
// não usam binding:"required" para que zero chegue à validação do estimador
// e gere a mensagem por campo.
type EstimateRequest struct {
	SquareFeet float64 `json:"square_feet"`
	Rooms      int     `json:"rooms"`
	Floors     int     `json:"floors"`
	Bathrooms  int     `json:"bathrooms"`
	BudgetTier string  `json:"budget_tier"`
}

// Input converte o payload para o estimador
func (r EstimateRequest) Input() estimator.Input {
	return estimator.Input{
		SquareFeet: r.SquareFeet,
		Rooms:      r.Rooms,
		Floors:     r.Floors,
		Bathrooms:  r.Bathrooms,
		BudgetTier: r.BudgetTier,
	}
}

// CreateProjectRequest cria uma obra e calcula a estimativa
type CreateProjectRequest struct {
	ProjectDetails
	EstimateRequest
}

// UpdateProjectRequest altera uma obra. Campos nulos não são alterados; se
// qualquer parâmetro da estimativa mudar, ela é recalculada por inteiro.
type UpdateProjectRequest struct {
	Title        *string  `json:"title"`
	Location     *string  `json:"location"`
	PropertyType *string  `json:"property_type"`
	Description  *string  `json:"description"`
	SquareFeet   *float64 `json:"square_feet"`
	Rooms        *int     `json:"rooms"`
	Floors       *int     `json:"floors"`
	Bathrooms    *int     `json:"bathrooms"`
	BudgetTier   *string  `json:"budget_tier"`
}

// ChangesEstimate indica se algum parâmetro da estimativa foi informado
func (r UpdateProjectRequest) ChangesEstimate() bool {
	return r.SquareFeet != nil || r.Rooms != nil || r.Floors != nil ||
		r.Bathrooms != nil || r.BudgetTier != nil
}

// StatusRequest altera o status de uma obra
type StatusRequest struct {
	Status ProjectStatus `json:"status" binding:"required"`
}

// Response representa a resposta padrão da API
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

// Meta contém metadados da resposta
type Meta struct {
	Total        int    `json:"total,omitempty"`
	ModelVersion string `json:"model_version,omitempty"`
}

// ErrorResponse representa uma resposta de erro
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    string `json:"code,omitempty"`
}
