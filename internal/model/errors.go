package model

import "errors"

var (
	// ErrProjectNotFound indica que a obra não existe
	ErrProjectNotFound = errors.New("obra não encontrada")

	// ErrForbidden indica que a obra pertence a outro usuário
	ErrForbidden = errors.New("obra pertence a outro usuário")

	// ErrInvalidStatusTransition indica uma mudança de status não permitida
	ErrInvalidStatusTransition = errors.New("transição de status inválida")

	// ErrInvalidProject indica dados descritivos inválidos (título, local...)
	ErrInvalidProject = errors.New("dados da obra inválidos")

	// ErrRateLimited indica que o cliente excedeu o limite de requisições
	ErrRateLimited = errors.New("limite de requisições excedido")
)
