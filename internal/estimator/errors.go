package estimator

import (
	"errors"
	"fmt"
)

// ErrInvalidInput indica parâmetros de obra fora do domínio aceito
var ErrInvalidInput = errors.New("parâmetros de estimativa inválidos")

// ValidationError descreve o campo rejeitado
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap permite errors.Is(err, ErrInvalidInput)
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
