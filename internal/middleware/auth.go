package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthConfig contém a configuração do middleware de autenticação
type AuthConfig struct {
	TokenAPI string
}

// BearerAuth retorna um middleware que valida o token Bearer da API de máquina
func BearerAuth(cfg AuthConfig) gin.HandlerFunc {
	expected := []byte(cfg.TokenAPI)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "header Authorization ausente", "AUTH_MISSING")
			return
		}

		// Extrai o token do formato "Bearer {token}"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortUnauthorized(c, "formato inválido, esperado: Bearer {token}", "AUTH_FORMAT")
			return
		}

		token := []byte(strings.TrimSpace(parts[1]))
		if len(expected) == 0 || subtle.ConstantTimeCompare(token, expected) != 1 {
			abortUnauthorized(c, "token inválido", "AUTH_INVALID")
			return
		}

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg, code string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   msg,
		"code":    code,
	})
}
