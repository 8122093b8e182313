package websocket

import (
	"net/http"

	"github.com/cleberrangel/houseforge-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware autentica a conexão pelo cookie de sessão ou, para clientes
// que não enviam cookies no handshake, pelo parâmetro session_id
func AuthMiddleware(auth *middleware.BasicAuthMiddleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(auth.CookieName())
		if err != nil || sessionID == "" {
			sessionID = c.Query("session_id")
		}
		if sessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Sessão não encontrada",
				"code":    "SESSION_NOT_FOUND",
			})
			return
		}

		session, valid := auth.GetSession(sessionID)
		if !valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Sessão inválida ou expirada",
				"code":    "SESSION_INVALID",
			})
			return
		}

		c.Set("session", session)
		c.Set("user_id", session.UserID)
		c.Set("username", session.Username)

		c.Next()
	}
}
