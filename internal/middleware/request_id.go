package middleware

import (
	"regexp"
	"time"

	"github.com/cleberrangel/houseforge-api/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID é o header HTTP para request ID
const HeaderRequestID = "X-Request-ID"

// ids recebidos de proxies são aceitos só neste formato; o resto é trocado
var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// RequestID atribui um id a cada requisição e registra início e fim. Em
// rotas /projects/:id o logger da requisição já leva project_id.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(HeaderRequestID)
		if !requestIDPattern.MatchString(requestID) {
			requestID = uuid.New().String()[:8]
		}

		ctx := logger.WithRequestID(c.Request.Context(), requestID)
		if id := c.Param("id"); id != "" && ValidateProjectID(id) {
			ctx = logger.WithProject(ctx, id)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Header(HeaderRequestID, requestID)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		log := logger.Get(ctx)
		log.Debug().
			Str("method", c.Request.Method).
			Str("route", route).
			Str("client_ip", c.ClientIP()).
			Int64("content_length", c.Request.ContentLength).
			Msg("Request started")

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		// o logger pode ter ganhado user_id no RequireAuth
		log = logger.Get(c.Request.Context())
		logEvent := log.Info()
		if statusCode >= 400 {
			logEvent = log.Warn()
		}
		if statusCode >= 500 {
			logEvent = log.Error()
		}

		logEvent.
			Str("method", c.Request.Method).
			Str("route", route).
			Int("status", statusCode).
			Int("size", c.Writer.Size()).
			Dur("latency", duration).
			Msg("Request completed")
	}
}
