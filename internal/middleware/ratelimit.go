package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/cleberrangel/houseforge-api/internal/logger"
	"github.com/cleberrangel/houseforge-api/internal/metrics"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitConfig define o limite por cliente
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
	// clientes sem requisições há mais que IdleTTL são descartados
	IdleTTL time.Duration
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter mantém um token bucket por IP de cliente
type RateLimiter struct {
	config RateLimitConfig
	limit  rate.Limit

	mu      sync.Mutex
	clients map[string]*clientLimiter
}

// NewRateLimiter cria o limitador; valores não positivos usam 60/min e burst 10
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = 60
	}
	if config.Burst <= 0 {
		config.Burst = 10
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = 10 * time.Minute
	}

	return &RateLimiter{
		config:  config,
		limit:   rate.Limit(float64(config.RequestsPerMinute) / 60),
		clients: make(map[string]*clientLimiter),
	}
}

// Allow consome um token do cliente
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	cl, ok := l.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.config.Burst)}
		l.clients[key] = cl
	}
	cl.lastSeen = time.Now()
	l.mu.Unlock()

	return cl.limiter.Allow()
}

// Evict descarta clientes ociosos e retorna quantos foram removidos
func (l *RateLimiter) Evict() int {
	cutoff := time.Now().Add(-l.config.IdleTTL)
	removed := 0

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, cl := range l.clients {
		if cl.lastSeen.Before(cutoff) {
			delete(l.clients, key)
			removed++
		}
	}
	return removed
}

// Middleware recusa com 429 quando o cliente excede o limite
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	retryAfter := strconv.Itoa(int((time.Minute / time.Duration(l.config.RequestsPerMinute)).Seconds()) + 1)

	return func(c *gin.Context) {
		if l.Allow(c.ClientIP()) {
			c.Next()
			return
		}

		metrics.Get().IncrementRateLimited()
		logger.FromGin(c).Warn().
			Str("client_ip", c.ClientIP()).
			Str("path", c.Request.URL.Path).
			Msg("Limite de requisições excedido")

		c.Header("Retry-After", retryAfter)
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"success": false,
			"error":   "Limite de requisições excedido",
			"code":    "RATE_LIMITED",
		})
	}
}

// StartEviction descarta clientes ociosos periodicamente até stop ser fechado
func (l *RateLimiter) StartEviction(stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(l.config.IdleTTL)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.Evict()
			case <-stop:
				return
			}
		}
	}()
}
