package middleware

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"sync"
	"time"

	"github.com/cleberrangel/houseforge-api/internal/logger"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// Session representa a sessão de um usuário logado
type Session struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// BasicAuthConfig contains configuration for basic authentication
type BasicAuthConfig struct {
	Users           map[string]string // username -> password hash
	SessionDuration time.Duration
	CookieName      string
	CookieDomain    string
	CookieSecure    bool
	CookieHTTPOnly  bool
}

// BasicAuthMiddleware guarda credenciais e sessões em memória. Todos os
// métodos podem ser chamados concorrentemente.
type BasicAuthMiddleware struct {
	config BasicAuthConfig

	mu       sync.RWMutex
	users    map[string]string
	sessions map[string]*Session // sessionID -> Session
}

// NewBasicAuthMiddleware creates a new basic auth middleware
func NewBasicAuthMiddleware(config BasicAuthConfig) *BasicAuthMiddleware {
	if config.SessionDuration == 0 {
		config.SessionDuration = 24 * time.Hour
	}
	if config.CookieName == "" {
		config.CookieName = "session_id"
	}

	users := make(map[string]string, len(config.Users))
	for u, h := range config.Users {
		users[u] = h
	}

	return &BasicAuthMiddleware{
		config:   config,
		users:    users,
		sessions: make(map[string]*Session),
	}
}

// CookieName retorna o nome do cookie de sessão
func (m *BasicAuthMiddleware) CookieName() string {
	return m.config.CookieName
}

// AddUser adiciona ou substitui as credenciais de um usuário
func (m *BasicAuthMiddleware) AddUser(username, passwordHash string) {
	m.mu.Lock()
	m.users[username] = passwordHash
	m.mu.Unlock()
}

// RemoveUser remove o usuário e encerra as sessões dele
func (m *BasicAuthMiddleware) RemoveUser(username string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.users, username)
	for id, s := range m.sessions {
		if s.Username == username {
			delete(m.sessions, id)
		}
	}
}

// ReplaceUsers troca todo o conjunto de credenciais
func (m *BasicAuthMiddleware) ReplaceUsers(users map[string]string) {
	fresh := make(map[string]string, len(users))
	for u, h := range users {
		fresh[u] = h
	}
	m.mu.Lock()
	m.users = fresh
	m.mu.Unlock()
}

// HashPassword creates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a password with its hash
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func generateSessionID() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

// CreateSession cria uma sessão para o usuário. O user_id é o próprio
// username, que também é o dono das obras.
func (m *BasicAuthMiddleware) CreateSession(username string) (string, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return "", err
	}

	now := time.Now()
	session := &Session{
		UserID:    username,
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(m.config.SessionDuration),
	}

	m.mu.Lock()
	m.sessions[sessionID] = session
	m.mu.Unlock()
	return sessionID, nil
}

// GetSession retorna uma cópia da sessão se ela existir e não tiver expirado
func (m *BasicAuthMiddleware) GetSession(sessionID string) (*Session, bool) {
	m.mu.RLock()
	session, exists := m.sessions[sessionID]
	m.mu.RUnlock()

	if !exists {
		return nil, false
	}
	if time.Now().After(session.ExpiresAt) {
		m.DeleteSession(sessionID)
		return nil, false
	}

	copied := *session
	return &copied, true
}

// DeleteSession removes a session
func (m *BasicAuthMiddleware) DeleteSession(sessionID string) {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
}

// ValidateCredentials checks if username and password are valid
func (m *BasicAuthMiddleware) ValidateCredentials(username, password string) bool {
	m.mu.RLock()
	hash, exists := m.users[username]
	m.mu.RUnlock()

	if !exists {
		return false
	}
	return CheckPassword(password, hash)
}

// SetSessionCookie grava o cookie de sessão na resposta
func (m *BasicAuthMiddleware) SetSessionCookie(c *gin.Context, sessionID string) {
	c.SetCookie(
		m.config.CookieName,
		sessionID,
		int(m.config.SessionDuration.Seconds()),
		"/",
		m.config.CookieDomain,
		m.config.CookieSecure,
		m.config.CookieHTTPOnly,
	)
}

// ClearSessionCookie expira o cookie de sessão
func (m *BasicAuthMiddleware) ClearSessionCookie(c *gin.Context) {
	c.SetCookie(m.config.CookieName, "", -1, "/", m.config.CookieDomain, m.config.CookieSecure, m.config.CookieHTTPOnly)
}

// RequireAuth exige uma sessão válida e adiciona o usuário ao contexto
// do gin e ao logger da requisição
func (m *BasicAuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(m.config.CookieName)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Sessão não encontrada",
				"code":    "SESSION_NOT_FOUND",
			})
			return
		}

		session, valid := m.GetSession(sessionID)
		if !valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Sessão inválida ou expirada",
				"code":    "SESSION_INVALID",
			})
			return
		}

		c.Set("session", session)
		c.Set("session_id", sessionID)
		c.Set("user_id", session.UserID)
		c.Set("username", session.Username)

		ctx := logger.WithUserInfo(c.Request.Context(), session.UserID, session.Username)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// CleanupExpiredSessions remove sessões expiradas e retorna quantas foram removidas
func (m *BasicAuthMiddleware) CleanupExpiredSessions() int {
	now := time.Now()
	removed := 0

	m.mu.Lock()
	defer m.mu.Unlock()
	for sessionID, session := range m.sessions {
		if now.After(session.ExpiresAt) {
			delete(m.sessions, sessionID)
			removed++
		}
	}
	return removed
}

// SessionCount retorna o número de sessões ativas
func (m *BasicAuthMiddleware) SessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
