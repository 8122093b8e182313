package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cleberrangel/houseforge-api/internal/logger"
	"github.com/cleberrangel/houseforge-api/internal/metrics"
	"github.com/cleberrangel/houseforge-api/internal/middleware"
	"github.com/cleberrangel/houseforge-api/internal/repository"
)

var (
	ErrUserNotFound       = errors.New("usuário não encontrado")
	ErrInvalidCredentials = errors.New("credenciais inválidas")
	ErrUserAlreadyExists  = errors.New("usuário já existe")
	ErrInvalidUser        = errors.New("usuário ou senha em formato inválido")
)

// UserStore é a persistência de usuários usada pelo serviço
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*repository.User, error)
	Create(ctx context.Context, username, passwordHash string) (*repository.User, error)
	UpdatePassword(ctx context.Context, username, passwordHash string) error
	Delete(ctx context.Context, username string) error
	Credentials(ctx context.Context) (map[string]string, error)
}

// AuthConfig configura sessões e o usuário administrador inicial
type AuthConfig struct {
	SessionDuration time.Duration
	CookieSecure    bool
	AdminUsername   string
	AdminPassword   string
}

// AuthService handles authentication business logic
type AuthService struct {
	users          UserStore
	authMiddleware *middleware.BasicAuthMiddleware
	csrfMiddleware *middleware.CSRFMiddleware
}

// LoginResult é o resultado de um login bem sucedido
type LoginResult struct {
	SessionID string
	CSRFToken string
	Session   *middleware.Session
}

// NewAuthService cria o serviço e carrega as credenciais do banco
func NewAuthService(ctx context.Context, users UserStore, cfg AuthConfig) (*AuthService, error) {
	if cfg.SessionDuration <= 0 {
		cfg.SessionDuration = 24 * time.Hour
	}

	s := &AuthService{
		users: users,
		authMiddleware: middleware.NewBasicAuthMiddleware(middleware.BasicAuthConfig{
			SessionDuration: cfg.SessionDuration,
			CookieName:      "session_id",
			CookieSecure:    cfg.CookieSecure,
			CookieHTTPOnly:  true,
		}),
		csrfMiddleware: middleware.NewCSRFMiddleware(middleware.CSRFConfig{
			TokenDuration: cfg.SessionDuration,
			CookieSecure:  cfg.CookieSecure,
			CookiePath:    "/",
		}),
	}

	if err := s.Reload(ctx); err != nil {
		return nil, fmt.Errorf("carregar usuários: %w", err)
	}
	if cfg.AdminUsername != "" {
		if err := s.ensureUser(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			return nil, fmt.Errorf("criar administrador: %w", err)
		}
	}
	return s, nil
}

// GetAuthMiddleware returns the authentication middleware
func (s *AuthService) GetAuthMiddleware() *middleware.BasicAuthMiddleware {
	return s.authMiddleware
}

// GetCSRFMiddleware returns the CSRF middleware
func (s *AuthService) GetCSRFMiddleware() *middleware.CSRFMiddleware {
	return s.csrfMiddleware
}

// Reload recarrega todas as credenciais do banco
func (s *AuthService) Reload(ctx context.Context) error {
	creds, err := s.users.Credentials(ctx)
	if err != nil {
		return err
	}
	s.authMiddleware.ReplaceUsers(creds)
	return nil
}

func (s *AuthService) ensureUser(ctx context.Context, username, password string) error {
	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	return s.CreateUser(ctx, username, password)
}

// CreateUser creates a new user with hashed password
func (s *AuthService) CreateUser(ctx context.Context, username, password string) error {
	username = middleware.SanitizeUsername(username)
	if !middleware.ValidateUsername(username) || !middleware.ValidatePassword(password) {
		return ErrInvalidUser
	}

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrUserAlreadyExists
	}

	passwordHash, err := middleware.HashPassword(password)
	if err != nil {
		return err
	}
	if _, err := s.users.Create(ctx, username, passwordHash); err != nil {
		return err
	}

	s.authMiddleware.AddUser(username, passwordHash)
	logger.AuditFromGin(ctx, logger.AuditActionUserCreate, username, username, "user", username, true)
	return nil
}

// UpdateUserPassword troca a senha do usuário
func (s *AuthService) UpdateUserPassword(ctx context.Context, username, newPassword string) error {
	if !middleware.ValidatePassword(newPassword) {
		return ErrInvalidUser
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	passwordHash, err := middleware.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, username, passwordHash); err != nil {
		return err
	}

	s.authMiddleware.AddUser(username, passwordHash)
	return nil
}

// DeleteUser remove o usuário e encerra as sessões dele
func (s *AuthService) DeleteUser(ctx context.Context, username string) error {
	if err := s.users.Delete(ctx, username); err != nil {
		return err
	}
	s.authMiddleware.RemoveUser(username)
	return nil
}

// Login valida as credenciais e abre uma sessão com token CSRF
func (s *AuthService) Login(ctx context.Context, username, password, clientIP string) (*LoginResult, error) {
	username = middleware.SanitizeUsername(username)
	password = middleware.SanitizePassword(password)

	if !s.authMiddleware.ValidateCredentials(username, password) {
		metrics.Get().IncrementLogin(false)
		logger.Audit(ctx, logger.AuditEvent{
			Action:   logger.AuditActionLoginFailed,
			Username: username,
			Resource: "session",
			ClientIP: clientIP,
			Success:  false,
			Error:    ErrInvalidCredentials.Error(),
		})
		return nil, ErrInvalidCredentials
	}

	sessionID, err := s.authMiddleware.CreateSession(username)
	if err != nil {
		return nil, fmt.Errorf("criar sessão: %w", err)
	}
	session, _ := s.authMiddleware.GetSession(sessionID)

	token, err := s.csrfMiddleware.GenerateToken(sessionID)
	if err != nil {
		s.authMiddleware.DeleteSession(sessionID)
		return nil, fmt.Errorf("gerar token CSRF: %w", err)
	}

	metrics.Get().IncrementLogin(true)
	logger.Audit(ctx, logger.AuditEvent{
		Action:   logger.AuditActionLogin,
		UserID:   session.UserID,
		Username: session.Username,
		Resource: "session",
		ClientIP: clientIP,
		Success:  true,
	})

	return &LoginResult{SessionID: sessionID, CSRFToken: token, Session: session}, nil
}

// Logout encerra a sessão e o token CSRF dela
func (s *AuthService) Logout(ctx context.Context, sessionID string) {
	session, ok := s.authMiddleware.GetSession(sessionID)
	s.authMiddleware.DeleteSession(sessionID)
	s.csrfMiddleware.DeleteToken(sessionID)
	if !ok {
		return
	}

	logger.AuditFromGin(ctx, logger.AuditActionLogout, session.UserID, session.Username, "session", "", true)
}

// StartSessionCleanup remove sessões e tokens expirados periodicamente até
// o contexto ser cancelado
func (s *AuthService) StartSessionCleanup(ctx context.Context, every time.Duration) {
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sessions := s.authMiddleware.CleanupExpiredSessions()
				tokens := s.csrfMiddleware.CleanupExpiredTokens()
				if sessions > 0 || tokens > 0 {
					logger.Global().Debug().
						Int("sessions", sessions).
						Int("csrf_tokens", tokens).
						Msg("Sessões expiradas removidas")
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
