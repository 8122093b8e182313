package handler

import (
	"errors"
	"net/http"

	"github.com/cleberrangel/houseforge-api/internal/middleware"
	"github.com/cleberrangel/houseforge-api/internal/service"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login handles user login requests
func (h *AuthHandler) Login(c *gin.Context) {
	var loginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&loginRequest); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Dados de login inválidos",
			"details": err.Error(),
			"code":    "INVALID_INPUT",
		})
		return
	}

	if !middleware.ValidateUsername(middleware.SanitizeUsername(loginRequest.Username)) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Nome de usuário inválido",
			"code":    "INVALID_USERNAME",
		})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), loginRequest.Username, loginRequest.Password, c.ClientIP())
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Credenciais inválidas",
				"code":    "INVALID_CREDENTIALS",
			})
			return
		}
		handleError(c, err)
		return
	}

	h.authService.GetAuthMiddleware().SetSessionCookie(c, result.SessionID)
	// cookie legível pelo JavaScript, que reenvia o valor no header X-CSRF-Token
	h.authService.GetCSRFMiddleware().SetTokenCookie(c, result.CSRFToken)

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Login realizado com sucesso",
		"csrf_token": result.CSRFToken,
		"user": gin.H{
			"username":   result.Session.Username,
			"user_id":    result.Session.UserID,
			"expires_at": result.Session.ExpiresAt,
		},
	})
}

// Logout handles user logout requests
func (h *AuthHandler) Logout(c *gin.Context) {
	auth := h.authService.GetAuthMiddleware()

	if sessionID, err := c.Cookie(auth.CookieName()); err == nil {
		h.authService.Logout(c.Request.Context(), sessionID)
	}

	auth.ClearSessionCookie(c)
	h.authService.GetCSRFMiddleware().ClearTokenCookie(c)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logout realizado com sucesso",
	})
}

// GetCurrentUser returns information about the currently authenticated user
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	sessionID := c.GetString("session_id")
	csrf := h.authService.GetCSRFMiddleware()

	csrfToken, exists := csrf.GetToken(sessionID)
	if !exists {
		var err error
		csrfToken, err = csrf.GenerateToken(sessionID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Erro ao gerar token CSRF",
				"code":    "CSRF_TOKEN_ERROR",
			})
			return
		}
		csrf.SetTokenCookie(c, csrfToken)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"csrf_token": csrfToken,
		"user": gin.H{
			"username": c.GetString("username"),
			"user_id":  c.GetString("user_id"),
		},
	})
}

// UpdatePassword updates the current user's password
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var request struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,min=6"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Dados inválidos",
			"details": err.Error(),
			"code":    "INVALID_INPUT",
		})
		return
	}

	username := c.GetString("username")
	current := middleware.SanitizePassword(request.CurrentPassword)
	if !h.authService.GetAuthMiddleware().ValidateCredentials(username, current) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Senha atual incorreta",
			"code":    "INVALID_CURRENT_PASSWORD",
		})
		return
	}

	err := h.authService.UpdateUserPassword(c.Request.Context(), username, middleware.SanitizePassword(request.NewPassword))
	if err != nil {
		if errors.Is(err, service.ErrInvalidUser) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Nova senha deve ter entre 6 e 128 caracteres",
				"code":    "INVALID_PASSWORD",
			})
			return
		}
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Senha atualizada com sucesso",
	})
}
