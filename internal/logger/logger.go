package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/cleberrangel/houseforge-api/internal/estimator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type ctxKey string

const (
	RequestIDKey ctxKey = "request_id"
	LoggerKey    ctxKey = "logger"
	UserIDKey    ctxKey = "user_id"
	UsernameKey  ctxKey = "username"
	ProjectIDKey ctxKey = "project_id"
)

var globalLogger zerolog.Logger

// Init inicializa o logger global
func Init(level string, jsonFormat bool) {
	var output io.Writer = os.Stdout
	if !jsonFormat {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}
	initWith(output, level)
}

func initWith(output io.Writer, level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	globalLogger = zerolog.New(output).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "houseforge-api").
		Str("model_version", estimator.ModelVersion).
		Logger()

	InitAudit()
}

// Global retorna o logger global
func Global() *zerolog.Logger {
	return &globalLogger
}

// Get retorna logger do contexto ou global
func Get(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return &globalLogger
	}
	if l, ok := ctx.Value(LoggerKey).(*zerolog.Logger); ok {
		return l
	}
	return &globalLogger
}

// FromGin extrai o logger do contexto Gin
func FromGin(c *gin.Context) *zerolog.Logger {
	return Get(c.Request.Context())
}

func withLogger(ctx context.Context, l zerolog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, &l)
}

// WithRequestID inicia o logger da requisição
func WithRequestID(ctx context.Context, requestID string) context.Context {
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	return withLogger(ctx, globalLogger.With().Str("request_id", requestID).Logger())
}

// WithUserInfo adiciona o usuário autenticado (dono das obras)
func WithUserInfo(ctx context.Context, userID, username string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	ctx = context.WithValue(ctx, UsernameKey, username)
	return withLogger(ctx, Get(ctx).With().
		Str("user_id", userID).
		Str("username", username).
		Logger())
}

// WithProject marca o contexto com a obra em operação. Logs e eventos de
// auditoria seguintes levam project_id.
func WithProject(ctx context.Context, projectID string) context.Context {
	if projectID == "" || GetProjectID(ctx) == projectID {
		return ctx
	}
	ctx = context.WithValue(ctx, ProjectIDKey, projectID)
	return withLogger(ctx, Get(ctx).With().Str("project_id", projectID).Logger())
}

// WithEstimate adiciona os parâmetros de entrada da estimativa ao logger.
// A faixa é registrada como recebida.
func WithEstimate(ctx context.Context, in estimator.Input) context.Context {
	return withLogger(ctx, Get(ctx).With().
		Float64("square_feet", in.SquareFeet).
		Int("rooms", in.Rooms).
		Int("floors", in.Floors).
		Int("bathrooms", in.Bathrooms).
		Str("budget_tier", in.BudgetTier).
		Logger())
}

func stringValue(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// GetRequestID extrai request_id do contexto
func GetRequestID(ctx context.Context) string {
	return stringValue(ctx, RequestIDKey)
}

// GetUserID extrai user_id do contexto
func GetUserID(ctx context.Context) string {
	return stringValue(ctx, UserIDKey)
}

// GetUsername extrai username do contexto
func GetUsername(ctx context.Context) string {
	return stringValue(ctx, UsernameKey)
}

// GetProjectID extrai project_id do contexto
func GetProjectID(ctx context.Context) string {
	return stringValue(ctx, ProjectIDKey)
}
