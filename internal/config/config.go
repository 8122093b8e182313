package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config armazena as configurações da aplicação
type Config struct {
	TokenAPI string
	Port     string
	GinMode  string
	LogLevel string
	LogJSON  bool

	DB DBConfig

	SessionDuration time.Duration

	// limite do endpoint público de estimativas, por cliente
	EstimateRatePerMinute int
	EstimateBurst         int

	ProjectCacheTTL time.Duration

	// origens extras aceitas no handshake do WebSocket
	WSAllowedOrigins []string

	// usuário criado na inicialização, se ainda não existir
	AdminUsername string
	AdminPassword string
}

// DBConfig contém os parâmetros de conexão com o PostgreSQL
type DBConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
}

// ErrMissingToken indica que um token obrigatório não foi configurado
var ErrMissingToken = errors.New("token obrigatório não configurado")

// Load carrega as configurações do ambiente
func Load() (*Config, error) {
	// Tenta carregar .env de múltiplos locais
	_ = godotenv.Load()
	_ = godotenv.Load("../.env")

	cfg := &Config{
		TokenAPI:      os.Getenv("TOKEN_API"),
		Port:          getEnv("PORT", "8080"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "houseforge"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
	}

	if cfg.TokenAPI == "" {
		return nil, fmt.Errorf("TOKEN_API: %w", ErrMissingToken)
	}

	var err error
	if cfg.LogJSON, err = getBool("LOG_JSON", false); err != nil {
		return nil, err
	}
	if cfg.DB.MaxOpenConns, err = getInt("DB_MAX_OPEN_CONNS", 25); err != nil {
		return nil, err
	}

	hours, err := getInt("SESSION_HOURS", 24)
	if err != nil {
		return nil, err
	}
	cfg.SessionDuration = time.Duration(hours) * time.Hour

	if cfg.EstimateRatePerMinute, err = getInt("ESTIMATE_RATE_PER_MINUTE", 120); err != nil {
		return nil, err
	}
	if cfg.EstimateBurst, err = getInt("ESTIMATE_BURST", 20); err != nil {
		return nil, err
	}

	ttl, err := getInt("PROJECT_CACHE_TTL_SECONDS", 300)
	if err != nil {
		return nil, err
	}
	cfg.ProjectCacheTTL = time.Duration(ttl) * time.Second

	cfg.WSAllowedOrigins = getList("WS_ALLOWED_ORIGINS")

	if (cfg.AdminUsername == "") != (cfg.AdminPassword == "") {
		return nil, errors.New("ADMIN_USERNAME e ADMIN_PASSWORD devem ser configurados juntos")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// getInt lê um inteiro positivo; vazio retorna o default
func getInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s inválido: %q", key, raw)
	}
	return v, nil
}

func getBool(key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s inválido: %q", key, raw)
	}
	return v, nil
}

// getList lê uma lista separada por vírgulas, ignorando itens vazios
func getList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
