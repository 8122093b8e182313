package middleware

import (
	"html"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cleberrangel/houseforge-api/internal/model"
	"github.com/google/uuid"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// SanitizeConfig contains configuration for input sanitization
type SanitizeConfig struct {
	MaxStringLength int  // Maximum allowed string length
	AllowHTML       bool // Whether to allow HTML in strings
}

// DefaultSanitizeConfig returns default sanitization configuration
func DefaultSanitizeConfig() SanitizeConfig {
	return SanitizeConfig{
		MaxStringLength: 10000,
		AllowHTML:       false,
	}
}

// MaxEscapeExpansion é o maior fator de crescimento de html.EscapeString:
// um caractere vira no máximo cinco ("&amp;", "&#34;", "&#39;")
const MaxEscapeExpansion = 5

// EscapedLength é o tamanho máximo, em caracteres, de um texto de até
// runes runas depois do escape
func EscapedLength(runes int) int {
	return runes * MaxEscapeExpansion
}

// SanitizeString remove bytes nulos e espaços das pontas, trunca no limite em
// runas e só então escapa HTML (se não permitido). O limite vale para o texto
// digitado; o resultado escapado cabe em EscapedLength(MaxStringLength).
func SanitizeString(input string, config SanitizeConfig) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Trim whitespace
	input = strings.TrimSpace(input)

	if config.MaxStringLength > 0 {
		input = truncateRunes(input, config.MaxStringLength)
	}

	// Escape HTML if not allowed
	if !config.AllowHTML {
		input = html.EscapeString(input)
	}

	return input
}

// SanitizeFilename limpa um nome de arquivo usado em Content-Disposition
func SanitizeFilename(filename string) string {
	// Get just the base name (remove any path components)
	filename = filepath.Base(filename)

	// Remove null bytes
	filename = strings.ReplaceAll(filename, "\x00", "")

	// Remove path traversal sequences
	filename = strings.ReplaceAll(filename, "..", "")
	filename = strings.ReplaceAll(filename, "/", "")
	filename = strings.ReplaceAll(filename, "\\", "")

	// Remove control characters
	filename = removeControlChars(filename)

	// Trim whitespace
	filename = strings.TrimSpace(filename)

	filename = strings.ReplaceAll(filename, "\"", "")
	filename = strings.ReplaceAll(filename, ";", "")

	if filename == "" || filename == "." {
		return "estimativa"
	}

	return filename
}

// SanitizeUsername sanitizes a username
func SanitizeUsername(username string) string {
	// Remove whitespace
	username = strings.TrimSpace(username)

	// Remove null bytes
	username = strings.ReplaceAll(username, "\x00", "")

	// Remove control characters
	username = removeControlChars(username)

	// Limit length
	if len(username) > 100 {
		username = username[:100]
	}

	return username
}

// ValidateUsername validates a username format
func ValidateUsername(username string) bool {
	if username == "" {
		return false
	}

	// Username should be 3-100 characters
	if len(username) < 3 || len(username) > 100 {
		return false
	}

	return usernamePattern.MatchString(username)
}

// SanitizePassword sanitizes a password (minimal sanitization to preserve special chars)
func SanitizePassword(password string) string {
	// Remove null bytes only
	password = strings.ReplaceAll(password, "\x00", "")

	// Remove control characters except common ones
	var result strings.Builder
	for _, r := range password {
		if !unicode.IsControl(r) || r == '\t' || r == '\n' || r == '\r' {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// ValidatePassword validates password requirements
func ValidatePassword(password string) bool {
	// Password should be at least 6 characters
	if len(password) < 6 {
		return false
	}

	// Password should be at most 128 characters
	if len(password) > 128 {
		return false
	}

	return true
}

// removeControlChars removes control characters from a string
func removeControlChars(s string) string {
	var result strings.Builder
	for _, r := range s {
		if !unicode.IsControl(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// SanitizeTitle limpa títulos de obra
func SanitizeTitle(title string) string {
	config := DefaultSanitizeConfig()
	config.MaxStringLength = model.MaxTitleLength

	return SanitizeString(title, config)
}

// SanitizeText limpa descrições e campos livres maiores
func SanitizeText(text string, max int) string {
	config := DefaultSanitizeConfig()
	config.MaxStringLength = max

	return SanitizeString(text, config)
}

// ValidateProjectID verifica se o id da obra é um UUID
func ValidateProjectID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
