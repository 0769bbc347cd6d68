package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port             string
	CORSOrigins      []string
	JWTSecret        string
	UploadDir        string
	MaxUploadBytes   int64
	QuestionsPerTest int
	WorkerInterval   time.Duration
	OCRLang          string

	Database  DatabaseConfig
	Generator GeneratorConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN renders the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// URL renders the connection string as a postgres:// URL.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type GeneratorConfig struct {
	Mode            string
	AnthropicAPIKey string
	AnthropicModel  string
	OpenAIAPIKey    string
	OpenAIModel     string
	OpenAIBaseURL   string
}

func Load() Config {
	return Config{
		Port:             getEnv("PORT", "8080"),
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "*")),
		JWTSecret:        getEnv("JWT_SECRET", "dev-secret-change-me"),
		UploadDir:        getEnv("UPLOAD_DIR", "./data/uploads"),
		MaxUploadBytes:   int64(getEnvInt("MAX_UPLOAD_MB", 32)) << 20,
		QuestionsPerTest: getEnvInt("DEFAULT_QUESTIONS_PER_TEST", 120),
		WorkerInterval:   getEnvDuration("WORKER_INTERVAL", 5*time.Second),
		OCRLang:          getEnv("OCR_LANG", "eng"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "quiz_user"),
			Password: getEnv("DB_PASSWORD", "quiz_password"),
			Name:     getEnv("DB_NAME", "pdf_quiz"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Generator: GeneratorConfig{
			Mode:            strings.ToLower(getEnv("GENERATOR_MODE", "procedural")),
			AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
			AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-5"),
			OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
