package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Поддерживаемые бэкенды состояния сессии/истории.
const (
	StateBackendSQLite   = "sqlite"
	StateBackendPostgres = "postgres"
	StateBackendRedis    = "redis"
	StateBackendMemory   = "memory"
)

// Поддерживаемые AI провайдеры.
const (
	AIClientTypeGemini = "gemini"
	AIClientTypeOpenAI = "openai"
	AIClientTypeOllama = "ollama"
)

// secretsDir - каталог Docker Secrets. Переопределяется в тестах.
var secretsDir = "/run/secrets"

// Config содержит конфигурацию сервиса генерации планов JRC.
type Config struct {
	Env                string `envconfig:"ENV" default:"development"`
	LogLevel           string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding        string `envconfig:"LOG_ENCODING" default:"json"`
	LogOutput          string `envconfig:"LOG_OUTPUT" default:"stdout"`
	ServerPort         string `envconfig:"SERVER_PORT" default:"8080"`
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	// AI
	AIClientType  string        `envconfig:"AI_CLIENT_TYPE" default:"gemini"`
	AIModel       string        `envconfig:"AI_MODEL" default:"gemini-3-pro-preview"`
	AIFastModel   string        `envconfig:"AI_FAST_MODEL" default:"gemini-2.5-flash"`
	AIBaseURL     string        `envconfig:"AI_BASE_URL" default:""`
	AITimeout     time.Duration `envconfig:"AI_TIMEOUT" default:"120s"`
	AITemperature float64       `envconfig:"AI_TEMPERATURE" default:"0.7"`
	// Секрет: ai_api_key или AI_API_KEY
	AIAPIKey string `ignored:"true"`

	PromptLanguage string `envconfig:"PROMPT_LANGUAGE" default:"pt"`

	// Состояние
	StateBackend    string `envconfig:"STATE_BACKEND" default:"sqlite"`
	StateSQLitePath string `envconfig:"STATE_SQLITE_PATH" default:"jrc_state.db"`
	HistoryLimit    int    `envconfig:"HISTORY_LIMIT" default:"10"`

	// PostgreSQL
	DBHost        string        `envconfig:"DB_HOST" default:"localhost"`
	DBPort        string        `envconfig:"DB_PORT" default:"5432"`
	DBUser        string        `envconfig:"DB_USER" default:"postgres"`
	DBName        string        `envconfig:"DB_NAME" default:"jrc_db"`
	DBSSLMode     string        `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns    int32         `envconfig:"DB_MAX_CONNECTIONS" default:"10"`
	DBIdleTimeout time.Duration `envconfig:"DB_MAX_IDLE_MINUTES" default:"5m"`
	DBPassword    string        `ignored:"true"`

	// Redis
	RedisAddr      string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisDB        int    `envconfig:"REDIS_DB" default:"0"`
	RedisKeyPrefix string `envconfig:"REDIS_KEY_PREFIX" default:"jrc:"`
	RedisPassword  string `ignored:"true"`

	// Реплей и UI
	ReplayDuration        time.Duration `envconfig:"REPLAY_DURATION" default:"2500ms"`
	LoadingRotateInterval time.Duration `envconfig:"LOADING_ROTATE_INTERVAL" default:"2s"`

	RateLimitPerMinute uint `envconfig:"RATE_LIMIT_PER_MINUTE" default:"10"`

	// RabbitMQ (пусто = события не публикуются)
	RabbitMQURL     string `envconfig:"RABBITMQ_URL" default:""`
	PlanEventsQueue string `envconfig:"PLAN_EVENTS_QUEUE" default:"jrc_plan_events"`
}

// GetDSN возвращает строку подключения к PostgreSQL.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// GetCORSAllowedOrigins разбирает CORS_ALLOWED_ORIGINS (через запятую).
func (c *Config) GetCORSAllowedOrigins() []string {
	if strings.TrimSpace(c.CORSAllowedOrigins) == "" {
		return nil
	}
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Validate приводит перечисления к нижнему регистру и проверяет значения,
// которые envconfig проверить не может.
func (c *Config) Validate() error {
	c.AIClientType = strings.ToLower(strings.TrimSpace(c.AIClientType))
	c.StateBackend = strings.ToLower(strings.TrimSpace(c.StateBackend))

	switch c.AIClientType {
	case AIClientTypeGemini, AIClientTypeOpenAI, AIClientTypeOllama:
	default:
		return fmt.Errorf("unsupported AI_CLIENT_TYPE %q", c.AIClientType)
	}
	switch c.StateBackend {
	case StateBackendSQLite, StateBackendPostgres, StateBackendRedis, StateBackendMemory:
	default:
		return fmt.Errorf("unsupported STATE_BACKEND %q", c.StateBackend)
	}
	if c.HistoryLimit <= 0 {
		return errors.New("HISTORY_LIMIT must be positive")
	}
	if c.ReplayDuration <= 0 {
		return errors.New("REPLAY_DURATION must be positive")
	}
	if c.LoadingRotateInterval <= 0 {
		return errors.New("LOADING_ROTATE_INTERVAL must be positive")
	}
	if c.AITimeout <= 0 {
		return errors.New("AI_TIMEOUT must be positive")
	}
	return nil
}

// LoadConfig загружает конфигурацию: .env (если есть), переменные окружения, секреты.
func LoadConfig(envFilePath string) (*Config, error) {
	if envFilePath != "" {
		if _, err := os.Stat(envFilePath); err == nil {
			if err := godotenv.Load(envFilePath); err != nil {
				log.Printf("Warning: could not load %s: %v", envFilePath, err)
			}
		} else if !os.IsNotExist(err) {
			log.Printf("Warning: error checking %s: %v", envFilePath, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	// Отсутствие ключа AI не фатально: генерация будет падать на этапе аутентификации.
	cfg.AIAPIKey = ReadSecretOrEnv("ai_api_key", "AI_API_KEY")
	cfg.DBPassword = ReadSecretOrEnv("db_password", "DB_PASSWORD")
	cfg.RedisPassword = ReadSecretOrEnv("redis_password", "REDIS_PASSWORD")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}
	return &cfg, nil
}

// ReadSecret читает секрет из файла Docker Secrets.
func ReadSecret(secretName string) (string, error) {
	filePath := filepath.Join(secretsDir, secretName)
	secretBytes, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read secret file %s: %w", filePath, err)
	}
	secret := strings.TrimSpace(string(secretBytes))
	if secret == "" {
		return "", fmt.Errorf("secret file %s is empty", filePath)
	}
	return secret, nil
}

// ReadSecretOrEnv предпочитает файл секрета, иначе берёт переменную окружения.
func ReadSecretOrEnv(secretName, envKey string) string {
	if secret, err := ReadSecret(secretName); err == nil {
		return secret
	}
	return strings.TrimSpace(os.Getenv(envKey))
}

// MaskedDSN возвращает DSN с замаскированным паролем для логов.
func (c *Config) MaskedDSN() string {
	masked := *c
	if masked.DBPassword != "" {
		masked.DBPassword = "********"
	}
	return masked.GetDSN()
}
