package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"jrc-server/internal/config"
	"jrc-server/internal/model"
)

// GenerationParams - параметры одного вызова. Указатели отличают "не задано" от нуля.
type GenerationParams struct {
	Model       string // пусто = модель клиента по умолчанию
	Temperature *float64
	MaxTokens   *int
}

// ResponseSchema - объявленная схема JSON ответа в двух представлениях.
type ResponseSchema struct {
	Name  string        // имя для OpenAI json_schema
	JSON  string        // JSON Schema для OpenAI и Ollama
	GenAI *genai.Schema // та же схема для Gemini
}

// UsageInfo содержит информацию об использовании токенов.
type UsageInfo struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// AIClient - клиент языковой модели, возвращающий JSON документ по схеме.
// Любая ошибка оборачивает model.ErrGenerationFailed. Повторов нет.
type AIClient interface {
	GenerateJSON(ctx context.Context, userID, systemPrompt, userInput string, schema ResponseSchema, params GenerationParams) (string, UsageInfo, error)
}

// NewAIClient создаёт клиента по AI_CLIENT_TYPE.
// Отсутствие ключа API не мешает старту: такой клиент падает на каждом вызове.
func NewAIClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (AIClient, error) {
	clientType := strings.ToLower(cfg.AIClientType)
	if clientType != config.AIClientTypeOllama && cfg.AIAPIKey == "" {
		logger.Warn("AI API key is not configured, every generation will fail",
			zap.String("client_type", clientType))
		return &missingCredentialClient{provider: clientType, model: cfg.AIModel, logger: logger.Named("AIClient")}, nil
	}

	switch clientType {
	case config.AIClientTypeGemini:
		return newGeminiClient(ctx, cfg, logger)
	case config.AIClientTypeOpenAI:
		return newOpenAIClient(cfg, logger)
	case config.AIClientTypeOllama:
		return newOllamaClient(cfg, logger)
	default:
		return nil, fmt.Errorf("неизвестный тип AI клиента: %s", cfg.AIClientType)
	}
}

// missingCredentialClient отказывает на этапе аутентификации, не обращаясь к сети.
type missingCredentialClient struct {
	provider string
	model    string
	logger   *zap.Logger
}

func (c *missingCredentialClient) GenerateJSON(_ context.Context, userID, _, _ string, _ ResponseSchema, params GenerationParams) (string, UsageInfo, error) {
	modelName := pickModel(params, c.model)
	recordAIRequest(c.provider, modelName, aiStatusErrorAuth)
	c.logger.Error("AI request rejected: missing API key", zap.String("user_id", userID), zap.String("model", modelName))
	return "", UsageInfo{}, fmt.Errorf("%w: %w", model.ErrGenerationFailed, model.ErrMissingCredential)
}

func pickModel(params GenerationParams, fallback string) string {
	if params.Model != "" {
		return params.Model
	}
	return fallback
}

func float32Ptr(f *float64) *float32 {
	if f == nil {
		return nil
	}
	v := float32(*f)
	return &v
}
