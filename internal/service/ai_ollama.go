package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"

	"jrc-server/internal/config"
	"jrc-server/internal/model"
)

const (
	providerOllama       = "ollama"
	defaultOllamaBaseURL = "http://localhost:11434"
)

// ollamaClient реализует AIClient через нативный API Ollama.
type ollamaClient struct {
	client      *api.Client
	model       string
	timeout     time.Duration
	temperature float64
	logger      *zap.Logger
}

func newOllamaClient(cfg *config.Config, logger *zap.Logger) (AIClient, error) {
	baseURL := cfg.AIBaseURL
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	// api.NewClient ждёт URL без суффикса /v1
	baseURL = strings.TrimSuffix(strings.TrimSuffix(baseURL, "/"), "/v1")

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга Ollama Base URL '%s': %w", baseURL, err)
	}

	logger.Info("Ollama client created", zap.String("base_url", baseURL), zap.String("model", cfg.AIModel))
	return &ollamaClient{
		client:      api.NewClient(parsedURL, &http.Client{Timeout: cfg.AITimeout}),
		model:       cfg.AIModel,
		timeout:     cfg.AITimeout,
		temperature: cfg.AITemperature,
		logger:      logger.Named("OllamaClient"),
	}, nil
}

func (c *ollamaClient) GenerateJSON(ctx context.Context, userID, systemPrompt, userInput string, schema ResponseSchema, params GenerationParams) (string, UsageInfo, error) {
	modelName := pickModel(params, c.model)
	log := c.logger.With(zap.String("model", modelName), zap.String("user_id", userID))

	if strings.TrimSpace(userInput) == "" {
		recordAIRequest(providerOllama, modelName, aiStatusError)
		return "", UsageInfo{}, fmt.Errorf("%w: пустой промт", model.ErrGenerationFailed)
	}

	var messages []api.Message
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, api.Message{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, api.Message{Role: "user", Content: userInput})

	temperature := c.temperature
	if params.Temperature != nil {
		temperature = *params.Temperature
	}
	options := map[string]any{"temperature": temperature}
	if params.MaxTokens != nil {
		options["num_predict"] = *params.MaxTokens
	}

	stream := false
	req := &api.ChatRequest{
		Model:    modelName,
		Messages: messages,
		Stream:   &stream,
		Format:   json.RawMessage(schema.JSON),
		Options:  options,
	}

	requestCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	log.Info("Отправка запроса к Ollama", zap.Int("system_prompt_bytes", len(systemPrompt)), zap.Int("user_input_bytes", len(userInput)))
	start := time.Now()
	var resp api.ChatResponse
	err := c.client.Chat(requestCtx, req, func(r api.ChatResponse) error {
		resp = r
		return nil
	})
	duration := time.Since(start)

	if err != nil {
		status := aiStatusError
		if errors.Is(err, context.DeadlineExceeded) {
			status = aiStatusErrorTimeout
		}
		recordAIRequest(providerOllama, modelName, status)
		log.Error("Ошибка от Ollama API", zap.Duration("duration", duration), zap.Error(err))
		return "", UsageInfo{}, fmt.Errorf("%w: %v", model.ErrGenerationFailed, err)
	}

	text := resp.Message.Content
	if strings.TrimSpace(text) == "" {
		recordAIRequest(providerOllama, modelName, aiStatusErrorEmpty)
		log.Warn("Ollama вернул пустой ответ", zap.Duration("duration", duration))
		return "", UsageInfo{}, fmt.Errorf("%w: %w", model.ErrGenerationFailed, model.ErrEmptyResponse)
	}

	usage := UsageInfo{
		PromptTokens:     resp.PromptEvalCount,
		CompletionTokens: resp.EvalCount,
		TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
	}
	recordAIRequest(providerOllama, modelName, aiStatusSuccess)
	observeAIDuration(providerOllama, modelName, duration)
	observeAIUsage(providerOllama, modelName, usage)
	log.Info("Ответ от Ollama получен",
		zap.Duration("duration", duration),
		zap.Int("response_bytes", len(text)),
		zap.Int("total_tokens", usage.TotalTokens))

	return text, usage, nil
}
