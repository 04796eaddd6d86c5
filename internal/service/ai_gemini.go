package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"jrc-server/internal/config"
	"jrc-server/internal/model"
)

const providerGemini = "gemini"

// geminiClient реализует AIClient через google.golang.org/genai.
type geminiClient struct {
	client      *genai.Client
	model       string
	timeout     time.Duration
	temperature float64
	logger      *zap.Logger
}

func newGeminiClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (AIClient, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.AIAPIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.AIBaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.AIBaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания клиента Gemini: %w", err)
	}

	logger.Info("Gemini client created", zap.String("model", cfg.AIModel), zap.Duration("timeout", cfg.AITimeout))
	return &geminiClient{
		client:      client,
		model:       cfg.AIModel,
		timeout:     cfg.AITimeout,
		temperature: cfg.AITemperature,
		logger:      logger.Named("GeminiClient"),
	}, nil
}

func (c *geminiClient) GenerateJSON(ctx context.Context, userID, systemPrompt, userInput string, schema ResponseSchema, params GenerationParams) (string, UsageInfo, error) {
	modelName := pickModel(params, c.model)
	log := c.logger.With(zap.String("model", modelName), zap.String("user_id", userID))

	if strings.TrimSpace(userInput) == "" {
		recordAIRequest(providerGemini, modelName, aiStatusError)
		return "", UsageInfo{}, fmt.Errorf("%w: пустой промт", model.ErrGenerationFailed)
	}

	temperature := params.Temperature
	if temperature == nil {
		temperature = &c.temperature
	}
	genCfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema.GenAI,
		Temperature:      float32Ptr(temperature),
	}
	if strings.TrimSpace(systemPrompt) != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}
	if params.MaxTokens != nil {
		genCfg.MaxOutputTokens = int32(*params.MaxTokens)
	}

	requestCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	log.Info("Отправка запроса к Gemini", zap.Int("system_prompt_bytes", len(systemPrompt)), zap.Int("user_input_bytes", len(userInput)))
	start := time.Now()
	resp, err := c.client.Models.GenerateContent(requestCtx, modelName, genai.Text(userInput), genCfg)
	duration := time.Since(start)

	if err != nil {
		status := aiStatusError
		if errors.Is(err, context.DeadlineExceeded) {
			status = aiStatusErrorTimeout
		}
		recordAIRequest(providerGemini, modelName, status)
		log.Error("Ошибка от Gemini API", zap.Duration("duration", duration), zap.Error(err))
		return "", UsageInfo{}, fmt.Errorf("%w: %v", model.ErrGenerationFailed, err)
	}

	text := ""
	if resp != nil {
		text = resp.Text()
	}
	if strings.TrimSpace(text) == "" {
		recordAIRequest(providerGemini, modelName, aiStatusErrorEmpty)
		log.Warn("Gemini вернул пустой ответ", zap.Duration("duration", duration))
		return "", UsageInfo{}, fmt.Errorf("%w: %w", model.ErrGenerationFailed, model.ErrEmptyResponse)
	}

	usage := UsageInfo{}
	if resp.UsageMetadata != nil {
		usage.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		usage.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		usage.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	recordAIRequest(providerGemini, modelName, aiStatusSuccess)
	observeAIDuration(providerGemini, modelName, duration)
	observeAIUsage(providerGemini, modelName, usage)
	log.Info("Ответ от Gemini получен",
		zap.Duration("duration", duration),
		zap.Int("response_bytes", len(text)),
		zap.Int("total_tokens", usage.TotalTokens))

	return text, usage, nil
}
