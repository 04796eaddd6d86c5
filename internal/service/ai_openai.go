package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"
	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"jrc-server/internal/config"
	"jrc-server/internal/model"
)

const providerOpenAI = "openai"

// openAIClient реализует AIClient через OpenAI-совместимый API.
type openAIClient struct {
	client      *openaigo.Client
	model       string
	temperature float64
	logger      *zap.Logger
}

func newOpenAIClient(cfg *config.Config, logger *zap.Logger) (AIClient, error) {
	openaiConfig := openaigo.DefaultConfig(cfg.AIAPIKey)
	if cfg.AIBaseURL != "" {
		openaiConfig.BaseURL = cfg.AIBaseURL
	}
	openaiConfig.HTTPClient = &http.Client{Timeout: cfg.AITimeout}

	logger.Info("OpenAI client created",
		zap.String("base_url", openaiConfig.BaseURL),
		zap.String("model", cfg.AIModel),
		zap.Duration("timeout", cfg.AITimeout))

	return &openAIClient{
		client:      openaigo.NewClientWithConfig(openaiConfig),
		model:       cfg.AIModel,
		temperature: cfg.AITemperature,
		logger:      logger.Named("OpenAIClient"),
	}, nil
}

func (c *openAIClient) GenerateJSON(ctx context.Context, userID, systemPrompt, userInput string, schema ResponseSchema, params GenerationParams) (string, UsageInfo, error) {
	modelName := pickModel(params, c.model)
	log := c.logger.With(zap.String("model", modelName), zap.String("user_id", userID))

	if strings.TrimSpace(userInput) == "" {
		recordAIRequest(providerOpenAI, modelName, aiStatusError)
		return "", UsageInfo{}, fmt.Errorf("%w: пустой промт", model.ErrGenerationFailed)
	}

	var messages []openaigo.ChatCompletionMessage
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, openaigo.ChatCompletionMessage{Role: openaigo.ChatMessageRoleSystem, Content: systemPrompt})
	}
	messages = append(messages, openaigo.ChatCompletionMessage{Role: openaigo.ChatMessageRoleUser, Content: userInput})

	temperature := params.Temperature
	if temperature == nil {
		temperature = &c.temperature
	}
	req := openaigo.ChatCompletionRequest{
		Model:       modelName,
		Messages:    messages,
		Temperature: *float32Ptr(temperature),
		ResponseFormat: &openaigo.ChatCompletionResponseFormat{
			Type: openaigo.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openaigo.ChatCompletionResponseFormatJSONSchema{
				Name:   schema.Name,
				Schema: json.RawMessage(schema.JSON),
				Strict: false,
			},
		},
	}
	if params.MaxTokens != nil {
		req.MaxTokens = *params.MaxTokens
	}

	log.Info("Отправка запроса к OpenAI", zap.Int("system_prompt_bytes", len(systemPrompt)), zap.Int("user_input_bytes", len(userInput)))
	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		status := aiStatusError
		var apiErr *openaigo.APIError
		switch {
		case errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusUnauthorized:
			status = aiStatusErrorAuth
		case errors.Is(err, context.DeadlineExceeded):
			status = aiStatusErrorTimeout
		}
		recordAIRequest(providerOpenAI, modelName, status)
		log.Error("Ошибка от OpenAI API", zap.Duration("duration", duration), zap.Error(err))
		return "", UsageInfo{}, fmt.Errorf("%w: %v", model.ErrGenerationFailed, err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		recordAIRequest(providerOpenAI, modelName, aiStatusErrorEmpty)
		log.Warn("OpenAI вернул пустой ответ", zap.Duration("duration", duration))
		return "", UsageInfo{}, fmt.Errorf("%w: %w", model.ErrGenerationFailed, model.ErrEmptyResponse)
	}
	text := resp.Choices[0].Message.Content

	status := aiStatusSuccess
	usage := UsageInfo{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	if usage.TotalTokens == 0 {
		// Некоторые совместимые провайдеры не возвращают usage.
		if estimated, ok := estimateUsage(modelName, systemPrompt+userInput, text); ok {
			usage = estimated
			status = aiStatusEstimatedUsage
		} else {
			log.Warn("Could not estimate token usage")
		}
	}

	recordAIRequest(providerOpenAI, modelName, status)
	observeAIDuration(providerOpenAI, modelName, duration)
	observeAIUsage(providerOpenAI, modelName, usage)
	log.Info("Ответ от OpenAI получен",
		zap.Duration("duration", duration),
		zap.Int("response_bytes", len(text)),
		zap.Int("total_tokens", usage.TotalTokens))

	return text, usage, nil
}

// estimateUsage считает токены через tiktoken, если провайдер их не прислал.
func estimateUsage(modelName, prompt, completion string) (UsageInfo, bool) {
	enc, err := tiktoken.EncodingForModel(modelName)
	if err != nil {
		enc, err = tiktoken.GetEncoding(tiktoken.MODEL_CL100K_BASE)
		if err != nil {
			return UsageInfo{}, false
		}
	}
	p := len(enc.Encode(prompt, nil, nil))
	c := len(enc.Encode(completion, nil, nil))
	return UsageInfo{PromptTokens: p, CompletionTokens: c, TotalTokens: p + c}, true
}
