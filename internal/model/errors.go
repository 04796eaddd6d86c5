package model

import "errors"

// Таксономия ошибок сервиса.
var (
	// ErrValidation - запрос на генерацию не прошёл проверку полей.
	ErrValidation = errors.New("validation error")
	// ErrGenerationFailed - любая ошибка генерации: сеть, аутентификация, парсинг, пустой ответ.
	ErrGenerationFailed = errors.New("generation failed")
	// ErrPersistenceCorruption - сохранённое состояние не читается. Наружу не выходит.
	ErrPersistenceCorruption = errors.New("persisted state is corrupt")

	// Уточнения ErrGenerationFailed. Всегда оборачиваются вместе с ним.
	ErrEmptyResponse     = errors.New("AI returned no content")
	ErrMalformedPlan     = errors.New("AI returned a malformed plan document")
	ErrMissingCredential = errors.New("AI API key is not configured")

	ErrPlanNotFound  = errors.New("plan not found")
	ErrNoSession     = errors.New("no active session")
	ErrStateNotFound = errors.New("state key not found")
)

// Коды ошибок API.
const (
	ErrCodeValidation       = "VALIDATION_FAILED"
	ErrCodeGenerationFailed = "GENERATION_FAILED"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeNoSession        = "NO_SESSION"
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// ErrorResponse - тело JSON ответа об ошибке.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
