package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Intensity - желаемая нагрузка упражнения.
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// ModelTier выбирает вариант модели: качественный или быстрый.
type ModelTier string

const (
	ModelTierQuality ModelTier = "quality"
	ModelTierFast    ModelTier = "fast"
)

// GenerationRequest - параметры, введённые тренером. После отправки не меняются.
type GenerationRequest struct {
	Theme     string    `json:"theme" validate:"required"`
	Category  string    `json:"category" validate:"required"`
	Duration  string    `json:"duration" validate:"required"`
	Intensity Intensity `json:"intensity" validate:"oneof=low medium high"`
	Model     ModelTier `json:"model,omitempty" validate:"oneof=quality fast"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Normalize обрезает пробелы и подставляет значения по умолчанию.
func (r GenerationRequest) Normalize() GenerationRequest {
	r.Theme = strings.TrimSpace(r.Theme)
	r.Category = strings.TrimSpace(r.Category)
	r.Duration = strings.TrimSpace(r.Duration)
	r.Intensity = Intensity(strings.ToLower(strings.TrimSpace(string(r.Intensity))))
	if r.Intensity == "" {
		r.Intensity = IntensityMedium
	}
	r.Model = ModelTier(strings.ToLower(strings.TrimSpace(string(r.Model))))
	if r.Model == "" {
		r.Model = ModelTierQuality
	}
	return r
}

// NewGenerationRequest нормализует и проверяет ввод. Ошибка оборачивает ErrValidation.
func NewGenerationRequest(theme, category, duration string, intensity Intensity) (GenerationRequest, error) {
	req := GenerationRequest{Theme: theme, Category: category, Duration: duration, Intensity: intensity}.Normalize()
	if err := req.Validate(); err != nil {
		return GenerationRequest{}, err
	}
	return req, nil
}

// Validate проверяет уже нормализованный запрос.
func (r GenerationRequest) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field())
		if fe.Tag() == "required" {
			return fmt.Errorf("%w: поле %s обязательно", ErrValidation, field)
		}
		return fmt.Errorf("%w: недопустимое значение %q для поля %s", ErrValidation, fe.Value(), field)
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}
