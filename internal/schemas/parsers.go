package schemas

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"jrc-server/internal/model"
)

var fencedJSONRegex = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// ExtractJSONContent снимает markdown-ограждение ```json ... ```, если модель его добавила.
func ExtractJSONContent(raw string) string {
	raw = strings.TrimSpace(raw)
	if m := fencedJSONRegex.FindStringSubmatch(raw); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return raw
}

// ParsePlanDocument разбирает JSON-документ плана, возвращённый моделью.
// Пустой ответ и JSON null дают ErrEmptyResponse, невалидный JSON - ErrMalformedPlan.
// Оборванный на лимите токенов документ дозакрывается (CloseTruncatedJSON).
// Поля id/theme/category/duration из документа не доверяются: их заполняет вызывающий.
func ParsePlanDocument(raw string) (*model.GeneratedPlan, error) {
	content := ExtractJSONContent(raw)
	if content == "" {
		return nil, model.ErrEmptyResponse
	}

	var doc *model.GeneratedPlan
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		repaired, changed := CloseTruncatedJSON(content)
		if !changed {
			return nil, fmt.Errorf("%w: %v", model.ErrMalformedPlan, err)
		}
		doc = nil
		if rerr := json.Unmarshal([]byte(repaired), &doc); rerr != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrMalformedPlan, err)
		}
	}
	if doc == nil {
		return nil, model.ErrEmptyResponse
	}
	return doc, nil
}
