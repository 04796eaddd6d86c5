package schemas

import (
	"google.golang.org/genai"
)

// PlanSchemaName - имя схемы для провайдеров, которые требуют его (OpenAI json_schema).
const PlanSchemaName = "jrc_plan"

// PlanRequiredFields - поля, которые модель обязана вернуть.
var PlanRequiredFields = []string{"title", "description", "rules", "visualData", "systemicFocus"}

// PlanJSONSchema - объявленная схема ответа в формате JSON Schema.
// Используется клиентами OpenAI и Ollama.
const PlanJSONSchema = `{
  "type": "object",
  "properties": {
    "title": {"type": "string"},
    "description": {"type": "string"},
    "setup": {
      "type": "object",
      "properties": {
        "players": {"type": "string"},
        "dimensions": {"type": "string"},
        "materials": {"type": "array", "items": {"type": "string"}}
      }
    },
    "rules": {"type": "array", "items": {"type": "string"}},
    "systemicFocus": {"type": "string"},
    "complexityPrinciples": {"type": "array", "items": {"type": "string"}},
    "emergentBehaviors": {"type": "array", "items": {"type": "string"}},
    "visualData": {
      "type": "object",
      "properties": {
        "players": {
          "type": "array",
          "items": {
            "type": "object",
            "properties": {
              "id": {"type": "string"},
              "team": {"type": "string"},
              "label": {"type": "string"},
              "startX": {"type": "number"},
              "startY": {"type": "number"},
              "endX": {"type": "number"},
              "endY": {"type": "number"}
            }
          }
        }
      }
    }
  },
  "required": ["title", "description", "rules", "visualData", "systemicFocus"]
}`

// PlanGenAISchema строит ту же схему в типах Gemini SDK.
func PlanGenAISchema() *genai.Schema {
	str := func() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }
	num := func() *genai.Schema { return &genai.Schema{Type: genai.TypeNumber} }
	strList := func() *genai.Schema { return &genai.Schema{Type: genai.TypeArray, Items: str()} }

	player := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"id":     str(),
			"team":   str(),
			"label":  str(),
			"startX": num(),
			"startY": num(),
			"endX":   num(),
			"endY":   num(),
		},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":       str(),
			"description": str(),
			"setup": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"players":    str(),
					"dimensions": str(),
					"materials":  strList(),
				},
			},
			"rules":                strList(),
			"systemicFocus":        str(),
			"complexityPrinciples": strList(),
			"emergentBehaviors":    strList(),
			"visualData": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"players": {Type: genai.TypeArray, Items: player},
				},
			},
		},
		Required: append([]string(nil), PlanRequiredFields...),
	}
}
