package prompts

import (
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"jrc-server/internal/model"
)

//go:embed prompts.yaml
var defaultCatalogYAML []byte

var ErrPromptNotFound = errors.New("prompt not found in catalog")

// Ключи промтов.
const (
	KeySystem = "system"
	KeyPlan   = "plan"
)

// Ключи сообщений.
const (
	MessageGenerationFailed = "generation_failed"
	MessageNoSession        = "no_session"
	MessagePlanNotFound     = "plan_not_found"
	MessageRateLimited      = "rate_limited"
)

// ShareLabels - подписи разделов текстовой сводки плана.
type ShareLabels struct {
	Header               string `yaml:"header"`
	Theme                string `yaml:"theme"`
	Dynamics             string `yaml:"dynamics"`
	Setup                string `yaml:"setup"`
	Players              string `yaml:"players"`
	Dimensions           string `yaml:"dimensions"`
	Materials            string `yaml:"materials"`
	Rules                string `yaml:"rules"`
	SystemicFocus        string `yaml:"systemic_focus"`
	ComplexityPrinciples string `yaml:"complexity_principles"`
	EmergentBehaviors    string `yaml:"emergent_behaviors"`
}

type language struct {
	Prompts  map[string]string `yaml:"prompts"`
	Messages map[string]string `yaml:"messages"`
	Loading  []string          `yaml:"loading"`
	Share    ShareLabels       `yaml:"share"`
}

type catalogFile struct {
	FallbackLanguage string              `yaml:"fallback_language"`
	Languages        map[string]language `yaml:"languages"`
}

// Catalog хранит локализованные промты, сообщения и подписи. Только чтение после загрузки.
type Catalog struct {
	fallback  string
	languages map[string]language
	logger    *zap.Logger
}

// Load загружает встроенный каталог.
func Load(logger *zap.Logger) (*Catalog, error) {
	return Parse(defaultCatalogYAML, logger)
}

// Parse разбирает YAML каталога и проверяет, что у каждого языка есть обязательные промты.
func Parse(data []byte, logger *zap.Logger) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse prompt catalog: %w", err)
	}
	if len(file.Languages) == 0 {
		return nil, errors.New("prompt catalog has no languages")
	}
	if _, ok := file.Languages[file.FallbackLanguage]; !ok {
		return nil, fmt.Errorf("fallback language %q is missing from prompt catalog", file.FallbackLanguage)
	}
	for name, lang := range file.Languages {
		for _, key := range []string{KeySystem, KeyPlan} {
			if strings.TrimSpace(lang.Prompts[key]) == "" {
				return nil, fmt.Errorf("language %q has no %q prompt", name, key)
			}
		}
		if len(lang.Loading) == 0 {
			return nil, fmt.Errorf("language %q has no loading messages", name)
		}
	}

	c := &Catalog{
		fallback:  file.FallbackLanguage,
		languages: file.Languages,
		logger:    logger.Named("PromptCatalog"),
	}
	c.logger.Info("Prompt catalog loaded", zap.Int("languages", len(file.Languages)), zap.String("fallback", c.fallback))
	return c, nil
}

// ResolveLanguage возвращает язык, который каталог будет использовать для lang.
// Вызывается один раз при сборке компонентов; неизвестный язык логируется здесь,
// а не при каждом запросе.
func (c *Catalog) ResolveLanguage(lang string) string {
	if _, ok := c.languages[lang]; ok {
		return lang
	}
	c.logger.Warn("Language not found in catalog, using fallback",
		zap.String("requested_language", lang),
		zap.String("fallback_language", c.fallback))
	return c.fallback
}

// resolve возвращает язык или fallback без логирования.
func (c *Catalog) resolve(lang string) (language, string) {
	if l, ok := c.languages[lang]; ok {
		return l, lang
	}
	return c.languages[c.fallback], c.fallback
}

// Prompt возвращает текст промта по ключу и языку, с откатом на fallback язык.
func (c *Catalog) Prompt(key, lang string) (string, error) {
	l, used := c.resolve(lang)
	if content, ok := l.Prompts[key]; ok {
		return content, nil
	}
	if used != c.fallback {
		if content, ok := c.languages[c.fallback].Prompts[key]; ok {
			return content, nil
		}
	}
	return "", fmt.Errorf("%w: key='%s', lang='%s'", ErrPromptNotFound, key, lang)
}

// Message возвращает локализованное сообщение. Неизвестный ключ возвращается как есть.
func (c *Catalog) Message(key, lang string) string {
	l, _ := c.resolve(lang)
	if msg, ok := l.Messages[key]; ok {
		return msg
	}
	if msg, ok := c.languages[c.fallback].Messages[key]; ok {
		return msg
	}
	return key
}

// LoadingMessages возвращает копию списка сообщений индикатора загрузки.
func (c *Catalog) LoadingMessages(lang string) []string {
	l, _ := c.resolve(lang)
	return append([]string(nil), l.Loading...)
}

// ShareLabels возвращает подписи для текстовой сводки.
func (c *Catalog) ShareLabels(lang string) ShareLabels {
	l, _ := c.resolve(lang)
	return l.Share
}

// RenderPlanPrompt подставляет параметры запроса в промт плана.
func (c *Catalog) RenderPlanPrompt(req model.GenerationRequest, lang string) (string, error) {
	tmpl, err := c.Prompt(KeyPlan, lang)
	if err != nil {
		return "", err
	}
	r := strings.NewReplacer(
		"{{THEME}}", req.Theme,
		"{{CATEGORY}}", req.Category,
		"{{DURATION}}", req.Duration,
		"{{INTENSITY}}", string(req.Intensity),
		"{{PLAYER_COUNT}}", strconv.Itoa(model.ExpectedPlayerCount),
		"{{TEAM_SIZE}}", strconv.Itoa(model.ExpectedPlayerCount/2),
	)
	return r.Replace(tmpl), nil
}
