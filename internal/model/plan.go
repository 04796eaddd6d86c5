package model

// Team - сторона игрока на схеме.
type Team string

const (
	TeamA Team = "A"
	TeamB Team = "B"
)

// PlayerPosition - маркер игрока. Координаты в процентах поля [0,100].
type PlayerPosition struct {
	ID     string  `json:"id"`
	Team   Team    `json:"team"`
	Label  string  `json:"label"`
	StartX float64 `json:"startX"`
	StartY float64 `json:"startY"`
	EndX   float64 `json:"endX"`
	EndY   float64 `json:"endY"`
}

// Setup - организация упражнения.
type Setup struct {
	Players    string   `json:"players"`
	Dimensions string   `json:"dimensions"`
	Materials  []string `json:"materials"`
}

// VisualData - данные для схемы поля.
type VisualData struct {
	Players []PlayerPosition `json:"players"`
}

// GeneratedPlan - готовый план JRC. ID присваивается локально, а не моделью.
type GeneratedPlan struct {
	ID                   string     `json:"id"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	Theme                string     `json:"theme"`
	Category             string     `json:"category"`
	Duration             string     `json:"duration"`
	SystemicFocus        string     `json:"systemicFocus"`
	Rules                []string   `json:"rules"`
	Setup                Setup      `json:"setup"`
	VisualData           VisualData `json:"visualData"`
	ComplexityPrinciples []string   `json:"complexityPrinciples"`
	EmergentBehaviors    []string   `json:"emergentBehaviors"`
}

// EnsureSlices заменяет nil-срезы пустыми, чтобы в JSON не было null.
func (p *GeneratedPlan) EnsureSlices() {
	if p.Rules == nil {
		p.Rules = []string{}
	}
	if p.Setup.Materials == nil {
		p.Setup.Materials = []string{}
	}
	if p.ComplexityPrinciples == nil {
		p.ComplexityPrinciples = []string{}
	}
	if p.EmergentBehaviors == nil {
		p.EmergentBehaviors = []string{}
	}
	if p.VisualData.Players == nil {
		p.VisualData.Players = []PlayerPosition{}
	}
}

// ExpectedPlayerCount - сколько маркеров запрашивается у модели (4 vs 4).
const ExpectedPlayerCount = 8
