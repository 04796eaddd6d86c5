package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"jrc-server/internal/model"
)

// SanitizeReport описывает, что пришлось поправить в документе модели.
type SanitizeReport struct {
	ClampedCoordinates int
	FilledIDs          int
	RenamedIDs         int
	DroppedBlankRules  int
	PlayerCount        int
}

// SanitizePlan проверяет обязательные поля и приводит визуальные данные к инвариантам:
// координаты в [0,100], команды A/B, уникальные непустые id, срезы без nil.
// Нарушение, которое нельзя исправить, возвращает ErrMalformedPlan.
func SanitizePlan(plan *model.GeneratedPlan) (SanitizeReport, error) {
	var report SanitizeReport

	plan.Title = strings.TrimSpace(plan.Title)
	plan.Description = strings.TrimSpace(plan.Description)
	plan.SystemicFocus = strings.TrimSpace(plan.SystemicFocus)

	switch {
	case plan.Title == "":
		return report, fmt.Errorf("%w: отсутствует title", model.ErrMalformedPlan)
	case plan.Description == "":
		return report, fmt.Errorf("%w: отсутствует description", model.ErrMalformedPlan)
	case plan.SystemicFocus == "":
		return report, fmt.Errorf("%w: отсутствует systemicFocus", model.ErrMalformedPlan)
	}

	rules := make([]string, 0, len(plan.Rules))
	for _, r := range plan.Rules {
		if r = strings.TrimSpace(r); r != "" {
			rules = append(rules, r)
		} else {
			report.DroppedBlankRules++
		}
	}
	if len(rules) == 0 {
		return report, fmt.Errorf("%w: отсутствуют rules", model.ErrMalformedPlan)
	}
	plan.Rules = rules

	seen := make(map[string]struct{}, len(plan.VisualData.Players))
	for i := range plan.VisualData.Players {
		p := &plan.VisualData.Players[i]

		team, ok := normalizeTeam(p.Team)
		if !ok {
			return report, fmt.Errorf("%w: игрок %d: недопустимая команда %q", model.ErrMalformedPlan, i+1, p.Team)
		}
		p.Team = team

		for _, coord := range []*float64{&p.StartX, &p.StartY, &p.EndX, &p.EndY} {
			if clamped, changed := clampPercent(*coord); changed {
				*coord = clamped
				report.ClampedCoordinates++
			}
		}

		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			p.ID = "p" + strconv.Itoa(i+1)
			report.FilledIDs++
		}
		if _, dup := seen[p.ID]; dup {
			base := p.ID
			for n := 2; ; n++ {
				candidate := base + "-" + strconv.Itoa(n)
				if _, taken := seen[candidate]; !taken {
					p.ID = candidate
					break
				}
			}
			report.RenamedIDs++
		}
		seen[p.ID] = struct{}{}
	}
	report.PlayerCount = len(plan.VisualData.Players)

	plan.EnsureSlices()
	return report, nil
}

func normalizeTeam(t model.Team) (model.Team, bool) {
	switch model.Team(strings.ToUpper(strings.TrimSpace(string(t)))) {
	case model.TeamA:
		return model.TeamA, true
	case model.TeamB:
		return model.TeamB, true
	default:
		return "", false
	}
}

// clampPercent ограничивает координату диапазоном [0,100]. NaN становится 0.
func clampPercent(v float64) (float64, bool) {
	switch {
	case math.IsNaN(v):
		return 0, true
	case v < 0:
		return 0, true
	case v > 100:
		return 100, true
	default:
		return v, false
	}
}
