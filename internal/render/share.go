// Package render формирует текстовые представления плана.
package render

import (
	"fmt"
	"strings"

	"jrc-server/internal/model"
	"jrc-server/internal/prompts"
)

// ShareSummary собирает текстовую сводку плана для копирования или отправки.
// Пустые разделы пропускаются.
func ShareSummary(plan model.GeneratedPlan, labels prompts.ShareLabels) string {
	var b strings.Builder

	if labels.Header != "" {
		fmt.Fprintf(&b, "%s\n", labels.Header)
	}
	fmt.Fprintf(&b, "%s\n", strings.ToUpper(plan.Title))
	if meta := joinNonEmpty(" • ", plan.Category, plan.Duration); meta != "" {
		fmt.Fprintf(&b, "%s\n", meta)
	}
	if plan.Theme != "" {
		fmt.Fprintf(&b, "%s: %s\n", labels.Theme, plan.Theme)
	}

	if plan.Description != "" {
		section(&b, labels.Dynamics)
		fmt.Fprintf(&b, "%s\n", plan.Description)
	}

	if plan.Setup.Players != "" || plan.Setup.Dimensions != "" || len(plan.Setup.Materials) > 0 {
		section(&b, labels.Setup)
		if plan.Setup.Players != "" {
			fmt.Fprintf(&b, "%s: %s\n", labels.Players, plan.Setup.Players)
		}
		if plan.Setup.Dimensions != "" {
			fmt.Fprintf(&b, "%s: %s\n", labels.Dimensions, plan.Setup.Dimensions)
		}
		if len(plan.Setup.Materials) > 0 {
			fmt.Fprintf(&b, "%s: %s\n", labels.Materials, strings.Join(plan.Setup.Materials, ", "))
		}
	}

	if len(plan.Rules) > 0 {
		section(&b, labels.Rules)
		for i, rule := range plan.Rules {
			fmt.Fprintf(&b, "%d. %s\n", i+1, rule)
		}
	}

	if plan.SystemicFocus != "" {
		section(&b, labels.SystemicFocus)
		fmt.Fprintf(&b, "%s\n", plan.SystemicFocus)
	}

	bullets(&b, labels.ComplexityPrinciples, plan.ComplexityPrinciples)
	bullets(&b, labels.EmergentBehaviors, plan.EmergentBehaviors)

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func section(b *strings.Builder, title string) {
	fmt.Fprintf(b, "\n%s\n", strings.ToUpper(title))
}

func bullets(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	section(b, title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
