package ui

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// viewAdmin renders the admin console: health, model metrics, users and
// recent backend logs
func (m Model) viewAdmin() string {
	t := m.theme

	var sections []string
	sections = append(sections, t.title.Render("◧ Admin Console"))
	sections = append(sections, "")

	sections = append(sections, t.sectionHeader.Render("SYSTEM HEALTH"))
	if m.health == nil {
		sections = append(sections, t.muted.Render("Loading..."))
	} else {
		sections = append(sections,
			fmt.Sprintf("%s %s", t.label.Render("Status:"), t.value.Render(m.health.Status)),
			fmt.Sprintf("%s %s", t.label.Render("Latency:"), t.value.Render(m.health.Latency)),
			fmt.Sprintf("%s %s", t.label.Render("Integrity:"), t.value.Render(m.health.Integrity)),
			fmt.Sprintf("%s %s", t.label.Render("Uptime:"), t.value.Render(m.health.Uptime)),
		)
	}

	sections = append(sections, t.sectionHeader.Render("MODEL PERFORMANCE"))
	if m.performance == nil {
		sections = append(sections, t.muted.Render("Loading..."))
	} else {
		sections = append(sections, fmt.Sprintf("%s %s",
			t.label.Render("MAE / R² / Accuracy:"),
			t.value.Render(fmt.Sprintf("%s / %s / %s",
				m.performance.MAE, m.performance.R2Score, m.performance.Accuracy))))
		if m.performance.LastTrained != "" {
			sections = append(sections, fmt.Sprintf("%s %s",
				t.label.Render("Last trained:"), t.value.Render(m.performance.LastTrained)))
		}
		sections = append(sections, m.renderFeatureImportance()...)
	}
	if m.retraining {
		sections = append(sections, t.muted.Render("Retraining model..."))
	}

	sections = append(sections, t.sectionHeader.Render("USERS"))
	if len(m.users) == 0 {
		sections = append(sections, t.muted.Render("Loading..."))
	}
	for i, u := range m.users {
		cursor := "  "
		if i == m.userCursor {
			cursor = t.title.Render("> ")
		}
		role := "user"
		if u.IsAdmin {
			role = "admin"
		}
		sections = append(sections, fmt.Sprintf("%s%s  %s",
			cursor, t.value.Render(u.Email), t.muted.Render(role)))
	}

	sections = append(sections, t.sectionHeader.Render("RECENT LOGS"))
	if len(m.logs) == 0 {
		sections = append(sections, t.muted.Render("No log entries"))
	}
	shown := m.logs
	if len(shown) > 8 {
		shown = shown[:8]
	}
	for _, entry := range shown {
		sections = append(sections, t.muted.Render(
			fmt.Sprintf("%s [%s] %s", entry.Timestamp.Format("15:04:05"), entry.Level, entry.Message)))
	}

	if m.notice != "" {
		sections = append(sections, "", t.errorText.Render(m.notice))
	}
	sections = append(sections, t.help.Render(
		"R: Retrain model • P: Toggle role for selected user • ↑/↓: Select user • Esc: Dashboard • Q: Quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderFeatureImportance lists model features by weight, heaviest first
func (m Model) renderFeatureImportance() []string {
	t := m.theme

	type feature struct {
		name   string
		weight float64
	}
	features := make([]feature, 0, len(m.performance.FeatureImportance))
	for name, weight := range m.performance.FeatureImportance {
		features = append(features, feature{name, weight})
	}
	sort.Slice(features, func(i, j int) bool { return features[i].weight > features[j].weight })

	var lines []string
	for _, f := range features {
		lines = append(lines, t.muted.Render(fmt.Sprintf("  %-20s %.2f", f.name, f.weight)))
	}
	return lines
}
