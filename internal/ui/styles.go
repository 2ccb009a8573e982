package ui

import "github.com/charmbracelet/lipgloss"

// theme is a named style set. The "system" theme follows the dark palette,
// which matches terminal defaults.
type theme struct {
	name string

	title         lipgloss.Style
	muted         lipgloss.Style
	help          lipgloss.Style
	label         lipgloss.Style
	value         lipgloss.Style
	pane          lipgloss.Style
	activePane    lipgloss.Style
	sectionHeader lipgloss.Style
	errorText     lipgloss.Style
	statusBar     lipgloss.Style

	// Availability level badges
	levelHigh   lipgloss.Style
	levelMedium lipgloss.Style
	levelLow    lipgloss.Style

	favorite lipgloss.Style
}

// palette is the small set of colors a theme varies
type palette struct {
	primary lipgloss.Color
	text    lipgloss.Color
	muted   lipgloss.Color
	border  lipgloss.Color
	danger  lipgloss.Color
	warning lipgloss.Color
	success lipgloss.Color
	star    lipgloss.Color
}

var darkPalette = palette{
	primary: lipgloss.Color("#00BFFF"),
	text:    lipgloss.Color("#FFFFFF"),
	muted:   lipgloss.Color("#6C757D"),
	border:  lipgloss.Color("#4A90E2"),
	danger:  lipgloss.Color("#FF6B6B"),
	warning: lipgloss.Color("#FFD93D"),
	success: lipgloss.Color("#6BCF7F"),
	star:    lipgloss.Color("#FFD700"),
}

var lightPalette = palette{
	primary: lipgloss.Color("#005F87"),
	text:    lipgloss.Color("#1A1A1A"),
	muted:   lipgloss.Color("#767676"),
	border:  lipgloss.Color("#2B6CB0"),
	danger:  lipgloss.Color("#C0392B"),
	warning: lipgloss.Color("#B7950B"),
	success: lipgloss.Color("#1E8449"),
	star:    lipgloss.Color("#B8860B"),
}

// themeNames is the cycling order in settings
var themeNames = []string{"system", "light", "dark"}

func newTheme(name string) theme {
	p := darkPalette
	if name == "light" {
		p = lightPalette
	}

	return theme{
		name: name,

		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary),

		muted: lipgloss.NewStyle().
			Foreground(p.muted),

		help: lipgloss.NewStyle().
			Foreground(p.muted).
			Padding(1, 0),

		label: lipgloss.NewStyle().
			Foreground(p.muted).
			Bold(true),

		value: lipgloss.NewStyle().
			Foreground(p.text),

		pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(1, 2).
			MarginRight(1),

		activePane: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(p.primary).
			Padding(1, 2).
			MarginRight(1),

		sectionHeader: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true).
			Padding(0, 1).
			MarginTop(1),

		errorText: lipgloss.NewStyle().
			Foreground(p.danger).
			Bold(true),

		statusBar: lipgloss.NewStyle().
			Foreground(p.muted).
			Padding(0, 1),

		levelHigh: lipgloss.NewStyle().
			Foreground(p.success).
			Bold(true),

		levelMedium: lipgloss.NewStyle().
			Foreground(p.warning).
			Bold(true),

		levelLow: lipgloss.NewStyle().
			Foreground(p.danger).
			Bold(true),

		favorite: lipgloss.NewStyle().
			Foreground(p.star),
	}
}

// levelStyle picks the badge style for an availability level
func (t theme) levelStyle(level string) lipgloss.Style {
	switch level {
	case "high":
		return t.levelHigh
	case "medium":
		return t.levelMedium
	default:
		return t.levelLow
	}
}
