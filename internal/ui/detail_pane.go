package ui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/lipgloss"

	"github.com/smartpark/parking-terminal/internal/availability"
	"github.com/smartpark/parking-terminal/internal/recommend"
)

const (
	trendWidth  = 40
	trendHeight = 6
)

// renderDetail renders the right-hand pane for the selected zone
func (m Model) renderDetail() string {
	t := m.theme
	zone := m.selectedZone
	if zone == nil {
		return t.muted.Render("Select a zone to see details")
	}

	var sections []string

	name := zone.ZoneName
	if m.favorites[zone.ZoneID] {
		name = t.favorite.Render("★ ") + name
	}
	sections = append(sections, t.title.Render(name))
	sections = append(sections, t.muted.Render(fmt.Sprintf("%s · %s", zone.District, zone.ZoneType)))
	sections = append(sections, "")

	effective := m.agg.Effective(*zone)
	level := availability.Level(effective)
	availLine := fmt.Sprintf("%s %s  %s",
		t.label.Render("Availability:"),
		t.value.Render(fmt.Sprintf("%.0f%%", effective)),
		t.levelStyle(level).Render(strings.ToUpper(level)))
	if offset := m.agg.Offset(); offset > 0 {
		availLine += t.muted.Render(fmt.Sprintf("  (+%dh forecast)", offset))
	}
	sections = append(sections, availLine)

	sections = append(sections, fmt.Sprintf("%s %s",
		t.label.Render("Capacity:"),
		t.value.Render(fmt.Sprintf("%d spots · ₹%.0f/hr · %s",
			zone.TotalCapacity, zone.HourlyRate, zone.OperatingHours))))

	if m.prediction != nil && m.prediction.ZoneID == zone.ZoneID {
		// confidence_score already arrives on a 0-100 scale
		sections = append(sections, fmt.Sprintf("%s %s",
			t.label.Render("Model confidence:"),
			t.value.Render(fmt.Sprintf("%.0f%%", m.prediction.ConfidenceScore))))
	}

	if trend := m.renderTrend(); trend != "" {
		sections = append(sections, t.sectionHeader.Render("TREND"), trend)
	}

	sections = append(sections, m.renderAlternatives()...)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderTrend draws the availability trend as a sparkline, preferring the
// model's forward trend and falling back to recent history
func (m Model) renderTrend() string {
	zone := m.selectedZone

	var values []float64
	if m.prediction != nil && m.prediction.ZoneID == zone.ZoneID {
		for _, p := range m.prediction.Trend {
			values = append(values, p.Availability)
		}
	}
	if len(values) == 0 && m.history != nil && m.historyZone == zone.ZoneID {
		for _, r := range m.history.Records {
			values = append(values, r.Availability)
		}
	}
	if len(values) < 2 {
		return ""
	}

	sl := sparkline.New(trendWidth, trendHeight, sparkline.WithMaxValue(100))
	sl.PushAll(values)
	sl.Draw()
	return sl.View()
}

// renderAlternatives renders both recommendation strategies for the
// selected zone
func (m Model) renderAlternatives() []string {
	t := m.theme
	zone := m.selectedZone

	var sections []string

	nearby := recommend.Nearby(*zone, m.zones, m.agg.Effective)
	sections = append(sections, t.sectionHeader.Render("NEARBY (<1 KM)"))
	if len(nearby) == 0 {
		sections = append(sections, t.muted.Render("No alternatives within walking distance"))
	}
	for _, alt := range nearby {
		level := availability.Level(alt.Availability)
		sections = append(sections, fmt.Sprintf("%s  %s · %.0f m · %s",
			t.value.Render(alt.Zone.ZoneName),
			t.muted.Render(alt.Zone.District),
			alt.DistanceKm*1000,
			t.levelStyle(level).Render(fmt.Sprintf("%.0f%%", alt.Availability))))
	}

	district := recommend.SameDistrict(*zone, m.zones)
	sections = append(sections, t.sectionHeader.Render("SAME DISTRICT"))
	if len(district) == 0 {
		sections = append(sections, t.muted.Render("No other zones in "+zone.District))
	}
	for _, alt := range district {
		level := availability.Level(alt.CurrentAvailability)
		sections = append(sections, fmt.Sprintf("%s  %s",
			t.value.Render(alt.ZoneName),
			t.levelStyle(level).Render(fmt.Sprintf("%.0f%%", alt.CurrentAvailability))))
	}

	return sections
}
