package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smartpark/parking-terminal/internal/models"
)

// event form field positions
const (
	eventFieldName = iota
	eventFieldType
	eventFieldVenue
	eventFieldAttendance
	eventFieldStart
	eventFieldEnd
	eventFieldCount
)

// eventTimeLayout is the format the create form accepts
const eventTimeLayout = "2006-01-02 15:04"

// eventForm is the admin event creation form
type eventForm struct {
	inputs []textinput.Model
	focus  int
	open   bool
}

func newEventForm() eventForm {
	mk := func(placeholder string, width int) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = 120
		ti.Width = width
		return ti
	}

	return eventForm{
		inputs: []textinput.Model{
			mk("event name", 40),
			mk("type (concert, sports, festival...)", 40),
			mk("venue", 40),
			mk("expected attendance", 20),
			mk("start (2006-01-02 15:04)", 25),
			mk("end (2006-01-02 15:04)", 25),
		},
	}
}

func (f eventForm) setFocus(i int) eventForm {
	f.focus = i
	for j := range f.inputs {
		if j == i {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return f
}

func (f eventForm) nextField() eventForm {
	return f.setFocus((f.focus + 1) % eventFieldCount)
}

func (f eventForm) update(msg tea.Msg) (eventForm, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f eventForm) reset() eventForm {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	f.open = false
	return f.setFocus(0)
}

// event validates and assembles the form into an event
func (f eventForm) event() (models.Event, error) {
	name := strings.TrimSpace(f.inputs[eventFieldName].Value())
	if name == "" {
		return models.Event{}, fmt.Errorf("event name is required")
	}

	attendance := 0
	if v := strings.TrimSpace(f.inputs[eventFieldAttendance].Value()); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return models.Event{}, fmt.Errorf("attendance must be a number")
		}
		attendance = n
	}

	start, err := time.ParseInLocation(eventTimeLayout, strings.TrimSpace(f.inputs[eventFieldStart].Value()), time.Local)
	if err != nil {
		return models.Event{}, fmt.Errorf("start time must look like %s", eventTimeLayout)
	}
	end, err := time.ParseInLocation(eventTimeLayout, strings.TrimSpace(f.inputs[eventFieldEnd].Value()), time.Local)
	if err != nil {
		return models.Event{}, fmt.Errorf("end time must look like %s", eventTimeLayout)
	}
	if !end.After(start) {
		return models.Event{}, fmt.Errorf("end time must be after start time")
	}

	return models.Event{
		EventName:          name,
		EventType:          strings.TrimSpace(f.inputs[eventFieldType].Value()),
		Venue:              strings.TrimSpace(f.inputs[eventFieldVenue].Value()),
		ExpectedAttendance: attendance,
		StartTime:          start,
		EndTime:            end,
	}, nil
}

// viewEvents renders the city events screen
func (m Model) viewEvents() string {
	t := m.theme

	var sections []string
	sections = append(sections, t.title.Render("◧ City Events"))
	sections = append(sections, t.muted.Render("Events that affect parking demand"))
	sections = append(sections, "")

	if len(m.events) == 0 {
		sections = append(sections, t.muted.Render("No upcoming events"))
	}
	for i, ev := range m.events {
		cursor := "  "
		if i == m.eventCursor {
			cursor = t.title.Render("> ")
		}
		line := fmt.Sprintf("%s%s  %s",
			cursor,
			t.value.Render(ev.EventName),
			t.muted.Render(fmt.Sprintf("%s · %s · %s",
				ev.EventType, ev.Venue, ev.StartTime.Format("Jan 2 15:04"))))
		sections = append(sections, line)
	}

	if m.eventForm.open {
		labels := []string{"Name", "Type", "Venue", "Attendance", "Start", "End"}
		rows := []string{t.sectionHeader.Render("NEW EVENT"), ""}
		for i, input := range m.eventForm.inputs {
			rows = append(rows, t.label.Render(labels[i]), input.View())
		}
		sections = append(sections, "", t.pane.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
	}

	if m.notice != "" {
		sections = append(sections, "", t.errorText.Render(m.notice))
	}

	help := "Esc: Dashboard • Q: Quit"
	if m.isAdmin() {
		if m.eventForm.open {
			help = "Enter: Save • Tab: Next field • Esc: Cancel"
		} else {
			help = "N: New event • D: Delete selected • " + help
		}
	}
	sections = append(sections, t.help.Render(help))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
