package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smartpark/parking-terminal/internal/geoloc"
)

// commandTimeout bounds every background fetch
const commandTimeout = 15 * time.Second

// errMsg carries a failure out of a background command
type errMsg struct {
	err error
}

// noticeMsg is a transient status line message
type noticeMsg string

// tickMsg drives the periodic live data refresh
type tickMsg time.Time

// positionMsg delivers a geolocation update
type positionMsg struct {
	position geoloc.Position
	ok       bool
}

// scheduleTick emits a tickMsg after the refresh interval
func scheduleTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForPosition blocks on the geolocation channel and re-arms itself from
// the Update loop on every delivery
func waitForPosition(updates <-chan geoloc.Position) tea.Cmd {
	return func() tea.Msg {
		pos, ok := <-updates
		return positionMsg{position: pos, ok: ok}
	}
}
