package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smartpark/parking-terminal/internal/api"
	"github.com/smartpark/parking-terminal/internal/models"
)

// eventsMsg is sent when the city event list has been fetched
type eventsMsg struct {
	events []models.Event
	err    error
}

// eventCreatedMsg is sent after an event create attempt
type eventCreatedMsg struct {
	event *models.Event
	err   error
}

// eventDeletedMsg is sent after an event delete attempt
type eventDeletedMsg struct {
	eventID int
	err     error
}

// fetchEvents fetches upcoming city events
func fetchEvents(client api.EventClient) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		events, err := client.ListEvents(ctx)
		return eventsMsg{events: events, err: err}
	}
}

// createEvent registers a new city event
func createEvent(client api.EventClient, event models.Event) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		created, err := client.CreateEvent(ctx, event)
		return eventCreatedMsg{event: created, err: err}
	}
}

// deleteEvent removes a city event
func deleteEvent(client api.EventClient, eventID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		err := client.DeleteEvent(ctx, eventID)
		return eventDeletedMsg{eventID: eventID, err: err}
	}
}
