package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smartpark/parking-terminal/internal/api"
	"github.com/smartpark/parking-terminal/internal/models"
	"github.com/smartpark/parking-terminal/internal/session"
)

// loginResultMsg is sent when a login or register attempt completes
type loginResultMsg struct {
	user *models.User
	err  error
}

// sessionResumedMsg is sent when the persisted session has been resolved.
// user is nil when there was nothing to resume.
type sessionResumedMsg struct {
	user *models.User
	err  error
}

// loggedOutMsg is sent after an explicit logout completes
type loggedOutMsg struct{}

// favoritesMsg is sent when the favorite list has been fetched
type favoritesMsg struct {
	favorites []models.Favorite
	err       error
}

// favoriteToggledMsg is sent after a favorite toggle; the list is re-fetched
// rather than patched locally
type favoriteToggledMsg struct {
	zoneID string
	err    error
}

// submitLogin exchanges credentials for an authenticated session
func submitLogin(ctrl *session.Controller, username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		user, err := ctrl.Login(ctx, username, password)
		return loginResultMsg{user: user, err: err}
	}
}

// submitRegister creates an account and logs in
func submitRegister(ctrl *session.Controller, reg models.Registration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		user, err := ctrl.Register(ctx, reg)
		return loginResultMsg{user: user, err: err}
	}
}

// resumeSession restores the persisted session if one exists
func resumeSession(ctrl *session.Controller) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		user, err := ctrl.Resume(ctx)
		return sessionResumedMsg{user: user, err: err}
	}
}

// logout ends the session
func logout(ctrl *session.Controller) tea.Cmd {
	return func() tea.Msg {
		ctrl.Logout()
		return loggedOutMsg{}
	}
}

// fetchFavorites fetches the user's favorite zones
func fetchFavorites(client api.FavoriteClient) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		favorites, err := client.ListFavorites(ctx)
		return favoritesMsg{favorites: favorites, err: err}
	}
}

// toggleFavorite flips a zone's favorite status
func toggleFavorite(client api.FavoriteClient, zoneID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		err := client.ToggleFavorite(ctx, zoneID)
		return favoriteToggledMsg{zoneID: zoneID, err: err}
	}
}
