package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smartpark/parking-terminal/internal/api"
	"github.com/smartpark/parking-terminal/internal/models"
)

// adminHealthMsg is sent when the backend health summary has been fetched
type adminHealthMsg struct {
	health *models.HealthStats
	err    error
}

// adminLogsMsg is sent when backend logs have been fetched
type adminLogsMsg struct {
	logs []models.SystemLog
	err  error
}

// adminUsersMsg is sent when the user roster has been fetched
type adminUsersMsg struct {
	users []models.User
	err   error
}

// modelPerformanceMsg is sent when model quality metrics have been fetched
type modelPerformanceMsg struct {
	performance *models.ModelPerformance
	err         error
}

// retrainMsg is sent when a retrain run finishes
type retrainMsg struct {
	result *models.RetrainResult
	err    error
}

// roleUpdatedMsg is sent after a user role change; the roster is re-fetched
type roleUpdatedMsg struct {
	userID int
	err    error
}

// adminLogLimit is how many recent backend log lines the console shows
const adminLogLimit = 50

// fetchAdminHealth fetches the backend health summary
func fetchAdminHealth(client api.AdminClient) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		health, err := client.Health(ctx)
		return adminHealthMsg{health: health, err: err}
	}
}

// fetchAdminLogs fetches the latest backend log lines
func fetchAdminLogs(client api.AdminClient) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		logs, err := client.Logs(ctx, adminLogLimit)
		return adminLogsMsg{logs: logs, err: err}
	}
}

// fetchAdminUsers fetches all registered users
func fetchAdminUsers(client api.AdminClient) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		users, err := client.Users(ctx)
		return adminUsersMsg{users: users, err: err}
	}
}

// fetchModelPerformance fetches the current model quality metrics
func fetchModelPerformance(client api.AdminClient) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		performance, err := client.ModelPerformance(ctx)
		return modelPerformanceMsg{performance: performance, err: err}
	}
}

// triggerRetrain starts a model retrain. Retrains run long, so this command
// gets a generous multiple of the normal timeout.
func triggerRetrain(client api.AdminClient) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*commandTimeout)
		defer cancel()

		result, err := client.Retrain(ctx)
		return retrainMsg{result: result, err: err}
	}
}

// setUserRole toggles a user's admin flag
func setUserRole(client api.AdminClient, userID int, isAdmin bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		err := client.SetUserRole(ctx, userID, isAdmin)
		return roleUpdatedMsg{userID: userID, err: err}
	}
}
