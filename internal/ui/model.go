package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/smartpark/parking-terminal/internal/api"
	"github.com/smartpark/parking-terminal/internal/availability"
	"github.com/smartpark/parking-terminal/internal/geoloc"
	"github.com/smartpark/parking-terminal/internal/models"
	"github.com/smartpark/parking-terminal/internal/session"
	"github.com/smartpark/parking-terminal/internal/storage"
)

// AppState represents the current state of the application
type AppState int

const (
	StateAuth      AppState = iota // Login/register screen
	StateLoading                   // Session established, initial data loading
	StateDashboard                 // Zone list and detail panes
	StateEvents                    // City events screen
	StateAdmin                     // Admin console
	StateSettings                  // Theme settings
	StateError                     // Unrecoverable error
)

// Deps are the external services the model drives
type Deps struct {
	Zones       api.ZoneClient
	Predictions api.PredictionClient
	Events      api.EventClient
	Favorites   api.FavoriteClient
	Admin       api.AdminClient
	Session     *session.Controller
	Store       *storage.Store
	Positions   <-chan geoloc.Position
	Logger      zerolog.Logger

	// RefreshInterval is how often live zone data is re-fetched
	RefreshInterval time.Duration
}

// Model represents the application's state
type Model struct {
	deps   Deps
	logger zerolog.Logger

	state  AppState
	width  int
	height int
	err    error
	notice string
	theme  theme

	// Auth
	auth authForm

	// Zones and availability
	agg          *availability.Aggregator
	zones        []models.Zone
	zoneList     list.Model
	selectedZone *models.Zone
	prediction   *models.Prediction
	history      *models.ZoneHistory
	historyZone  string
	offline      bool

	// Favorites
	favorites map[string]bool

	// Events
	events      []models.Event
	eventCursor int
	eventForm   eventForm

	// Admin console
	health      *models.HealthStats
	performance *models.ModelPerformance
	users       []models.User
	userCursor  int
	logs        []models.SystemLog
	retraining  bool

	// Location
	position *geoloc.Position

	spinner spinner.Model
}

// NewModel creates the application model. The theme is restored from the
// store; themeFallback is used when nothing is persisted.
func NewModel(deps Deps, themeFallback string) Model {
	if deps.RefreshInterval <= 0 {
		deps.RefreshInterval = 30 * time.Second
	}

	themeName := themeFallback
	if deps.Store != nil {
		if saved, err := deps.Store.Theme(); err == nil && saved != "" {
			themeName = saved
		}
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	// A persisted token means cold start resumes the session rather than
	// showing the login form
	state := StateAuth
	if deps.Session.HasPersistedToken() {
		state = StateLoading
	}

	return Model{
		deps:      deps,
		logger:    deps.Logger.With().Str("component", "ui").Logger(),
		state:     state,
		theme:     newTheme(themeName),
		auth:      newAuthForm(),
		agg:       availability.New(),
		zoneList:  newZoneList(nil, 40, 20),
		favorites: map[string]bool{},
		eventForm: newEventForm(),
		spinner:   s,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}

	if m.deps.Positions != nil {
		cmds = append(cmds, waitForPosition(m.deps.Positions))
	}
	if m.deps.Session.HasPersistedToken() {
		cmds = append(cmds, resumeSession(m.deps.Session))
	}

	return tea.Batch(cmds...)
}

// isAdmin reports whether the signed-in user has admin rights
func (m Model) isAdmin() bool {
	user := m.deps.Session.User()
	return user != nil && user.IsAdmin
}

// enterSession transitions into the loading state and kicks off the
// independent initial fetches in parallel
func (m Model) enterSession() (Model, tea.Cmd) {
	m.state = StateLoading
	m.notice = ""
	return m, tea.Batch(
		fetchZones(m.deps.Zones),
		fetchEvents(m.deps.Events),
		fetchFavorites(m.deps.Favorites),
		scheduleTick(m.deps.RefreshInterval),
	)
}

// clearSession drops all per-user data and returns to the auth screen
func (m Model) clearSession() Model {
	m.state = StateAuth
	m.auth = m.auth.reset()
	m.zones = nil
	m.selectedZone = nil
	m.prediction = nil
	m.history = nil
	m.historyZone = ""
	m.favorites = map[string]bool{}
	m.events = nil
	m.eventForm = m.eventForm.reset()
	m.health = nil
	m.performance = nil
	m.users = nil
	m.logs = nil
	m.agg.SetOffset(0)
	return m
}

// refreshZoneItems rebuilds the zone list contents from current data
func (m *Model) refreshZoneItems() {
	m.zoneList.SetItems(zoneItems(m.zones, m.agg, m.favorites))
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.zoneList.SetSize(msg.Width/2-4, msg.Height-10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		if m.state == StateAuth || m.state == StateError {
			return m, scheduleTick(m.deps.RefreshInterval)
		}
		return m, tea.Batch(fetchZones(m.deps.Zones), scheduleTick(m.deps.RefreshInterval))

	case positionMsg:
		if !msg.ok {
			return m, nil
		}
		pos := msg.position
		m.position = &pos
		return m, waitForPosition(m.deps.Positions)

	case errMsg:
		m.err = msg.err
		m.state = StateError
		return m, nil
	}

	if model, cmd, handled := m.handleSessionMsg(msg); handled {
		return model, cmd
	}
	if model, cmd, handled := m.handleDataMsg(msg); handled {
		return model, cmd
	}
	if model, cmd, handled := m.handleAdminMsg(msg); handled {
		return model, cmd
	}

	// Forward everything else to the focused component
	var cmd tea.Cmd
	switch m.state {
	case StateAuth:
		m.auth, cmd = m.auth.update(msg)
	case StateDashboard:
		m.zoneList, cmd = m.zoneList.Update(msg)
	case StateEvents:
		if m.eventForm.open {
			m.eventForm, cmd = m.eventForm.update(msg)
		}
	}
	return m, cmd
}

// handleSessionMsg handles auth lifecycle messages
func (m Model) handleSessionMsg(msg tea.Msg) (Model, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case loginResultMsg:
		if msg.err != nil {
			m.notice = api.Detail(msg.err, "Sign in failed, please try again")
			return m, nil, true
		}
		model, cmd := m.enterSession()
		return model, cmd, true

	case sessionResumedMsg:
		if msg.err != nil {
			if api.IsUnauthorized(msg.err) {
				m.notice = "Session expired, please sign in again"
			} else {
				m.notice = api.Detail(msg.err, "Could not restore session")
			}
			m = m.clearSession()
			return m, nil, true
		}
		if msg.user == nil {
			m.state = StateAuth
			return m, nil, true
		}
		model, cmd := m.enterSession()
		return model, cmd, true

	case loggedOutMsg:
		m = m.clearSession()
		return m, nil, true

	case favoritesMsg:
		if msg.err == nil {
			m.favorites = map[string]bool{}
			for _, f := range msg.favorites {
				m.favorites[f.ZoneID] = true
			}
			m.refreshZoneItems()
		}
		return m, nil, true

	case favoriteToggledMsg:
		if msg.err != nil {
			m.notice = api.Detail(msg.err, "Could not update favorite")
			return m, nil, true
		}
		// Authoritative list comes from the backend, not a local patch
		return m, fetchFavorites(m.deps.Favorites), true
	}

	return m, nil, false
}

// handleDataMsg handles zone, prediction and event data messages
func (m Model) handleDataMsg(msg tea.Msg) (Model, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case zonesLoadedMsg:
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Msg("zone refresh failed")
			if len(m.zones) == 0 {
				// Nothing on screen yet, try the offline cache
				return m, loadCachedZones(m.deps.Store), true
			}
			m.notice = "Live refresh failed, showing previous data"
			return m, nil, true
		}
		m.offline = false
		m.notice = ""
		m.zones = msg.zones
		m.syncSelectedZone()
		m.refreshZoneItems()
		if m.state == StateLoading {
			m.state = StateDashboard
		}
		return m, cacheZones(m.deps.Store, msg.zones), true

	case cachedZonesMsg:
		if msg.err != nil || len(msg.zones) == 0 {
			m.err = fmt.Errorf("backend unreachable and no cached data available")
			m.state = StateError
			return m, nil, true
		}
		m.offline = true
		m.notice = "Backend unreachable, showing cached zone data"
		m.zones = msg.zones
		m.refreshZoneItems()
		if m.state == StateLoading {
			m.state = StateDashboard
		}
		return m, nil, true

	case batchPredictionsMsg:
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Msg("batch prediction fetch failed")
			m.notice = "Forecast unavailable, showing live data"
			return m, nil, true
		}
		if m.agg.ApplyBatch(msg.generation, msg.predictions) {
			m.refreshZoneItems()
		}
		return m, nil, true

	case predictionMsg:
		if msg.err == nil && m.selectedZone != nil && msg.zoneID == m.selectedZone.ZoneID {
			m.prediction = msg.prediction
		}
		return m, nil, true

	case zoneHistoryMsg:
		if msg.err == nil && m.selectedZone != nil && msg.zoneID == m.selectedZone.ZoneID {
			m.history = msg.history
			m.historyZone = msg.zoneID
		}
		return m, nil, true

	case eventsMsg:
		if msg.err == nil {
			m.events = msg.events
			if m.eventCursor >= len(m.events) {
				m.eventCursor = 0
			}
		}
		return m, nil, true

	case eventCreatedMsg:
		if msg.err != nil {
			m.notice = api.Detail(msg.err, "Could not create event")
			return m, nil, true
		}
		m.eventForm = m.eventForm.reset()
		m.notice = ""
		return m, fetchEvents(m.deps.Events), true

	case eventDeletedMsg:
		if msg.err != nil {
			m.notice = api.Detail(msg.err, "Could not delete event")
			return m, nil, true
		}
		return m, fetchEvents(m.deps.Events), true
	}

	return m, nil, false
}

// handleAdminMsg handles admin console messages
func (m Model) handleAdminMsg(msg tea.Msg) (Model, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case adminHealthMsg:
		if msg.err == nil {
			m.health = msg.health
		}
		return m, nil, true

	case adminLogsMsg:
		if msg.err == nil {
			m.logs = msg.logs
		}
		return m, nil, true

	case adminUsersMsg:
		if msg.err == nil {
			m.users = msg.users
			if m.userCursor >= len(m.users) {
				m.userCursor = 0
			}
		}
		return m, nil, true

	case modelPerformanceMsg:
		if msg.err == nil {
			m.performance = msg.performance
		}
		return m, nil, true

	case retrainMsg:
		m.retraining = false
		if msg.err != nil {
			m.notice = api.Detail(msg.err, "Retrain failed")
			return m, nil, true
		}
		m.notice = msg.result.Message
		return m, tea.Batch(
			fetchModelPerformance(m.deps.Admin),
			fetchAdminHealth(m.deps.Admin),
		), true

	case roleUpdatedMsg:
		if msg.err != nil {
			m.notice = api.Detail(msg.err, "Could not change role")
			return m, nil, true
		}
		return m, fetchAdminUsers(m.deps.Admin), true
	}

	return m, nil, false
}

// syncSelectedZone re-points the selection at the fresh copy of its zone
func (m *Model) syncSelectedZone() {
	if m.selectedZone == nil {
		return
	}
	for i := range m.zones {
		if m.zones[i].ZoneID == m.selectedZone.ZoneID {
			zone := m.zones[i]
			m.selectedZone = &zone
			return
		}
	}
	m.selectedZone = nil
}

// handleKey routes keyboard input by state
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.state {
	case StateAuth:
		return m.handleAuthKey(msg)
	case StateDashboard:
		return m.handleDashboardKey(msg)
	case StateEvents:
		return m.handleEventsKey(msg)
	case StateAdmin:
		return m.handleAdminKey(msg)
	case StateSettings:
		return m.handleSettingsKey(msg)
	case StateError:
		if msg.String() == "q" {
			return m, tea.Quit
		}
		// Any other key retries from the auth gate
		m.err = nil
		if m.deps.Session.State() == session.Authenticated {
			return m.enterSession()
		}
		m.state = StateAuth
		return m, nil
	}

	return m, nil
}

// handleAuthKey handles the login/register screen
func (m Model) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+r":
		m.auth = m.auth.toggleMode()
		m.notice = ""
		return m, nil
	case "tab", "shift+tab", "down", "up":
		m.auth = m.auth.nextField()
		return m, nil
	case "enter":
		if !m.auth.complete() {
			m.notice = "All fields are required"
			return m, nil
		}
		m.notice = ""
		if m.auth.mode == modeRegister {
			return m, submitRegister(m.deps.Session, m.auth.registration())
		}
		return m, submitLogin(m.deps.Session, m.auth.email(), m.auth.password())
	}

	if m.notice != "" {
		m.notice = ""
	}
	var cmd tea.Cmd
	m.auth, cmd = m.auth.update(msg)
	return m, cmd
}

// handleDashboardKey handles the main dashboard
func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the list filter is typing, keys belong to the list
	if m.zoneList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.zoneList, cmd = m.zoneList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "enter":
		if item, ok := m.zoneList.SelectedItem().(zoneItem); ok {
			zone := item.zone
			m.selectedZone = &zone
			m.prediction = nil
			m.history = nil
			m.historyZone = ""
			return m, tea.Batch(
				fetchPrediction(m.deps.Predictions, zone.ZoneID, m.offsetTime()),
				fetchZoneHistory(m.deps.Zones, zone.ZoneID),
			)
		}
		return m, nil

	case "0", "1", "2", "4":
		hours := int(msg.String()[0] - '0')
		return m.applyOffset(hours)

	case "f":
		if m.selectedZone != nil {
			return m, toggleFavorite(m.deps.Favorites, m.selectedZone.ZoneID)
		}
		return m, nil

	case "r":
		return m, fetchZones(m.deps.Zones)

	case "e":
		m.state = StateEvents
		m.notice = ""
		return m, fetchEvents(m.deps.Events)

	case "a":
		if !m.isAdmin() {
			return m, nil
		}
		m.state = StateAdmin
		m.notice = ""
		return m, tea.Batch(
			fetchAdminHealth(m.deps.Admin),
			fetchAdminLogs(m.deps.Admin),
			fetchAdminUsers(m.deps.Admin),
			fetchModelPerformance(m.deps.Admin),
		)

	case "s":
		m.state = StateSettings
		return m, nil

	case "L":
		return m, logout(m.deps.Session)
	}

	var cmd tea.Cmd
	m.zoneList, cmd = m.zoneList.Update(msg)
	return m, cmd
}

// applyOffset switches the availability view to now+hours
func (m Model) applyOffset(hours int) (tea.Model, tea.Cmd) {
	generation, target, needFetch := m.agg.SetOffset(hours)
	m.refreshZoneItems()

	var cmds []tea.Cmd
	if needFetch {
		ids := make([]string, len(m.zones))
		for i, z := range m.zones {
			ids[i] = z.ZoneID
		}
		cmds = append(cmds, fetchBatchPredictions(m.deps.Predictions, generation, ids, target))
	}
	if m.selectedZone != nil {
		m.prediction = nil
		cmds = append(cmds, fetchPrediction(m.deps.Predictions, m.selectedZone.ZoneID, m.offsetTime()))
	}
	return m, tea.Batch(cmds...)
}

// offsetTime returns the prediction timestamp for the active offset, nil
// meaning now
func (m Model) offsetTime() *time.Time {
	offset := m.agg.Offset()
	if offset <= 0 {
		return nil
	}
	t := time.Now().Add(time.Duration(offset) * time.Hour)
	return &t
}

// handleEventsKey handles the city events screen
func (m Model) handleEventsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.eventForm.open {
		switch msg.String() {
		case "esc":
			m.eventForm = m.eventForm.reset()
			m.notice = ""
			return m, nil
		case "tab", "shift+tab", "down", "up":
			m.eventForm = m.eventForm.nextField()
			return m, nil
		case "enter":
			event, err := m.eventForm.event()
			if err != nil {
				m.notice = err.Error()
				return m, nil
			}
			m.notice = ""
			return m, createEvent(m.deps.Events, event)
		}
		var cmd tea.Cmd
		m.eventForm, cmd = m.eventForm.update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		m.state = StateDashboard
		m.notice = ""
		return m, nil
	case "up", "k":
		if m.eventCursor > 0 {
			m.eventCursor--
		}
		return m, nil
	case "down", "j":
		if m.eventCursor < len(m.events)-1 {
			m.eventCursor++
		}
		return m, nil
	case "n":
		if m.isAdmin() {
			m.eventForm = m.eventForm.reset()
			m.eventForm.open = true
			m.eventForm = m.eventForm.setFocus(0)
		}
		return m, nil
	case "d":
		if m.isAdmin() && m.eventCursor < len(m.events) {
			return m, deleteEvent(m.deps.Events, m.events[m.eventCursor].EventID)
		}
		return m, nil
	}

	return m, nil
}

// handleAdminKey handles the admin console
func (m Model) handleAdminKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		m.state = StateDashboard
		m.notice = ""
		return m, nil
	case "up", "k":
		if m.userCursor > 0 {
			m.userCursor--
		}
		return m, nil
	case "down", "j":
		if m.userCursor < len(m.users)-1 {
			m.userCursor++
		}
		return m, nil
	case "R":
		if m.retraining {
			return m, nil
		}
		m.retraining = true
		m.notice = ""
		return m, triggerRetrain(m.deps.Admin)
	case "p":
		if m.userCursor < len(m.users) {
			u := m.users[m.userCursor]
			return m, setUserRole(m.deps.Admin, u.ID, !u.IsAdmin)
		}
		return m, nil
	}

	return m, nil
}

// handleSettingsKey handles the theme settings screen
func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		m.state = StateDashboard
		return m, nil
	case "t", "right", "down", "enter":
		next := nextTheme(m.theme.name)
		m.theme = newTheme(next)
		if m.deps.Store != nil {
			m.deps.Store.SaveTheme(next)
		}
		return m, nil
	}
	return m, nil
}

// nextTheme cycles through the theme order
func nextTheme(current string) string {
	for i, name := range themeNames {
		if name == current {
			return themeNames[(i+1)%len(themeNames)]
		}
	}
	return themeNames[0]
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.state {
	case StateAuth:
		return m.viewAuth()
	case StateLoading:
		return m.viewLoading()
	case StateDashboard:
		return m.viewDashboard()
	case StateEvents:
		return m.viewEvents()
	case StateAdmin:
		return m.viewAdmin()
	case StateSettings:
		return m.viewSettings()
	case StateError:
		return m.viewError()
	}

	return ""
}

// viewLoading renders the post-login loading screen
func (m Model) viewLoading() string {
	t := m.theme
	return lipgloss.JoinVertical(
		lipgloss.Left,
		t.title.Render("◧ SmartPark Terminal"),
		"",
		fmt.Sprintf("%s %s", m.spinner.View(), t.muted.Render("Loading parking data...")),
	)
}

// viewError renders the error screen
func (m Model) viewError() string {
	t := m.theme

	message := "An unknown error occurred"
	if m.err != nil {
		message = m.err.Error()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		t.errorText.Render("✗ Error"),
		"",
		message,
		"",
		t.help.Render("Press any key to retry • Q: Quit"),
	)
}

// viewDashboard renders the zone list and detail panes side by side
func (m Model) viewDashboard() string {
	t := m.theme

	left := t.pane.Width(m.width/2 - 2).Render(m.zoneList.View())
	right := t.activePane.Width(m.width - m.width/2 - 4).Render(m.renderDetail())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	return lipgloss.JoinVertical(lipgloss.Left, m.renderStatusBar(), body, m.renderDashboardHelp())
}

// renderStatusBar renders the top status line
func (m Model) renderStatusBar() string {
	t := m.theme

	parts := []string{t.title.Render("◧ SmartPark")}

	if user := m.deps.Session.User(); user != nil {
		parts = append(parts, t.muted.Render(user.Email))
	}
	if offset := m.agg.Offset(); offset > 0 {
		parts = append(parts, t.value.Render(fmt.Sprintf("view: +%dh", offset)))
	} else {
		parts = append(parts, t.muted.Render("view: live"))
	}
	if m.position != nil && m.position.City != "" {
		parts = append(parts, t.muted.Render("near "+m.position.City))
	}
	if m.offline {
		parts = append(parts, t.errorText.Render("OFFLINE"))
	}
	if m.notice != "" {
		parts = append(parts, t.errorText.Render(m.notice))
	}

	return t.statusBar.Render(lipgloss.JoinHorizontal(lipgloss.Top, joinWithDots(parts)...))
}

// joinWithDots interleaves separator dots between status segments
func joinWithDots(parts []string) []string {
	out := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			out = append(out, "  ·  ")
		}
		out = append(out, p)
	}
	return out
}

// renderDashboardHelp renders the dashboard key hints
func (m Model) renderDashboardHelp() string {
	help := "Enter: Select • 0/1/2/4: Time offset • F: Favorite • R: Refresh • E: Events • S: Settings"
	if m.isAdmin() {
		help += " • A: Admin"
	}
	help += " • L: Logout • Q: Quit"
	return m.theme.help.Render(help)
}

// viewSettings renders the theme settings screen
func (m Model) viewSettings() string {
	t := m.theme

	var rows []string
	for _, name := range themeNames {
		marker := "  "
		if name == m.theme.name {
			marker = t.title.Render("> ")
		}
		rows = append(rows, marker+t.value.Render(name))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		t.title.Render("◧ Settings"),
		t.muted.Render("Theme (persisted across sessions)"),
		"",
		lipgloss.JoinVertical(lipgloss.Left, rows...),
		"",
		t.help.Render("T/Enter: Next theme • Esc: Dashboard • Q: Quit"),
	)
}
