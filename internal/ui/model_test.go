package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/smartpark/parking-terminal/internal/api"
	"github.com/smartpark/parking-terminal/internal/models"
	"github.com/smartpark/parking-terminal/internal/session"
)

// fakeAuth is a scripted auth backend for session setup
type fakeAuth struct {
	user *models.User
}

func (f fakeAuth) Login(context.Context, string, string) (string, error) { return "tok", nil }
func (f fakeAuth) Register(context.Context, models.Registration) (*models.User, error) {
	return f.user, nil
}
func (f fakeAuth) GoogleLogin(context.Context, string) (string, error) { return "tok", nil }
func (f fakeAuth) CurrentUser(context.Context, string) (*models.User, error) {
	return f.user, nil
}

// memTokenStore is an in-memory session token store
type memTokenStore struct{ token string }

func (m *memTokenStore) Token() (string, error)     { return m.token, nil }
func (m *memTokenStore) SaveToken(t string) error   { m.token = t; return nil }
func (m *memTokenStore) ClearToken() error          { m.token = ""; return nil }

type fakeZones struct{}

func (fakeZones) ListZones(context.Context) ([]models.Zone, error) { return nil, nil }
func (fakeZones) GetZone(context.Context, string) (*models.Zone, error) {
	return nil, errors.New("not implemented")
}
func (fakeZones) GetZoneHistory(context.Context, string) (*models.ZoneHistory, error) {
	return &models.ZoneHistory{}, nil
}

type fakePredictions struct{}

func (fakePredictions) GetPrediction(context.Context, string, *time.Time) (*models.Prediction, error) {
	return &models.Prediction{}, nil
}
func (fakePredictions) GetBatchPredictions(context.Context, []string, time.Time) ([]models.BatchPrediction, error) {
	return nil, nil
}

type fakeEvents struct{}

func (fakeEvents) ListEvents(context.Context) ([]models.Event, error) { return nil, nil }
func (fakeEvents) CreateEvent(_ context.Context, e models.Event) (*models.Event, error) {
	return &e, nil
}
func (fakeEvents) DeleteEvent(context.Context, int) error { return nil }

type fakeFavorites struct{}

func (fakeFavorites) ListFavorites(context.Context) ([]models.Favorite, error) { return nil, nil }
func (fakeFavorites) ToggleFavorite(context.Context, string) error             { return nil }

func testZones() []models.Zone {
	return []models.Zone{
		{ZoneID: "zone_1", ZoneName: "CG Road", District: "Navrangpura", Latitude: 23.03, Longitude: 72.56, CurrentAvailability: 40},
		{ZoneID: "zone_2", ZoneName: "Law Garden", District: "Ellisbridge", Latitude: 23.02, Longitude: 72.55, CurrentAvailability: 70},
		{ZoneID: "zone_3", ZoneName: "Riverfront", District: "Old City", Latitude: 23.01, Longitude: 72.58, CurrentAvailability: 20},
	}
}

func newTestModel(t *testing.T, user *models.User) Model {
	t.Helper()

	ctrl := session.New(fakeAuth{user: user}, &memTokenStore{}, zerolog.Nop())
	m := NewModel(Deps{
		Zones:       fakeZones{},
		Predictions: fakePredictions{},
		Events:      fakeEvents{},
		Favorites:   fakeFavorites{},
		Session:     ctrl,
		Logger:      zerolog.Nop(),
	}, "dark")

	// Give it a terminal
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model)
}

// signIn pushes the model through login and initial zone load
func signIn(t *testing.T, m Model, user *models.User) Model {
	t.Helper()

	if _, err := m.deps.Session.Login(context.Background(), user.Email, "pw"); err != nil {
		t.Fatalf("session login: %v", err)
	}
	updated, _ := m.Update(loginResultMsg{user: user})
	m = updated.(Model)
	if m.state != StateLoading {
		t.Fatalf("state after login = %v, want StateLoading", m.state)
	}

	updated, _ = m.Update(zonesLoadedMsg{zones: testZones()})
	m = updated.(Model)
	if m.state != StateDashboard {
		t.Fatalf("state after zones loaded = %v, want StateDashboard", m.state)
	}
	return m
}

func TestModel_StartsAnonymous(t *testing.T) {
	m := newTestModel(t, nil)

	if m.state != StateAuth {
		t.Errorf("initial state = %v, want StateAuth", m.state)
	}
	if !strings.Contains(m.View(), "Sign in") {
		t.Error("auth view missing sign-in form")
	}
}

func TestModel_LoginFailureShowsBackendDetail(t *testing.T) {
	m := newTestModel(t, nil)

	updated, _ := m.Update(loginResultMsg{err: &api.Error{
		Kind: api.KindUnauthorized, Status: 401, Message: "Incorrect username or password",
	}})
	m = updated.(Model)

	if m.state != StateAuth {
		t.Errorf("state = %v, want StateAuth", m.state)
	}
	if m.notice != "Incorrect username or password" {
		t.Errorf("notice = %q, want backend detail", m.notice)
	}
}

func TestModel_LoginLoadsDashboard(t *testing.T) {
	user := &models.User{ID: 1, Email: "maya@example.com"}
	m := signIn(t, newTestModel(t, user), user)

	if len(m.zoneList.Items()) != 3 {
		t.Errorf("zone list has %d items, want 3", len(m.zoneList.Items()))
	}
	if !strings.Contains(m.View(), "maya@example.com") {
		t.Error("status bar missing signed-in user")
	}
}

func TestModel_StaleBatchResponseDiscarded(t *testing.T) {
	user := &models.User{ID: 1, Email: "maya@example.com"}
	m := signIn(t, newTestModel(t, user), user)

	// Offset +1 then +2: the +1 response arrives late and must be dropped
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	m = updated.(Model)
	staleGen := uint64(1)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	m = updated.(Model)

	updated, _ = m.Update(batchPredictionsMsg{
		generation:  staleGen,
		predictions: []models.BatchPrediction{{ZoneID: "zone_1", PredictedAvailability: 99}},
	})
	m = updated.(Model)
	if got := m.agg.Effective(m.zones[0]); got != 40 {
		t.Errorf("stale batch applied: Effective = %v, want live 40", got)
	}

	updated, _ = m.Update(batchPredictionsMsg{
		generation:  staleGen + 1,
		predictions: []models.BatchPrediction{{ZoneID: "zone_1", PredictedAvailability: 85}},
	})
	m = updated.(Model)
	if got := m.agg.Effective(m.zones[0]); got != 85 {
		t.Errorf("current batch not applied: Effective = %v, want 85", got)
	}
}

func TestModel_OffsetZeroReturnsToLive(t *testing.T) {
	user := &models.User{ID: 1, Email: "maya@example.com"}
	m := signIn(t, newTestModel(t, user), user)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'4'}})
	m = updated.(Model)
	updated, _ = m.Update(batchPredictionsMsg{
		generation:  1,
		predictions: []models.BatchPrediction{{ZoneID: "zone_1", PredictedAvailability: 5}},
	})
	m = updated.(Model)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'0'}})
	m = updated.(Model)

	if got := m.agg.Effective(m.zones[0]); got != 40 {
		t.Errorf("Effective after returning to live = %v, want 40", got)
	}
	if m.agg.Offset() != 0 {
		t.Errorf("Offset = %d, want 0", m.agg.Offset())
	}
}

func TestModel_SessionExpiredOnResume(t *testing.T) {
	m := newTestModel(t, nil)

	updated, _ := m.Update(sessionResumedMsg{err: &api.Error{
		Kind: api.KindUnauthorized, Status: 403, Message: "Could not validate credentials",
	}})
	m = updated.(Model)

	if m.state != StateAuth {
		t.Errorf("state = %v, want StateAuth", m.state)
	}
	if !strings.Contains(m.notice, "expired") {
		t.Errorf("notice = %q, want session-expired message", m.notice)
	}
}

func TestModel_FavoritesMarkZones(t *testing.T) {
	user := &models.User{ID: 1, Email: "maya@example.com"}
	m := signIn(t, newTestModel(t, user), user)

	updated, _ := m.Update(favoritesMsg{favorites: []models.Favorite{{ZoneID: "zone_2"}}})
	m = updated.(Model)

	if !m.favorites["zone_2"] {
		t.Error("zone_2 not marked favorite")
	}
	item := m.zoneList.Items()[1].(zoneItem)
	if !item.favorite || !strings.HasPrefix(item.Title(), "★") {
		t.Errorf("favorite zone title = %q, want star prefix", item.Title())
	}
}

func TestRenderDetail_ConfidenceAlreadyPercent(t *testing.T) {
	// confidence_score arrives as 0-100, not 0-1; it must not be rescaled
	user := &models.User{ID: 1, Email: "maya@example.com"}
	m := signIn(t, newTestModel(t, user), user)

	m.selectedZone = &m.zones[0]
	m.prediction = &models.Prediction{ZoneID: "zone_1", ConfidenceScore: 85}

	out := m.renderDetail()
	if strings.Contains(out, "8500%") {
		t.Error("confidence rendered rescaled as 8500%")
	}
	if !strings.Contains(out, "85%") {
		t.Error("confidence 85% missing from detail pane")
	}
}

func TestViewAdmin_EmptyUsersShowPlaceholder(t *testing.T) {
	user := &models.User{ID: 1, Email: "ops@example.com", IsAdmin: true}
	m := signIn(t, newTestModel(t, user), user)
	m.state = StateAdmin
	m.health = &models.HealthStats{Status: "healthy", Latency: "12ms", Integrity: "ok", Uptime: "99.9%"}
	m.performance = &models.ModelPerformance{MAE: "4.2", R2Score: "0.91", Accuracy: "87%"}

	if got := strings.Count(m.viewAdmin(), "Loading..."); got != 1 {
		t.Errorf("placeholders with empty users = %d, want 1 (the USERS section)", got)
	}

	m.users = []models.User{{ID: 2, Email: "driver@example.com"}}
	if got := strings.Count(m.viewAdmin(), "Loading..."); got != 0 {
		t.Errorf("placeholders with users loaded = %d, want 0", got)
	}
}

func TestModel_AdminGateRequiresRole(t *testing.T) {
	user := &models.User{ID: 1, Email: "maya@example.com", IsAdmin: false}
	m := signIn(t, newTestModel(t, user), user)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	m = updated.(Model)

	if m.state != StateDashboard {
		t.Errorf("non-admin reached state %v", m.state)
	}
}

func TestModel_LogoutClearsEverything(t *testing.T) {
	user := &models.User{ID: 1, Email: "maya@example.com"}
	m := signIn(t, newTestModel(t, user), user)

	updated, _ := m.Update(favoritesMsg{favorites: []models.Favorite{{ZoneID: "zone_1"}}})
	m = updated.(Model)
	updated, _ = m.Update(loggedOutMsg{})
	m = updated.(Model)

	if m.state != StateAuth {
		t.Errorf("state = %v, want StateAuth", m.state)
	}
	if len(m.zones) != 0 || len(m.favorites) != 0 {
		t.Error("per-user data survived logout")
	}
}

func TestEventForm_Validation(t *testing.T) {
	f := newEventForm()
	f.inputs[eventFieldName].SetValue("Night Market")
	f.inputs[eventFieldAttendance].SetValue("not-a-number")
	f.inputs[eventFieldStart].SetValue("2026-09-01 18:00")
	f.inputs[eventFieldEnd].SetValue("2026-09-01 23:00")

	if _, err := f.event(); err == nil {
		t.Error("accepted non-numeric attendance")
	}

	f.inputs[eventFieldAttendance].SetValue("5000")
	f.inputs[eventFieldEnd].SetValue("2026-09-01 17:00")
	if _, err := f.event(); err == nil {
		t.Error("accepted end before start")
	}

	f.inputs[eventFieldEnd].SetValue("2026-09-01 23:00")
	event, err := f.event()
	if err != nil {
		t.Fatalf("event() error = %v", err)
	}
	if event.EventName != "Night Market" || event.ExpectedAttendance != 5000 {
		t.Errorf("event = %+v", event)
	}
}

func TestNextTheme_Cycles(t *testing.T) {
	seen := map[string]bool{}
	name := "system"
	for i := 0; i < len(themeNames); i++ {
		seen[name] = true
		name = nextTheme(name)
	}
	if name != "system" || len(seen) != len(themeNames) {
		t.Errorf("cycle broken: ended at %q after visiting %d themes", name, len(seen))
	}
}
