package session

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/smartpark/parking-terminal/internal/api"
	"github.com/smartpark/parking-terminal/internal/models"
)

// fakeAuth scripts the auth backend. Each call delegates to the matching
// func field, so tests only wire up what they exercise.
type fakeAuth struct {
	loginFn       func(username, password string) (string, error)
	registerFn    func(reg models.Registration) (*models.User, error)
	googleFn      func(assertion string) (string, error)
	currentUserFn func(token string) (*models.User, error)
}

func (f *fakeAuth) Login(_ context.Context, username, password string) (string, error) {
	return f.loginFn(username, password)
}

func (f *fakeAuth) Register(_ context.Context, reg models.Registration) (*models.User, error) {
	return f.registerFn(reg)
}

func (f *fakeAuth) GoogleLogin(_ context.Context, assertion string) (string, error) {
	return f.googleFn(assertion)
}

func (f *fakeAuth) CurrentUser(_ context.Context, token string) (*models.User, error) {
	return f.currentUserFn(token)
}

// memStore is an in-memory TokenStore recording every mutation
type memStore struct {
	token  string
	saves  int
	clears int
}

func (m *memStore) Token() (string, error) { return m.token, nil }

func (m *memStore) SaveToken(token string) error {
	m.token = token
	m.saves++
	return nil
}

func (m *memStore) ClearToken() error {
	m.token = ""
	m.clears++
	return nil
}

func newController(auth api.AuthClient, store TokenStore) *Controller {
	return New(auth, store, zerolog.Nop())
}

func unauthorized(status int) error {
	return &api.Error{Kind: api.KindUnauthorized, Status: status, Message: "Could not validate credentials"}
}

func TestLogin_PersistsTokenOnlyAfterProfileResolves(t *testing.T) {
	store := &memStore{}
	profileCalled := false
	auth := &fakeAuth{
		loginFn: func(username, password string) (string, error) {
			if username != "maya@example.com" || password != "hunter2" {
				t.Errorf("Login got (%q, %q)", username, password)
			}
			return "tok-abc", nil
		},
		currentUserFn: func(token string) (*models.User, error) {
			profileCalled = true
			if store.saves != 0 {
				t.Error("token persisted before the profile resolved")
			}
			if token != "tok-abc" {
				t.Errorf("CurrentUser got token %q, want tok-abc", token)
			}
			return &models.User{ID: 1, Email: "maya@example.com"}, nil
		},
	}
	ctrl := newController(auth, store)

	user, err := ctrl.Login(context.Background(), "maya@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if !profileCalled {
		t.Fatal("profile was never resolved")
	}
	if user.Email != "maya@example.com" {
		t.Errorf("Login() user = %+v", user)
	}
	if store.token != "tok-abc" {
		t.Errorf("persisted token = %q, want tok-abc", store.token)
	}
	if got := ctrl.State(); got != Authenticated {
		t.Errorf("State() = %v, want Authenticated", got)
	}
	if ctrl.Token() != "tok-abc" {
		t.Errorf("Token() = %q, want tok-abc", ctrl.Token())
	}
}

func TestLogin_ProfileFailureLeavesNothingBehind(t *testing.T) {
	store := &memStore{}
	auth := &fakeAuth{
		loginFn: func(_, _ string) (string, error) { return "tok-bad", nil },
		currentUserFn: func(string) (*models.User, error) {
			return nil, errors.New("connection reset")
		},
	}
	ctrl := newController(auth, store)

	if _, err := ctrl.Login(context.Background(), "a", "b"); err == nil {
		t.Fatal("Login() expected error")
	}
	if store.saves != 0 || store.token != "" {
		t.Errorf("token was persisted despite failed verification: %+v", store)
	}
	if got := ctrl.State(); got != Anonymous {
		t.Errorf("State() = %v, want Anonymous", got)
	}
}

func TestRegister_LogsInWithSameCredentials(t *testing.T) {
	store := &memStore{}
	reg := models.Registration{Email: "new@example.com", Password: "s3cret", Name: "New User"}
	auth := &fakeAuth{
		registerFn: func(got models.Registration) (*models.User, error) {
			if got.Email != reg.Email {
				t.Errorf("Register got %+v", got)
			}
			return &models.User{ID: 2, Email: reg.Email}, nil
		},
		loginFn: func(username, password string) (string, error) {
			if username != reg.Email || password != reg.Password {
				t.Errorf("follow-up Login got (%q, %q)", username, password)
			}
			return "tok-new", nil
		},
		currentUserFn: func(string) (*models.User, error) {
			return &models.User{ID: 2, Email: reg.Email}, nil
		},
	}
	ctrl := newController(auth, store)

	user, err := ctrl.Register(context.Background(), reg)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.ID != 2 {
		t.Errorf("Register() user = %+v", user)
	}
	if store.token != "tok-new" {
		t.Errorf("persisted token = %q, want tok-new", store.token)
	}
}

func TestResume_RestoresPersistedSession(t *testing.T) {
	store := &memStore{token: "tok-persisted"}
	auth := &fakeAuth{
		currentUserFn: func(token string) (*models.User, error) {
			if token != "tok-persisted" {
				t.Errorf("CurrentUser got token %q", token)
			}
			return &models.User{ID: 3, Email: "back@example.com"}, nil
		},
	}
	ctrl := newController(auth, store)

	if !ctrl.HasPersistedToken() {
		t.Error("HasPersistedToken() = false with a stored token")
	}
	user, err := ctrl.Resume(context.Background())
	if err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	if user == nil || user.Email != "back@example.com" {
		t.Errorf("Resume() user = %+v", user)
	}
	if got := ctrl.State(); got != Authenticated {
		t.Errorf("State() = %v, want Authenticated", got)
	}
}

func TestResume_NoPersistedSession(t *testing.T) {
	ctrl := newController(&fakeAuth{}, &memStore{})

	user, err := ctrl.Resume(context.Background())
	if err != nil || user != nil {
		t.Errorf("Resume() = (%+v, %v), want (nil, nil)", user, err)
	}
	if got := ctrl.State(); got != Anonymous {
		t.Errorf("State() = %v, want Anonymous", got)
	}
}

func TestResolveProfile_ForcedLogoutOnRejection(t *testing.T) {
	for _, status := range []int{401, 403} {
		store := &memStore{token: "tok-expired"}
		auth := &fakeAuth{
			currentUserFn: func(string) (*models.User, error) {
				return nil, unauthorized(status)
			},
		}
		ctrl := newController(auth, store)

		_, err := ctrl.Resume(context.Background())
		if !api.IsUnauthorized(err) {
			t.Fatalf("status %d: Resume() error = %v, want unauthorized", status, err)
		}
		if ctrl.Token() != "" || ctrl.User() != nil {
			t.Errorf("status %d: session not cleared", status)
		}
		if store.token != "" {
			t.Errorf("status %d: persisted token survived forced logout", status)
		}
		if got := ctrl.State(); got != Anonymous {
			t.Errorf("status %d: State() = %v, want Anonymous", status, got)
		}
	}
}

func TestResolveProfile_TransientFailureKeepsSession(t *testing.T) {
	store := &memStore{token: "tok-live"}
	auth := &fakeAuth{
		currentUserFn: func(string) (*models.User, error) {
			return nil, &api.Error{Kind: api.KindNetwork, Message: "connection refused"}
		},
	}
	ctrl := newController(auth, store)

	_, err := ctrl.Resume(context.Background())
	if err == nil {
		t.Fatal("Resume() expected error")
	}
	if ctrl.Token() != "tok-live" {
		t.Errorf("Token() = %q, transient failure must not drop the session", ctrl.Token())
	}
	if store.token != "tok-live" {
		t.Error("persisted token cleared on transient failure")
	}
	if got := ctrl.State(); got != Resolving {
		t.Errorf("State() = %v, want Resolving", got)
	}
}

func TestLogout_Idempotent(t *testing.T) {
	store := &memStore{}
	auth := &fakeAuth{
		loginFn: func(_, _ string) (string, error) { return "tok", nil },
		currentUserFn: func(string) (*models.User, error) {
			return &models.User{ID: 1}, nil
		},
	}
	ctrl := newController(auth, store)

	if _, err := ctrl.Login(context.Background(), "a", "b"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	ctrl.Logout()
	if ctrl.Token() != "" || ctrl.User() != nil || store.token != "" {
		t.Error("Logout() left session state behind")
	}

	// Second logout must be a clean no-op
	ctrl.Logout()
	if got := ctrl.State(); got != Anonymous {
		t.Errorf("State() after double logout = %v, want Anonymous", got)
	}
}

func TestResolveProfile_AnonymousIsNoOp(t *testing.T) {
	called := false
	auth := &fakeAuth{
		currentUserFn: func(string) (*models.User, error) {
			called = true
			return nil, nil
		},
	}
	ctrl := newController(auth, &memStore{})

	user, err := ctrl.ResolveProfile(context.Background())
	if user != nil || err != nil {
		t.Errorf("ResolveProfile() = (%+v, %v), want (nil, nil)", user, err)
	}
	if called {
		t.Error("profile endpoint called with no token held")
	}
}
