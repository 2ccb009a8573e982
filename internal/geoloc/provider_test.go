package geoloc

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestIPProvider_CurrentPosition(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","city":"Ahmedabad","regionName":"Gujarat","lat":23.0225,"lon":72.5714}`))
	}))
	defer server.Close()

	p := NewIPProvider(2 * time.Second)
	p.baseURL = server.URL + "/"

	pos, err := p.CurrentPosition(context.Background())
	if err != nil {
		t.Fatalf("CurrentPosition() error = %v", err)
	}
	if pos.City != "Ahmedabad" || pos.Latitude != 23.0225 || pos.Longitude != 72.5714 {
		t.Errorf("CurrentPosition() = %+v", pos)
	}
}

func TestIPProvider_LookupFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"fail","message":"private range"}`))
	}))
	defer server.Close()

	p := NewIPProvider(2 * time.Second)
	p.baseURL = server.URL + "/"

	if _, err := p.CurrentPosition(context.Background()); err == nil {
		t.Fatal("CurrentPosition() expected error for fail status")
	}
}

// countingProvider returns a fixed position and counts resolutions
type countingProvider struct {
	calls atomic.Int64
	fail  atomic.Bool
}

func (p *countingProvider) CurrentPosition(_ context.Context) (Position, error) {
	n := p.calls.Add(1)
	if p.fail.Load() {
		return Position{}, errors.New("unreachable")
	}
	return Position{Latitude: float64(n), Longitude: 72.5}, nil
}

func TestWatcher_DeliversAndStops(t *testing.T) {
	provider := &countingProvider{}
	w := NewWatcher(provider, 10*time.Millisecond, zerolog.Nop())

	updates := w.Start(context.Background())

	select {
	case pos, ok := <-updates:
		if !ok {
			t.Fatal("channel closed before first update")
		}
		if pos.Longitude != 72.5 {
			t.Errorf("first update = %+v", pos)
		}
	case <-time.After(time.Second):
		t.Fatal("no update within a second")
	}

	w.Stop()

	// After Stop the channel drains and closes
	for {
		if _, ok := <-updates; !ok {
			break
		}
	}

	// Stop is idempotent
	w.Stop()
}

func TestWatcher_SkipsFailedResolutions(t *testing.T) {
	provider := &countingProvider{}
	provider.fail.Store(true)
	w := NewWatcher(provider, 5*time.Millisecond, zerolog.Nop())

	updates := w.Start(context.Background())
	defer w.Stop()

	select {
	case pos, ok := <-updates:
		if ok {
			t.Fatalf("received %+v while resolutions fail", pos)
		}
	case <-time.After(50 * time.Millisecond):
	}

	if provider.calls.Load() < 2 {
		t.Error("watcher stopped polling after a failure")
	}
}

func TestWatcher_ReplacesUnreadUpdate(t *testing.T) {
	// With no consumer reading, a newer resolution displaces the pending one
	provider := &countingProvider{}
	w := NewWatcher(provider, time.Minute, zerolog.Nop())
	updates := make(chan Position, 1)

	w.resolve(context.Background(), updates)
	w.resolve(context.Background(), updates)

	select {
	case pos := <-updates:
		if pos.Latitude != 2 {
			t.Errorf("pending update = %+v, want the latest (lat 2)", pos)
		}
	default:
		t.Fatal("no pending update")
	}
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	w := NewWatcher(StaticProvider{}, time.Minute, zerolog.Nop())
	w.Stop()
}
