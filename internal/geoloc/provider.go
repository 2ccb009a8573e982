// Package geoloc resolves the terminal's approximate position so the
// dashboard can rank nearby zones. Without a GPS the best available signal
// is IP geolocation, which is city-accurate and good enough for picking a
// district.
package geoloc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Position is a resolved location with its human-readable place name
type Position struct {
	Latitude  float64
	Longitude float64
	City      string
	Region    string
}

// Provider resolves the terminal's current position
type Provider interface {
	// CurrentPosition resolves the position. Implementations should return
	// an error rather than a guessed position when resolution fails.
	CurrentPosition(ctx context.Context) (Position, error)
}

// ipAPIBaseURL is the free ip-api.com endpoint. Querying without an IP
// resolves the caller's own public address. Free tier allows 45 req/min,
// far above the refresh interval used here.
const ipAPIBaseURL = "http://ip-api.com/json/"

// IPProvider implements Provider using the free ip-api.com service
type IPProvider struct {
	client  *http.Client
	baseURL string
}

// NewIPProvider creates an IP-geolocation provider
func NewIPProvider(timeout time.Duration) *IPProvider {
	return &IPProvider{
		client:  &http.Client{Timeout: timeout},
		baseURL: ipAPIBaseURL,
	}
}

// ipAPIResponse is the subset of the ip-api.com response we use
type ipAPIResponse struct {
	Status     string  `json:"status"` // "success" or "fail"
	Message    string  `json:"message"`
	City       string  `json:"city"`
	RegionName string  `json:"regionName"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
}

// CurrentPosition resolves the terminal's public-IP position
func (p *IPProvider) CurrentPosition(ctx context.Context) (Position, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.baseURL+"?fields=status,message,city,regionName,lat,lon", nil)
	if err != nil {
		return Position{}, fmt.Errorf("building geolocation request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return Position{}, fmt.Errorf("resolving position: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return Position{}, fmt.Errorf("geolocation service returned status %d", resp.StatusCode)
	}

	var body ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Position{}, fmt.Errorf("decoding geolocation response: %w", err)
	}
	if body.Status != "success" {
		return Position{}, fmt.Errorf("geolocation lookup failed: %s", body.Message)
	}

	return Position{
		Latitude:  body.Lat,
		Longitude: body.Lon,
		City:      body.City,
		Region:    body.RegionName,
	}, nil
}

// StaticProvider always returns a fixed position. Used when the position is
// configured explicitly instead of resolved.
type StaticProvider struct {
	Position Position
}

// CurrentPosition returns the configured position
func (p StaticProvider) CurrentPosition(_ context.Context) (Position, error) {
	return p.Position, nil
}

// Watcher periodically re-resolves the position and delivers updates on a
// channel. Failed resolutions are logged and skipped; the last good position
// stands until the next success.
type Watcher struct {
	provider Provider
	interval time.Duration
	logger   zerolog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewWatcher creates a watcher polling provider every interval
func NewWatcher(provider Provider, interval time.Duration, logger zerolog.Logger) *Watcher {
	return &Watcher{
		provider: provider,
		interval: interval,
		logger:   logger.With().Str("component", "geoloc").Logger(),
	}
}

// Start begins polling and returns the update channel. The first resolution
// is attempted immediately. The channel is closed when the watcher stops.
func (w *Watcher) Start(ctx context.Context) <-chan Position {
	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	updates := make(chan Position, 1)

	go func() {
		defer close(updates)
		defer close(w.done)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		w.resolve(ctx, updates)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.resolve(ctx, updates)
			}
		}
	}()

	return updates
}

// resolve performs one lookup and delivers the result without blocking.
// When the consumer is behind, the stale pending update is replaced. The
// goroutine owns both ends of the channel, so it may drain as well as send.
func (w *Watcher) resolve(ctx context.Context, updates chan Position) {
	pos, err := w.provider.CurrentPosition(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Warn().Err(err).Msg("position resolution failed")
		}
		return
	}

	select {
	case updates <- pos:
	default:
		select {
		case <-updates:
		default:
		}
		updates <- pos
	}
}

// Stop cancels polling and waits for the update channel to close.
// Safe to call when the watcher was never started.
func (w *Watcher) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
}
