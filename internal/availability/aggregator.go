// Package availability merges live zone occupancy with time-shifted batch
// predictions into a single per-zone availability value.
package availability

import (
	"sync"
	"time"

	"github.com/smartpark/parking-terminal/internal/models"
)

// Offsets presented by the UI, in hours ahead of now. The aggregator itself
// accepts any non-negative offset.
var Offsets = []int{0, 1, 2, 4}

// Aggregator holds the active time offset and the batch prediction map for
// that offset. The map is fully replaced on every offset change; entries for
// a superseded offset are never merged in. Safe for concurrent use.
type Aggregator struct {
	mu         sync.Mutex
	offset     int
	generation uint64
	batch      map[string]float64
}

// New creates an aggregator at offset 0 (live data)
func New() *Aggregator {
	return &Aggregator{batch: map[string]float64{}}
}

// SetOffset selects a new time offset. It clears the batch map, bumps the
// generation so stale in-flight responses get discarded, and reports whether
// a batch fetch is needed along with the timestamp to request.
func (a *Aggregator) SetOffset(hours int) (generation uint64, target time.Time, needFetch bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.offset = hours
	a.generation++
	a.batch = map[string]float64{}

	if hours <= 0 {
		return a.generation, time.Time{}, false
	}
	return a.generation, time.Now().Add(time.Duration(hours) * time.Hour), true
}

// Offset returns the active time offset in hours
func (a *Aggregator) Offset() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.offset
}

// ApplyBatch installs a batch prediction response. Responses carrying a stale
// generation are dropped: last-offset-wins, not last-response-wins. Reports
// whether the response was applied.
func (a *Aggregator) ApplyBatch(generation uint64, predictions []models.BatchPrediction) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if generation != a.generation {
		return false
	}

	batch := make(map[string]float64, len(predictions))
	for _, p := range predictions {
		batch[p.ZoneID] = p.PredictedAvailability
	}
	a.batch = batch
	return true
}

// Effective resolves the availability to display or rank for a zone at the
// active offset: the batch prediction when one exists, else the live value.
// Every caller that shows or sorts availability goes through this.
func (a *Aggregator) Effective(zone models.Zone) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	if v, ok := a.batch[zone.ZoneID]; ok {
		return v
	}
	return zone.CurrentAvailability
}

// Level buckets an availability percentage the way the backend and the map
// legend do: high above 60, medium above 30, low otherwise.
func Level(pct float64) string {
	switch {
	case pct > 60:
		return models.LevelHigh
	case pct > 30:
		return models.LevelMedium
	default:
		return models.LevelLow
	}
}
