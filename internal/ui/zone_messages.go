package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smartpark/parking-terminal/internal/api"
	"github.com/smartpark/parking-terminal/internal/models"
	"github.com/smartpark/parking-terminal/internal/storage"
)

// zonesLoadedMsg is sent when the zone list has been fetched
type zonesLoadedMsg struct {
	zones []models.Zone
	err   error
}

// zoneHistoryMsg is sent when a zone's availability history has been fetched
type zoneHistoryMsg struct {
	zoneID  string
	history *models.ZoneHistory
	err     error
}

// predictionMsg is sent when a single-zone prediction has been fetched
type predictionMsg struct {
	zoneID     string
	prediction *models.Prediction
	err        error
}

// batchPredictionsMsg is sent when time-shifted availability for all zones
// has been fetched. It carries the aggregator generation the fetch was
// issued under so superseded responses can be dropped.
type batchPredictionsMsg struct {
	generation  uint64
	predictions []models.BatchPrediction
	err         error
}

// cachedZonesMsg is sent when the offline zone cache has been read
type cachedZonesMsg struct {
	zones []models.Zone
	err   error
}

// fetchZones fetches all zones with live availability
func fetchZones(client api.ZoneClient) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		zones, err := client.ListZones(ctx)
		return zonesLoadedMsg{zones: zones, err: err}
	}
}

// cacheZones writes the zone list to the offline cache
func cacheZones(store *storage.Store, zones []models.Zone) tea.Cmd {
	return func() tea.Msg {
		store.CacheZones(zones)
		return nil
	}
}

// loadCachedZones reads the offline zone cache, used when the backend is
// unreachable and nothing has been loaded yet
func loadCachedZones(store *storage.Store) tea.Cmd {
	return func() tea.Msg {
		zones, err := store.CachedZones()
		return cachedZonesMsg{zones: zones, err: err}
	}
}

// fetchZoneHistory fetches recent availability samples for a zone
func fetchZoneHistory(client api.ZoneClient, zoneID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		history, err := client.GetZoneHistory(ctx, zoneID)
		return zoneHistoryMsg{zoneID: zoneID, history: history, err: err}
	}
}

// fetchPrediction fetches the detailed prediction for a zone. A nil time
// requests the prediction for now.
func fetchPrediction(client api.PredictionClient, zoneID string, at *time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		prediction, err := client.GetPrediction(ctx, zoneID, at)
		return predictionMsg{zoneID: zoneID, prediction: prediction, err: err}
	}
}

// fetchBatchPredictions fetches predicted availability for all zones at the
// target time, tagged with the issuing generation
func fetchBatchPredictions(client api.PredictionClient, generation uint64, zoneIDs []string, at time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		predictions, err := client.GetBatchPredictions(ctx, zoneIDs, at)
		return batchPredictionsMsg{generation: generation, predictions: predictions, err: err}
	}
}
