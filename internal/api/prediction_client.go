package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/smartpark/parking-terminal/internal/models"
)

// RESTPredictionClient implements PredictionClient. Prediction endpoints are
// best-effort on the backend, so calls go through a circuit breaker: once the
// model service is down, further calls fail fast instead of stacking timeouts.
type RESTPredictionClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[any]
}

// NewPredictionClient creates a prediction client for the given backend base URL
func NewPredictionClient(baseURL string, timeout time.Duration) *RESTPredictionClient {
	settings := gobreaker.Settings{
		Name:     "predictions",
		Interval: time.Minute,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}
	return &RESTPredictionClient{
		baseURL:    baseURL,
		httpClient: newHTTPClient(timeout),
		breaker:    gobreaker.NewCircuitBreaker[any](settings),
	}
}

// GetPrediction retrieves the detailed prediction for one zone. A nil time
// requests a "now" prediction.
func (c *RESTPredictionClient) GetPrediction(ctx context.Context, zoneID string, at *time.Time) (*models.Prediction, error) {
	endpoint := fmt.Sprintf("%s%s/zones/%s/prediction", c.baseURL, apiPrefix, url.PathEscape(zoneID))
	if at != nil {
		params := url.Values{}
		params.Set("time", at.UTC().Format(time.RFC3339))
		endpoint += "?" + params.Encode()
	}

	result, err := c.breaker.Execute(func() (any, error) {
		req, err := newRequest(ctx, "GET", endpoint, nil, "")
		if err != nil {
			return nil, err
		}
		var prediction models.Prediction
		if err := doJSON(c.httpClient, req, &prediction); err != nil {
			return nil, err
		}
		return &prediction, nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetching prediction for zone %s: %w", zoneID, err)
	}
	return result.(*models.Prediction), nil
}

// GetBatchPredictions retrieves predicted availability for many zones at one
// shared timestamp
func (c *RESTPredictionClient) GetBatchPredictions(ctx context.Context, zoneIDs []string, at time.Time) ([]models.BatchPrediction, error) {
	payload := struct {
		ZoneIDs []string `json:"zone_ids"`
		Time    string   `json:"time"`
	}{
		ZoneIDs: zoneIDs,
		Time:    at.UTC().Format(time.RFC3339),
	}

	result, err := c.breaker.Execute(func() (any, error) {
		body, err := jsonBody(payload)
		if err != nil {
			return nil, err
		}
		req, err := newRequest(ctx, "POST", c.baseURL+apiPrefix+"/predictions/batch", body, "")
		if err != nil {
			return nil, err
		}
		var response struct {
			Predictions []models.BatchPrediction `json:"predictions"`
		}
		if err := doJSON(c.httpClient, req, &response); err != nil {
			return nil, err
		}
		return response.Predictions, nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetching batch predictions: %w", err)
	}
	return result.([]models.BatchPrediction), nil
}
