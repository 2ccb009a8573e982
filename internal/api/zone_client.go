package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/smartpark/parking-terminal/internal/models"
)

// RESTZoneClient implements ZoneClient against the parking backend
type RESTZoneClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewZoneClient creates a zone client for the given backend base URL
func NewZoneClient(baseURL string, timeout time.Duration) *RESTZoneClient {
	return &RESTZoneClient{
		baseURL:    baseURL,
		httpClient: newHTTPClient(timeout),
	}
}

// ListZones retrieves all parking zones with live availability
func (c *RESTZoneClient) ListZones(ctx context.Context) ([]models.Zone, error) {
	req, err := newRequest(ctx, "GET", c.baseURL+apiPrefix+"/zones", nil, "")
	if err != nil {
		return nil, err
	}

	var zones []models.Zone
	if err := doJSON(c.httpClient, req, &zones); err != nil {
		return nil, fmt.Errorf("fetching zones: %w", err)
	}
	return zones, nil
}

// GetZone retrieves a single zone by id
func (c *RESTZoneClient) GetZone(ctx context.Context, zoneID string) (*models.Zone, error) {
	endpoint := fmt.Sprintf("%s%s/zones/%s", c.baseURL, apiPrefix, url.PathEscape(zoneID))
	req, err := newRequest(ctx, "GET", endpoint, nil, "")
	if err != nil {
		return nil, err
	}

	var zone models.Zone
	if err := doJSON(c.httpClient, req, &zone); err != nil {
		return nil, fmt.Errorf("fetching zone %s: %w", zoneID, err)
	}
	return &zone, nil
}

// GetZoneHistory retrieves recent availability samples for a zone
func (c *RESTZoneClient) GetZoneHistory(ctx context.Context, zoneID string) (*models.ZoneHistory, error) {
	endpoint := fmt.Sprintf("%s%s/zones/%s/history", c.baseURL, apiPrefix, url.PathEscape(zoneID))
	req, err := newRequest(ctx, "GET", endpoint, nil, "")
	if err != nil {
		return nil, err
	}

	var history models.ZoneHistory
	if err := doJSON(c.httpClient, req, &history); err != nil {
		return nil, fmt.Errorf("fetching history for zone %s: %w", zoneID, err)
	}
	return &history, nil
}
