package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/smartpark/parking-terminal/internal/models"
)

// RESTAdminClient implements AdminClient. All calls require an admin token.
type RESTAdminClient struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
}

// NewAdminClient creates an admin client for the given backend base URL
func NewAdminClient(baseURL string, timeout time.Duration, token TokenSource) *RESTAdminClient {
	return &RESTAdminClient{
		baseURL:    baseURL,
		httpClient: newHTTPClient(timeout),
		token:      token,
	}
}

// Health retrieves the backend health summary
func (c *RESTAdminClient) Health(ctx context.Context) (*models.HealthStats, error) {
	req, err := newRequest(ctx, "GET", c.baseURL+apiPrefix+"/admin/health", nil, c.token())
	if err != nil {
		return nil, err
	}

	var health models.HealthStats
	if err := doJSON(c.httpClient, req, &health); err != nil {
		return nil, fmt.Errorf("fetching health: %w", err)
	}
	return &health, nil
}

// Logs retrieves the latest backend log lines
func (c *RESTAdminClient) Logs(ctx context.Context, limit int) ([]models.SystemLog, error) {
	endpoint := c.baseURL + apiPrefix + "/admin/logs?limit=" + strconv.Itoa(limit)
	req, err := newRequest(ctx, "GET", endpoint, nil, c.token())
	if err != nil {
		return nil, err
	}

	var logs []models.SystemLog
	if err := doJSON(c.httpClient, req, &logs); err != nil {
		return nil, fmt.Errorf("fetching logs: %w", err)
	}
	return logs, nil
}

// Users retrieves all registered users
func (c *RESTAdminClient) Users(ctx context.Context) ([]models.User, error) {
	req, err := newRequest(ctx, "GET", c.baseURL+apiPrefix+"/admin/users", nil, c.token())
	if err != nil {
		return nil, err
	}

	var users []models.User
	if err := doJSON(c.httpClient, req, &users); err != nil {
		return nil, fmt.Errorf("fetching users: %w", err)
	}
	return users, nil
}

// SetUserRole toggles a user's admin flag
func (c *RESTAdminClient) SetUserRole(ctx context.Context, userID int, isAdmin bool) error {
	endpoint := fmt.Sprintf("%s%s/admin/users/%d/role?is_admin=%t", c.baseURL, apiPrefix, userID, isAdmin)
	req, err := newRequest(ctx, "POST", endpoint, nil, c.token())
	if err != nil {
		return err
	}

	if err := doJSON(c.httpClient, req, nil); err != nil {
		return fmt.Errorf("updating role for user %d: %w", userID, err)
	}
	return nil
}

// Retrain triggers a model retrain and returns the new metrics
func (c *RESTAdminClient) Retrain(ctx context.Context) (*models.RetrainResult, error) {
	req, err := newRequest(ctx, "POST", c.baseURL+apiPrefix+"/admin/retrain", nil, c.token())
	if err != nil {
		return nil, err
	}

	var result models.RetrainResult
	if err := doJSON(c.httpClient, req, &result); err != nil {
		return nil, fmt.Errorf("triggering retrain: %w", err)
	}
	return &result, nil
}

// UploadData pushes a dataset for ingestion
func (c *RESTAdminClient) UploadData(ctx context.Context, fileName string, records []map[string]any) (*models.UploadResult, error) {
	payload := map[string]any{
		"file_name": fileName,
		"data":      records,
	}
	body, err := jsonBody(payload)
	if err != nil {
		return nil, err
	}
	req, err := newRequest(ctx, "POST", c.baseURL+apiPrefix+"/admin/upload-data", body, c.token())
	if err != nil {
		return nil, err
	}

	var result models.UploadResult
	if err := doJSON(c.httpClient, req, &result); err != nil {
		return nil, fmt.Errorf("uploading dataset %s: %w", fileName, err)
	}
	return &result, nil
}

// ModelPerformance retrieves the current model quality metrics
func (c *RESTAdminClient) ModelPerformance(ctx context.Context) (*models.ModelPerformance, error) {
	req, err := newRequest(ctx, "GET", c.baseURL+apiPrefix+"/analytics/model-performance", nil, c.token())
	if err != nil {
		return nil, err
	}

	var perf models.ModelPerformance
	if err := doJSON(c.httpClient, req, &perf); err != nil {
		return nil, fmt.Errorf("fetching model performance: %w", err)
	}
	return &perf, nil
}
