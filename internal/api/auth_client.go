package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/smartpark/parking-terminal/internal/models"
)

// RESTAuthClient implements AuthClient against the parking backend
type RESTAuthClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAuthClient creates an auth client for the given backend base URL
func NewAuthClient(baseURL string, timeout time.Duration) *RESTAuthClient {
	return &RESTAuthClient{
		baseURL:    baseURL,
		httpClient: newHTTPClient(timeout),
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for a bearer token. The backend expects an
// OAuth2 password grant form, not JSON.
func (c *RESTAuthClient) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := newRequest(ctx, "POST", c.baseURL+apiPrefix+"/users/login", strings.NewReader(form.Encode()), "")
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var token tokenResponse
	if err := doJSON(c.httpClient, req, &token); err != nil {
		return "", fmt.Errorf("logging in: %w", err)
	}
	return token.AccessToken, nil
}

// Register creates an account; the caller still logs in afterwards
func (c *RESTAuthClient) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	body, err := jsonBody(reg)
	if err != nil {
		return nil, err
	}
	req, err := newRequest(ctx, "POST", c.baseURL+apiPrefix+"/users/register", body, "")
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := doJSON(c.httpClient, req, &user); err != nil {
		return nil, fmt.Errorf("registering: %w", err)
	}
	return &user, nil
}

// GoogleLogin exchanges a federated credential for a bearer token
func (c *RESTAuthClient) GoogleLogin(ctx context.Context, assertion string) (string, error) {
	body, err := jsonBody(map[string]string{"token": assertion})
	if err != nil {
		return "", err
	}
	req, err := newRequest(ctx, "POST", c.baseURL+apiPrefix+"/users/google-login", body, "")
	if err != nil {
		return "", err
	}

	var token tokenResponse
	if err := doJSON(c.httpClient, req, &token); err != nil {
		return "", fmt.Errorf("exchanging google credential: %w", err)
	}
	return token.AccessToken, nil
}

// CurrentUser resolves the profile for a token
func (c *RESTAuthClient) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	req, err := newRequest(ctx, "GET", c.baseURL+apiPrefix+"/users/me", nil, token)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := doJSON(c.httpClient, req, &user); err != nil {
		return nil, fmt.Errorf("resolving profile: %w", err)
	}
	return &user, nil
}

// RESTFavoriteClient implements FavoriteClient
type RESTFavoriteClient struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
}

// NewFavoriteClient creates a favorites client for the given backend base URL
func NewFavoriteClient(baseURL string, timeout time.Duration, token TokenSource) *RESTFavoriteClient {
	return &RESTFavoriteClient{
		baseURL:    baseURL,
		httpClient: newHTTPClient(timeout),
		token:      token,
	}
}

// ListFavorites retrieves the current user's favorites
func (c *RESTFavoriteClient) ListFavorites(ctx context.Context) ([]models.Favorite, error) {
	req, err := newRequest(ctx, "GET", c.baseURL+apiPrefix+"/users/favorites", nil, c.token())
	if err != nil {
		return nil, err
	}

	var favorites []models.Favorite
	if err := doJSON(c.httpClient, req, &favorites); err != nil {
		return nil, fmt.Errorf("fetching favorites: %w", err)
	}
	return favorites, nil
}

// ToggleFavorite adds a zone to the user's favorites. The caller re-fetches
// the favorites list afterwards; there is no optimistic local update.
func (c *RESTFavoriteClient) ToggleFavorite(ctx context.Context, zoneID string) error {
	params := url.Values{}
	params.Set("zone_id", zoneID)
	endpoint := c.baseURL + apiPrefix + "/users/favorites?" + params.Encode()

	req, err := newRequest(ctx, "POST", endpoint, nil, c.token())
	if err != nil {
		return err
	}

	if err := doJSON(c.httpClient, req, nil); err != nil {
		return fmt.Errorf("toggling favorite %s: %w", zoneID, err)
	}
	return nil
}
