package api

import (
	"context"
	"time"

	"github.com/smartpark/parking-terminal/internal/models"
)

// TokenSource supplies the current bearer token for authenticated calls.
// It is read per request so in-flight operations never use a stale closure;
// an empty string means no session.
type TokenSource func() string

// ZoneClient defines the interface for fetching parking zone data
type ZoneClient interface {
	// ListZones retrieves all parking zones with live availability
	ListZones(ctx context.Context) ([]models.Zone, error)

	// GetZone retrieves a single zone by id
	GetZone(ctx context.Context, zoneID string) (*models.Zone, error)

	// GetZoneHistory retrieves recent availability samples for a zone
	GetZoneHistory(ctx context.Context, zoneID string) (*models.ZoneHistory, error)
}

// PredictionClient defines the interface for the AI prediction endpoints
type PredictionClient interface {
	// GetPrediction retrieves the detailed prediction for one zone.
	// A nil time means "now".
	GetPrediction(ctx context.Context, zoneID string, at *time.Time) (*models.Prediction, error)

	// GetBatchPredictions retrieves predicted availability for many zones
	// at one shared timestamp
	GetBatchPredictions(ctx context.Context, zoneIDs []string, at time.Time) ([]models.BatchPrediction, error)
}

// EventClient defines the interface for city events
type EventClient interface {
	// ListEvents retrieves upcoming city events
	ListEvents(ctx context.Context) ([]models.Event, error)

	// CreateEvent registers a new city event (admin only)
	CreateEvent(ctx context.Context, event models.Event) (*models.Event, error)

	// DeleteEvent removes a city event (admin only)
	DeleteEvent(ctx context.Context, eventID int) error
}

// AuthClient defines the interface for authentication and profile resolution.
// CurrentUser takes the token explicitly because the session controller
// verifies candidate tokens before committing them as authoritative.
type AuthClient interface {
	// Login exchanges credentials for a bearer token
	Login(ctx context.Context, username, password string) (string, error)

	// Register creates an account; the caller still logs in afterwards
	Register(ctx context.Context, reg models.Registration) (*models.User, error)

	// GoogleLogin exchanges a federated credential for a bearer token
	GoogleLogin(ctx context.Context, assertion string) (string, error)

	// CurrentUser resolves the profile for a token
	CurrentUser(ctx context.Context, token string) (*models.User, error)
}

// FavoriteClient defines the interface for the user's favorite zones
type FavoriteClient interface {
	// ListFavorites retrieves the current user's favorites
	ListFavorites(ctx context.Context) ([]models.Favorite, error)

	// ToggleFavorite adds a zone to the user's favorites
	ToggleFavorite(ctx context.Context, zoneID string) error
}

// AdminClient defines the interface for the admin console
type AdminClient interface {
	// Health retrieves the backend health summary
	Health(ctx context.Context) (*models.HealthStats, error)

	// Logs retrieves the latest backend log lines
	Logs(ctx context.Context, limit int) ([]models.SystemLog, error)

	// Users retrieves all registered users
	Users(ctx context.Context) ([]models.User, error)

	// SetUserRole toggles a user's admin flag
	SetUserRole(ctx context.Context, userID int, isAdmin bool) error

	// Retrain triggers a model retrain and returns the new metrics
	Retrain(ctx context.Context) (*models.RetrainResult, error)

	// UploadData pushes a dataset for ingestion
	UploadData(ctx context.Context, fileName string, records []map[string]any) (*models.UploadResult, error)

	// ModelPerformance retrieves the current model quality metrics
	ModelPerformance(ctx context.Context) (*models.ModelPerformance, error)
}
