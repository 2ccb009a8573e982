package models

import "time"

// SystemLog is one backend log line shown in the admin console
type SystemLog struct {
	ID        int       `json:"id"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthStats is the backend health summary. The backend formats these as
// display strings (e.g. "42.5ms"), so they are passed through untouched.
type HealthStats struct {
	Latency   string `json:"latency"`
	Integrity string `json:"integrity"`
	Uptime    string `json:"uptime"`
	Status    string `json:"status"`
}

// ModelPerformance describes the predictive model's current quality
type ModelPerformance struct {
	MAE               string             `json:"mae"`
	R2Score           string             `json:"r2_score"`
	Accuracy          string             `json:"accuracy"`
	FeatureImportance map[string]float64 `json:"feature_importance"`
	LastTrained       string             `json:"last_trained"`
}

// RetrainResult is the outcome of a model retrain trigger
type RetrainResult struct {
	Message string            `json:"message"`
	Metrics map[string]string `json:"metrics"`
}

// UploadResult acknowledges an admin dataset upload
type UploadResult struct {
	Message string `json:"message"`
}
