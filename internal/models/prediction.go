package models

import "time"

// Availability level thresholds used by the backend and the map legend
const (
	LevelHigh   = "high"
	LevelMedium = "medium"
	LevelLow    = "low"
)

// TrendPoint is one sample of the predicted availability curve
type TrendPoint struct {
	Time         time.Time `json:"time"`
	Availability float64   `json:"availability"`
}

// Prediction is the detailed single-zone prediction used by the detail pane
type Prediction struct {
	ZoneID                string       `json:"zone_id"`
	PredictionTime        time.Time    `json:"prediction_time"`
	PredictedAvailability float64      `json:"predicted_availability"`
	AvailabilityLevel     string       `json:"availability_level"`
	ConfidenceScore       float64      `json:"confidence_score"`
	Trend                 []TrendPoint `json:"trend"`
}

// BatchPrediction is one entry of a batch prediction response. All entries of
// a single response share one requested timestamp.
type BatchPrediction struct {
	ZoneID                string  `json:"zone_id"`
	PredictedAvailability float64 `json:"predicted_availability"`
	ConfidenceScore       float64 `json:"confidence_score"`
}
