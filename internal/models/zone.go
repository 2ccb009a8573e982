package models

import "time"

// Zone represents a parking zone as served by the backend.
// CurrentAvailability is the live value; time-shifted values come from
// batch predictions and are resolved by the availability package.
type Zone struct {
	ZoneID              string    `json:"zone_id" db:"zone_id"`
	ZoneName            string    `json:"zone_name" db:"zone_name"`
	ZoneType            string    `json:"zone_type" db:"zone_type"`
	District            string    `json:"district" db:"district"`
	Latitude            float64   `json:"latitude" db:"latitude"`
	Longitude           float64   `json:"longitude" db:"longitude"`
	TotalCapacity       int       `json:"total_capacity" db:"total_capacity"`
	HourlyRate          float64   `json:"hourly_rate" db:"hourly_rate"`
	OperatingHours      string    `json:"operating_hours" db:"operating_hours"`
	CurrentOccupancy    int       `json:"current_occupancy" db:"current_occupancy"`
	CurrentAvailability float64   `json:"current_availability" db:"current_availability"`
	CreatedAt           time.Time `json:"created_at" db:"-"`
	UpdatedAt           time.Time `json:"updated_at" db:"-"`
}

// HistoryRecord is one historical availability sample for a zone
type HistoryRecord struct {
	Timestamp    time.Time `json:"timestamp"`
	Availability float64   `json:"availability"`
}

// HistoryStatistics summarizes a zone's recent occupancy
type HistoryStatistics struct {
	AvgOccupancy float64 `json:"avg_occupancy"`
	PeakHour     string  `json:"peak_hour"`
}

// ZoneHistory is the response of the zone history endpoint
type ZoneHistory struct {
	Records    []HistoryRecord   `json:"records"`
	Statistics HistoryStatistics `json:"statistics"`
}
