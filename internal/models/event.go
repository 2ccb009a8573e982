package models

import "time"

// Event is a city event that affects parking demand near its venue
type Event struct {
	EventID            int       `json:"event_id,omitempty"`
	EventName          string    `json:"event_name"`
	EventType          string    `json:"event_type"` // Concert, Sports, Festival, Conference, ...
	Venue              string    `json:"venue"`
	ExpectedAttendance int       `json:"expected_attendance"`
	StartTime          time.Time `json:"start_time"`
	EndTime            time.Time `json:"end_time"`
	Latitude           float64   `json:"latitude"`
	Longitude          float64   `json:"longitude"`
	CreatedAt          time.Time `json:"created_at,omitempty"`
}
