package models

import "time"

// User is the authenticated profile returned by the backend
type User struct {
	ID          int       `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	IsAdmin     bool      `json:"is_admin"`
	State       string    `json:"state"`
	Country     string    `json:"country"`
	Pincode     string    `json:"pincode"`
	AddressLine string    `json:"address_line"`
	CreatedAt   time.Time `json:"created_at"`
}

// Registration is the profile submitted when creating an account
type Registration struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	Password    string `json:"password"`
	State       string `json:"state"`
	Country     string `json:"country"`
	Pincode     string `json:"pincode"`
	AddressLine string `json:"address_line"`
}

// Favorite is a user-owned reference to a zone
type Favorite struct {
	ZoneID   string `json:"zone_id"`
	ZoneName string `json:"zone_name"`
}
