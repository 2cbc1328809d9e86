package models

// Availability is a worker's availability for one weekday
type Availability struct {
	Day       string `json:"day"`
	Available bool   `json:"available"`
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`
}

// AvailabilityResponse wraps the canonical seven-day list
type AvailabilityResponse struct {
	UserID       string         `json:"user_id"`
	Availability []Availability `json:"availability"`
}
