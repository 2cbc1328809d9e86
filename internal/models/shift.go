package models

// Shift statuses
const (
	ShiftScheduled  = "scheduled"
	ShiftInProgress = "in-progress"
	ShiftCompleted  = "completed"
)

// Shift is one scheduled work assignment for one worker
type Shift struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	Title      string  `json:"title"`
	Location   string  `json:"location"`
	Date       string  `json:"date"`                 // YYYY-MM-DD
	StartTime  string  `json:"start_time,omitempty"` // ISO-8601
	EndTime    string  `json:"end_time,omitempty"`   // ISO-8601
	HourlyWage float64 `json:"hourly_wage"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Status     string  `json:"status"`
}

// HasCoordinates reports whether the shift carries a usable geofence center.
// 0,0 is treated as unset, not as a real coordinate.
func (s Shift) HasCoordinates() bool {
	return !(s.Latitude == 0 && s.Longitude == 0)
}

// AssignShiftRequest is the admin payload for creating a direct shift
type AssignShiftRequest struct {
	UserID     string   `json:"user_id" binding:"required"`
	Title      string   `json:"title" binding:"required"`
	Location   string   `json:"location"`
	Date       string   `json:"date" binding:"required"`
	StartTime  string   `json:"start_time" binding:"required"`
	EndTime    string   `json:"end_time" binding:"required"`
	HourlyWage *float64 `json:"hourly_wage" binding:"required"`
	Latitude   *float64 `json:"latitude" binding:"required"`
	Longitude  *float64 `json:"longitude" binding:"required"`
}

// ShiftDetailResponse is a shift with its derived punch state and pay estimate
type ShiftDetailResponse struct {
	Shift           Shift       `json:"shift"`
	EffectiveStatus string      `json:"effective_status"`
	Punch           PunchStatus `json:"punch"`
	ScheduledHours  float64     `json:"scheduled_hours"`
	EstimatedPay    string      `json:"estimated_pay"`
	HasCoordinates  bool        `json:"has_coordinates"`
}

// ShiftListResponse is the response for shift lists
type ShiftListResponse struct {
	Shifts []Shift `json:"shifts"`
	Count  int     `json:"count"`
}
