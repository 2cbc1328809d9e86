package models

import "time"

// PunchState is derived from a punch record's timestamps, never stored
type PunchState string

const (
	PunchIdle      PunchState = "idle"
	PunchedIn      PunchState = "punched_in"
	PunchCompleted PunchState = "completed"
)

// PunchRecord is the clock-in/clock-out document for one (shift, worker) pair.
// Stored at shifts/{shiftId}/punches/{workerId}.
type PunchRecord struct {
	PunchInAt   *time.Time `json:"punch_in_at,omitempty"`
	PunchOutAt  *time.Time `json:"punch_out_at,omitempty"`
	DurationMin int        `json:"duration_min"`
	Source      string     `json:"source,omitempty"`
	UserID      string     `json:"user_id,omitempty"`
}

// PunchStatus is the client view of a punch record
type PunchStatus struct {
	State       PunchState `json:"state"`
	PunchID     string     `json:"punch_id,omitempty"`
	PunchInAt   *string    `json:"punch_in_at,omitempty"`
	PunchOutAt  *string    `json:"punch_out_at,omitempty"`
	DurationMin int        `json:"duration_min,omitempty"`
	Pending     string     `json:"pending,omitempty"` // punch_in / punch_out while a write is unconfirmed
}

// PunchRequest carries the device position captured by the client.
// LocationError is set when the device could not or would not provide one.
type PunchRequest struct {
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	LocationError string   `json:"location_error,omitempty"`
}

// PunchResponse is returned after a successful punch
type PunchResponse struct {
	Message        string      `json:"message"`
	ShiftID        string      `json:"shift_id"`
	Punch          PunchStatus `json:"punch"`
	DistanceMeters *float64    `json:"distance_meters,omitempty"`
	Warning        string      `json:"warning,omitempty"`
	HoursAdded     float64     `json:"hours_added,omitempty"`
}
