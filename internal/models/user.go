package models

// User roles
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// User is a worker profile stored at users/{uid}
type User struct {
	ID             string         `json:"id"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	Email          string         `json:"email"`
	ProfilePicture string         `json:"profile_picture,omitempty"`
	Avatar         string         `json:"avatar,omitempty"` // JSON-encoded bee customization
	Rating         float64        `json:"rating"`
	TotalHours     float64        `json:"total_hours"`
	Language       string         `json:"language"`
	Role           string         `json:"role"`
	Availability   []Availability `json:"availability,omitempty"`
}

// IsAdmin reports whether the user may assign shifts
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UpdateProfileRequest is the request body for profile edits.
// Nil fields are left unchanged.
type UpdateProfileRequest struct {
	FirstName      *string `json:"first_name,omitempty"`
	LastName       *string `json:"last_name,omitempty"`
	Email          *string `json:"email,omitempty"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
	Avatar         *string `json:"avatar,omitempty"`
	Language       *string `json:"language,omitempty"`
}
