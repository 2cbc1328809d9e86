package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/JunoAX/beework-go/internal/auth"
	"github.com/JunoAX/beework-go/internal/geofence"
	"github.com/JunoAX/beework-go/internal/punch"
	"github.com/JunoAX/beework-go/internal/repository"
	"github.com/gin-gonic/gin"
)

// ErrValidation marks malformed client input
var ErrValidation = errors.New("validation failed")

// respondError maps domain errors to status codes. Unknown errors are
// logged and hidden behind a generic message.
func respondError(c *gin.Context, err error) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		log.Printf("❌ %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"error": "Internal server error", "code": code})
		return
	}

	body := gin.H{"error": err.Error(), "code": code}
	var de *geofence.DistanceError
	if errors.As(err, &de) {
		body["distance_meters"] = de.Distance
		body["radius_meters"] = de.Radius
	}
	c.JSON(status, body)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, auth.ErrWeakPassword):
		return http.StatusBadRequest, "weak_password"
	case errors.Is(err, geofence.ErrGeofenceDenied):
		return http.StatusForbidden, "geofence_denied"
	case errors.Is(err, geofence.ErrLocationPermissionDenied):
		return http.StatusPreconditionRequired, "location_permission_denied"
	case errors.Is(err, geofence.ErrShiftLocationUnset):
		return http.StatusUnprocessableEntity, "shift_location_unset"
	case errors.Is(err, punch.ErrPunchStateConflict):
		return http.StatusConflict, "punch_state_conflict"
	case errors.Is(err, punch.ErrOutsideScheduledWindow):
		return http.StatusUnprocessableEntity, "outside_scheduled_window"
	case errors.Is(err, punch.ErrShiftNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, punch.ErrNotAssigned):
		return http.StatusForbidden, "not_assigned"
	case errors.Is(err, repository.ErrUserNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, repository.ErrEmailTaken):
		return http.StatusConflict, "email_taken"
	}
	return http.StatusInternalServerError, "internal"
}
