package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/JunoAX/beework-go/internal/geofence"
	"github.com/JunoAX/beework-go/internal/middleware"
	"github.com/JunoAX/beework-go/internal/models"
	"github.com/JunoAX/beework-go/internal/punch"
	"github.com/gin-gonic/gin"
)

// requestLocator replays the position the device sent with the request.
// A reported location error or missing coordinates count as no permission.
func requestLocator(req models.PunchRequest) geofence.Locator {
	return geofence.LocatorFunc(func(ctx context.Context) (geofence.Point, error) {
		if req.LocationError != "" {
			return geofence.Point{}, errors.New(req.LocationError)
		}
		if req.Latitude == nil || req.Longitude == nil {
			return geofence.Point{}, errors.New("no device position in request")
		}
		return geofence.Point{Lat: *req.Latitude, Lon: *req.Longitude}, nil
	})
}

// PunchIn starts work on a shift
func PunchIn(svc *punch.Service) gin.HandlerFunc {
	return punchHandler(svc.PunchIn, "Punched in")
}

// PunchOut ends work on a shift
func PunchOut(svc *punch.Service) gin.HandlerFunc {
	return punchHandler(svc.PunchOut, "Punched out")
}

type punchFunc func(ctx context.Context, req punch.Request) (*punch.Result, error)

func punchHandler(do punchFunc, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.GetAuthUserID(c)

		var body models.PunchRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}

		req := punch.Request{
			ShiftID:  c.Param("id"),
			WorkerID: userID,
			Locator:  requestLocator(body),
		}
		if sess, ok := middleware.GetSession(c); ok {
			req.Overlay = sess.View
		}

		res, err := do(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.PunchResponse{
			Message:        message,
			ShiftID:        res.Shift.ID,
			Punch:          punch.Status(res.PunchID, res.Record),
			DistanceMeters: res.Verdict.Distance,
			Warning:        res.Verdict.Warning,
			HoursAdded:     res.HoursAdded,
		})
	}
}
