package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/JunoAX/beework-go/internal/middleware"
	"github.com/JunoAX/beework-go/internal/models"
	"github.com/JunoAX/beework-go/internal/payroll"
	"github.com/JunoAX/beework-go/internal/punch"
	"github.com/JunoAX/beework-go/internal/repository"
	"github.com/JunoAX/beework-go/internal/shifts"
	"github.com/JunoAX/beework-go/internal/store"
	"github.com/gin-gonic/gin"
)

// streamKeepAlive is how often an idle event stream sends a ping
const streamKeepAlive = 25 * time.Second

// workerShifts prefers the session's live view once it has its first
// snapshot, and reads the store directly otherwise
func workerShifts(c *gin.Context) ([]models.Shift, error) {
	userID, _ := middleware.GetAuthUserID(c)
	if sess, ok := middleware.GetSession(c); ok {
		if snap := sess.View.Snapshot(); snap.Ready {
			return snap.Shifts, nil
		}
	}

	st, ok := middleware.GetStore(c)
	if !ok {
		return nil, errors.New("document store not configured")
	}
	all, err := shifts.List(c.Request.Context(), st)
	if err != nil {
		return nil, err
	}
	return shifts.ForWorker(all, userID), nil
}

// ListShifts returns the caller's shifts, newest first. ?date=YYYY-MM-DD
// narrows the list to one calendar day.
func ListShifts(c *gin.Context) {
	list, err := workerShifts(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if date := c.Query("date"); date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
			return
		}
		list = shifts.OnDate(list, date)
	}

	c.JSON(http.StatusOK, models.ShiftListResponse{Shifts: list, Count: len(list)})
}

// UpcomingShifts returns scheduled shifts after today, soonest first
func UpcomingShifts(c *gin.Context) {
	list, err := workerShifts(c)
	if err != nil {
		respondError(c, err)
		return
	}
	upcoming := shifts.Upcoming(list, time.Now())
	c.JSON(http.StatusOK, models.ShiftListResponse{Shifts: upcoming, Count: len(upcoming)})
}

// StreamShifts pushes the live view as server-sent events until the client
// goes away or the session is closed
func StreamShifts(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	changed, cancel := sess.View.Subscribe()
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	c.SSEvent("shifts", sess.View.Snapshot())
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-sess.Done():
			return false
		case <-changed:
			c.SSEvent("shifts", sess.View.Snapshot())
			return true
		case <-time.After(streamKeepAlive):
			c.SSEvent("ping", time.Now().Unix())
			return true
		}
	})
}

// GetShift returns one shift with its punch state and pay estimate
func GetShift(svc *punch.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.GetAuthUserID(c)
		shiftID := c.Param("id")

		shift, rec, err := svc.Lookup(c.Request.Context(), shiftID, userID)
		if err != nil {
			respondError(c, err)
			return
		}

		status := punch.Status(userID, rec)
		if sess, ok := middleware.GetSession(c); ok {
			status.Pending = sess.View.Pending(shiftID)
		}

		c.JSON(http.StatusOK, models.ShiftDetailResponse{
			Shift:           shift,
			EffectiveStatus: shifts.EffectiveStatus(shift, status.State),
			Punch:           status,
			ScheduledHours:  shifts.ScheduledHours(shift),
			EstimatedPay:    payroll.FormatJOD(shifts.EstimatedPay(shift).InexactFloat64()),
			HasCoordinates:  shift.HasCoordinates(),
		})
	}
}

// AssignShift creates a direct shift for a worker (admin only)
func AssignShift(c *gin.Context) {
	st, ok := middleware.GetStore(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Document store not configured"})
		return
	}

	var req models.AssignShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	data, err := shiftDocument(req)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := repository.NewUserRepository(st).GetByID(ctx, req.UserID); errors.Is(err, repository.ErrUserNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Assigned user not found"})
		return
	} else if err != nil {
		respondError(c, err)
		return
	}

	id, err := st.Create(ctx, store.Shifts, data)
	if err != nil {
		respondError(c, err)
		return
	}

	rows, _ := shifts.Normalize(store.Document{ID: id, Data: data})
	c.JSON(http.StatusCreated, gin.H{
		"message": "Shift assigned successfully",
		"shift":   rows[0],
	})
}

func shiftDocument(req models.AssignShiftRequest) (map[string]any, error) {
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return nil, fmt.Errorf("%w: invalid date format, use YYYY-MM-DD", ErrValidation)
	}
	start, okStart := store.AsTime(req.StartTime)
	end, okEnd := store.AsTime(req.EndTime)
	if !okStart || !okEnd {
		return nil, fmt.Errorf("%w: start_time and end_time must be ISO-8601", ErrValidation)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end_time must be after start_time", ErrValidation)
	}
	if *req.HourlyWage < 0 {
		return nil, fmt.Errorf("%w: hourly_wage cannot be negative", ErrValidation)
	}
	if *req.Latitude < -90 || *req.Latitude > 90 || *req.Longitude < -180 || *req.Longitude > 180 {
		return nil, fmt.Errorf("%w: coordinates out of range", ErrValidation)
	}

	location := strings.TrimSpace(req.Location)
	data := map[string]any{
		"userId":     req.UserID,
		"title":      strings.TrimSpace(req.Title),
		"date":       req.Date,
		"startTime":  start.UTC().Format(time.RFC3339),
		"endTime":    end.UTC().Format(time.RFC3339),
		"hourlyWage": *req.HourlyWage,
		"latitude":   *req.Latitude,
		"longitude":  *req.Longitude,
		"status":     models.ShiftScheduled,
	}
	if location != "" {
		data["location"] = location
	}
	return data, nil
}
