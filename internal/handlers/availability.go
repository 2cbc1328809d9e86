package handlers

import (
	"net/http"

	"github.com/JunoAX/beework-go/internal/availability"
	"github.com/JunoAX/beework-go/internal/middleware"
	"github.com/JunoAX/beework-go/internal/models"
	"github.com/gin-gonic/gin"
)

// GetAvailability returns the caller's seven-day availability
func GetAvailability(svc *availability.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.GetAuthUserID(c)
		list, err := svc.Get(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.AvailabilityResponse{UserID: userID, Availability: list})
	}
}

// UpdateAvailability accepts either a list of day entries or an object keyed
// by day name, optionally wrapped in {"availability": ...}
func UpdateAvailability(svc *availability.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.GetAuthUserID(c)

		var body any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}
		if wrapped, ok := body.(map[string]any); ok {
			if inner, ok := wrapped["availability"]; ok {
				body = inner
			}
		}

		list, err := svc.Save(c.Request.Context(), userID, body)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.AvailabilityResponse{UserID: userID, Availability: list})
	}
}
