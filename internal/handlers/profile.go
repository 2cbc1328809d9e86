package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/JunoAX/beework-go/internal/middleware"
	"github.com/JunoAX/beework-go/internal/models"
	"github.com/JunoAX/beework-go/internal/repository"
	"github.com/gin-gonic/gin"
)

var supportedLanguages = map[string]bool{"en": true, "ar": true}

// GetProfile returns the authenticated worker's profile
func GetProfile(c *gin.Context) {
	st, ok := middleware.GetStore(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Document store not configured"})
		return
	}
	userID, _ := middleware.GetAuthUserID(c)

	user, err := repository.NewUserRepository(st).GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile merges the provided fields into the worker's profile
func UpdateProfile(c *gin.Context) {
	st, ok := middleware.GetStore(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Document store not configured"})
		return
	}
	userID, _ := middleware.GetAuthUserID(c)

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	updates, err := profileUpdates(req)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	user, err := repository.NewUserRepository(st).Update(c.Request.Context(), userID, updates)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func profileUpdates(req models.UpdateProfileRequest) (map[string]any, error) {
	updates := map[string]any{}
	if req.FirstName != nil {
		name := strings.TrimSpace(*req.FirstName)
		if name == "" {
			return nil, fmt.Errorf("%w: first name cannot be empty", ErrValidation)
		}
		updates["firstName"] = name
	}
	if req.LastName != nil {
		updates["lastName"] = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		email := repository.NormalizeEmail(*req.Email)
		if !strings.Contains(email, "@") {
			return nil, fmt.Errorf("%w: invalid email address", ErrValidation)
		}
		updates["email"] = email
	}
	if req.ProfilePicture != nil {
		updates["profilePicture"] = *req.ProfilePicture
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}
	if req.Language != nil {
		if !supportedLanguages[*req.Language] {
			return nil, fmt.Errorf("%w: unsupported language %q", ErrValidation, *req.Language)
		}
		updates["language"] = *req.Language
	}
	return updates, nil
}
