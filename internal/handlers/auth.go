package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/JunoAX/beework-go/internal/auth"
	"github.com/JunoAX/beework-go/internal/middleware"
	"github.com/JunoAX/beework-go/internal/models"
	"github.com/JunoAX/beework-go/internal/repository"
	"github.com/JunoAX/beework-go/internal/session"
	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Login checks the password against users/{uid}.passwordHash, opens a
// session and returns a token bound to it
func Login(jwtService *auth.JWTService, sessions *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, ok := middleware.GetStore(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Document store not configured"})
			return
		}

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
			return
		}

		account, err := repository.NewUserRepository(st).GetAccountByEmail(c.Request.Context(), req.Email)
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		if err != nil {
			respondError(c, err)
			return
		}

		if err := auth.CheckPassword(account.PasswordHash, req.Password); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}

		startSession(c, http.StatusOK, jwtService, sessions, account.User)
	}
}

// startSession opens a session for the user and responds with its token
func startSession(c *gin.Context, status int, jwtService *auth.JWTService, sessions *session.Registry, user models.User) {
	sess := sessions.Open(user.ID, user.Role)

	token, err := jwtService.GenerateToken(user.ID, user.Email, user.Role, sess.ID)
	if err != nil {
		sessions.Close(sess.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(status, LoginResponse{Token: token, User: user})
}

type SignUpRequest struct {
	FirstName       string `json:"first_name" binding:"required"`
	LastName        string `json:"last_name"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password"`
}

// SignUp registers an employee account and signs it in
func SignUp(jwtService *auth.JWTService, sessions *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, ok := middleware.GetStore(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Document store not configured"})
			return
		}

		var req SignUpRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
			return
		}

		firstName := strings.TrimSpace(req.FirstName)
		email := repository.NormalizeEmail(req.Email)
		switch {
		case firstName == "":
			respondError(c, fmt.Errorf("%w: first name cannot be empty", ErrValidation))
			return
		case !strings.Contains(email, "@"):
			respondError(c, fmt.Errorf("%w: invalid email address", ErrValidation))
			return
		case req.ConfirmPassword != "" && req.ConfirmPassword != req.Password:
			respondError(c, fmt.Errorf("%w: passwords do not match", ErrValidation))
			return
		}
		if err := auth.ValidatePassword(req.Password); err != nil {
			respondError(c, err)
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			respondError(c, err)
			return
		}

		user, err := repository.NewUserRepository(st).Create(c.Request.Context(), firstName, strings.TrimSpace(req.LastName), email, hash)
		if err != nil {
			respondError(c, err)
			return
		}

		startSession(c, http.StatusCreated, jwtService, sessions, *user)
	}
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password"`
}

// ChangePassword replaces the caller's password after checking the current one
func ChangePassword(c *gin.Context) {
	st, ok := middleware.GetStore(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Document store not configured"})
		return
	}
	userID, _ := middleware.GetAuthUserID(c)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	if req.ConfirmPassword != "" && req.ConfirmPassword != req.NewPassword {
		respondError(c, fmt.Errorf("%w: new passwords do not match", ErrValidation))
		return
	}

	ctx := c.Request.Context()
	repo := repository.NewUserRepository(st)
	account, err := repo.GetAccountByID(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := auth.CheckPassword(account.PasswordHash, req.CurrentPassword); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Current password is incorrect", "code": "wrong_password"})
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := repo.SetPasswordHash(ctx, userID, hash); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

// Logout ends the caller's session and its realtime subscriptions
func Logout(sessions *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := middleware.GetSession(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		if err := sessions.Close(sess.ID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}
