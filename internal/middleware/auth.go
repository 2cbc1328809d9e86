package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/JunoAX/beework-go/internal/auth"
	"github.com/JunoAX/beework-go/internal/models"
	"github.com/JunoAX/beework-go/internal/session"
	"github.com/gin-gonic/gin"
)

const (
	authUserKey    = "auth_user_id"
	authEmailKey   = "auth_email"
	authRoleKey    = "auth_role"
	authSessionKey = "auth_session"
)

// RequireAuth validates the bearer token and loads the session it was
// issued for. Tokens of closed sessions are rejected.
func RequireAuth(jwtService *auth.JWTService, sessions *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format. Use: Bearer <token>"})
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(parts[1])
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token has expired"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			}
			c.Abort()
			return
		}

		sess, err := sessions.Get(claims.SessionID())
		if err != nil || sess.UserID != claims.UserID {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session has ended, please log in again"})
			c.Abort()
			return
		}

		c.Set(authUserKey, claims.UserID)
		c.Set(authEmailKey, claims.Email)
		c.Set(authRoleKey, claims.Role)
		c.Set(authSessionKey, sess)

		c.Next()
	}
}

// RequireAdmin ensures the authenticated user may manage shifts
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := GetAuthRole(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		if role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetAuthUserID retrieves the authenticated worker id from context
func GetAuthUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(authUserKey)
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok && id != ""
}

// GetAuthEmail retrieves the authenticated email from context
func GetAuthEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(authEmailKey)
	if !exists {
		return "", false
	}
	s, ok := email.(string)
	return s, ok
}

// GetAuthRole retrieves the authenticated role from context
func GetAuthRole(c *gin.Context) (string, bool) {
	role, exists := c.Get(authRoleKey)
	if !exists {
		return "", false
	}
	s, ok := role.(string)
	return s, ok
}

// GetSession retrieves the caller's open session from context
func GetSession(c *gin.Context) (*session.Session, bool) {
	val, exists := c.Get(authSessionKey)
	if !exists {
		return nil, false
	}
	sess, ok := val.(*session.Session)
	return sess, ok
}
