package middleware

import (
	"net/http"

	"github.com/JunoAX/beework-go/internal/store"
	"github.com/gin-gonic/gin"
)

const storeKey = "document_store"

// StoreMiddleware makes the document store available to handlers
func StoreMiddleware(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(storeKey, st)
		c.Next()
	}
}

// RequireStore aborts when no store was injected
func RequireStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetStore(c); !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Document store not configured"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetStore retrieves the document store from context
func GetStore(c *gin.Context) (store.Store, bool) {
	val, exists := c.Get(storeKey)
	if !exists {
		return nil, false
	}
	st, ok := val.(store.Store)
	return st, ok
}
