package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Middleware rejects requests without an Authorization header. Presence is
// all that is checked: Audiobookshelf forwards whatever token the user
// configured and the upstream catalog needs no credentials of its own.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}
