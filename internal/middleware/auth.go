package middleware

import (
	"net/http"
	"strings"

	"kickabout/config"
	"kickabout/internal/auth"

	"github.com/gin-gonic/gin"
)

// AuthRequired validates the bearer token and sets the entity id in context.
func AuthRequired(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		claims, err := auth.ParseAccessToken(cfg, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set("entity_id", claims.EntityID)
		c.Next()
	}
}

// GetEntityID returns the authenticated entity id from context (must be used
// after AuthRequired).
func GetEntityID(c *gin.Context) string {
	v, _ := c.Get("entity_id")
	if v == nil {
		return ""
	}
	return v.(string)
}
